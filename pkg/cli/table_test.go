package cli

import (
	"bytes"
	"strings"
	"testing"
	"text/tabwriter"
)

func newTestTable(buf *bytes.Buffer, headers ...string) *Table {
	return &Table{
		w:       tabwriter.NewWriter(buf, 0, 0, 2, ' ', 0),
		headers: headers,
	}
}

func TestTableEmptyProducesNoOutput(t *testing.T) {
	var buf bytes.Buffer
	tbl := newTestTable(&buf, "STEP", "STATUS")
	tbl.Flush()
	if buf.Len() != 0 {
		t.Errorf("empty table wrote %q", buf.String())
	}
}

func TestTableHeadersOnFirstRow(t *testing.T) {
	var buf bytes.Buffer
	tbl := newTestTable(&buf, "STEP", "STATUS")
	tbl.Row("sites", "ok")
	tbl.Row("roles", "failed")
	tbl.Flush()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want headers + divider + 2 rows:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "STEP") || !strings.Contains(lines[0], "STATUS") {
		t.Errorf("header line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "----") || !strings.Contains(lines[1], "------") {
		t.Errorf("divider line = %q", lines[1])
	}
	if !strings.Contains(lines[2], "sites") || !strings.Contains(lines[3], "roles") {
		t.Errorf("rows = %q / %q", lines[2], lines[3])
	}
}

func TestTableColumnsAligned(t *testing.T) {
	var buf bytes.Buffer
	tbl := newTestTable(&buf, "STEP", "DURATION")
	tbl.Row("virtual-chassis", "2s")
	tbl.Row("vdcs", "11s")
	tbl.Flush()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	short := strings.Index(lines[3], "11s")
	long := strings.Index(lines[2], "2s")
	if short != long {
		t.Errorf("second column misaligned: %q vs %q", lines[2], lines[3])
	}
}

func TestTableWithPrefix(t *testing.T) {
	var buf bytes.Buffer
	tbl := newTestTable(&buf, "NAME").WithPrefix("  ")
	tbl.Row("cables")
	tbl.Flush()

	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		if !strings.HasPrefix(line, "  ") {
			t.Errorf("line %q lacks prefix", line)
		}
	}
}
