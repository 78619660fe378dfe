package resolve

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadRulesFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "module-rules.yaml")
	content := `globals:
  prefix_map:
    Te: TenGigabitEthernet
  transforms:
    - regex: '^Transceiver\s+'
      replace: ''
  pid_aliases:
    GLC-T: GLC-TE
  dscr_to_pid:
    1000BaseSX SFP: GLC-SX-MMD
categories:
  - name: sfp
    ipf_patterns:
      - '^(?P<pfx>[A-Za-z]+)(?P<path>\d+(?:/\d+)+)$'
    keywords: [sfp, transceiver]
    synonyms: ['{CANON_PREFIX}{PATH}']
  - name: power
    keywords: [power supply]
    synonyms: ['PSU{POS}']
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatal(err)
	}

	want := []Category{CategorySFP, CategoryPower, CategoryOther}
	if got := rules.Categories(); !reflect.DeepEqual(got, want) {
		t.Errorf("Categories() = %v, want %v", got, want)
	}

	if got := rules.Classify(Module{Name: "Te1/1/4"}); got != CategorySFP {
		t.Errorf("Classify = %s", got)
	}
	if got := rules.NormalizePID("glc-t"); got != "glc-te" {
		t.Errorf("NormalizePID alias = %q", got)
	}

	cands := rules.BayCandidates(CategorySFP, "Transceiver Te1/1/4")
	if !contains(cands, "TenGigabitEthernet1/1/4") {
		t.Errorf("candidates = %v", cands)
	}
}

func TestLoadRulesMissingFileUsesDefaults(t *testing.T) {
	rules, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if got := rules.Classify(Module{Name: "Te1/1/4"}); got != CategorySFP {
		t.Errorf("default rules Classify = %s", got)
	}
}

func TestLoadRulesRejectsBadPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "module-rules.yaml")
	content := "categories:\n  - name: sfp\n    ipf_patterns: ['(unclosed']\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRules(path); err == nil {
		t.Error("invalid pattern must be rejected")
	}
}

func TestBayCutoff(t *testing.T) {
	tests := []struct {
		cat  Category
		want float64
	}{
		{CategorySFP, 0.90},
		{CategorySupervisor, 0.85},
		{CategoryPower, 0.80},
		{CategoryOther, 0.75},
		{CategoryDisk, 0.75},
	}
	for _, tt := range tests {
		if got := BayCutoff(tt.cat, 0.75); got != tt.want {
			t.Errorf("BayCutoff(%s) = %v, want %v", tt.cat, got, tt.want)
		}
	}
}
