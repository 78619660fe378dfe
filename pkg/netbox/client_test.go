package netbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGetAllFollowsCursor(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Token tok" {
			t.Errorf("auth header = %q", got)
		}
		page := r.URL.Query().Get("page")
		switch page {
		case "", "1":
			next := srv.URL + "/api/dcim/sites/?limit=2&page=2"
			fmt.Fprintf(w, `{"results":[{"id":1,"name":"HQ"},{"id":2,"name":"DC1"}],"next":%q}`, next)
		case "2":
			fmt.Fprint(w, `{"results":[{"id":3,"name":"Branch"}],"next":null}`)
		default:
			t.Errorf("unexpected page %q", page)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/", "tok", 2, false)
	sites, err := c.Sites(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sites) != 3 {
		t.Fatalf("got %d sites, want 3", len(sites))
	}
	if sites[2].Name != "Branch" {
		t.Errorf("sites[2] = %+v", sites[2])
	}
}

func TestCreateDuplicate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"name":["site with this name already exists."]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", 100, false)
	_, err := c.Create(context.Background(), "dcim/sites/", map[string]any{"name": "HQ"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsDuplicate(err) {
		t.Errorf("IsDuplicate(%v) = false", err)
	}
}

func TestCreateOtherErrorNotDuplicate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"slug":["invalid characters"]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", 100, false)
	_, err := c.Create(context.Background(), "dcim/sites/", map[string]any{"name": "HQ"})
	if err == nil || IsDuplicate(err) {
		t.Errorf("err = %v, want non-duplicate StatusError", err)
	}
}

func TestWriteBranchParam(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":1}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", 100, false)
	c.SetBranch("migration-aug")
	raw, err := c.Create(context.Background(), "dcim/sites/", map[string]any{"name": "HQ"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(gotQuery, "_branch=migration-aug") {
		t.Errorf("query = %q, missing _branch", gotQuery)
	}

	var created struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(raw, &created); err != nil || created.ID != 1 {
		t.Errorf("created = %s, err = %v", raw, err)
	}
}

func TestPatchFileMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart: %v", err)
		}
		f, hdr, err := r.FormFile("front_image")
		if err != nil {
			t.Fatalf("front_image part: %v", err)
		}
		defer f.Close()
		if hdr.Filename != "c9300.front.png" {
			t.Errorf("filename = %q", hdr.Filename)
		}
		data, _ := io.ReadAll(f)
		if string(data) != "png-bytes" {
			t.Errorf("content = %q", data)
		}
		fmt.Fprint(w, `{"id":7}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", 100, false)
	err := c.PatchFile(context.Background(), "dcim/device-types/7/", "front_image",
		"c9300.front.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatal(err)
	}
}
