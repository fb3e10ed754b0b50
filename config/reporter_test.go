package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func readArchive(t *testing.T, name string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer zr.Close()

	files := make(map[string]string)
	for _, f := range zr.File {
		r, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			t.Fatalf("unable to read %s: %v", f.Name, err)
		}
		files[f.Name] = string(data)
	}
	return files
}

func TestReport(t *testing.T) {
	dir := t.TempDir()
	conf := ReporterConfig{Destination: filepath.Join(dir, "report.zip")}
	rpt, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	stored := filepath.Join(dir, "input.mjml")
	if err := os.WriteFile(stored, []byte("<mjml/>"), 0644); err != nil {
		t.Fatal(err)
	}
	rpt.Store("input", stored)
	rpt.Store("missing", filepath.Join(dir, "nope"))
	rpt.StoreData("config.yaml", []byte("version: 1\n"))
	rpt.StoreData("note", []byte("first"))
	rpt.StoreData("note", []byte("second"))

	// file content is taken at close time
	if err := os.WriteFile(stored, []byte("<mjml></mjml>"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if rpt.Name() != conf.Destination {
		t.Errorf("Name() = %q, want %q", rpt.Name(), conf.Destination)
	}

	files := readArchive(t, conf.Destination)
	if got := files["input"]; got != "<mjml></mjml>" {
		t.Errorf("input = %q", got)
	}
	if got := files["config.yaml"]; got != "version: 1\n" {
		t.Errorf("config.yaml = %q", got)
	}
	if _, ok := files["missing"]; ok {
		t.Error("absent file should not be archived")
	}

	var notes []string
	for name, data := range files {
		if strings.HasPrefix(name, "note") {
			notes = append(notes, data)
		}
	}
	if len(notes) != 2 {
		t.Errorf("expected both notes to be kept, got %v", notes)
	}

	manifest := files["MANIFEST"]
	for _, name := range []string{"input", "missing", "config.yaml"} {
		if !strings.Contains(manifest, "\t"+name+"\t") {
			t.Errorf("MANIFEST does not list %s:\n%s", name, manifest)
		}
	}
}

func TestReport_StoreConflict(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.Store("log", "a.log")
	r.Store("log", "a.log")

	defer func() {
		if recover() == nil {
			t.Error("expected panic when name is reused for another file")
		}
	}()
	r.Store("log", "b.log")
}

func TestReport_Nil(t *testing.T) {
	var r *Report
	r.Store("a", "b")
	r.StoreData("a", []byte("b"))
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	if diff := cmp.Diff("", r.Name()); diff != "" {
		t.Errorf("Name mismatch: %s", diff)
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
