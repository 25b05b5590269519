package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alim08/econ_notes/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{SampleCount: 20, ChartWidth: 800, ChartHeight: 400}
}

func TestLoad_BuiltIn(t *testing.T) {
	s, err := Load(testConfig())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Docs) != 2 || len(s.Figures) != 6 || s.Renderer == nil {
		t.Fatalf("unexpected site: %d docs, %d figures", len(s.Docs), len(s.Figures))
	}
	if _, ok := s.Figure("q1-shift"); !ok {
		t.Error("Figure(q1-shift) not found")
	}
	if _, ok := s.Figure("nope"); ok {
		t.Error("Figure(nope) should not be found")
	}
}

func TestLoad_ContentDir(t *testing.T) {
	dir := t.TempDir()
	doc := `id: notes
title: "Notes"
sections:
  - heading: "Only"
    blocks:
      - paragraph: "Hello"
`
	if err := os.WriteFile(filepath.Join(dir, "notes.yaml"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	cfg.ContentDir = dir
	s, err := Load(cfg)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Docs) != 1 || s.Docs[0].ID != "notes" || len(s.Figures) != 0 {
		t.Errorf("unexpected site: %+v", s.Docs)
	}
}

func TestLoad_MissingDir(t *testing.T) {
	cfg := testConfig()
	cfg.ContentDir = filepath.Join(t.TempDir(), "missing")
	if _, err := Load(cfg); err == nil {
		t.Error("expected error for an empty content dir")
	}
}
