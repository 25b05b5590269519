package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alim08/econ_notes/pkg/config"
	"github.com/alim08/econ_notes/pkg/logger"
	"go.uber.org/zap/zaptest"
)

func TestRun(t *testing.T) {
	prev := logger.Log
	logger.Log = zaptest.NewLogger(t)
	t.Cleanup(func() { logger.Log = prev })

	out := filepath.Join(t.TempDir(), "site", "nested", "index.html")
	cfg := &config.Config{OutputPath: out, SampleCount: 20, ChartWidth: 800, ChartHeight: 400}

	if err := run(context.Background(), cfg); err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	page := string(b)
	for _, want := range []string{"<!DOCTYPE html>", "Lecture 3: Demand and Supply Together", "<hr>", "<svg"} {
		if !strings.Contains(page, want) {
			t.Errorf("output does not contain %q", want)
		}
	}
}

func TestRun_Cancelled(t *testing.T) {
	out := filepath.Join(t.TempDir(), "index.html")
	cfg := &config.Config{OutputPath: out, SampleCount: 20, ChartWidth: 800, ChartHeight: 400}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := run(ctx, cfg); err == nil {
		t.Fatal("expected error for a cancelled context")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no file should be written after cancellation")
	}
}
