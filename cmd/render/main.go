// Command render writes the whole page to a single self-contained HTML file.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alim08/econ_notes/pkg/config"
	"github.com/alim08/econ_notes/pkg/logger"
	"github.com/alim08/econ_notes/pkg/site"
	"github.com/alim08/econ_notes/pkg/version"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		logger.Log.Fatal("render failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	start := time.Now()
	log := logger.Log
	log.Info("rendering page",
		zap.String("version", version.String()),
		zap.String("out", cfg.OutputPath))

	s, err := site.Load(cfg)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := s.Renderer.Render(ctx, &buf); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if dir := filepath.Dir(cfg.OutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(cfg.OutputPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", cfg.OutputPath, err)
	}

	log.Info("page written",
		zap.String("out", cfg.OutputPath),
		zap.Int("bytes", buf.Len()),
		zap.Int("documents", len(s.Docs)),
		zap.Int("charts", len(s.Figures)),
		zap.Duration("took", time.Since(start)))
	return nil
}
