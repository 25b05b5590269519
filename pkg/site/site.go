// Package site assembles everything a page needs from the configuration:
// documents, built figures and the renderer.
package site

import (
	"fmt"

	"github.com/alim08/econ_notes/pkg/chart"
	"github.com/alim08/econ_notes/pkg/config"
	"github.com/alim08/econ_notes/pkg/content"
	"github.com/alim08/econ_notes/pkg/logger"
	"github.com/alim08/econ_notes/pkg/page"
	"go.uber.org/zap"
)

type Site struct {
	Docs     content.Set
	Figures  []*chart.Figure
	Renderer *page.Renderer
}

// Load reads the documents (from cfg.ContentDir when set, the built-in ones
// otherwise) and builds every figure.
func Load(cfg *config.Config) (*Site, error) {
	var (
		docs content.Set
		err  error
	)
	if cfg.ContentDir != "" {
		docs, err = content.LoadDir(cfg.ContentDir)
	} else {
		docs, err = content.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}

	figs, err := chart.BuildSet(docs,
		chart.WithSamples(cfg.SampleCount),
		chart.WithSize(cfg.ChartWidth, cfg.ChartHeight))
	if err != nil {
		return nil, fmt.Errorf("build charts: %w", err)
	}

	r, err := page.New(docs, figs)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("content loaded",
		zap.String("dir", cfg.ContentDir),
		zap.Int("documents", len(docs)),
		zap.Int("charts", len(figs)))
	return &Site{Docs: docs, Figures: figs, Renderer: r}, nil
}

// Figure returns the built figure with the given chart id.
func (s *Site) Figure(id string) (*chart.Figure, bool) {
	for _, f := range s.Figures {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}
