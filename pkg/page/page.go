// Package page composes the documents into one HTML page: each document in
// order, separated by a rule, with its charts inlined as SVG.
package page

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/alim08/econ_notes/pkg/chart"
	"github.com/alim08/econ_notes/pkg/content"
	"github.com/alim08/econ_notes/pkg/logger"
	"github.com/alim08/econ_notes/pkg/metrics"
	"go.uber.org/zap"
)

//go:embed templates/page.html templates/style.css
var files embed.FS

var ErrNotFound = errors.New("document not found")

// DefaultTitle is the browser title of the full page.
const DefaultTitle = "Lecture 3: Demand and Supply Together"

// Renderer renders documents and their figures. Each figure is drawn once,
// in New; the Renderer holds no mutable state after that and is safe for
// concurrent use.
type Renderer struct {
	docs    content.Set
	figures map[string]*chart.Figure
	svgs    map[string][]byte
	tmpl    *template.Template
	style   template.CSS
}

type view struct {
	Title     string
	Style     template.CSS
	Documents []content.Document
}

type chartView struct {
	ID      string
	Title   string
	Caption string
	SVG     template.HTML
}

// New draws every figure and parses the embedded templates. Every chart a
// document places must be in figs.
func New(docs content.Set, figs []*chart.Figure) (*Renderer, error) {
	r := &Renderer{
		docs:    docs,
		figures: make(map[string]*chart.Figure, len(figs)),
		svgs:    make(map[string][]byte, len(figs)),
	}
	for _, f := range figs {
		r.figures[f.ID] = f
	}
	for _, id := range docs.ChartIDs() {
		if _, ok := r.figures[id]; !ok {
			return nil, fmt.Errorf("no figure for chart %q", id)
		}
	}

	css, err := files.ReadFile("templates/style.css")
	if err != nil {
		return nil, err
	}
	r.style = template.CSS(css)

	tmpl, err := template.New("root").Funcs(template.FuncMap{
		"inline":   Inline,
		"chart":    r.chart,
		"solution": solution,
	}).ParseFS(files, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.tmpl = tmpl

	for _, f := range figs {
		var buf bytes.Buffer
		if err := f.SVG(&buf); err != nil {
			logger.Log.Error("chart render failed", zap.String("chart", f.ID), zap.Error(err))
			continue
		}
		r.svgs[f.ID] = buf.Bytes()
	}
	return r, nil
}

// SVG returns the standalone drawing of a figure. It reports false for an
// unknown id and for a figure that failed to render.
func (r *Renderer) SVG(id string) ([]byte, bool) {
	b, ok := r.svgs[id]
	return b, ok
}

// Render writes the full page.
func (r *Renderer) Render(ctx context.Context, w io.Writer) error {
	return r.render(ctx, w, DefaultTitle, r.docs)
}

// RenderDocument writes a page holding only the document with the given id.
func (r *Renderer) RenderDocument(ctx context.Context, w io.Writer, id string) error {
	doc, ok := r.docs.Document(id)
	if !ok {
		return fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	return r.render(ctx, w, doc.Title, content.Set{doc})
}

func (r *Renderer) render(ctx context.Context, w io.Writer, title string, docs content.Set) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()

	var buf bytes.Buffer
	v := view{Title: title, Style: r.style, Documents: docs}
	if err := r.tmpl.ExecuteTemplate(&buf, "page", v); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}

	metrics.PageRenderDuration.Observe(time.Since(start).Seconds())
	metrics.PageBytes.Set(float64(buf.Len()))
	logger.Log.Debug("page rendered",
		zap.Int("documents", len(docs)),
		zap.Int("bytes", buf.Len()),
		zap.Duration("took", time.Since(start)))

	_, err := buf.WriteTo(w)
	return err
}

// chart places one figure. A failed render leaves the slot empty; the
// caption still shows.
func (r *Renderer) chart(id string) chartView {
	f := r.figures[id]
	v := chartView{ID: id, Title: f.Title, Caption: f.Caption}
	if b, ok := r.svgs[id]; ok {
		v.SVG = template.HTML(stripXMLHeader(string(b)))
	}
	return v
}

// stripXMLHeader drops a leading <?xml ...?> declaration, which is not
// allowed inside HTML.
func stripXMLHeader(s string) string {
	if strings.HasPrefix(s, "<?xml") {
		if i := strings.Index(s, "?>"); i >= 0 {
			return strings.TrimLeft(s[i+2:], "\r\n")
		}
	}
	return s
}

func solution(s *content.Solution) (string, error) {
	res, err := s.Evaluate()
	if err != nil {
		return "", err
	}
	return res.String(), nil
}

// Inline renders inline markup as escaped HTML.
func Inline(s string) template.HTML {
	var b strings.Builder
	for _, sp := range content.ParseInline(s) {
		text := template.HTMLEscapeString(sp.Text)
		switch sp.Kind {
		case content.SpanBold:
			b.WriteString("<strong>" + text + "</strong>")
		case content.SpanStyled:
			fmt.Fprintf(&b, `<span class="%s">%s</span>`, sp.Class, text)
		case content.SpanCode:
			fmt.Fprintf(&b, `<code class="%s">%s</code>`, sp.Class, text)
		default:
			b.WriteString(text)
		}
	}
	return template.HTML(b.String())
}
