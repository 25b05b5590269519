// Package chart turns a content chart into plotted series and renders it as
// SVG. Every series is generated independently with pkg/curve; nothing is
// cached between charts.
package chart

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alim08/econ_notes/pkg/content"
	"github.com/alim08/econ_notes/pkg/curve"
	"github.com/alim08/econ_notes/pkg/logger"
	"github.com/alim08/econ_notes/pkg/market"
	"github.com/alim08/econ_notes/pkg/metrics"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.uber.org/zap"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 400

	defaultStroke = 2.0
	guideStroke   = 1.0
	dotRadius     = 4.0
)

var (
	colorGuide = drawing.ColorFromHex("808080")
	colorText  = drawing.ColorFromHex("333333")
)

// SeriesData is one generated curve, in the records the JSON API serves.
type SeriesData struct {
	Name   string        `json:"name"`
	Points []curve.Point `json:"points"`
}

// Figure is a built chart: generated series plus the layout needed to draw
// them.
type Figure struct {
	ID      string       `json:"id"`
	Title   string       `json:"title,omitempty"`
	Caption string       `json:"caption,omitempty"`
	Series  []SeriesData `json:"series"`

	def    content.Chart
	width  int
	height int
}

type options struct {
	samples int
	width   int
	height  int
}

// Option adjusts Build.
type Option func(*options)

// WithSamples sets the sampling intervals passed to the curve generator.
func WithSamples(n int) Option {
	return func(o *options) { o.samples = n }
}

// WithSize sets the default SVG size. A chart's own height wins over h.
func WithSize(w, h int) Option {
	return func(o *options) {
		if w > 0 {
			o.width = w
		}
		if h > 0 {
			o.height = h
		}
	}
}

// Build generates every series of c.
func Build(c content.Chart, opts ...Option) (*Figure, error) {
	o := options{samples: curve.DefaultSamples, width: DefaultWidth, height: DefaultHeight}
	for _, opt := range opts {
		opt(&o)
	}

	f := &Figure{
		ID:      c.ID,
		Title:   c.Title,
		Caption: c.Caption,
		Series:  make([]SeriesData, 0, len(c.Series)),
		def:     c,
		width:   o.width,
		height:  o.height,
	}
	if c.Height > 0 {
		f.height = c.Height
	}

	for _, s := range c.Series {
		points, err := generate(s, o.samples)
		if err != nil {
			return nil, fmt.Errorf("chart %s: %w", c.ID, err)
		}
		metrics.CurvePoints.Observe(float64(len(points)))
		f.Series = append(f.Series, SeriesData{Name: s.Name, Points: points})
	}

	logger.Log.Debug("chart built",
		zap.String("chart", c.ID),
		zap.Int("series", len(f.Series)))
	return f, nil
}

// BuildSet builds every chart of the set, in page order.
func BuildSet(set content.Set, opts ...Option) ([]*Figure, error) {
	var figs []*Figure
	for _, id := range set.ChartIDs() {
		c, _ := set.Chart(id)
		f, err := Build(c, opts...)
		if err != nil {
			return nil, err
		}
		figs = append(figs, f)
	}
	return figs, nil
}

func generate(s content.Series, samples int) ([]curve.Point, error) {
	line, err := s.Resolve()
	if err != nil {
		return nil, err
	}

	opts := []curve.Option{curve.WithSamples(samples)}
	if s.Marker != nil {
		opts = append(opts, curve.WithMarker(*s.Marker))
	}

	var points []curve.Point
	if s.Variant == "banded" {
		points = curve.Banded(line, s.PlotBound, opts...)
	} else {
		points = curve.Clipped(line, s.PlotBound, opts...)
	}

	switch s.Keep {
	case "price":
		points = curve.NonNegativePrice(points)
	case "quantity":
		points = curve.NonNegativeQuantity(points)
	}
	return points, nil
}

// SVG draws the figure. Curves and guides are clipped to the axis ranges.
func (f *Figure) SVG(w io.Writer) (err error) {
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.ChartRenders.WithLabelValues(f.ID, status).Inc()
		metrics.ChartRenderDuration.Observe(time.Since(start).Seconds())
	}()

	ch := f.layout()
	if err := ch.Render(gochart.SVG, w); err != nil {
		return fmt.Errorf("render chart %s: %w", f.ID, err)
	}
	return nil
}

func (f *Figure) layout() gochart.Chart {
	c := f.def
	clip := boxOf(c.X, c.Y)

	var (
		series []gochart.Series
		curves []gochart.Series
	)

	for i, s := range f.Series {
		style := gochart.Style{
			StrokeColor: colorOr(c.Series[i].Color, gochart.GetDefaultColor(i)),
			StrokeWidth: widthOr(c.Series[i].Width, defaultStroke),
		}
		for j, run := range clip.clipPolyline(s.Points) {
			cs := line(run, style)
			if j == 0 {
				cs.Name = s.Name
				curves = append(curves, cs)
			}
			series = append(series, cs)
		}
	}

	var notes []gochart.Value2
	for _, g := range c.Guides {
		a, b, ok := g.Ends(c.X, c.Y)
		if !ok {
			continue
		}
		style := gochart.Style{
			StrokeColor:     colorOr(g.Color, colorGuide),
			StrokeWidth:     widthOr(g.Width, guideStroke),
			StrokeDashArray: g.Dash,
		}
		from, to, visible := clip.clipSegment(point(a), point(b))
		if !visible {
			continue
		}
		series = append(series, line([]curve.Point{from, to}, style))
		if g.Label != "" {
			notes = append(notes, note(to.Quantity, to.Price, g.Label, g.Color))
		}
	}

	for _, d := range c.Dots {
		p := curve.Point{Quantity: d.Q, Price: d.P}
		if !clip.contains(p) {
			continue
		}
		col := colorOr(d.Color, colorText)
		series = append(series, gochart.ContinuousSeries{
			XValues: []float64{d.Q},
			YValues: []float64{d.P},
			Style: gochart.Style{
				StrokeColor: drawing.ColorTransparent,
				StrokeWidth: 0,
				DotColor:    col,
				DotWidth:    widthOr(d.Radius, dotRadius),
			},
		})
		if d.Label != "" {
			notes = append(notes, note(d.Q, d.P, d.Label, d.Color))
		}
	}

	for _, n := range c.Notes {
		notes = append(notes, note(n.Q, n.P, n.Text, n.Color))
	}
	if len(notes) > 0 {
		series = append(series, gochart.AnnotationSeries{Annotations: notes})
	}

	ch := gochart.Chart{
		Title:  c.Title,
		Width:  f.width,
		Height: f.height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:  c.X.Label,
			Range: &gochart.ContinuousRange{Min: c.X.Min, Max: c.X.Max},
			Ticks: ticks(c.X),
			GridMajorStyle: gochart.Style{
				StrokeColor: drawing.ColorFromHex("eeeeee"),
				StrokeWidth: 1,
			},
		},
		YAxis: gochart.YAxis{
			Name:  c.Y.Label,
			Range: &gochart.ContinuousRange{Min: c.Y.Min, Max: c.Y.Max},
			Ticks: ticks(c.Y),
			GridMajorStyle: gochart.Style{
				StrokeColor: drawing.ColorFromHex("eeeeee"),
				StrokeWidth: 1,
			},
		},
		Series: series,
	}

	// The legend lists curves only; guides and dots have no names.
	legend := gochart.Chart{Series: curves}
	ch.Elements = []gochart.Renderable{gochart.Legend(&legend)}
	return ch
}

func line(points []curve.Point, style gochart.Style) gochart.ContinuousSeries {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.Quantity, p.Price
	}
	return gochart.ContinuousSeries{XValues: xs, YValues: ys, Style: style}
}

func note(q, p float64, text, color string) gochart.Value2 {
	return gochart.Value2{
		XValue: q,
		YValue: p,
		Label:  text,
		Style: gochart.Style{
			FontColor:   colorOr(color, colorText),
			StrokeColor: drawing.ColorTransparent,
			FillColor:   drawing.ColorWhite.WithAlpha(200),
		},
	}
}

// ticks places a tick at every listed value, or at both ends when the axis
// lists none.
func ticks(a content.Axis) []gochart.Tick {
	values := a.Ticks
	if len(values) == 0 {
		values = []float64{a.Min, a.Max}
	}
	out := make([]gochart.Tick, 0, len(values))
	for _, v := range values {
		out = append(out, gochart.Tick{Value: v, Label: market.Trim(v, 2)})
	}
	return out
}

func point(c content.Coord) curve.Point {
	return curve.Point{Quantity: c.Q, Price: c.P}
}

func colorOr(hex string, fallback drawing.Color) drawing.Color {
	if hex == "" {
		return fallback
	}
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func widthOr(w, fallback float64) float64 {
	if w > 0 {
		return w
	}
	return fallback
}
