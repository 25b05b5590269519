// Package curve turns a linear price/quantity relationship into the ordered
// point sequence a chart series needs.
//
// A Line is described by where it meets the axes: PriceIntercept is the
// price at zero quantity (possibly negative, for supply curves that only
// start above the origin) and QuantityIntercept is the quantity at zero
// price. Generation never fails loudly; degenerate input yields an empty or
// short sequence and the chart simply omits the segment.
package curve

import (
	"math"
	"sort"
)

const (
	// DefaultSamples is the number of intervals sampled across the plot bound.
	DefaultSamples = 20

	// DedupeTolerance is the quantity distance under which two points are
	// treated as the same point.
	DedupeTolerance = 0.1

	// bandedFloor is the lowest upper price bound the banded variant uses.
	bandedFloor = 120.0
	// bandedHeadroom is added to the price intercept for the banded upper bound.
	bandedHeadroom = 20.0
	// bandedSlack lets banded samples run past the plot bound.
	bandedSlack = 50.0
)

// Point is one (quantity, price) sample. The JSON keys match the series
// records the chart API emits.
type Point struct {
	Quantity float64 `json:"Q"`
	Price    float64 `json:"P"`
}

// Line is P = PriceIntercept + Slope()*Q.
type Line struct {
	PriceIntercept    float64 `json:"price_intercept" yaml:"price_intercept"`
	QuantityIntercept float64 `json:"quantity_intercept" yaml:"quantity_intercept"`
}

// Slope returns dP/dQ. It is only meaningful when QuantityIntercept != 0.
func (l Line) Slope() float64 {
	return l.PriceIntercept / (0 - l.QuantityIntercept)
}

// PriceAt returns the price on the line at quantity q.
func (l Line) PriceAt(q float64) float64 {
	return l.PriceIntercept + l.Slope()*q
}

// Crossing returns the quantity at which the line reaches zero price. The
// result may be NaN or infinite for degenerate lines.
func (l Line) Crossing() float64 {
	return -l.PriceIntercept / l.Slope()
}

// Band is the closed price interval a sample must fall in to be kept.
type Band struct {
	Min float64
	Max float64
}

// Contains reports whether p lies inside the band.
func (b Band) Contains(p float64) bool {
	return p >= b.Min && p <= b.Max
}

type options struct {
	samples int
	band    Band
	round   bool
	slack   float64
	markers []float64
}

// Option adjusts a single Generate call.
type Option func(*options)

// WithSamples sets the number of sampling intervals. Values below 1 are ignored.
func WithSamples(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.samples = n
		}
	}
}

// WithBand restricts kept points to prices in [min, max].
func WithBand(min, max float64) Option {
	return func(o *options) {
		o.band = Band{Min: min, Max: max}
	}
}

// WithMarker forces an extra point at quantity q, typically an equilibrium
// quantity, when q is inside the plot and its price inside the band.
func WithMarker(q float64) Option {
	return func(o *options) {
		o.markers = append(o.markers, q)
	}
}

// WithRounding rounds sampled quantities to whole units. Forced points keep
// their exact quantity so they stay on the line.
func WithRounding() Option {
	return func(o *options) {
		o.round = true
	}
}

// WithSlack accepts sampled quantities up to bound+slack.
func WithSlack(slack float64) Option {
	return func(o *options) {
		o.slack = slack
	}
}

// Generate samples l over [0, bound] and returns the kept points sorted by
// quantity. Without options the band is [0, +Inf) and 20 intervals are used.
func Generate(l Line, bound float64, opts ...Option) []Point {
	o := options{
		samples: DefaultSamples,
		band:    Band{Min: 0, Max: math.Inf(1)},
	}
	for _, opt := range opts {
		opt(&o)
	}

	if l.QuantityIntercept == 0 {
		return nil
	}
	slope := l.Slope()
	if slope == 0 {
		return []Point{{Quantity: 0, Price: l.PriceIntercept}, {Quantity: bound, Price: l.PriceIntercept}}
	}
	if math.IsInf(slope, 0) {
		return []Point{{Quantity: l.QuantityIntercept, Price: 0}, {Quantity: l.QuantityIntercept, Price: o.upper()}}
	}

	candidates := make([]candidate, 0, o.samples+1+2+len(o.markers))
	step := bound / float64(o.samples)
	for i := 0; i <= o.samples; i++ {
		q := step * float64(i)
		if o.round {
			q = math.Round(q)
		}
		p := l.PriceIntercept + slope*q
		if q <= bound+o.slack && o.band.Contains(p) {
			candidates = append(candidates, candidate{Point: Point{Quantity: q, Price: p}})
		}
	}

	if o.band.Contains(l.PriceIntercept) {
		candidates = append(candidates, candidate{Point: Point{Quantity: 0, Price: l.PriceIntercept}, forced: true})
	}
	if qc := l.Crossing(); isFinite(qc) && qc >= 0 && qc <= bound && o.band.Contains(0) {
		candidates = append(candidates, candidate{Point: Point{Quantity: qc, Price: 0}, forced: true})
	}
	for _, m := range o.markers {
		if !isFinite(m) || m < 0 || m > bound {
			continue
		}
		if p := l.PriceIntercept + slope*m; o.band.Contains(p) {
			candidates = append(candidates, candidate{Point: Point{Quantity: m, Price: p}, forced: true})
		}
	}

	return dedupe(candidates, DedupeTolerance)
}

// Clipped is the tutorial rendition: non-negative prices only.
func Clipped(l Line, bound float64, opts ...Option) []Point {
	return Generate(l, bound, append([]Option{WithBand(0, math.Inf(1))}, opts...)...)
}

// Banded is the lecture rendition: a price band of [-|pI/3|, max(120, pI+20)],
// whole-unit quantities and samples accepted slightly past the bound.
func Banded(l Line, bound float64, opts ...Option) []Point {
	min, max := BandFor(l)
	base := []Option{WithBand(min, max), WithRounding(), WithSlack(bandedSlack)}
	return Generate(l, bound, append(base, opts...)...)
}

// BandFor returns the display band the banded variant uses for l.
func BandFor(l Line) (float64, float64) {
	return -math.Abs(l.PriceIntercept / 3), math.Max(bandedFloor, l.PriceIntercept+bandedHeadroom)
}

// NonNegativePrice drops points below the quantity axis.
func NonNegativePrice(points []Point) []Point {
	return filter(points, func(p Point) bool { return p.Price >= 0 })
}

// NonNegativeQuantity drops points left of the price axis.
func NonNegativeQuantity(points []Point) []Point {
	return filter(points, func(p Point) bool { return p.Quantity >= 0 })
}

func filter(points []Point, keep func(Point) bool) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (o options) upper() float64 {
	if isFinite(o.band.Max) {
		return o.band.Max
	}
	return bandedFloor
}

type candidate struct {
	Point
	forced bool
}

// dedupe sorts by quantity and collapses runs closer than tol. A sampled
// point always wins over a forced one at the same spot.
func dedupe(cs []candidate, tol float64) []Point {
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Quantity < cs[j].Quantity })

	kept := make([]candidate, 0, len(cs))
	for _, c := range cs {
		if n := len(kept); n > 0 && math.Abs(c.Quantity-kept[n-1].Quantity) < tol {
			if kept[n-1].forced && !c.forced {
				kept[n-1] = c
			}
			continue
		}
		kept = append(kept, c)
	}

	out := make([]Point, len(kept))
	for i, c := range kept {
		out[i] = c.Point
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
