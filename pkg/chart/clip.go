package chart

import (
	"math"

	"github.com/alim08/econ_notes/pkg/content"
	"github.com/alim08/econ_notes/pkg/curve"
)

// box is the visible data window of a chart.
type box struct {
	minX, maxX float64
	minY, maxY float64
}

func boxOf(x, y content.Axis) box {
	return box{minX: x.Min, maxX: x.Max, minY: y.Min, maxY: y.Max}
}

func (b box) contains(p curve.Point) bool {
	return p.Quantity >= b.minX && p.Quantity <= b.maxX && p.Price >= b.minY && p.Price <= b.maxY
}

// clipSegment cuts a-b down to the part inside b (Liang-Barsky).
func (b box) clipSegment(p0, p1 curve.Point) (curve.Point, curve.Point, bool) {
	dx := p1.Quantity - p0.Quantity
	dy := p1.Price - p0.Price
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, p0.Quantity - b.minX},
		{dx, b.maxX - p0.Quantity},
		{-dy, p0.Price - b.minY},
		{dy, b.maxY - p0.Price},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return curve.Point{}, curve.Point{}, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return curve.Point{}, curve.Point{}, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return curve.Point{}, curve.Point{}, false
			}
			t1 = math.Min(t1, r)
		}
	}
	at := func(t float64) curve.Point {
		return curve.Point{Quantity: p0.Quantity + t*dx, Price: p0.Price + t*dy}
	}
	return at(t0), at(t1), true
}

// clipPolyline returns the visible runs of points. A run breaks wherever the
// polyline leaves the box.
func (b box) clipPolyline(points []curve.Point) [][]curve.Point {
	if len(points) == 1 {
		if b.contains(points[0]) {
			return [][]curve.Point{{points[0]}}
		}
		return nil
	}

	var (
		runs [][]curve.Point
		run  []curve.Point
	)
	for i := 1; i < len(points); i++ {
		a, c, ok := b.clipSegment(points[i-1], points[i])
		if !ok {
			if len(run) > 0 {
				runs = append(runs, run)
				run = nil
			}
			continue
		}
		if n := len(run); n > 0 && samePoint(run[n-1], a) {
			run = append(run, c)
			continue
		}
		if len(run) > 0 {
			runs = append(runs, run)
		}
		run = []curve.Point{a, c}
	}
	if len(run) > 0 {
		runs = append(runs, run)
	}
	return runs
}

func samePoint(a, b curve.Point) bool {
	const eps = 1e-9
	return math.Abs(a.Quantity-b.Quantity) < eps && math.Abs(a.Price-b.Price) < eps
}
