package chart

import (
	"testing"

	"github.com/alim08/econ_notes/pkg/curve"
)

func pt(q, p float64) curve.Point { return curve.Point{Quantity: q, Price: p} }

var unit = box{minX: 0, maxX: 10, minY: 0, maxY: 10}

func TestClipSegment(t *testing.T) {
	cases := []struct {
		name     string
		a, b     curve.Point
		visible  bool
		from, to curve.Point
	}{
		{"inside", pt(1, 1), pt(9, 9), true, pt(1, 1), pt(9, 9)},
		{"crosses top", pt(0, 5), pt(10, 15), true, pt(0, 5), pt(5, 10)},
		{"crosses bottom", pt(0, 10), pt(20, -10), true, pt(0, 10), pt(10, 0)},
		{"starts left", pt(-5, 5), pt(5, 5), true, pt(0, 5), pt(5, 5)},
		{"vertical inside", pt(3, -2), pt(3, 12), true, pt(3, 0), pt(3, 10)},
		{"fully above", pt(0, 11), pt(10, 12), false, curve.Point{}, curve.Point{}},
		{"fully right", pt(11, 0), pt(12, 5), false, curve.Point{}, curve.Point{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			from, to, ok := unit.clipSegment(c.a, c.b)
			if ok != c.visible {
				t.Fatalf("visible = %v; want %v", ok, c.visible)
			}
			if !ok {
				return
			}
			if !samePoint(from, c.from) || !samePoint(to, c.to) {
				t.Errorf("clipSegment = %v-%v; want %v-%v", from, to, c.from, c.to)
			}
		})
	}
}

func TestClipPolyline(t *testing.T) {
	// A demand line sampled past the box on both ends.
	runs := unit.clipPolyline([]curve.Point{pt(-5, 15), pt(0, 10), pt(5, 5), pt(10, 0), pt(15, -5)})
	if len(runs) != 1 {
		t.Fatalf("expected one run, got %d: %v", len(runs), runs)
	}
	run := runs[0]
	if !samePoint(run[0], pt(0, 10)) || !samePoint(run[len(run)-1], pt(10, 0)) {
		t.Errorf("run = %v; want (0,10)...(10,0)", run)
	}
	for i := 1; i < len(run); i++ {
		if run[i].Quantity < run[i-1].Quantity {
			t.Errorf("run not sorted at %d: %v", i, run)
		}
	}
}

func TestClipPolyline_Breaks(t *testing.T) {
	runs := unit.clipPolyline([]curve.Point{pt(1, 1), pt(2, 20), pt(3, 1)})
	if len(runs) != 2 {
		t.Fatalf("expected two runs, got %d: %v", len(runs), runs)
	}
}

func TestClipPolyline_SinglePoint(t *testing.T) {
	if runs := unit.clipPolyline([]curve.Point{pt(5, 5)}); len(runs) != 1 {
		t.Errorf("inside point: got %v", runs)
	}
	if runs := unit.clipPolyline([]curve.Point{pt(50, 5)}); runs != nil {
		t.Errorf("outside point: got %v", runs)
	}
	if runs := unit.clipPolyline(nil); runs != nil {
		t.Errorf("empty: got %v", runs)
	}
}
