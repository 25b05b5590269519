package content

import (
	"fmt"
	"math"
	"strings"

	"github.com/alim08/econ_notes/pkg/market"
)

// Solution is a worked result computed from market equations at render time
// rather than typed into the document: either the equilibrium of the market
// (after an optional shift) or the gap at a fixed price.
type Solution struct {
	Label  string        `yaml:"label" json:"label" validate:"required"`
	Mark   string        `yaml:"mark" json:"mark,omitempty" validate:"omitempty,max=3"`
	Market market.Market `yaml:"market" json:"market"`
	Shift  *Shift        `yaml:"shift" json:"shift,omitempty"`
	At     *float64      `yaml:"at" json:"at,omitempty" validate:"omitempty,gte=0"`
	Unit   string        `yaml:"unit" json:"unit,omitempty"`
	Places *int32        `yaml:"places" json:"places,omitempty" validate:"omitempty,gte=0,lte=6"`
}

// Shift moves demand and supply horizontally before solving.
type Shift struct {
	Demand float64 `yaml:"demand" json:"demand"`
	Supply float64 `yaml:"supply" json:"supply"`
}

// Result is an evaluated Solution.
type Result struct {
	Label    string
	Mark     string
	Unit     string
	Places   int32
	Fixed    bool
	Price    float64
	Quantity float64
	Gap      *market.Gap
}

// DefaultPlaces is the rounding used when a solution leaves Places unset.
// Unset places print without trailing zeros; explicit ones print fixed.
const DefaultPlaces = 2

// Evaluate solves the market.
func (s Solution) Evaluate() (Result, error) {
	m := s.Market
	if s.Shift != nil {
		m = m.Shift(s.Shift.Demand, s.Shift.Supply)
	}
	r := Result{Label: s.Label, Mark: s.Mark, Unit: s.Unit, Places: DefaultPlaces}
	if r.Mark == "" {
		r.Mark = "*"
	}
	if s.Places != nil {
		r.Places, r.Fixed = *s.Places, true
	}

	if s.At != nil {
		g := m.Gap(*s.At)
		r.Gap = &g
		r.Price = g.Price
		return r, nil
	}

	p, q, err := m.Equilibrium()
	if err != nil {
		return Result{}, fmt.Errorf("solution %q: %w", s.Label, err)
	}
	r.Price, r.Quantity = p, q
	return r, nil
}

// relation returns "=" when v prints exactly at places decimals and "≈"
// when rounding hides a remainder.
func relation(v float64, places int32) string {
	scale := math.Pow(10, float64(places))
	if math.Abs(v*scale-math.Round(v*scale)) > 1e-6 {
		return "≈"
	}
	return "="
}

func (r Result) num(v float64) string {
	if r.Fixed {
		return market.Format(v, r.Places)
	}
	return market.Trim(v, r.Places)
}

func (r Result) unit() string {
	if r.Unit == "" {
		return ""
	}
	return " " + r.Unit
}

// String renders the result as one sentence, e.g.
// "Equilibrium: P* = $105, Q* = 600 licenses".
func (r Result) String() string {
	if r.Gap == nil {
		return fmt.Sprintf("%s: P%s %s $%s, Q%s %s %s%s",
			r.Label,
			r.Mark, relation(r.Price, r.Places), r.num(r.Price),
			r.Mark, relation(r.Quantity, r.Places), r.num(r.Quantity),
			r.unit())
	}

	g := r.Gap
	var b strings.Builder
	fmt.Fprintf(&b, "%s: at P = $%s, Qd = %s and Qs = %s", r.Label, r.num(g.Price), r.num(g.Demanded), r.num(g.Supplied))
	switch g.Kind {
	case market.Shortage:
		fmt.Fprintf(&b, ", a shortage of %s%s", r.num(g.Size), r.unit())
	case market.Surplus:
		fmt.Fprintf(&b, ", a surplus of %s%s", r.num(g.Size), r.unit())
	default:
		b.WriteString(", so the market clears")
	}
	return b.String()
}
