// Package market holds the demand and supply schedules behind the worked
// examples and derives equilibria and disequilibrium gaps from them.
//
// A Schedule is Q = Intercept - Coefficient*P^Power when used as demand and
// Q = Intercept + Coefficient*P^Power when used as supply. Power 0 is read
// as 1 so linear schedules can leave it out of the content files.
package market

import (
	"errors"
	"fmt"
	"math"

	"github.com/alim08/econ_notes/pkg/curve"
)

var (
	ErrNoEquilibrium = errors.New("schedules do not cross at a non-negative price")
	ErrNonLinear     = errors.New("schedule is not linear")
)

// Side says which way a schedule responds to price.
type Side int

const (
	Demand Side = iota
	Supply
)

// Schedule is one side of a market.
type Schedule struct {
	Intercept   float64 `yaml:"intercept" json:"intercept"`
	Coefficient float64 `yaml:"coefficient" json:"coefficient" validate:"gt=0"`
	Power       float64 `yaml:"power,omitempty" json:"power,omitempty" validate:"gte=0"`
}

func (s Schedule) power() float64 {
	if s.Power == 0 {
		return 1
	}
	return s.Power
}

// At returns the quantity on the schedule at price p.
func (s Schedule) At(side Side, p float64) float64 {
	term := s.Coefficient * math.Pow(p, s.power())
	if side == Demand {
		return s.Intercept - term
	}
	return s.Intercept + term
}

// Shift moves the schedule horizontally by dq units of quantity.
func (s Schedule) Shift(dq float64) Schedule {
	s.Intercept += dq
	return s
}

// Line converts a linear schedule into the P(Q) form the curve generator
// plots. Demand Q = a - bP becomes P = a/b - Q/b, supply Q = c + dP becomes
// P = -c/d + Q/d; the quantity intercept is the intercept of the schedule in
// both cases.
func (s Schedule) Line(side Side) (curve.Line, error) {
	if s.power() != 1 {
		return curve.Line{}, ErrNonLinear
	}
	if s.Coefficient == 0 {
		return curve.Line{}, fmt.Errorf("zero coefficient: %w", ErrNonLinear)
	}
	pI := s.Intercept / s.Coefficient
	if side == Supply {
		pI = -pI
	}
	return curve.Line{PriceIntercept: pI, QuantityIntercept: s.Intercept}, nil
}

// Market pairs a demand and a supply schedule of the same power.
type Market struct {
	Demand Schedule `yaml:"demand" json:"demand"`
	Supply Schedule `yaml:"supply" json:"supply"`
}

// Equilibrium solves Qd = Qs for the market-clearing price and quantity.
func (m Market) Equilibrium() (price, quantity float64, err error) {
	if m.Demand.power() != m.Supply.power() {
		return 0, 0, fmt.Errorf("demand power %v, supply power %v: %w", m.Demand.power(), m.Supply.power(), ErrNoEquilibrium)
	}
	denom := m.Demand.Coefficient + m.Supply.Coefficient
	if denom == 0 {
		return 0, 0, ErrNoEquilibrium
	}
	pk := (m.Demand.Intercept - m.Supply.Intercept) / denom
	if pk < 0 {
		return 0, 0, ErrNoEquilibrium
	}
	price = math.Pow(pk, 1/m.Demand.power())
	return price, m.Demand.At(Demand, price), nil
}

// GapKind classifies the market at a given price.
type GapKind string

const (
	Balanced GapKind = "balanced"
	Shortage GapKind = "shortage"
	Surplus  GapKind = "surplus"
)

// Gap is the disequilibrium at a fixed price.
type Gap struct {
	Price    float64 `json:"price"`
	Demanded float64 `json:"demanded"`
	Supplied float64 `json:"supplied"`
	Kind     GapKind `json:"kind"`
	Size     float64 `json:"size"`
}

// gapTolerance absorbs float noise when the price is the equilibrium price.
const gapTolerance = 1e-9

// Gap evaluates both schedules at p. Supplied quantities are floored at zero;
// a firm cannot supply a negative amount.
func (m Market) Gap(p float64) Gap {
	g := Gap{
		Price:    p,
		Demanded: math.Max(0, m.Demand.At(Demand, p)),
		Supplied: math.Max(0, m.Supply.At(Supply, p)),
	}
	diff := g.Demanded - g.Supplied
	switch {
	case math.Abs(diff) <= gapTolerance:
		g.Kind = Balanced
	case diff > 0:
		g.Kind, g.Size = Shortage, diff
	default:
		g.Kind, g.Size = Surplus, -diff
	}
	return g
}

// Shift returns the market with demand moved by dd and supply by ds.
func (m Market) Shift(dd, ds float64) Market {
	return Market{Demand: m.Demand.Shift(dd), Supply: m.Supply.Shift(ds)}
}
