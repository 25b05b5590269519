// Package content holds the static documents rendered on the page: the
// lecture notes and the tutorial solutions. Documents are plain data decoded
// from YAML; nothing in here knows about HTML.
package content

import (
	"fmt"

	"github.com/alim08/econ_notes/pkg/curve"
	"github.com/alim08/econ_notes/pkg/market"
	"gopkg.in/yaml.v3"
)

// Document is one top-level page section, separated from the next by a rule.
type Document struct {
	ID       string    `yaml:"id" json:"id" validate:"required,slug"`
	Kicker   string    `yaml:"kicker" json:"kicker,omitempty"`
	Title    string    `yaml:"title" json:"title" validate:"required"`
	Tagline  string    `yaml:"tagline" json:"tagline,omitempty"`
	Sections []Section `yaml:"sections" json:"sections" validate:"required,min=1,dive"`
	Closing  string    `yaml:"closing" json:"closing,omitempty"`
	Charts   []Chart   `yaml:"charts" json:"charts,omitempty" validate:"dive"`
}

// Section is a headed run of blocks, optionally followed by subsections.
// Boxed sections render inside a bordered question block.
type Section struct {
	Heading  string    `yaml:"heading" json:"heading" validate:"required"`
	Level    int       `yaml:"level" json:"level" validate:"omitempty,min=2,max=4"`
	Boxed    bool      `yaml:"boxed" json:"boxed,omitempty"`
	Blocks   []Block   `yaml:"blocks" json:"blocks,omitempty" validate:"dive"`
	Sections []Section `yaml:"sections" json:"sections,omitempty" validate:"dive"`
}

// Block kinds.
const (
	KindParagraph      = "paragraph"
	KindList           = "list"
	KindOrdered        = "ordered"
	KindDefinition     = "definition"
	KindInterpretation = "interpretation"
	KindAlert          = "alert"
	KindTable          = "table"
	KindChart          = "chart"
	KindSolution       = "solution"
)

// Block is a single piece of body content. Exactly one field is set.
type Block struct {
	Paragraph      string    `yaml:"paragraph" json:"paragraph,omitempty"`
	List           []Item    `yaml:"list" json:"list,omitempty" validate:"dive"`
	Ordered        []Item    `yaml:"ordered" json:"ordered,omitempty" validate:"dive"`
	Definition     []string  `yaml:"definition" json:"definition,omitempty"`
	Interpretation *Callout  `yaml:"interpretation" json:"interpretation,omitempty"`
	Alert          *Alert    `yaml:"alert" json:"alert,omitempty"`
	Table          *Table    `yaml:"table" json:"table,omitempty"`
	Chart          string    `yaml:"chart" json:"chart,omitempty"`
	Solution       *Solution `yaml:"solution" json:"solution,omitempty"`
}

// Kinds lists every kind set on the block, in declaration order.
func (b Block) Kinds() []string {
	var kinds []string
	add := func(set bool, kind string) {
		if set {
			kinds = append(kinds, kind)
		}
	}
	add(b.Paragraph != "", KindParagraph)
	add(len(b.List) > 0, KindList)
	add(len(b.Ordered) > 0, KindOrdered)
	add(len(b.Definition) > 0, KindDefinition)
	add(b.Interpretation != nil, KindInterpretation)
	add(b.Alert != nil, KindAlert)
	add(b.Table != nil, KindTable)
	add(b.Chart != "", KindChart)
	add(b.Solution != nil, KindSolution)
	return kinds
}

// Kind returns the block's kind, or "" when the block is empty or ambiguous.
func (b Block) Kind() string {
	if k := b.Kinds(); len(k) == 1 {
		return k[0]
	}
	return ""
}

// Item is a list entry. In YAML it is either a plain string or a mapping
// with text and children.
type Item struct {
	Text     string `yaml:"text" json:"text"`
	Children []Item `yaml:"children" json:"children,omitempty" validate:"dive"`
	// Ordered renders the children as a numbered list.
	Ordered bool `yaml:"ordered" json:"ordered,omitempty"`
}

func (it *Item) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		it.Text = value.Value
		return nil
	}
	type plain Item
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*it = Item(p)
	return nil
}

// Callout is an interpretation box: a sentence, or a lead-in with numbered
// steps and a closing sentence.
type Callout struct {
	Text  string `yaml:"text" json:"text"`
	Steps []Item `yaml:"steps" json:"steps,omitempty" validate:"dive"`
	Outro string `yaml:"outro" json:"outro,omitempty"`
}

func (c *Callout) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		c.Text = value.Value
		return nil
	}
	type plain Callout
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*c = Callout(p)
	return nil
}

// Alert is a coloured call-out box.
type Alert struct {
	Variant string `yaml:"variant" json:"variant" validate:"required,alertvariant"`
	Text    string `yaml:"text" json:"text" validate:"required"`
}

// Table is a header row plus body rows of inline-markup cells.
type Table struct {
	Class  string     `yaml:"class" json:"class,omitempty"`
	Header []string   `yaml:"header" json:"header" validate:"required,min=1"`
	Rows   [][]string `yaml:"rows" json:"rows" validate:"required,min=1"`
}

// Chart describes one supply/demand figure.
type Chart struct {
	ID      string   `yaml:"id" json:"id" validate:"required,slug"`
	Title   string   `yaml:"title" json:"title,omitempty"`
	Caption string   `yaml:"caption" json:"caption,omitempty"`
	Height  int      `yaml:"height" json:"height,omitempty" validate:"omitempty,min=150,max=3000"`
	X       Axis     `yaml:"x" json:"x"`
	Y       Axis     `yaml:"y" json:"y"`
	Series  []Series `yaml:"series" json:"series" validate:"required,min=1,dive"`
	Guides  []Guide  `yaml:"guides" json:"guides,omitempty" validate:"dive"`
	Dots    []Dot    `yaml:"dots" json:"dots,omitempty" validate:"dive"`
	Notes   []Note   `yaml:"notes" json:"notes,omitempty" validate:"dive"`
}

// Axis is a fixed numeric domain with explicit ticks.
type Axis struct {
	Label string    `yaml:"label" json:"label"`
	Min   float64   `yaml:"min" json:"min"`
	Max   float64   `yaml:"max" json:"max" validate:"gtfield=Min"`
	Ticks []float64 `yaml:"ticks" json:"ticks,omitempty"`
}

// Series is one plotted curve. The line is given either directly in P(Q)
// form or as a linear schedule converted with market.Schedule.Line.
type Series struct {
	Name      string       `yaml:"name" json:"name" validate:"required"`
	Line      *curve.Line  `yaml:"line" json:"line,omitempty"`
	Schedule  *ScheduleRef `yaml:"schedule" json:"schedule,omitempty"`
	PlotBound float64      `yaml:"plot_bound" json:"plot_bound" validate:"gt=0"`
	Variant   string       `yaml:"variant" json:"variant,omitempty" validate:"curvevariant"`
	Marker    *float64     `yaml:"marker" json:"marker,omitempty"`
	Keep      string       `yaml:"keep" json:"keep,omitempty" validate:"keep"`
	Color     string       `yaml:"color" json:"color,omitempty" validate:"omitempty,hexcolor"`
	Width     float64      `yaml:"width" json:"width,omitempty" validate:"omitempty,gt=0,lte=10"`
}

// ScheduleRef is a market schedule plus the side it sits on.
type ScheduleRef struct {
	Side            string `yaml:"side" json:"side" validate:"required,side"`
	market.Schedule `yaml:",inline"`
}

// Resolve returns the series line in P(Q) form.
func (s Series) Resolve() (curve.Line, error) {
	switch {
	case s.Line != nil && s.Schedule != nil:
		return curve.Line{}, fmt.Errorf("series %q: set either line or schedule, not both", s.Name)
	case s.Line != nil:
		return *s.Line, nil
	case s.Schedule != nil:
		side := market.Demand
		if s.Schedule.Side == "supply" {
			side = market.Supply
		}
		l, err := s.Schedule.Schedule.Line(side)
		if err != nil {
			return curve.Line{}, fmt.Errorf("series %q: %w", s.Name, err)
		}
		return l, nil
	default:
		return curve.Line{}, fmt.Errorf("series %q: line or schedule is required", s.Name)
	}
}

// Coord is a (quantity, price) position on a chart.
type Coord struct {
	Q float64 `yaml:"q" json:"q"`
	P float64 `yaml:"p" json:"p"`
}

// Guide is a reference line: vertical at X, horizontal at Y, or a segment.
type Guide struct {
	X     *float64  `yaml:"x" json:"x,omitempty"`
	Y     *float64  `yaml:"y" json:"y,omitempty"`
	From  *Coord    `yaml:"from" json:"from,omitempty"`
	To    *Coord    `yaml:"to" json:"to,omitempty"`
	Color string    `yaml:"color" json:"color,omitempty" validate:"omitempty,hexcolor"`
	Dash  []float64 `yaml:"dash" json:"dash,omitempty" validate:"dive,gt=0"`
	Width float64   `yaml:"width" json:"width,omitempty" validate:"omitempty,gt=0,lte=10"`
	Label string    `yaml:"label" json:"label,omitempty"`
}

// Ends returns the two end points of the guide; x and y guides span the axis.
func (g Guide) Ends(x, y Axis) (Coord, Coord, bool) {
	switch {
	case g.X != nil:
		return Coord{Q: *g.X, P: y.Min}, Coord{Q: *g.X, P: y.Max}, true
	case g.Y != nil:
		return Coord{Q: x.Min, P: *g.Y}, Coord{Q: x.Max, P: *g.Y}, true
	case g.From != nil && g.To != nil:
		return *g.From, *g.To, true
	}
	return Coord{}, Coord{}, false
}

// Dot is a reference point.
type Dot struct {
	Q      float64 `yaml:"q" json:"q"`
	P      float64 `yaml:"p" json:"p"`
	Radius float64 `yaml:"radius" json:"radius,omitempty" validate:"omitempty,gt=0,lte=20"`
	Color  string  `yaml:"color" json:"color,omitempty" validate:"omitempty,hexcolor"`
	Label  string  `yaml:"label" json:"label,omitempty"`
}

// Note is free text placed at a chart position.
type Note struct {
	Q     float64 `yaml:"q" json:"q"`
	P     float64 `yaml:"p" json:"p"`
	Text  string  `yaml:"text" json:"text" validate:"required"`
	Color string  `yaml:"color" json:"color,omitempty" validate:"omitempty,hexcolor"`
}
