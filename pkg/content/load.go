package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"

	"github.com/alim08/econ_notes/pkg/logger"
	"github.com/alim08/econ_notes/pkg/metrics"
	"github.com/alim08/econ_notes/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

var ErrNoDocuments = errors.New("no documents found")

// Set is the ordered list of documents making up the page.
type Set []Document

// Document returns the document with the given id.
func (s Set) Document(id string) (Document, bool) {
	for _, d := range s {
		if d.ID == id {
			return d, true
		}
	}
	return Document{}, false
}

// Chart returns the chart with the given id from any document.
func (s Set) Chart(id string) (Chart, bool) {
	for _, d := range s {
		for _, c := range d.Charts {
			if c.ID == id {
				return c, true
			}
		}
	}
	return Chart{}, false
}

// ChartIDs lists every chart id in page order.
func (s Set) ChartIDs() []string {
	var ids []string
	for _, d := range s {
		for _, c := range d.Charts {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Load returns the built-in documents: the lecture, then the tutorial.
func Load() (Set, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// LoadDir reads every *.yaml file in dir, in file name order.
func LoadDir(dir string) (Set, error) {
	return LoadFS(os.DirFS(dir))
}

// LoadFS reads every *.yaml file at the root of fsys, in file name order,
// and checks the result as a whole.
func LoadFS(fsys fs.FS) (Set, error) {
	names, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, ErrNoDocuments
	}

	var set Set
	for _, name := range names {
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		doc, err := Decode(bytes.NewReader(b))
		if err != nil {
			metrics.ContentLoadErrors.Inc()
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		logger.Log.Debug("document loaded",
			zap.String("file", name),
			zap.String("id", doc.ID),
			zap.Int("sections", len(doc.Sections)),
			zap.Int("charts", len(doc.Charts)))
		set = append(set, doc)
	}

	if errs := checkSet(set); len(errs) > 0 {
		metrics.ContentLoadErrors.Inc()
		return nil, errs
	}
	metrics.ContentDocuments.Set(float64(len(set)))
	return set, nil
}

// Decode reads one document, rejecting unknown fields, and validates it.
func Decode(r io.Reader) (Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	normalize(&doc)

	if errs := validation.ValidateStruct(doc); len(errs) > 0 {
		return Document{}, errs
	}
	if errs := checkDocument(doc); len(errs) > 0 {
		return Document{}, errs
	}
	return doc, nil
}

// normalize fills heading levels: top-level sections default to 2, nested
// ones to one below their parent.
func normalize(doc *Document) {
	var walk func(sections []Section, level int)
	walk = func(sections []Section, level int) {
		for i := range sections {
			if sections[i].Level == 0 {
				sections[i].Level = level
			}
			next := sections[i].Level + 1
			if next > 4 {
				next = 4
			}
			walk(sections[i].Sections, next)
		}
	}
	walk(doc.Sections, 2)

	doc.Title = validation.SanitizeString(doc.Title)
	doc.Kicker = validation.SanitizeString(doc.Kicker)
}

// checkDocument covers the rules struct tags cannot express.
func checkDocument(doc Document) validation.ValidationErrors {
	var errs validation.ValidationErrors
	add := func(field, format string, args ...interface{}) {
		errs = append(errs, validation.ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	charts := make(map[string]bool, len(doc.Charts))
	for i, c := range doc.Charts {
		field := fmt.Sprintf("Charts[%d]", i)
		if charts[c.ID] {
			add(field+".ID", "duplicate chart id %q", c.ID)
		}
		charts[c.ID] = true
		for j, s := range c.Series {
			if _, err := s.Resolve(); err != nil {
				add(fmt.Sprintf("%s.Series[%d]", field, j), "%v", err)
			}
		}
		for j, g := range c.Guides {
			if !exactlyOneGuideForm(g) {
				add(fmt.Sprintf("%s.Guides[%d]", field, j), "set exactly one of x, y or from/to")
			}
		}
	}

	used := make(map[string]bool)
	walkText := func(field, s string) {
		for _, class := range UnknownClasses(s) {
			add(field, "unknown inline class %q", class)
		}
	}
	var walkItems func(field string, items []Item)
	walkItems = func(field string, items []Item) {
		for i, it := range items {
			f := fmt.Sprintf("%s[%d]", field, i)
			if it.Text == "" {
				add(f, "list item text is required")
			}
			walkText(f, it.Text)
			walkItems(f+".Children", it.Children)
		}
	}
	var walkSections func(field string, sections []Section)
	walkSections = func(field string, sections []Section) {
		for i, sec := range sections {
			sf := fmt.Sprintf("%s[%d]", field, i)
			walkText(sf+".Heading", sec.Heading)
			for j, b := range sec.Blocks {
				bf := fmt.Sprintf("%s.Blocks[%d]", sf, j)
				kinds := b.Kinds()
				if len(kinds) != 1 {
					add(bf, "block must have exactly one kind, has %v", kinds)
					continue
				}
				switch kinds[0] {
				case KindParagraph:
					walkText(bf, b.Paragraph)
				case KindList:
					walkItems(bf+".List", b.List)
				case KindOrdered:
					walkItems(bf+".Ordered", b.Ordered)
				case KindDefinition:
					for k, d := range b.Definition {
						walkText(fmt.Sprintf("%s.Definition[%d]", bf, k), d)
					}
				case KindInterpretation:
					walkText(bf, b.Interpretation.Text)
					walkItems(bf+".Steps", b.Interpretation.Steps)
					walkText(bf, b.Interpretation.Outro)
				case KindAlert:
					walkText(bf, b.Alert.Text)
				case KindTable:
					for r, row := range b.Table.Rows {
						if len(row) != len(b.Table.Header) {
							add(fmt.Sprintf("%s.Rows[%d]", bf, r), "row has %d cells, header has %d", len(row), len(b.Table.Header))
						}
						for _, cell := range row {
							walkText(bf, cell)
						}
					}
				case KindChart:
					if !charts[b.Chart] {
						add(bf, "chart %q is not defined in this document", b.Chart)
					}
					used[b.Chart] = true
				case KindSolution:
					if _, err := b.Solution.Evaluate(); err != nil {
						add(bf, "%v", err)
					}
				}
			}
			walkSections(sf+".Sections", sec.Sections)
		}
	}
	walkSections("Sections", doc.Sections)

	for i, c := range doc.Charts {
		if !used[c.ID] {
			add(fmt.Sprintf("Charts[%d]", i), "chart %q is never placed", c.ID)
		}
	}
	return errs
}

func exactlyOneGuideForm(g Guide) bool {
	n := 0
	if g.X != nil {
		n++
	}
	if g.Y != nil {
		n++
	}
	if g.From != nil || g.To != nil {
		if g.From == nil || g.To == nil {
			return false
		}
		n++
	}
	return n == 1
}

// checkSet enforces ids unique across documents; charts are served by id.
func checkSet(set Set) validation.ValidationErrors {
	var errs validation.ValidationErrors
	docs := make(map[string]bool)
	charts := make(map[string]string)
	for _, d := range set {
		if docs[d.ID] {
			errs = append(errs, validation.ValidationError{Field: "ID", Message: fmt.Sprintf("duplicate document id %q", d.ID), Value: d.ID})
		}
		docs[d.ID] = true
		for _, c := range d.Charts {
			if owner, ok := charts[c.ID]; ok {
				errs = append(errs, validation.ValidationError{Field: "Charts.ID", Message: fmt.Sprintf("chart id %q used by %s and %s", c.ID, owner, d.ID), Value: c.ID})
			}
			charts[c.ID] = d.ID
		}
	}
	return errs
}
