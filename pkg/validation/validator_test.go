package validation

import (
	"strings"
	"testing"
)

type sample struct {
	ID      string  `validate:"required,slug"`
	Variant string  `validate:"alertvariant"`
	Curve   string  `validate:"curvevariant"`
	Keep    string  `validate:"keep"`
	Side    string  `validate:"omitempty,side"`
	Color   string  `validate:"omitempty,hexcolor"`
	Width   float64 `validate:"omitempty,gt=0,lte=10"`
	Inner   inner
}

type inner struct {
	Max float64 `validate:"gtfield=Min"`
	Min float64
}

func valid() sample {
	return sample{
		ID:      "equilibrium-1",
		Variant: "info",
		Curve:   "banded",
		Keep:    "price",
		Side:    "demand",
		Color:   "#2980b9",
		Width:   2.5,
		Inner:   inner{Min: 0, Max: 550},
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	if errs := ValidateStruct(valid()); errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}

	empty := valid()
	empty.Curve, empty.Keep, empty.Side, empty.Color = "", "", "", ""
	if errs := ValidateStruct(empty); errs != nil {
		t.Fatalf("optional fields rejected: %v", errs)
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*sample)
		field  string
		msg    string
	}{
		{"missing id", func(s *sample) { s.ID = "" }, "ID", "required"},
		{"upper id", func(s *sample) { s.ID = "Q1" }, "ID", "slug"},
		{"alert", func(s *sample) { s.Variant = "danger" }, "Variant", "info, success, warning"},
		{"curve", func(s *sample) { s.Curve = "smooth" }, "Curve", "banded or clipped"},
		{"keep", func(s *sample) { s.Keep = "both" }, "Keep", "price or quantity"},
		{"side", func(s *sample) { s.Side = "buyers" }, "Side", "demand or supply"},
		{"colour", func(s *sample) { s.Color = "grey" }, "Color", "hex colour"},
		{"width", func(s *sample) { s.Width = 20 }, "Width", "at most 10"},
		{"range", func(s *sample) { s.Inner.Max = -1 }, "Inner.Max", "greater than Min"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := valid()
			c.mutate(&s)
			errs := ValidateStruct(s)
			if len(errs) != 1 {
				t.Fatalf("got %d errors (%v); want 1", len(errs), errs)
			}
			if errs[0].Field != c.field {
				t.Errorf("Field = %q; want %q", errs[0].Field, c.field)
			}
			if !strings.Contains(errs[0].Message, c.msg) {
				t.Errorf("Message = %q; want it to mention %q", errs[0].Message, c.msg)
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "ID", Message: "ID is required"},
		{Field: "Color", Message: "Color must be a hex colour such as #2980b9"},
	}
	want := "ID: ID is required; Color: Color must be a hex colour such as #2980b9"
	if got := errs.Error(); got != want {
		t.Errorf("Error() = %q; want %q", got, want)
	}
	if got := (ValidationErrors{}).Error(); got != "" {
		t.Errorf("empty Error() = %q; want empty", got)
	}
}

func TestSanitizeString(t *testing.T) {
	got := SanitizeString("  Qd = 500 - 5P\x00\r\n  ")
	if got != "Qd = 500 - 5P" {
		t.Errorf("SanitizeString = %q", got)
	}
	if got := SanitizeString("a\tb\nc"); got != "a\tb\nc" {
		t.Errorf("SanitizeString dropped tab/newline: %q", got)
	}
}
