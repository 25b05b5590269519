package content

import (
	"reflect"
	"testing"
)

func TestParseInline(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []Span
	}{
		{"plain", "plain text", []Span{{Kind: SpanText, Text: "plain text"}}},
		{"empty", "", nil},
		{
			"formula renders as code",
			"Demand: {formula|Qd = 2700 - 20P}",
			[]Span{
				{Kind: SpanText, Text: "Demand: "},
				{Kind: SpanCode, Class: "formula", Text: "Qd = 2700 - 20P"},
			},
		},
		{
			"styled span",
			"a {key-term|Surplus} exists",
			[]Span{
				{Kind: SpanText, Text: "a "},
				{Kind: SpanStyled, Class: "key-term", Text: "Surplus"},
				{Kind: SpanText, Text: " exists"},
			},
		},
		{
			"bold at start",
			"**Bold** rest",
			[]Span{{Kind: SpanBold, Text: "Bold"}, {Kind: SpanText, Text: " rest"}},
		},
		{
			"bold in parentheses",
			"(**x**)",
			[]Span{{Kind: SpanText, Text: "("}, {Kind: SpanBold, Text: "x"}, {Kind: SpanText, Text: ")"}},
		},
		{"double star after a letter stays literal", "P** = 107.5", []Span{{Kind: SpanText, Text: "P** = 107.5"}}},
		{"unclosed bold", "a **b", []Span{{Kind: SpanText, Text: "a **b"}}},
		{"bold followed by space", "a ** b**", []Span{{Kind: SpanText, Text: "a ** b**"}}},
		{"unknown class", "{shout|hey}", []Span{{Kind: SpanText, Text: "{shout|hey}"}}},
		{"unclosed class", "{formula|Qd", []Span{{Kind: SpanText, Text: "{formula|Qd"}}},
		{
			"markers inside a calculation",
			"{calculation|P** = 100}",
			[]Span{{Kind: SpanCode, Class: "calculation", Text: "P** = 100"}},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ParseInline(c.in)
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("ParseInline(%q) = %+v; want %+v", c.in, got, c.want)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	got := PlainText("**Demand:** {formula|Qd = 100 - 2P} per {emphasis|month}")
	want := "Demand: Qd = 100 - 2P per month"
	if got != want {
		t.Errorf("PlainText = %q; want %q", got, want)
	}
}

func TestUnknownClasses(t *testing.T) {
	got := UnknownClasses("{formula|ok} {shout|no} {whisper|no}")
	want := []string{"shout", "whisper"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UnknownClasses = %v; want %v", got, want)
	}
	if got := UnknownClasses("{concept|fine}"); got != nil {
		t.Errorf("UnknownClasses = %v; want nil", got)
	}
}
