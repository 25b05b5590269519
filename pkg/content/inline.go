package content

import (
	"regexp"
	"strings"
)

// SpanKind is the presentation of an inline run of text.
type SpanKind int

const (
	SpanText SpanKind = iota
	SpanBold
	SpanStyled // <span class=...>
	SpanCode   // <code class=...>
)

// Span is one run of inline text.
type Span struct {
	Kind  SpanKind
	Class string
	Text  string
}

// Classes are the styled-span classes documents may use. Formula and
// calculation render as code.
var Classes = map[string]SpanKind{
	"key-term":     SpanStyled,
	"important":    SpanStyled,
	"concept":      SpanStyled,
	"emphasis":     SpanStyled,
	"emphasis-neg": SpanStyled,
	"formula":      SpanCode,
	"calculation":  SpanCode,
}

var classRef = regexp.MustCompile(`\{([a-z][a-z-]*)\|`)

// ParseInline splits s into spans. Two forms are recognised:
//
//	{class|text}  styled text; class must be one of Classes
//	**text**      bold; the opening ** must start the string or follow a
//	              space or "(", so "P**" in prose stays literal
//
// Anything else, including unknown classes and unclosed markers, is text.
func ParseInline(s string) []Span {
	var (
		spans []Span
		buf   strings.Builder
	)
	flush := func() {
		if buf.Len() > 0 {
			spans = append(spans, Span{Kind: SpanText, Text: buf.String()})
			buf.Reset()
		}
	}

	for i := 0; i < len(s); {
		switch {
		case s[i] == '{':
			if class, text, n, ok := styledAt(s[i:]); ok {
				flush()
				spans = append(spans, Span{Kind: Classes[class], Class: class, Text: text})
				i += n
				continue
			}
		case strings.HasPrefix(s[i:], "**") && opensBold(s, i):
			if end := strings.Index(s[i+2:], "**"); end > 0 && s[i+2+end-1] != ' ' {
				flush()
				spans = append(spans, Span{Kind: SpanBold, Text: s[i+2 : i+2+end]})
				i += end + 4
				continue
			}
		}
		buf.WriteByte(s[i])
		i++
	}
	flush()
	return spans
}

// styledAt matches {class|text} at the start of s.
func styledAt(s string) (class, text string, n int, ok bool) {
	m := classRef.FindStringSubmatchIndex(s)
	if m == nil || m[0] != 0 {
		return "", "", 0, false
	}
	class = s[m[2]:m[3]]
	if _, known := Classes[class]; !known {
		return "", "", 0, false
	}
	rest := s[m[1]:]
	end := strings.IndexByte(rest, '}')
	if end < 0 {
		return "", "", 0, false
	}
	return class, rest[:end], m[1] + end + 1, true
}

func opensBold(s string, i int) bool {
	if i+2 >= len(s) || s[i+2] == ' ' {
		return false
	}
	return i == 0 || s[i-1] == ' ' || s[i-1] == '('
}

// PlainText strips markup, leaving the text a reader sees.
func PlainText(s string) string {
	var b strings.Builder
	for _, sp := range ParseInline(s) {
		b.WriteString(sp.Text)
	}
	return b.String()
}

// UnknownClasses returns the classes referenced with {class|...} syntax that
// are not in Classes.
func UnknownClasses(s string) []string {
	var out []string
	for _, m := range classRef.FindAllStringSubmatch(s, -1) {
		if _, ok := Classes[m[1]]; !ok {
			out = append(out, m[1])
		}
	}
	return out
}
