package style

import (
	"fmt"
	"html"
	"strings"
)

// Weight is a CSS font-weight keyword.
type Weight string

const (
	WeightNormal Weight = "normal"
	WeightBold   Weight = "bold"
)

// FontStyle is a CSS font-style keyword.
type FontStyle string

const (
	FontNormal FontStyle = "normal"
	FontItalic FontStyle = "italic"
)

// TextStyle describes how an HTML snippet is styled. Zero fields are omitted.
type TextStyle struct {
	Color  string
	SizePt float64
	Weight Weight
	Style  FontStyle
}

// Validate checks every set field.
func (s TextStyle) Validate() error {
	if s.Color != "" {
		if err := ValidateColor(s.Color); err != nil {
			return err
		}
	}
	if s.SizePt < 0 {
		return fmt.Errorf("font size %g must not be negative", s.SizePt)
	}
	switch s.Weight {
	case "", WeightNormal, WeightBold:
	default:
		return fmt.Errorf("unknown font weight %q", s.Weight)
	}
	switch s.Style {
	case "", FontNormal, FontItalic:
	default:
		return fmt.Errorf("unknown font style %q", s.Style)
	}
	return nil
}

// CSS renders the declarations in a fixed order.
func (s TextStyle) CSS() string {
	var decls []string
	if s.Color != "" {
		decls = append(decls, "color: "+s.Color)
	}
	if s.SizePt > 0 {
		decls = append(decls, fmt.Sprintf("font-size: %gpt", s.SizePt))
	}
	if s.Weight != "" {
		decls = append(decls, "font-weight: "+string(s.Weight))
	}
	if s.Style != "" {
		decls = append(decls, "font-style: "+string(s.Style))
	}
	return strings.Join(decls, "; ")
}

// Span wraps escaped text in a styled <span>.
func (s TextStyle) Span(text string) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	css := s.CSS()
	if css == "" {
		return "<span>" + html.EscapeString(text) + "</span>", nil
	}
	return fmt.Sprintf(`<span style="%s">%s</span>`, css, html.EscapeString(text)), nil
}
