// Package chart writes the report charts as standalone SVG documents.
package chart

import (
	"fmt"
	"html"
	"io"
	"strings"
)

// svg accumulates elements and remembers nothing else; callers write the
// finished document in one go.
type svg struct {
	b strings.Builder
}

func newSVG(width, height float64) *svg {
	s := &svg{}
	fmt.Fprintf(&s.b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s" font-family="sans-serif" font-size="12">`+"\n",
		num(width), num(height), num(width), num(height))
	return s
}

func (s *svg) rect(x, y, w, h float64, fill string) {
	fmt.Fprintf(&s.b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n", num(x), num(y), num(w), num(h), fill)
}

func (s *svg) line(x1, y1, x2, y2 float64, stroke string) {
	fmt.Fprintf(&s.b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n", num(x1), num(y1), num(x2), num(y2), stroke)
}

func (s *svg) path(d, fill string) {
	fmt.Fprintf(&s.b, `<path d="%s" fill="%s" stroke="white"/>`+"\n", d, fill)
}

func (s *svg) circle(cx, cy, r float64, fill string) {
	fmt.Fprintf(&s.b, `<circle cx="%s" cy="%s" r="%s" fill="%s" stroke="white"/>`+"\n", num(cx), num(cy), num(r), fill)
}

func (s *svg) text(x, y float64, anchor, content string, extra string) {
	if extra != "" {
		extra = " " + extra
	}
	fmt.Fprintf(&s.b, `<text x="%s" y="%s" text-anchor="%s"%s>%s</text>`+"\n", num(x), num(y), anchor, extra, html.EscapeString(content))
}

// legend draws one swatch per label, top to bottom.
func (s *svg) legend(x, y float64, labels []string, color func(int) string) {
	for i, label := range labels {
		rowY := y + float64(i)*18
		s.rect(x, rowY, 12, 12, color(i))
		s.text(x+18, rowY+10, "start", label, "")
	}
}

func (s *svg) writeTo(w io.Writer) error {
	s.b.WriteString("</svg>\n")
	_, err := io.WriteString(w, s.b.String())
	return err
}

// num prints coordinates with at most two decimals.
func num(v float64) string {
	out := fmt.Sprintf("%.2f", v)
	out = strings.TrimRight(out, "0")
	out = strings.TrimSuffix(out, ".")
	if out == "-0" {
		return "0"
	}
	return out
}
