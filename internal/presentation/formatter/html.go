package formatter

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/penwyp/go-hours-report/internal/presentation/style"
	"github.com/penwyp/go-hours-report/internal/util"
)

// HTMLFormatter renders a self-contained HTML fragment with the hours
// table and the income table, for embedding in a report document.
type HTMLFormatter struct {
	header    style.TextStyle
	highlight style.TextStyle
}

func NewHTMLFormatter() *HTMLFormatter {
	return &HTMLFormatter{
		header:    style.TextStyle{Color: "white", Weight: style.WeightBold},
		highlight: style.TextStyle{Weight: style.WeightBold, Style: style.FontItalic},
	}
}

func (f *HTMLFormatter) Format(w io.Writer, r *Report) error {
	var b strings.Builder

	b.WriteString("<table class=\"hours\">\n<thead><tr>")
	if r.GroupBy == GroupByCategory {
		b.WriteString("<th>Category</th><th>Hours</th><th>Share</th></tr></thead>\n<tbody>\n")
		for j, s := range r.Shares {
			cell, err := f.categoryCell("td", s.Category, r.color(j))
			if err != nil {
				return err
			}
			fmt.Fprintf(&b, "<tr>%s<td>%s</td><td>%s</td></tr>\n",
				cell, util.FormatHours(s.Hours), util.FormatPercent(s.Percent))
		}
	} else {
		fmt.Fprintf(&b, "<th>%s</th>", bucketHeader(r.GroupBy))
		for j, c := range r.Categories {
			cell, err := f.categoryCell("th", c, r.color(j))
			if err != nil {
				return err
			}
			b.WriteString(cell)
		}
		b.WriteString("<th>Total</th></tr></thead>\n<tbody>\n")
		for i, bucket := range r.Buckets {
			fmt.Fprintf(&b, "<tr><td>%s</td>", html.EscapeString(bucket))
			for _, v := range r.Cells[i] {
				fmt.Fprintf(&b, "<td>%s</td>", util.FormatHours(v))
			}
			fmt.Fprintf(&b, "<td>%s</td></tr>\n", util.FormatHours(r.rowTotal(i)))
		}
	}
	b.WriteString("</tbody>\n</table>\n")

	b.WriteString("<table class=\"income\">\n<thead><tr><th>Period</th><th>Hours</th><th>Income</th></tr></thead>\n<tbody>\n")
	for _, row := range r.Income {
		amount, _ := row.Amount.Float64()
		text := util.FormatCurrency(amount, r.Currency)
		if row.Highlight {
			span, err := f.highlight.Span(text)
			if err != nil {
				return err
			}
			text = span
		} else {
			text = html.EscapeString(text)
		}
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(row.Bucket), util.FormatHours(row.Hours), text)
	}
	b.WriteString("</tbody>\n</table>\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// categoryCell renders a td or th filled with the category colour.
func (f *HTMLFormatter) categoryCell(tag, category, color string) (string, error) {
	span, err := f.header.Span(category)
	if err != nil {
		return "", err
	}
	if color == "" {
		return fmt.Sprintf("<%s>%s</%s>", tag, span, tag), nil
	}
	if err := style.ValidateColor(color); err != nil {
		return "", err
	}
	return fmt.Sprintf(`<%s style="background-color: %s">%s</%s>`, tag, color, span, tag), nil
}
