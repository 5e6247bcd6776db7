package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-hours-report/internal/util"
)

type TableFormatter struct{}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

func (f *TableFormatter) Format(w io.Writer, r *Report) error {
	headers, rows, total := f.buildRows(r)
	widths := calculateColumnWidths(headers, append(rows, total))

	tw := &tableWriter{w: w}
	tw.printBorder(widths, "top")
	tw.printRow(headers, widths)
	tw.printBorder(widths, "middle")
	for _, row := range rows {
		tw.printRow(row, widths)
	}
	tw.printBorder(widths, "middle")
	tw.printRow(total, widths)
	tw.printBorder(widths, "bottom")

	return tw.err
}

// buildRows lays out a bucket x category matrix, or a category share table
// when the report has no time axis.
func (f *TableFormatter) buildRows(r *Report) (headers []string, rows [][]string, total []string) {
	if r.GroupBy == GroupByCategory {
		headers = []string{"Category", "Hours", "Share"}
		for _, s := range r.Shares {
			rows = append(rows, []string{s.Category, util.FormatHours(s.Hours), util.FormatPercent(s.Percent)})
		}
		total = []string{"Total", util.FormatHours(r.TotalHours), ""}
		if r.TotalHours > 0 {
			total[2] = util.FormatPercent(100)
		}
		return headers, rows, total
	}

	headers = append([]string{bucketHeader(r.GroupBy)}, r.Categories...)
	headers = append(headers, "Total")

	for i, bucket := range r.Buckets {
		row := []string{bucket}
		for _, v := range r.Cells[i] {
			row = append(row, util.FormatHours(v))
		}
		row = append(row, util.FormatHours(r.rowTotal(i)))
		rows = append(rows, row)
	}

	total = []string{"Total"}
	var grand float64
	for j := range r.Categories {
		var col float64
		for i := range r.Buckets {
			col += r.Cells[i][j]
		}
		grand += col
		total = append(total, util.FormatHours(col))
	}
	total = append(total, util.FormatHours(grand))
	return headers, rows, total
}

func bucketHeader(groupBy string) string {
	switch groupBy {
	case "weekday":
		return "Weekday"
	case "date":
		return "Date"
	default:
		return "Month"
	}
}

// calculateColumnWidths determines the display width of each column
func calculateColumnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = util.GetDisplayWidth(header)
	}
	for _, row := range rows {
		for i, value := range row {
			if w := util.GetDisplayWidth(value); i < len(widths) && w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// tableWriter remembers the first write error so the drawing code stays flat.
type tableWriter struct {
	w        io.Writer
	leftCols int
	err      error
}

func (t *tableWriter) print(s string) {
	if t.err == nil {
		_, t.err = io.WriteString(t.w, s)
	}
}

func (t *tableWriter) printBorder(widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	var b strings.Builder
	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	b.WriteString("\n")
	t.print(b.String())
}

// printRow left-aligns the label columns and right-aligns the numbers.
func (t *tableWriter) printRow(values []string, widths []int) {
	t.printStyledRow(values, widths, false)
}

func (t *tableWriter) printStyledRow(values []string, widths []int, emphasize bool) {
	var b strings.Builder
	b.WriteString("│")
	for i, value := range values {
		padded := util.PadString(value, widths[i], i < max(t.leftCols, 1))
		fmt.Fprintf(&b, " %s │", util.Emphasize(padded, emphasize))
	}
	b.WriteString("\n")
	t.print(b.String())
}
