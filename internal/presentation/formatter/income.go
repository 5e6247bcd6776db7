package formatter

import (
	"io"

	"github.com/penwyp/go-hours-report/internal/util"
)

// IncomeFormatter prints hours and earnings per bucket. The most recent
// bucket with hours is marked, and emphasized on terminals.
type IncomeFormatter struct {
	highlight bool
}

func NewIncomeFormatter(highlight bool) *IncomeFormatter {
	return &IncomeFormatter{highlight: highlight}
}

func (f *IncomeFormatter) Format(w io.Writer, r *Report) error {
	label := bucketHeader(r.GroupBy)
	if r.GroupBy == GroupByCategory {
		label = "Category"
	}
	headers := []string{"", label, "Hours", "Income"}

	rows := make([][]string, len(r.Income))
	for i, row := range r.Income {
		marker := ""
		if row.Highlight {
			marker = "▶"
		}
		amount, _ := row.Amount.Float64()
		rows[i] = []string{marker, row.Bucket, util.FormatHours(row.Hours), util.FormatCurrency(amount, r.Currency)}
	}

	total, _ := r.IncomeTotal.Float64()
	totalRow := []string{"", "Total", util.FormatHours(r.TotalHours), util.FormatCurrency(total, r.Currency)}
	widths := calculateColumnWidths(headers, append(rows, totalRow))

	tw := &tableWriter{w: w, leftCols: 2}
	tw.printBorder(widths, "top")
	tw.printRow(headers, widths)
	tw.printBorder(widths, "middle")
	for i, row := range rows {
		tw.printStyledRow(row, widths, f.highlight && r.Income[i].Highlight)
	}
	tw.printBorder(widths, "middle")
	tw.printRow(totalRow, widths)
	tw.printBorder(widths, "bottom")

	if tw.err == nil {
		tw.print("Hourly rate: " + util.FormatCurrency(r.HourlyRate, r.Currency) + "\n")
	}
	return tw.err
}
