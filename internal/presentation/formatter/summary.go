package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-hours-report/internal/util"
)

// SummaryFormatter is responsible for formatting and outputting summary reports.
type SummaryFormatter struct{}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

// Format prints the project period, the category breakdown and earnings.
func (f *SummaryFormatter) Format(w io.Writer, r *Report) error {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "Working Hours Summary Report")
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b)

	if r.TotalHours == 0 {
		fmt.Fprintln(&b, "No data to summarize")
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, rule)
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "Project Period: %s\n", r.Period)
	fmt.Fprintf(&b, "Total Hours: %s\n", util.FormatHours(r.TotalHours))
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Category Breakdown:")
	labelWidth := 0
	for _, s := range r.Shares {
		labelWidth = max(labelWidth, util.GetDisplayWidth(s.Category))
	}
	for _, s := range r.Shares {
		fmt.Fprintf(&b, "  %s  %8s h  %6s\n",
			util.PadString(s.Category, labelWidth, true), util.FormatHours(s.Hours), util.FormatPercent(s.Percent))
	}
	fmt.Fprintln(&b)

	total, _ := r.IncomeTotal.Float64()
	fmt.Fprintln(&b, "Income:")
	fmt.Fprintf(&b, "  Hourly Rate: %s\n", util.FormatCurrency(r.HourlyRate, r.Currency))
	fmt.Fprintf(&b, "  Total Income: %s\n", util.FormatCurrency(total, r.Currency))
	for _, row := range r.Income {
		if row.Highlight {
			amount, _ := row.Amount.Float64()
			fmt.Fprintf(&b, "  Most Recent (%s): %s\n", row.Bucket, util.FormatCurrency(amount, r.Currency))
		}
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, rule)

	_, err := io.WriteString(w, b.String())
	return err
}
