package formatter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/penwyp/go-hours-report/internal/core/income"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

// GroupByCategory is the group-by mode without a time axis.
const GroupByCategory = "category"

// Report is everything a formatter may render. Buckets is empty when the
// report is grouped by category only.
type Report struct {
	GroupBy     string          `json:"groupBy"`
	Buckets     []string        `json:"buckets"`
	Categories  []string        `json:"categories"`
	Cells       [][]float64     `json:"cells"`
	Period      Period          `json:"period"`
	TotalHours  float64         `json:"totalHours"`
	Shares      []Share         `json:"shares"`
	HourlyRate  float64         `json:"hourlyRate"`
	Currency    string          `json:"currency"`
	Income      []income.Row    `json:"income"`
	IncomeTotal decimal.Decimal `json:"incomeTotal"`
	Colors      []string        `json:"-"`
}

// Period is the first and last day with a record.
type Period struct {
	First time.Time `json:"first"`
	Last  time.Time `json:"last"`
}

func (p Period) String() string {
	if p.First.Equal(p.Last) {
		return p.First.Format("2006-01-02")
	}
	return fmt.Sprintf("%s to %s", p.First.Format("2006-01-02"), p.Last.Format("2006-01-02"))
}

// Share is one category's slice of the total.
type Share struct {
	Category string  `json:"category"`
	Hours    float64 `json:"hours"`
	Percent  float64 `json:"percent"`
}

func (r *Report) rowTotal(i int) float64 {
	var sum float64
	for _, v := range r.Cells[i] {
		sum += v
	}
	return sum
}

func (r *Report) color(j int) string {
	if j < len(r.Colors) {
		return r.Colors[j]
	}
	return ""
}

// Formatter renders a Report.
type Formatter interface {
	Format(w io.Writer, r *Report) error
}

// Options tune terminal-oriented formatters.
type Options struct {
	// Highlight enables ANSI emphasis of the most recent income bucket.
	Highlight bool
}

// New returns the formatter registered under name.
func New(name string, opts Options) (Formatter, error) {
	switch name {
	case "", "table":
		return NewTableFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	case "summary":
		return NewSummaryFormatter(), nil
	case "income":
		return NewIncomeFormatter(opts.Highlight), nil
	case "html":
		return NewHTMLFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (table, json, csv, summary, income, html)", name)
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
