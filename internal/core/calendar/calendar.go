// Package calendar derives month and weekday names from record dates and
// provides the canonical bucket orders used by aggregation.
package calendar

import (
	"time"

	"github.com/penwyp/go-hours-report/internal/core/model"
)

// DateLayout is the label format of the date bucket.
const DateLayout = "2006-01-02"

// Names holds the calendar labels of a single date.
type Names struct {
	MonthName   string
	MonthAbbrev string
	DayName     string
	DayAbbrev   string
}

// Enrich returns the English month and weekday names of date.
func Enrich(date time.Time) Names {
	month := date.Month().String()
	day := date.Weekday().String()
	return Names{
		MonthName:   month,
		MonthAbbrev: month[:3],
		DayName:     day,
		DayAbbrev:   day[:3],
	}
}

// EnrichAll attaches calendar names to every record.
func EnrichAll(records []model.Record) []model.EnrichedRecord {
	out := make([]model.EnrichedRecord, len(records))
	for i, r := range records {
		n := Enrich(r.Date)
		out[i] = model.EnrichedRecord{
			Record:      r,
			MonthName:   n.MonthName,
			MonthAbbrev: n.MonthAbbrev,
			DayName:     n.DayName,
			DayAbbrev:   n.DayAbbrev,
		}
	}
	return out
}

// Months returns January..December.
func Months() []string {
	out := make([]string, 0, 12)
	for m := time.January; m <= time.December; m++ {
		out = append(out, m.String())
	}
	return out
}

// Weekdays returns Monday..Sunday.
func Weekdays() []string {
	out := make([]string, 0, 7)
	for i := 1; i <= 7; i++ {
		out = append(out, time.Weekday(i%7).String())
	}
	return out
}

// Dates returns every day from first to last inclusive, formatted with
// DateLayout. It returns nil when last is before first.
func Dates(first, last time.Time) []string {
	first = truncateDay(first)
	last = truncateDay(last)
	var out []string
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(DateLayout))
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// BucketLabel returns the bucket record falls in for key.
func BucketLabel(r model.EnrichedRecord, key model.BucketKey) string {
	switch key {
	case model.BucketWeekday:
		return r.DayName
	case model.BucketDate:
		return r.Date.Format(DateLayout)
	default:
		return r.MonthName
	}
}

// PresentOrder filters canonical down to the labels in present while
// keeping the canonical order.
func PresentOrder(canonical []string, present map[string]bool) []string {
	out := make([]string, 0, len(present))
	for _, label := range canonical {
		if present[label] {
			out = append(out, label)
		}
	}
	return out
}
