package model

import (
	"fmt"
	"math"
	"time"
)

// Record is a single row of the work log as ingested.
type Record struct {
	Date  time.Time `json:"date"`
	Task  string    `json:"task"`
	Hours float64   `json:"hours"`
}

// Validate checks the per-record shape. Hours must be a non-negative number.
func (r Record) Validate() error {
	if math.IsNaN(r.Hours) || math.IsInf(r.Hours, 0) {
		return fmt.Errorf("%w: hours for %s is not a finite number", ErrInvalidInput, r.Date.Format("2006-01-02"))
	}
	if r.Hours < 0 {
		return fmt.Errorf("%w: negative hours (%g) for %s", ErrInvalidInput, r.Hours, r.Date.Format("2006-01-02"))
	}
	return nil
}

// EnrichedRecord carries the calendar names derived from Date.
type EnrichedRecord struct {
	Record
	MonthName   string `json:"monthName"`
	MonthAbbrev string `json:"monthAbbrev"`
	DayName     string `json:"dayName"`
	DayAbbrev   string `json:"dayAbbrev"`
}

// CategorizedRecord is an EnrichedRecord resolved against a Taxonomy.
type CategorizedRecord struct {
	EnrichedRecord
	Category string `json:"category"`
}

// BucketKey selects the time axis used for aggregation.
type BucketKey string

const (
	BucketMonth   BucketKey = "month"
	BucketWeekday BucketKey = "weekday"
	BucketDate    BucketKey = "date"
)

// ParseBucketKey converts user input into a BucketKey.
func ParseBucketKey(s string) (BucketKey, error) {
	switch BucketKey(s) {
	case BucketMonth, BucketWeekday, BucketDate:
		return BucketKey(s), nil
	default:
		return "", fmt.Errorf("%w: unknown bucket %q (month, weekday, date)", ErrInvalidInput, s)
	}
}
