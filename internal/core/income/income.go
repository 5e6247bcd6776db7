// Package income turns aggregated hours into amounts owed at an hourly rate.
package income

import (
	"fmt"
	"math"

	"github.com/penwyp/go-hours-report/internal/core/model"
	"github.com/shopspring/decimal"
)

// Income returns hourlyRate * hours.
func Income(hourlyRate, hours float64) (float64, error) {
	if err := checkFactor("hourly rate", hourlyRate); err != nil {
		return 0, err
	}
	if err := checkFactor("hours", hours); err != nil {
		return 0, err
	}
	return hourlyRate * hours, nil
}

func checkFactor(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %s must be a non-negative number, got %g", model.ErrInvalidInput, name, v)
	}
	return nil
}

// Row is the income of a single time bucket.
type Row struct {
	Bucket    string          `json:"bucket"`
	Hours     float64         `json:"hours"`
	Amount    decimal.Decimal `json:"amount"`
	Highlight bool            `json:"highlight"`
}

// Table is the source of per-bucket hours, in canonical bucket order.
type Table interface {
	BucketLabels() []string
	BucketHours(i int) float64
}

// Rows computes one Row per bucket of table. Only the most recent bucket
// with hours is highlighted.
func Rows(table Table, hourlyRate float64) ([]Row, error) {
	if err := checkFactor("hourly rate", hourlyRate); err != nil {
		return nil, err
	}
	rate := decimal.NewFromFloat(hourlyRate)

	labels := table.BucketLabels()
	rows := make([]Row, len(labels))
	last := -1
	for i, label := range labels {
		hours := table.BucketHours(i)
		if err := checkFactor("hours", hours); err != nil {
			return nil, fmt.Errorf("bucket %s: %w", label, err)
		}
		rows[i] = Row{
			Bucket: label,
			Hours:  hours,
			Amount: rate.Mul(decimal.NewFromFloat(hours)).Round(2),
		}
		if hours > 0 {
			last = i
		}
	}
	if last >= 0 {
		rows[last].Highlight = true
	}
	return rows, nil
}

// Sum adds up the amounts of rows.
func Sum(rows []Row) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Amount)
	}
	return total
}
