package aggregator

import (
	"fmt"
	"time"

	"github.com/penwyp/go-hours-report/internal/core/calendar"
	"github.com/penwyp/go-hours-report/internal/core/model"
)

// BucketedTotals is a dense (bucket, category) table of summed hours.
// Rows follow Buckets and columns follow Categories exactly; cells with no
// matching records hold an explicit zero.
type BucketedTotals struct {
	Key        model.BucketKey `json:"key"`
	Buckets    []string        `json:"buckets"`
	Categories []string        `json:"categories"`
	Cells      [][]float64     `json:"cells"`
}

// Aggregate groups records by (bucket, category) and sums their hours.
// Records whose bucket or category is absent from the orderings are not
// representable and are skipped.
func Aggregate(records []model.CategorizedRecord, key model.BucketKey, taxonomy model.Taxonomy, bucketOrder []string) (*BucketedTotals, error) {
	rowIndex, err := indexOf(bucketOrder, "bucket")
	if err != nil {
		return nil, err
	}
	colIndex, err := indexOf(taxonomy, "category")
	if err != nil {
		return nil, err
	}

	cells := make([][]float64, len(bucketOrder))
	for i := range cells {
		cells[i] = make([]float64, len(taxonomy))
	}

	for _, r := range records {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		row, ok := rowIndex[calendar.BucketLabel(r.EnrichedRecord, key)]
		if !ok {
			continue
		}
		col, ok := colIndex[r.Category]
		if !ok {
			continue
		}
		cells[row][col] += r.Hours
	}

	return &BucketedTotals{
		Key:        key,
		Buckets:    append([]string(nil), bucketOrder...),
		Categories: append([]string(nil), taxonomy...),
		Cells:      cells,
	}, nil
}

func indexOf(labels []string, axis string) (map[string]int, error) {
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		if _, dup := idx[l]; dup {
			return nil, fmt.Errorf("%w: duplicate %s label %q", model.ErrInvalidInput, axis, l)
		}
		idx[l] = i
	}
	return idx, nil
}

// Get returns the hours of one cell, zero for unknown labels.
func (t *BucketedTotals) Get(bucket, category string) float64 {
	for i, b := range t.Buckets {
		if b != bucket {
			continue
		}
		for j, c := range t.Categories {
			if c == category {
				return t.Cells[i][j]
			}
		}
	}
	return 0
}

// RowTotal sums bucket i over all categories.
func (t *BucketedTotals) RowTotal(i int) float64 {
	var sum float64
	for _, v := range t.Cells[i] {
		sum += v
	}
	return sum
}

// ColumnTotal sums category j over all buckets.
func (t *BucketedTotals) ColumnTotal(j int) float64 {
	var sum float64
	for _, row := range t.Cells {
		sum += row[j]
	}
	return sum
}

// Total sums every cell.
func (t *BucketedTotals) Total() float64 {
	var sum float64
	for i := range t.Cells {
		sum += t.RowTotal(i)
	}
	return sum
}

// LastActiveBucket returns the index of the last bucket, in canonical
// order, that has any hours.
func (t *BucketedTotals) LastActiveBucket() (int, bool) {
	for i := len(t.Buckets) - 1; i >= 0; i-- {
		if t.RowTotal(i) > 0 {
			return i, true
		}
	}
	return -1, false
}

// Shares returns each category's percentage of all hours, in category
// order. The percentages sum to 100 within floating-point tolerance.
func (t *BucketedTotals) Shares() ([]float64, error) {
	total := t.Total()
	if total <= 0 {
		return nil, fmt.Errorf("%w: no hours to share out", model.ErrNoData)
	}
	out := make([]float64, len(t.Categories))
	for j := range t.Categories {
		out[j] = t.ColumnTotal(j) / total * 100
	}
	return out, nil
}

// CategoryTotals sums hours per category in taxonomy order, ignoring time.
// Categories outside the taxonomy are skipped.
func CategoryTotals(records []model.CategorizedRecord, taxonomy model.Taxonomy) ([]float64, error) {
	col, err := indexOf(taxonomy, "category")
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(taxonomy))
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if j, ok := col[r.Category]; ok {
			out[j] += r.Hours
		}
	}
	return out, nil
}

// TotalHours is the unconditioned sum of hours over all records.
func TotalHours(records []model.CategorizedRecord) float64 {
	var sum float64
	for _, r := range records {
		sum += r.Hours
	}
	return sum
}

// ProjectPeriod returns the earliest and latest record dates.
func ProjectPeriod(records []model.CategorizedRecord) (time.Time, time.Time, error) {
	if len(records) == 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: project period of an empty work log", model.ErrNoData)
	}
	first, last := records[0].Date, records[0].Date
	for _, r := range records[1:] {
		if r.Date.Before(first) {
			first = r.Date
		}
		if r.Date.After(last) {
			last = r.Date
		}
	}
	return first, last, nil
}

// BucketOrder returns the canonical bucket order for key restricted to the
// buckets that occur in records. Date buckets are gap-filled across the
// project period.
func BucketOrder(records []model.CategorizedRecord, key model.BucketKey) []string {
	if key == model.BucketDate {
		first, last, err := ProjectPeriod(records)
		if err != nil {
			return nil
		}
		return calendar.Dates(first, last)
	}

	present := make(map[string]bool)
	for _, r := range records {
		present[calendar.BucketLabel(r.EnrichedRecord, key)] = true
	}
	if key == model.BucketWeekday {
		return calendar.PresentOrder(calendar.Weekdays(), present)
	}
	return calendar.PresentOrder(calendar.Months(), present)
}

// BucketLabels returns the row labels in canonical order.
func (t *BucketedTotals) BucketLabels() []string { return t.Buckets }

// BucketHours is RowTotal, exposed for income.Rows.
func (t *BucketedTotals) BucketHours(i int) float64 { return t.RowTotal(i) }
