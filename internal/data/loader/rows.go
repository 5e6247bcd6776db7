package loader

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/penwyp/go-hours-report/internal/core/model"
	"github.com/xuri/excelize/v2"
)

// Column aliases, matched case-insensitively after trimming.
var columnAliases = map[string]string{
	"date":        "date",
	"day":         "date",
	"task":        "task",
	"description": "task",
	"activity":    "task",
	"hours":       "hours",
	"duration":    "hours",
	"time":        "hours",
}

// DateLayouts are tried in order. Day-first is the primary format.
var DateLayouts = []string{
	"2/1/2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
}

type columns struct {
	date, task, hours int
}

func mapHeader(header []string) (columns, error) {
	cols := columns{date: -1, task: -1, hours: -1}
	for i, cell := range header {
		switch columnAliases[strings.ToLower(strings.TrimSpace(cell))] {
		case "date":
			if cols.date < 0 {
				cols.date = i
			}
		case "task":
			if cols.task < 0 {
				cols.task = i
			}
		case "hours":
			if cols.hours < 0 {
				cols.hours = i
			}
		}
	}

	var missing []string
	if cols.date < 0 {
		missing = append(missing, "date")
	}
	if cols.task < 0 {
		missing = append(missing, "task")
	}
	if cols.hours < 0 {
		missing = append(missing, "hours")
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: header is missing column(s) %s", model.ErrInvalidInput, strings.Join(missing, ", "))
	}
	return cols, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// parseRows converts a header plus data rows into records. Row numbers in
// errors are 1-based and count the header. allowSerial enables Excel
// serial day numbers in the date column.
func parseRows(source string, rows [][]string, allowSerial bool) ([]model.Record, error) {
	headerAt := -1
	for i, row := range rows {
		if !isBlank(row) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, nil
	}

	cols, err := mapHeader(rows[headerAt])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	records := make([]model.Record, 0, len(rows)-headerAt-1)
	for i := headerAt + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}

		rec, err := parseRow(row, cols, allowSerial)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", source, i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string, cols columns, allowSerial bool) (model.Record, error) {
	date, err := ParseDate(cell(row, cols.date), allowSerial)
	if err != nil {
		return model.Record{}, err
	}

	hours, err := ParseHours(cell(row, cols.hours))
	if err != nil {
		return model.Record{}, err
	}

	rec := model.Record{Date: date, Task: cell(row, cols.task), Hours: hours}
	if err := rec.Validate(); err != nil {
		return model.Record{}, err
	}
	return rec, nil
}

// ParseDate reads a calendar date and drops any time of day.
func ParseDate(value string, allowSerial bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: missing date", model.ErrInvalidInput)
	}

	if allowSerial {
		if serial, err := strconv.ParseFloat(value, 64); err == nil {
			t, err := excelize.ExcelDateToTime(serial, false)
			if err != nil {
				return time.Time{}, fmt.Errorf("%w: date serial %q: %v", model.ErrInvalidInput, value, err)
			}
			return midnight(t), nil
		}
	}

	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return midnight(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised date %q (expected DD/MM/YYYY or YYYY-MM-DD)", model.ErrInvalidInput, value)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseHours accepts a decimal point or a single decimal comma. A comma
// followed by exactly three digits ("1,000") reads as a thousands separator
// and is rejected as ambiguous.
func ParseHours(value string) (float64, error) {
	if value == "" {
		return 0, fmt.Errorf("%w: missing hours", model.ErrInvalidInput)
	}
	normalized := value
	if !strings.Contains(normalized, ".") && strings.Count(normalized, ",") == 1 {
		if isThousandsGroup(normalized[strings.Index(normalized, ",")+1:]) {
			return 0, fmt.Errorf("%w: hours %q is ambiguous (use a decimal point)", model.ErrInvalidInput, value)
		}
		normalized = strings.Replace(normalized, ",", ".", 1)
	}
	hours, err := strconv.ParseFloat(normalized, 64)
	if err != nil || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return 0, fmt.Errorf("%w: hours %q is not a number", model.ErrInvalidInput, value)
	}
	return hours, nil
}

func isThousandsGroup(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
