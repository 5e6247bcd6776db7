package formatter

import (
	"encoding/csv"
	"io"
	"strconv"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

// Format writes raw numbers without thousands separators so the output
// can be re-imported.
func (f *CSVFormatter) Format(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)

	if r.GroupBy == GroupByCategory {
		if err := cw.Write([]string{"category", "hours", "share"}); err != nil {
			return err
		}
		for _, s := range r.Shares {
			if err := cw.Write([]string{s.Category, formatFloat(s.Hours), formatFloat(s.Percent)}); err != nil {
				return err
			}
		}
	} else {
		headers := append([]string{r.GroupBy}, r.Categories...)
		headers = append(headers, "total")
		if err := cw.Write(headers); err != nil {
			return err
		}
		for i, bucket := range r.Buckets {
			record := []string{bucket}
			for _, v := range r.Cells[i] {
				record = append(record, formatFloat(v))
			}
			record = append(record, formatFloat(r.rowTotal(i)))
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
