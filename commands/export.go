package commands

import (
	"fmt"

	"github.com/penwyp/go-hours-report/internal/analyzer"
	"github.com/penwyp/go-hours-report/internal/presentation/formatter"
	"github.com/penwyp/go-hours-report/internal/util"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
)

const (
	totalsSheet = "Totals"
	incomeSheet = "Income"
)

var exportFile string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the report as an Excel workbook",
	Long: `Writes an .xlsx workbook with two sheets:

  Totals  hours per bucket and category (or per category with --group-by category)
  Income  hours and income per bucket, the most recent bucket in bold`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFile, "out", "hours_report.xlsx",
		"Workbook to write")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	a := analyzer.New(analyzerConfig(cfg, "table", false))
	result, err := a.Analyze(cmd.Context())
	if err != nil {
		return err
	}

	path := expandPath(exportFile)
	if err := writeWorkbook(result.Report, path); err != nil {
		return err
	}
	util.LogInfof("Workbook written to %s", path)
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func writeWorkbook(report *formatter.Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", totalsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(incomeSheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writeTotalsSheet(f, report, bold); err != nil {
		return fmt.Errorf("write %s sheet: %w", totalsSheet, err)
	}
	if err := writeIncomeSheet(f, report, bold); err != nil {
		return fmt.Errorf("write %s sheet: %w", incomeSheet, err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeTotalsSheet(f *excelize.File, report *formatter.Report, bold int) error {
	var rows [][]interface{}

	if report.GroupBy == formatter.GroupByCategory {
		rows = append(rows, []interface{}{"Category", "Hours", "Share %"})
		for _, s := range report.Shares {
			rows = append(rows, []interface{}{s.Category, s.Hours, s.Percent})
		}
		rows = append(rows, []interface{}{"Total", report.TotalHours, 100.0})
	} else {
		header := []interface{}{report.GroupBy}
		for _, c := range report.Categories {
			header = append(header, c)
		}
		rows = append(rows, append(header, "Total"))

		columnTotals := make([]float64, len(report.Categories))
		for i, bucket := range report.Buckets {
			row := []interface{}{bucket}
			var rowTotal float64
			for j, v := range report.Cells[i] {
				row = append(row, v)
				rowTotal += v
				columnTotals[j] += v
			}
			rows = append(rows, append(row, rowTotal))
		}

		footer := []interface{}{"Total"}
		for _, v := range columnTotals {
			footer = append(footer, v)
		}
		rows = append(rows, append(footer, report.TotalHours))
	}

	if err := setRows(f, totalsSheet, rows); err != nil {
		return err
	}
	return boldRow(f, totalsSheet, 1, len(rows[0]), bold)
}

func writeIncomeSheet(f *excelize.File, report *formatter.Report, bold int) error {
	label := report.GroupBy
	if label == "" {
		label = "bucket"
	}
	rows := [][]interface{}{{label, "Hours", "Income (" + report.Currency + ")"}}
	highlighted := -1
	for i, r := range report.Income {
		rows = append(rows, []interface{}{r.Bucket, r.Hours, r.Amount.InexactFloat64()})
		if r.Highlight {
			highlighted = i + 2
		}
	}
	rows = append(rows, []interface{}{"Total", report.TotalHours, report.IncomeTotal.InexactFloat64()})
	rows = append(rows, []interface{}{"Hourly rate", nil, report.HourlyRate})

	if err := setRows(f, incomeSheet, rows); err != nil {
		return err
	}
	if err := boldRow(f, incomeSheet, 1, 3, bold); err != nil {
		return err
	}
	if highlighted > 0 {
		return boldRow(f, incomeSheet, highlighted, 3, bold)
	}
	return nil
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func boldRow(f *excelize.File, sheet string, row, cols, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}
