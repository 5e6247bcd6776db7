package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/penwyp/go-hours-report/internal/analyzer"
	"github.com/penwyp/go-hours-report/internal/config"
	"github.com/penwyp/go-hours-report/internal/presentation/chart"
	"github.com/penwyp/go-hours-report/internal/util"
	"github.com/spf13/cobra"
)

var chartOutDir string

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Write the category pie and monthly bar charts as SVG",
	Long: `Writes two SVG files into the output directory:

  pie.svg   share of hours per category; small wedges are labelled outside
            the pie with a leader line
  bars.svg  hours per month, stacked by category`,
	RunE: runChart,
}

func init() {
	rootCmd.AddCommand(chartCmd)

	chartCmd.Flags().StringVar(&chartOutDir, "out-dir", "charts",
		"Directory the SVG files are written to")
}

func runChart(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	a := analyzer.New(analyzerConfig(cfg, "table", false))
	result, err := a.Analyze(cmd.Context())
	if err != nil {
		return err
	}

	written, err := writeCharts(result, cfg, expandPath(chartOutDir))
	if err != nil {
		return err
	}
	for _, path := range written {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}

// writeCharts renders both charts and returns the files written.
func writeCharts(result *analyzer.Result, cfg *config.Config, outDir string) ([]string, error) {
	if err := ensureDir(outDir); err != nil {
		return nil, fmt.Errorf("failed to create chart directory: %w", err)
	}

	labels, percentages := result.PieSlices()
	pieChart := chart.PieChart{
		Title:       "Hours by category",
		Labels:      labels,
		Percentages: percentages,
		Palette:     cfg.Palette(),
		Options:     cfg.Pie,
	}
	barChart := chart.BarChart{
		Title:      "Monthly working hours",
		YLabel:     "Hours",
		Buckets:    result.Monthly.Buckets,
		Categories: result.Monthly.Categories,
		Cells:      result.Monthly.Cells,
		Palette:    cfg.Palette(),
	}

	piePath := filepath.Join(outDir, "pie.svg")
	if err := writeFile(piePath, func(f *os.File) error { return chart.WritePie(f, pieChart) }); err != nil {
		return nil, err
	}
	barsPath := filepath.Join(outDir, "bars.svg")
	if err := writeFile(barsPath, func(f *os.File) error { return chart.WriteBars(f, barChart) }); err != nil {
		return nil, err
	}

	util.LogInfof("Charts written to %s", outDir)
	return []string{piePath, barsPath}, nil
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
