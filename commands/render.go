package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/penwyp/go-hours-report/internal/application/render"
	"github.com/penwyp/go-hours-report/internal/config"
	"github.com/penwyp/go-hours-report/internal/util"
	"github.com/spf13/cobra"
)

var (
	renderInput     string
	renderOutputDir string
	renderName      string
	renderCompiler  string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Compile the PDF report with the external document compiler",
	Long: `Runs the report compiler (quarto by default) on the report template,
passing the hourly rate and the work log path as parameters:

  quarto render <template> -P hourly_rate:<rate> -P data_path:<file>
         --output-dir <dir> --output <yyyymmdd>_<name>.pdf --no-clean`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderInput, "input", "",
		"Report template (default from configuration)")
	renderCmd.Flags().StringVar(&renderOutputDir, "output-dir", "",
		"Directory for the PDF (default from configuration)")
	renderCmd.Flags().StringVar(&renderName, "name", "",
		"Base name of the PDF (default from configuration)")
	renderCmd.Flags().StringVar(&renderCompiler, "compiler", "",
		"Compiler executable (default from configuration)")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	opts := renderOptions(cfg, time.Now())
	renderer := render.NewRenderer(render.ExecRunner{}, cmd.OutOrStdout(), cmd.ErrOrStderr())
	pdf, err := renderer.Render(cmd.Context(), opts)
	if err != nil {
		if errors.Is(err, render.ErrCompilerNotFound) {
			return fmt.Errorf("%w: install %s or set report.compiler", err, opts.Compiler)
		}
		return err
	}

	if _, statErr := os.Stat(pdf); statErr != nil {
		util.LogWarnf("Compiler finished but %s was not found: %v", pdf, statErr)
	}
	fmt.Fprintln(cmd.OutOrStdout(), pdf)
	return nil
}

// renderOptions applies the render flags over the report configuration.
// The template reads a single work log, the first configured path.
func renderOptions(cfg *config.Config, date time.Time) render.Options {
	opts := render.Options{
		Compiler:     cfg.Report.Compiler,
		InputFile:    cfg.Report.InputFile,
		OutputDir:    cfg.Report.OutputDir,
		BaseFileName: cfg.Report.BaseFileName,
		HourlyRate:   cfg.HourlyRate,
		Date:         date,
	}
	if len(cfg.DataPaths) > 0 {
		opts.DataPath = cfg.DataPaths[0]
	}
	if renderInput != "" {
		opts.InputFile = renderInput
	}
	if renderOutputDir != "" {
		opts.OutputDir = renderOutputDir
	}
	if renderName != "" {
		opts.BaseFileName = renderName
	}
	if renderCompiler != "" {
		opts.Compiler = renderCompiler
	}
	return opts
}
