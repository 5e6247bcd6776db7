// Package render drives the external document compiler that turns the
// report template into a dated PDF.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/penwyp/go-hours-report/internal/util"
)

// ErrCompilerNotFound is returned when the compiler binary is not on PATH.
var ErrCompilerNotFound = errors.New("report compiler not found")

// Options describe one compilation.
type Options struct {
	Compiler     string
	InputFile    string
	OutputDir    string
	BaseFileName string
	HourlyRate   float64
	DataPath     string
	Date         time.Time
}

// Validate checks the options before anything is executed.
func (o Options) Validate() error {
	switch {
	case o.Compiler == "":
		return fmt.Errorf("compiler is required")
	case o.InputFile == "":
		return fmt.Errorf("input file is required")
	case o.OutputDir == "":
		return fmt.Errorf("output directory is required")
	case o.BaseFileName == "":
		return fmt.Errorf("base file name is required")
	case o.DataPath == "":
		return fmt.Errorf("data path is required")
	case o.HourlyRate < 0:
		return fmt.Errorf("hourly rate %g must not be negative", o.HourlyRate)
	}
	return nil
}

// OutputFileName is the dated PDF name, e.g. 20240105_working_hours_report.pdf.
func OutputFileName(base string, date time.Time) string {
	return date.Format("20060102") + "_" + base + ".pdf"
}

// Args builds the compiler argument list. Intermediate files are kept
// (--no-clean) so a failed render can be inspected.
func (o Options) Args() []string {
	date := o.Date
	if date.IsZero() {
		date = time.Now()
	}
	return []string{
		"render", o.InputFile,
		"-P", "hourly_rate:" + strconv.FormatFloat(o.HourlyRate, 'f', -1, 64),
		"-P", "data_path:" + o.DataPath,
		"--output-dir", o.OutputDir,
		"--output", OutputFileName(o.BaseFileName, date),
		"--no-clean",
	}
}

// Runner executes a command. It exists so tests can observe invocations.
type Runner interface {
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCompilerNotFound, name, err)
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// Renderer compiles reports with a Runner.
type Renderer struct {
	runner Runner
	stdout io.Writer
	stderr io.Writer
}

func NewRenderer(runner Runner, stdout, stderr io.Writer) *Renderer {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Renderer{runner: runner, stdout: stdout, stderr: stderr}
}

// Render creates the output directory, runs the compiler and returns the
// path of the PDF it was asked to produce.
func (r *Renderer) Render(ctx context.Context, opts Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", fmt.Errorf("invalid render options: %w", err)
	}
	if opts.Date.IsZero() {
		opts.Date = time.Now()
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	args := opts.Args()
	util.LogInfof("Rendering report: %s %v", opts.Compiler, args)

	start := time.Now()
	if err := r.runner.Run(ctx, opts.Compiler, args, r.stdout, r.stderr); err != nil {
		return "", fmt.Errorf("render %s: %w", opts.InputFile, err)
	}
	util.LogInfof("Report rendered in %v", time.Since(start))

	return filepath.Join(opts.OutputDir, OutputFileName(opts.BaseFileName, opts.Date)), nil
}
