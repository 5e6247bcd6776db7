// Package config defines the tool configuration and how it is loaded.
//
// Precedence (low -> high): defaults, YAML file, .env file, environment
// variables with the HOURS_ prefix. Command-line flags are applied on top by
// the commands package.
package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/penwyp/go-hours-report/internal/core/model"
	"github.com/penwyp/go-hours-report/internal/core/pie"
	"github.com/penwyp/go-hours-report/internal/presentation/style"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DataPaths lists work log files (.xlsx or .csv) or directories holding them.
	DataPaths []string `koanf:"data_paths"`

	// HourlyRate is the amount paid per hour worked.
	HourlyRate float64 `koanf:"hourly_rate"`

	// Currency is the symbol printed before amounts.
	Currency string `koanf:"currency"`

	// Categories is the ordered taxonomy.
	Categories []string `koanf:"categories"`

	// Colors are bound to categories by index and reused cyclically.
	Colors []string `koanf:"colors"`

	// GroupBy selects the report axis: month, weekday, date or category.
	GroupBy string `koanf:"group_by"`

	// Pie holds the annotated pie chart layout parameters.
	Pie pie.Options `koanf:"pie"`

	// CacheDir stores parsed work logs between runs.
	CacheDir string `koanf:"cache_dir"`

	// Concurrency bounds how many input files are parsed at once.
	Concurrency int `koanf:"concurrency"`

	// Report configures the external report compiler.
	Report ReportConfig `koanf:"report"`
}

// ReportConfig configures the `render` command.
type ReportConfig struct {
	Compiler     string `koanf:"compiler"`
	InputFile    string `koanf:"input_file"`
	OutputDir    string `koanf:"output_dir"`
	BaseFileName string `koanf:"base_file_name"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		Currency:    "€",
		Categories:  []string(model.DefaultTaxonomy()),
		Colors:      []string{"#46dabf", "#00a9ff", "#9f7ae7", "#c0c0c0"},
		GroupBy:     "month",
		Pie:         pie.DefaultOptions(),
		CacheDir:    "~/.go-hours-report/cache",
		Concurrency: runtime.NumCPU(),
		Report: ReportConfig{
			Compiler:     "quarto",
			InputFile:    "working_hours_report.qmd",
			OutputDir:    "reports",
			BaseFileName: "working_hours_report",
		},
	}
}

// Taxonomy returns the configured categories.
func (c *Config) Taxonomy() model.Taxonomy {
	return model.Taxonomy(c.Categories)
}

// Palette binds the configured colours to the taxonomy plus fallback.
func (c *Config) Palette() style.Palette {
	return style.NewPalette(c.Taxonomy().WithFallback(), c.Colors)
}

var validGroupBy = []string{"month", "weekday", "date", "category"}

// Validate reports every problem found, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	var problems []string

	if err := c.Taxonomy().Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if c.HourlyRate < 0 {
		problems = append(problems, fmt.Sprintf("hourly rate %g must not be negative", c.HourlyRate))
	}
	if len(c.Colors) == 0 {
		problems = append(problems, "at least one colour is required")
	}
	for _, color := range c.Colors {
		if err := style.ValidateColor(color); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if !contains(validGroupBy, c.GroupBy) {
		problems = append(problems, fmt.Sprintf("invalid group_by %q: must be one of %v", c.GroupBy, validGroupBy))
	}
	if c.Pie.TextRadius <= 0 || c.Pie.LeaderStartRadius <= 0 {
		problems = append(problems, "pie radii must be positive")
	}
	if c.Pie.TextRadius < c.Pie.LeaderStartRadius {
		problems = append(problems, "pie text_radius must not be inside leader_start_radius")
	}
	if c.Concurrency < 1 {
		problems = append(problems, fmt.Sprintf("concurrency %d must be at least 1", c.Concurrency))
	}
	for _, p := range c.DataPaths {
		switch strings.ToLower(filepath.Ext(p)) {
		case ".xlsx", ".csv", "":
		default:
			problems = append(problems, fmt.Sprintf("unsupported data file %q: use .xlsx or .csv", p))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
