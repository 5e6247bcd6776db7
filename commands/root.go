package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/penwyp/go-hours-report/internal/analyzer"
	"github.com/penwyp/go-hours-report/internal/config"
	"github.com/penwyp/go-hours-report/internal/presentation/formatter"
	"github.com/penwyp/go-hours-report/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug bool

	// Input and configuration
	dataPaths  []string
	configFile string
	envFile    string

	// Output related
	outputFormat string

	// Filtering and grouping
	duration string
	groupBy  string
	reset    bool
	noCache  bool

	// Income related
	hourlyRate float64

	rootCmd = &cobra.Command{
		Use:   "go-hours-report [flags]",
		Short: "Working hours and income report tool",
		Long: `go-hours-report is a command-line tool for summarising a dated log of work.

It reads .xlsx or .csv work logs (date, task, hours), assigns every task to a
category of the taxonomy, totals hours per month, weekday or day and prices
them at the hourly rate.

Examples:
  go-hours-report -f hours.xlsx                         # Monthly table with income
  go-hours-report -f logs/ --group-by weekday           # Every log in a directory, by weekday
  go-hours-report -f hours.xlsx --group-by category     # Category shares
  go-hours-report -f hours.xlsx -o income --rate 45     # Income per month at 45/h
  go-hours-report -f hours.xlsx --duration 3m -o json   # Last three months as JSON
  go-hours-report -f hours.csv -o html > report.html    # HTML tables`,
		SilenceUsage: true,
		RunE:         runAnalyze,
	}
)

const (
	defaultLogFile  = "~/.go-hours-report/logs/app.log"
	defaultCacheDir = "~/.go-hours-report/cache"
)

func init() {
	// Input data configuration
	rootCmd.PersistentFlags().StringSliceVarP(&dataPaths, "file", "f", nil,
		"Work log file or directory (.xlsx, .csv); repeatable")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"YAML configuration file (default $HOURS_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env",
		"dotenv file read before the environment")

	// Time filtering
	rootCmd.PersistentFlags().StringVarP(&duration, "duration", "d", "",
		"Time span to look back (e.g., 2w, 3m, 1y6m)")

	// Data organization
	rootCmd.PersistentFlags().StringVar(&groupBy, "group-by", "",
		"Group by (month, weekday, date, category)")
	rootCmd.PersistentFlags().Float64Var(&hourlyRate, "rate", 0,
		"Hourly rate (overrides HOURLY_RATE)")

	// Output configuration
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json, csv, summary, income, html)")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().BoolVarP(&reset, "reset", "r", false,
		"Clear cache before analysis")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false,
		"Parse every file, bypassing the cache")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	a := analyzer.New(analyzerConfig(cfg, outputFormat, formatter.IsTerminal(out)))
	return a.Run(cmd.Context(), out)
}

// setup initialises logging, loads the configuration with the command line
// applied on top and prepares the cache directory.
func setup(cmd *cobra.Command) (*config.Config, error) {
	// Determine the initial log level based on debug flag
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	// Initialize logging
	logFile := expandPath(defaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.InitLogger(logLevel, logFile, debug); err != nil {
		return nil, fmt.Errorf("failed to initialise logging: %w", err)
	}

	cfg, err := loadConfig(cmd.Context(), cmd)
	if err != nil {
		return nil, err
	}
	// log_level from the configuration replaces the flag-based level.
	if cfg.LogLevel != logLevel {
		if err := util.InitLogger(cfg.LogLevel, logFile, debug); err != nil {
			return nil, fmt.Errorf("failed to initialise logging: %w", err)
		}
	}
	util.LogDebugf("Configuration: data=%s group_by=%s rate=%g categories=%v",
		strings.Join(cfg.DataPaths, ","), cfg.GroupBy, cfg.HourlyRate, cfg.Categories)

	if len(cfg.DataPaths) == 0 {
		return nil, fmt.Errorf("no work log given: use --file or data_paths in the configuration")
	}

	// Ensure cache directory exists
	if err := ensureDir(cfg.CacheDir); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Clear cache if needed
	if reset {
		if err := clearCache(cfg.CacheDir); err != nil {
			return nil, fmt.Errorf("failed to clear cache: %w", err)
		}
		util.LogInfo("Cache cleared")
	}

	return cfg, nil
}

// loadConfig layers the configuration sources and then the flags the user
// actually set.
func loadConfig(ctx context.Context, cmd *cobra.Command) (*config.Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var opts []config.Option
	if configFile != "" {
		opts = append(opts, config.WithFile(configFile))
	}
	opts = append(opts, config.WithEnvFile(envFile))

	cfg, err := config.Load(ctx, opts...)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.DataPaths = dataPaths
	}
	if flags.Changed("group-by") {
		cfg.GroupBy = groupBy
	}
	if flags.Changed("rate") {
		cfg.HourlyRate = hourlyRate
	}
	if debug {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := analyzer.ValidateDuration(duration); err != nil {
		return nil, err
	}

	for i, p := range cfg.DataPaths {
		cfg.DataPaths[i] = expandPath(p)
	}
	cfg.CacheDir = expandPath(cfg.CacheDir)

	return cfg, nil
}

func analyzerConfig(cfg *config.Config, format string, highlight bool) *analyzer.Config {
	return &analyzer.Config{
		DataPaths:    cfg.DataPaths,
		CacheDir:     cfg.CacheDir,
		NoCache:      noCache,
		OutputFormat: format,
		GroupBy:      cfg.GroupBy,
		Duration:     duration,
		HourlyRate:   cfg.HourlyRate,
		Currency:     cfg.Currency,
		Taxonomy:     cfg.Taxonomy(),
		Palette:      cfg.Palette(),
		Concurrency:  cfg.Concurrency,
		Highlight:    highlight,
	}
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func clearCache(cacheDir string) error {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			path := filepath.Join(cacheDir, entry.Name())
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}

	return nil
}
