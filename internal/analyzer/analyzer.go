package analyzer

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/penwyp/go-hours-report/internal/core/calendar"
	"github.com/penwyp/go-hours-report/internal/core/category"
	"github.com/penwyp/go-hours-report/internal/core/income"
	"github.com/penwyp/go-hours-report/internal/core/model"
	"github.com/penwyp/go-hours-report/internal/data/aggregator"
	"github.com/penwyp/go-hours-report/internal/data/cache"
	"github.com/penwyp/go-hours-report/internal/data/loader"
	"github.com/penwyp/go-hours-report/internal/data/scanner"
	"github.com/penwyp/go-hours-report/internal/metrics"
	"github.com/penwyp/go-hours-report/internal/presentation/formatter"
	"github.com/penwyp/go-hours-report/internal/presentation/style"
	"github.com/penwyp/go-hours-report/internal/util"
)

type Config struct {
	DataPaths    []string
	CacheDir     string
	NoCache      bool
	OutputFormat string
	GroupBy      string
	Duration     string
	HourlyRate   float64
	Currency     string
	Taxonomy     model.Taxonomy
	Palette      style.Palette
	Concurrency  int
	Highlight    bool
}

type Analyzer struct {
	config  *Config
	cache   cache.Cache
	scanner *scanner.FileScanner
	loader  *loader.Loader
	metrics *metrics.Recorder
	now     func() time.Time
}

func New(config *Config) *Analyzer {
	if config.Concurrency == 0 {
		config.Concurrency = runtime.NumCPU()
	}

	a := &Analyzer{
		config:  config,
		scanner: scanner.NewFileScanner(config.DataPaths...),
		now:     time.Now,
	}

	if !config.NoCache && config.CacheDir != "" {
		fileCache, err := cache.NewFileCache(config.CacheDir)
		if err != nil {
			util.LogWarnf("Record cache disabled: %v", err)
		} else {
			a.cache = fileCache
		}
	}
	a.loader = loader.New(config.Concurrency, a.cache)

	return a
}

// SetMetrics attaches a recorder; runs are not measured without one.
func (a *Analyzer) SetMetrics(r *metrics.Recorder) {
	a.metrics = r
}

// Load scans the data paths and returns every record, parsed or cached.
func (a *Analyzer) Load(ctx context.Context) ([]model.Record, error) {
	// Phase 1: Preload cache into memory
	preloadStart := time.Now()
	if a.cache != nil {
		if err := a.cache.Preload(); err != nil {
			util.LogWarn(fmt.Sprintf("Cache preload failed: %v", err))
		}
	}
	util.LogDebug(fmt.Sprintf("Phase 1 - Cache preload duration: %v", time.Since(preloadStart)))

	// Phase 2: Scan files
	scanStart := time.Now()
	files, err := a.scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to scan data paths: %w", err)
	}
	util.LogDebug(fmt.Sprintf("Phase 2 - File scan duration: %v, found %d files", time.Since(scanStart), len(files)))

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no .xlsx or .csv files found in %s", model.ErrNoData, strings.Join(a.config.DataPaths, ", "))
	}

	// Phase 3: Load files, concurrently and through the cache
	loadStart := time.Now()
	stats := NewCacheStats()
	byFile := make(map[string][]model.Record, len(files))
	var firstErr error

	for result := range a.loader.LoadFiles(ctx, files) {
		stats.IncrementTotal()

		if result.Error != nil {
			stats.IncrementFailure()
			util.LogWarn(fmt.Sprintf("Failed to load file %s: %v", result.File, result.Error))
			if firstErr == nil {
				firstErr = fmt.Errorf("load %s: %w", filepath.Base(result.File), result.Error)
			}
			continue
		}

		missReason := ""
		if result.FromCache {
			stats.IncrementHit()
		} else if a.cache != nil {
			stats.IncrementMiss(result.File, result.MissReason)
			missReason = result.MissReason.String()
		}
		a.metrics.FileLoaded(result.FromCache, missReason)
		byFile[result.File] = result.Records
	}
	stats.PrintFinalStats()

	if firstErr != nil {
		return nil, firstErr
	}

	var records []model.Record
	for _, f := range files {
		records = append(records, byFile[f]...)
	}
	util.LogDebug(fmt.Sprintf("Phase 3 - File loading duration: %v, total records: %d", time.Since(loadStart), len(records)))

	return a.filterByDuration(records)
}

// Analyze loads the work log and builds the report.
func (a *Analyzer) Analyze(ctx context.Context) (result *Result, err error) {
	start := time.Now()
	defer func() {
		a.metrics.ObserveRun(time.Since(start), err)
	}()

	records, err := a.Load(ctx)
	if err != nil {
		return nil, err
	}

	buildStart := time.Now()
	result, err = Build(records, a.config)
	if err != nil {
		return nil, err
	}
	util.LogDebug(fmt.Sprintf("Phase 4 - Report build duration: %v", time.Since(buildStart)))

	a.metrics.SetTotals(len(result.Records), result.Report.TotalHours, result.Report.Categories, result.CategoryHours)
	return result, nil
}

// Run analyzes and writes the configured output format to w.
func (a *Analyzer) Run(ctx context.Context, w io.Writer) error {
	startTime := time.Now()
	util.LogInfo("Starting working hours analysis...")

	result, err := a.Analyze(ctx)
	if err != nil {
		return err
	}

	outputStart := time.Now()
	f, err := formatter.New(a.config.OutputFormat, formatter.Options{Highlight: a.config.Highlight})
	if err != nil {
		return err
	}
	if err := f.Format(w, result.Report); err != nil {
		return fmt.Errorf("write %s output: %w", a.config.OutputFormat, err)
	}
	util.LogDebug(fmt.Sprintf("Phase 5 - Formatting and output duration: %v", time.Since(outputStart)))
	util.LogDebug(fmt.Sprintf("Total duration: %v", time.Since(startTime)))

	return nil
}

// Result is the outcome of one analysis.
type Result struct {
	Records       []model.CategorizedRecord
	Taxonomy      model.Taxonomy
	Totals        *aggregator.BucketedTotals
	Monthly       *aggregator.BucketedTotals
	CategoryHours []float64
	Report        *formatter.Report
}

// PieSlices returns the categories with hours and their percentages.
func (r *Result) PieSlices() (labels []string, percentages []float64) {
	for _, s := range r.Report.Shares {
		if s.Hours > 0 {
			labels = append(labels, s.Category)
			percentages = append(percentages, s.Percent)
		}
	}
	return labels, percentages
}

// Build runs the in-memory pipeline: enrich, categorize, aggregate and
// price. It fails with model.ErrNoData when records is empty.
func Build(records []model.Record, config *Config) (*Result, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: the work log has no records", model.ErrNoData)
	}

	taxonomy := config.Taxonomy.WithFallback()
	categorized := category.CategorizeAll(calendar.EnrichAll(records), config.Taxonomy)

	first, last, err := aggregator.ProjectPeriod(categorized)
	if err != nil {
		return nil, err
	}
	categoryHours, err := aggregator.CategoryTotals(categorized, taxonomy)
	if err != nil {
		return nil, err
	}
	totalHours := aggregator.TotalHours(categorized)

	monthly, err := aggregator.Aggregate(categorized, model.BucketMonth, taxonomy,
		aggregator.BucketOrder(categorized, model.BucketMonth))
	if err != nil {
		return nil, err
	}

	report := &formatter.Report{
		GroupBy:    config.GroupBy,
		Categories: []string(taxonomy),
		Period:     formatter.Period{First: first, Last: last},
		TotalHours: totalHours,
		HourlyRate: config.HourlyRate,
		Currency:   config.Currency,
	}
	for j, c := range taxonomy {
		share := formatter.Share{Category: c, Hours: categoryHours[j]}
		if totalHours > 0 {
			share.Percent = categoryHours[j] / totalHours * 100
		}
		report.Shares = append(report.Shares, share)
		report.Colors = append(report.Colors, config.Palette.Color(c))
	}

	result := &Result{
		Records:       categorized,
		Taxonomy:      taxonomy,
		Monthly:       monthly,
		CategoryHours: categoryHours,
		Report:        report,
	}

	var incomeSource income.Table
	if config.GroupBy == formatter.GroupByCategory {
		incomeSource = categoryTable{labels: taxonomy, hours: categoryHours}
	} else {
		key, err := model.ParseBucketKey(config.GroupBy)
		if err != nil {
			return nil, err
		}
		totals := monthly
		if key != model.BucketMonth {
			totals, err = aggregator.Aggregate(categorized, key, taxonomy, aggregator.BucketOrder(categorized, key))
			if err != nil {
				return nil, err
			}
		}
		result.Totals = totals
		report.Buckets = totals.Buckets
		report.Cells = totals.Cells
		incomeSource = totals
	}

	rows, err := income.Rows(incomeSource, config.HourlyRate)
	if err != nil {
		return nil, err
	}
	if config.GroupBy == formatter.GroupByCategory {
		// Categories have no "most recent" one.
		for i := range rows {
			rows[i].Highlight = false
		}
	}
	report.Income = rows
	report.IncomeTotal = income.Sum(rows)

	return result, nil
}

// categoryTable adapts per-category totals to income.Table.
type categoryTable struct {
	labels []string
	hours  []float64
}

func (t categoryTable) BucketLabels() []string    { return t.labels }
func (t categoryTable) BucketHours(i int) float64 { return t.hours[i] }

// ValidateDuration reports whether durationStr is a valid --duration value.
func ValidateDuration(durationStr string) error {
	_, err := parseDuration(durationStr, time.Now())
	return err
}

func (a *Analyzer) filterByDuration(records []model.Record) ([]model.Record, error) {
	if a.config.Duration == "" {
		return records, nil
	}

	fromTime, err := parseDuration(a.config.Duration, a.now())
	if err != nil {
		return nil, err
	}
	fromDay := time.Date(fromTime.Year(), fromTime.Month(), fromTime.Day(), 0, 0, 0, 0, time.UTC)

	var filtered []model.Record
	for _, r := range records {
		if !r.Date.Before(fromDay) {
			filtered = append(filtered, r)
		}
	}
	util.LogDebug(fmt.Sprintf("Duration filter %s: %d -> %d records", a.config.Duration, len(records), len(filtered)))

	return filtered, nil
}

// parseDuration turns "3m", "2w", "1y6m" into the start of that window
// counted back from now.
func parseDuration(durationStr string, now time.Time) (time.Time, error) {
	if durationStr == "" {
		return time.Time{}, nil
	}

	re := regexp.MustCompile(`(\d+)([ymwd])`)
	matches := re.FindAllStringSubmatch(durationStr, -1)

	if len(matches) == 0 || strings.Join(flatten(matches), "") != durationStr {
		return time.Time{}, fmt.Errorf("%w: invalid duration %q (e.g., 2w, 3m, 1y6m)", model.ErrInvalidInput, durationStr)
	}

	years, months, days := 0, 0, 0
	for _, match := range matches {
		value, err := strconv.Atoi(match[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: invalid number in duration: %s", model.ErrInvalidInput, match[1])
		}

		switch match[2] {
		case "d":
			days += value
		case "w":
			days += 7 * value
		case "m":
			months += value
		case "y":
			years += value
		}
	}

	return now.AddDate(-years, -months, -days), nil
}

func flatten(matches [][]string) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m[0]
	}
	return out
}
