// Package loader ingests work logs from spreadsheets and CSV exports.
package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/penwyp/go-hours-report/internal/core/model"
	"github.com/penwyp/go-hours-report/internal/data/cache"
	"github.com/penwyp/go-hours-report/internal/util"
	"github.com/xuri/excelize/v2"
)

// Loader reads input files concurrently, consulting an optional cache.
type Loader struct {
	concurrency int
	cache       cache.Cache
}

// LoadResult is the outcome for one file.
type LoadResult struct {
	File       string
	Records    []model.Record
	FromCache  bool
	MissReason cache.CacheMissReason
	Duration   time.Duration
	Error      error
}

// New creates a Loader. c may be nil to disable caching.
func New(concurrency int, c cache.Cache) *Loader {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Loader{concurrency: concurrency, cache: c}
}

// ReadFile parses a single file, choosing the reader by extension.
func ReadFile(path string) ([]model.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ReadXLSX(path)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadCSV(f, path)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q (use .xlsx or .csv)", model.ErrInvalidInput, path)
	}
}

// ReadCSV parses comma-separated rows. source names the input in errors.
func ReadCSV(r io.Reader, source string) ([]model.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return parseRows(source, rows, false)
}

// ReadXLSX parses the first sheet of a workbook. Raw cell values are used
// so date cells arrive as Excel serial numbers regardless of display format.
func ReadXLSX(path string) ([]model.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s has no sheets", model.ErrInvalidInput, path)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return parseRows(path, rows, true)
}

// LoadFile returns the records of path, from cache when still valid.
func (l *Loader) LoadFile(path string) (records []model.Record, fromCache bool, miss cache.CacheMissReason, err error) {
	if l.cache != nil {
		result := l.cache.Get(path)
		if result.Found {
			return result.Entry.Records, true, cache.MissReasonNone, nil
		}
		miss = result.MissReason
	}

	util.LogDebugf("Start parsing file: %s", path)
	records, err = ReadFile(path)
	if err != nil {
		return nil, false, miss, err
	}

	if l.cache != nil {
		if err := l.cache.Set(path, records); err != nil {
			util.LogWarnf("Failed to cache %s: %v", path, err)
		}
	}
	return records, false, miss, nil
}

// LoadFiles parses files concurrently and returns a channel of results.
// Files not yet started when ctx is cancelled report ctx.Err().
func (l *Loader) LoadFiles(ctx context.Context, files []string) <-chan LoadResult {
	start := time.Now()
	results := make(chan LoadResult, len(files))
	var wg sync.WaitGroup

	util.LogDebugf("Start concurrent loading of %d files, concurrency: %d", len(files), l.concurrency)

	semaphore := make(chan struct{}, l.concurrency)

	for _, file := range files {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()

			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				results <- LoadResult{File: f, Error: ctx.Err()}
				return
			}
			defer func() { <-semaphore }()

			fileStart := time.Now()
			records, fromCache, miss, err := l.LoadFile(f)
			duration := time.Since(fileStart)

			if err != nil {
				util.LogDebugf("File loading failed: %s, duration %v - %v", f, duration, err)
			}

			results <- LoadResult{
				File:       f,
				Records:    records,
				FromCache:  fromCache,
				MissReason: miss,
				Duration:   duration,
				Error:      err,
			}
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
		util.LogDebugf("Concurrent loading finished, total duration: %v", time.Since(start))
	}()

	return results
}

// LoadAll loads every file and concatenates the records in the order the
// files were given. The first error encountered fails the whole load.
func (l *Loader) LoadAll(ctx context.Context, files []string) ([]model.Record, error) {
	byFile := make(map[string][]model.Record, len(files))
	var firstErr error

	for result := range l.LoadFiles(ctx, files) {
		if result.Error != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("load %s: %w", result.File, result.Error)
			}
			continue
		}
		byFile[result.File] = result.Records
	}
	if firstErr != nil {
		return nil, firstErr
	}

	var records []model.Record
	for _, f := range files {
		records = append(records, byFile[f]...)
	}
	return records, nil
}
