package analyzer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/penwyp/go-hours-report/internal/core/model"
	"github.com/penwyp/go-hours-report/internal/metrics"
	"github.com/penwyp/go-hours-report/internal/presentation/style"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const workLog = `date,task,hours
05/01/2024,coaching session,2
20/01/2024,lecture prep,1
03/02/2024,exam review,3
04/02/2024,admin email,1
`

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testRecords() []model.Record {
	return []model.Record{
		{Date: day(2024, 1, 5), Task: "coaching session", Hours: 2},
		{Date: day(2024, 1, 20), Task: "lecture prep", Hours: 1},
		{Date: day(2024, 2, 3), Task: "exam review", Hours: 3},
		{Date: day(2024, 2, 4), Task: "admin email", Hours: 1},
	}
}

func testConfig(t *testing.T, groupBy string) *Config {
	t.Helper()
	taxonomy := model.DefaultTaxonomy()
	return &Config{
		CacheDir:     t.TempDir(),
		OutputFormat: "csv",
		GroupBy:      groupBy,
		HourlyRate:   50,
		Currency:     "€",
		Taxonomy:     taxonomy,
		Palette:      style.NewPalette(taxonomy.WithFallback(), []string{"#46dabf", "#00a9ff", "#9f7ae7", "#c0c0c0"}),
		Concurrency:  2,
	}
}

func writeWorkLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hours.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBuildMonthly(t *testing.T) {
	result, err := Build(testRecords(), testConfig(t, "month"))
	require.NoError(t, err)

	r := result.Report
	assert.Equal(t, []string{"January", "February"}, r.Buckets)
	assert.Equal(t, []string{"coaching", "lecture", "exam review", "other"}, r.Categories)
	assert.Equal(t, [][]float64{{2, 1, 0, 0}, {0, 0, 3, 1}}, r.Cells)
	assert.Equal(t, 7.0, r.TotalHours)
	assert.True(t, day(2024, 1, 5).Equal(r.Period.First))
	assert.True(t, day(2024, 2, 4).Equal(r.Period.Last))
	assert.Equal(t, []string{"#46dabf", "#00a9ff", "#9f7ae7", "#c0c0c0"}, r.Colors)

	require.Len(t, r.Income, 2)
	assert.True(t, r.Income[0].Amount.Equal(decimal.NewFromInt(150)))
	assert.False(t, r.Income[0].Highlight)
	assert.True(t, r.Income[1].Highlight)
	assert.True(t, r.IncomeTotal.Equal(decimal.NewFromInt(350)))

	var shareSum float64
	for _, s := range r.Shares {
		shareSum += s.Percent
	}
	assert.InDelta(t, 100, shareSum, 1e-9)
	assert.Equal(t, []float64{2, 1, 3, 1}, result.CategoryHours)
	assert.Same(t, result.Monthly, result.Totals)
}

func TestBuildWeekdayAndDate(t *testing.T) {
	weekday, err := Build(testRecords(), testConfig(t, "weekday"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Friday", "Saturday", "Sunday"}, weekday.Report.Buckets)
	assert.Equal(t, []float64{0, 1, 3, 0}, weekday.Report.Cells[1], "Saturday")
	assert.Equal(t, []string{"January", "February"}, weekday.Monthly.Buckets, "monthly totals are always built")

	byDate, err := Build(testRecords(), testConfig(t, "date"))
	require.NoError(t, err)
	assert.Len(t, byDate.Report.Buckets, 31, "gap-filled from 5 Jan to 4 Feb")
	last := byDate.Report.Income[len(byDate.Report.Income)-1]
	assert.Equal(t, "2024-02-04", last.Bucket)
	assert.True(t, last.Highlight)
}

func TestBuildByCategory(t *testing.T) {
	result, err := Build(testRecords(), testConfig(t, "category"))
	require.NoError(t, err)

	r := result.Report
	assert.Empty(t, r.Buckets)
	assert.Nil(t, result.Totals)
	require.Len(t, r.Income, 4)
	for _, row := range r.Income {
		assert.False(t, row.Highlight)
	}
	assert.Equal(t, "exam review", r.Income[2].Bucket)
	assert.True(t, r.Income[2].Amount.Equal(decimal.NewFromInt(150)))
	assert.True(t, r.IncomeTotal.Equal(decimal.NewFromInt(350)))
}

func TestBuildErrors(t *testing.T) {
	_, err := Build(nil, testConfig(t, "month"))
	assert.ErrorIs(t, err, model.ErrNoData)

	_, err = Build(testRecords(), testConfig(t, "hour"))
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	cfg := testConfig(t, "month")
	cfg.HourlyRate = -1
	_, err = Build(testRecords(), cfg)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestPieSlicesSkipsEmptyCategories(t *testing.T) {
	records := testRecords()[:2]
	result, err := Build(records, testConfig(t, "month"))
	require.NoError(t, err)

	labels, percentages := result.PieSlices()

	assert.Equal(t, []string{"coaching", "lecture"}, labels)
	assert.InDeltaSlice(t, []float64{200.0 / 3, 100.0 / 3}, percentages, 1e-9)
}

func TestAnalyzerRun(t *testing.T) {
	cfg := testConfig(t, "month")
	cfg.DataPaths = []string{writeWorkLog(t, workLog)}

	var buf bytes.Buffer
	require.NoError(t, New(cfg).Run(context.Background(), &buf))

	assert.Equal(t, "month,coaching,lecture,exam review,other,total\nJanuary,2,1,0,0,3\nFebruary,0,0,3,1,4\n", buf.String())
}

func TestAnalyzerRunUnknownFormat(t *testing.T) {
	cfg := testConfig(t, "month")
	cfg.DataPaths = []string{writeWorkLog(t, workLog)}
	cfg.OutputFormat = "pdf"

	err := New(cfg).Run(context.Background(), &bytes.Buffer{})

	assert.ErrorContains(t, err, "unknown output format")
}

func TestAnalyzerLoadUsesCache(t *testing.T) {
	cfg := testConfig(t, "month")
	cfg.DataPaths = []string{writeWorkLog(t, workLog)}
	recorder := metrics.New()

	first := New(cfg)
	first.SetMetrics(recorder)
	records, err := first.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 4)

	second := New(cfg)
	second.SetMetrics(recorder)
	cached, err := second.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, records, cached)

	families, err := recorder.Registry().Gather()
	require.NoError(t, err)
	var sources []string
	for _, f := range families {
		if f.GetName() == "hours_report_files_loaded_total" {
			for _, m := range f.GetMetric() {
				sources = append(sources, m.GetLabel()[0].GetValue())
			}
		}
	}
	assert.ElementsMatch(t, []string{"cache", "parse"}, sources)
}

func TestAnalyzerNoCache(t *testing.T) {
	cfg := testConfig(t, "month")
	cfg.DataPaths = []string{writeWorkLog(t, workLog)}
	cfg.NoCache = true

	a := New(cfg)

	assert.Nil(t, a.cache)
	records, err := a.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestAnalyzerLoadErrors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		cfg := testConfig(t, "month")
		cfg.DataPaths = []string{filepath.Join(t.TempDir(), "missing.csv")}
		_, err := New(cfg).Load(context.Background())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("empty directory", func(t *testing.T) {
		cfg := testConfig(t, "month")
		cfg.DataPaths = []string{t.TempDir()}
		_, err := New(cfg).Load(context.Background())
		assert.ErrorIs(t, err, model.ErrNoData)
	})

	t.Run("malformed row", func(t *testing.T) {
		cfg := testConfig(t, "month")
		cfg.DataPaths = []string{writeWorkLog(t, "date,task,hours\n05/01/2024,coaching,-2\n")}
		_, err := New(cfg).Load(context.Background())
		assert.ErrorIs(t, err, model.ErrInvalidInput)
		assert.ErrorContains(t, err, "hours.csv")
	})
}

func TestAnalyzerDurationFilter(t *testing.T) {
	cfg := testConfig(t, "month")
	cfg.DataPaths = []string{writeWorkLog(t, workLog)}
	cfg.Duration = "1w"

	a := New(cfg)
	a.now = func() time.Time { return time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC) }

	records, err := a.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "exam review", records[0].Task)
}

func TestAnalyzerInvalidDuration(t *testing.T) {
	cfg := testConfig(t, "month")
	cfg.DataPaths = []string{writeWorkLog(t, workLog)}
	cfg.Duration = "3x"

	records, err := New(cfg).Load(context.Background())

	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Nil(t, records)
	assert.ErrorIs(t, ValidateDuration("3x"), model.ErrInvalidInput)
	assert.NoError(t, ValidateDuration(""))
	assert.NoError(t, ValidateDuration("1y6m"))
}

func TestParseDuration(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		input    string
		expected time.Time
		wantErr  bool
	}{
		{"", time.Time{}, false},
		{"7d", day(2024, 6, 8), false},
		{"2w", day(2024, 6, 1), false},
		{"3m", day(2024, 3, 15), false},
		{"1y", day(2023, 6, 15), false},
		{"1y2m3d", day(2023, 4, 12), false},
		{"5x", time.Time{}, true},
		{"abc", time.Time{}, true},
		{"3m junk", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDuration(tt.input, now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "got %v", got)
		})
	}
}
