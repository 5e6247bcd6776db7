package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/penwyp/go-hours-report/internal/config"
	"github.com/penwyp/go-hours-report/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testWorkLog = `date,task,hours
05/01/2024,coaching session,2
20/01/2024,lecture prep,1
03/02/2024,exam review,3
04/02/2024,admin email,1
`

func TestExpandPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected func(string) string
	}{
		{
			name:  "home directory expansion",
			input: "~/test/path",
			expected: func(home string) string {
				return filepath.Join(home, "test/path")
			},
		},
		{
			name:  "absolute path unchanged",
			input: "/absolute/path",
			expected: func(home string) string {
				return "/absolute/path"
			},
		},
		{
			name:  "relative path converted to absolute",
			input: "relative/path",
			expected: func(home string) string {
				abs, _ := filepath.Abs("relative/path")
				return abs
			},
		},
	}

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			expected := tt.expected(home)
			assert.Equal(t, expected, result)
		})
	}
}

func TestEnsureDir(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test", "nested", "dir")

	err := ensureDir(testDir)
	assert.NoError(t, err)

	info, err := os.Stat(testDir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent
	err = ensureDir(testDir)
	assert.NoError(t, err)
}

func TestClearCache(t *testing.T) {
	tempDir := t.TempDir()

	jsonFile1 := filepath.Join(tempDir, "hours.xlsx-1a2b.json")
	jsonFile2 := filepath.Join(tempDir, "march.csv-3c4d.json")
	otherFile := filepath.Join(tempDir, "notes.txt")

	require.NoError(t, os.WriteFile(jsonFile1, []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(jsonFile2, []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(otherFile, []byte("data"), 0644))

	err := clearCache(tempDir)
	assert.NoError(t, err)

	// Only JSON files are removed
	_, err = os.Stat(jsonFile1)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(jsonFile2)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(otherFile)
	assert.NoError(t, err)
}

func TestClearCacheNonExistent(t *testing.T) {
	err := clearCache(filepath.Join(t.TempDir(), "nonexistent"))
	assert.NoError(t, err)
}

func TestRootCommandFlags(t *testing.T) {
	tests := []struct {
		flag         string
		defaultValue string
		shorthand    string
	}{
		{"file", "[]", "f"},
		{"config", "", ""},
		{"duration", "", "d"},
		{"group-by", "", ""},
		{"rate", "0", ""},
		{"output", "table", "o"},
		{"reset", "false", "r"},
		{"no-cache", "false", ""},
		{"debug", "false", ""},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := rootCmd.Flags().Lookup(tt.flag)
			if flag == nil {
				flag = rootCmd.PersistentFlags().Lookup(tt.flag)
			}
			require.NotNil(t, flag)
			assert.Equal(t, tt.defaultValue, flag.DefValue)
			if tt.shorthand != "" {
				assert.Equal(t, tt.shorthand, flag.Shorthand)
			}
		})
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"chart", "export", "audit", "watch", "render"} {
		assert.True(t, names[name], "missing subcommand %s", name)
	}
}

// execute runs the CLI in an isolated home directory. Flags keep their
// values between runs, so every run passes the ones the tests vary.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeIn(t, t.TempDir(), args...)
}

// executeIn runs the CLI with home as the home directory. The common flags
// come before args so a test can override them.
func executeIn(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	t.Setenv("HOURS_CONFIG", "")

	logPath := filepath.Join(t.TempDir(), "hours.csv")
	require.NoError(t, os.WriteFile(logPath, []byte(testWorkLog), 0644))

	// Slice flags append once set; start each run from an empty list.
	if sv, ok := rootCmd.PersistentFlags().Lookup("file").Value.(interface{ Replace([]string) error }); ok {
		require.NoError(t, sv.Replace(nil))
	}

	var cmdArgs []string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmdArgs = append(cmdArgs, args[0])
		args = args[1:]
	}
	cmdArgs = append(cmdArgs, "-f", logPath, "--env-file", "", "--rate", "50", "--duration", "", "--no-cache")
	cmdArgs = append(cmdArgs, args...)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(cmdArgs)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestExecuteReport(t *testing.T) {
	out, err := execute(t, "-o", "csv", "--group-by", "month")

	require.NoError(t, err)
	assert.Equal(t, "month,coaching,lecture,exam review,other,total\nJanuary,2,1,0,0,3\nFebruary,0,0,3,1,4\n", out)
}

func TestExecuteReportInvalidGroupBy(t *testing.T) {
	_, err := execute(t, "-o", "csv", "--group-by", "hour")

	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestExecuteReportInvalidDuration(t *testing.T) {
	out, err := execute(t, "-o", "csv", "--group-by", "month", "--duration", "3x")

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.NotContains(t, out, "January,")
}

func TestExecuteReportDuration(t *testing.T) {
	// The log ends on 2024-02-04, far more than a year ago.
	_, err := execute(t, "-o", "csv", "--group-by", "month", "--duration", "1y")

	assert.ErrorIs(t, err, model.ErrNoData)
}

func TestExecuteLogLevelFromConfig(t *testing.T) {
	logFile := func(home string) string {
		data, err := os.ReadFile(filepath.Join(home, ".go-hours-report", "logs", "app.log"))
		require.NoError(t, err)
		return string(data)
	}

	infoHome := t.TempDir()
	t.Setenv("HOURS_LOG_LEVEL", "info")
	_, err := executeIn(t, infoHome, "-o", "csv", "--group-by", "month")
	require.NoError(t, err)
	assert.NotContains(t, logFile(infoHome), "[DEBUG]")

	debugHome := t.TempDir()
	t.Setenv("HOURS_LOG_LEVEL", "debug")
	_, err = executeIn(t, debugHome, "-o", "csv", "--group-by", "month")
	require.NoError(t, err)
	assert.Contains(t, logFile(debugHome), "[DEBUG]")
}

func TestExecuteAudit(t *testing.T) {
	out, err := execute(t, "audit", "--group-by", "month")

	require.NoError(t, err)
	assert.Contains(t, out, "admin email")
	assert.NotContains(t, out, "coaching session")
	assert.Contains(t, out, `1 of 4 records (25.0%) fall back to "other".`)
}

func TestExecuteChart(t *testing.T) {
	outDir := t.TempDir()

	out, err := execute(t, "chart", "--out-dir", outDir, "--group-by", "month")
	require.NoError(t, err)

	for _, name := range []string{"pie.svg", "bars.svg"} {
		path := filepath.Join(outDir, name)
		assert.Contains(t, out, path)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "<svg"), name)
	}
}

func TestExecuteExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	_, err := execute(t, "export", "--out", path, "--group-by", "month")
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{totalsSheet, incomeSheet}, f.GetSheetList())

	rows, err := f.GetRows(totalsSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"month", "coaching", "lecture", "exam review", "other", "Total"}, rows[0])
	assert.Equal(t, []string{"January", "2", "1", "0", "0", "3"}, rows[1])
	assert.Equal(t, []string{"Total", "2", "1", "3", "1", "7"}, rows[3])

	income, err := f.GetRows(incomeSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"February", "4", "200"}, income[2])
	assert.Equal(t, []string{"Total", "7", "350"}, income[3])
}

func TestRenderOptions(t *testing.T) {
	cfg := config.New()
	cfg.HourlyRate = 45
	cfg.DataPaths = []string{"/data/hours.xlsx", "/data/extra.csv"}
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	opts := renderOptions(cfg, date)

	assert.Equal(t, "quarto", opts.Compiler)
	assert.Equal(t, "working_hours_report.qmd", opts.InputFile)
	assert.Equal(t, "/data/hours.xlsx", opts.DataPath)
	assert.Equal(t, 45.0, opts.HourlyRate)
	assert.NoError(t, opts.Validate())

	renderName = "march"
	defer func() { renderName = "" }()
	assert.Equal(t, "march", renderOptions(cfg, date).BaseFileName)
}

func TestAuditTasks(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []model.Record{
		{Date: day, Task: "admin email", Hours: 1},
		{Date: day, Task: "coaching session", Hours: 2},
		{Date: day, Task: "travel", Hours: 3},
		{Date: day, Task: "admin email", Hours: 0.5},
	}

	tasks := auditTasks(records, model.DefaultTaxonomy())

	assert.Equal(t, []unknownTask{
		{Task: "travel", Entries: 1, Hours: 3},
		{Task: "admin email", Entries: 2, Hours: 1.5},
	}, tasks)

	var buf bytes.Buffer
	require.NoError(t, printAudit(&buf, nil, 4))
	assert.Equal(t, "All 4 records match a category.\n", buf.String())
}
