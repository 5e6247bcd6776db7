package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/penwyp/go-hours-report/internal/analyzer"
	"github.com/penwyp/go-hours-report/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshReport(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "hours.csv")
	require.NoError(t, os.WriteFile(logPath, []byte(testWorkLog), 0644))

	a := analyzer.New(&analyzer.Config{
		DataPaths:    []string{logPath},
		NoCache:      true,
		OutputFormat: "csv",
		GroupBy:      "month",
		Taxonomy:     model.DefaultTaxonomy(),
	})

	var plain bytes.Buffer
	require.NoError(t, refreshReport(a, &plain, false)(context.Background()))
	assert.True(t, strings.HasPrefix(plain.String(), "== "))
	assert.Contains(t, plain.String(), "January,2,1,0,0,3")

	var tty bytes.Buffer
	require.NoError(t, refreshReport(a, &tty, true)(context.Background()))
	assert.True(t, strings.HasPrefix(tty.String(), "\033[2J\033[H== "))
}
