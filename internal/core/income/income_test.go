package income

import (
	"math"
	"testing"

	"github.com/penwyp/go-hours-report/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTable struct {
	labels []string
	hours  []float64
}

func (f fakeTable) BucketLabels() []string    { return f.labels }
func (f fakeTable) BucketHours(i int) float64 { return f.hours[i] }

func TestIncome(t *testing.T) {
	got, err := Income(25, 8)
	require.NoError(t, err)
	assert.Equal(t, 200.0, got)

	swapped, err := Income(8, 25)
	require.NoError(t, err)
	assert.Equal(t, got, swapped)

	zero, err := Income(0, 12)
	require.NoError(t, err)
	assert.Equal(t, 0.0, zero)

	for _, bad := range [][2]float64{{-1, 8}, {25, -0.5}, {math.NaN(), 1}, {1, math.Inf(1)}} {
		_, err := Income(bad[0], bad[1])
		assert.ErrorIs(t, err, model.ErrInvalidInput, "%v", bad)
	}
}

func TestRows(t *testing.T) {
	table := fakeTable{
		labels: []string{"January", "February", "March"},
		hours:  []float64{10, 4.5, 0},
	}

	rows, err := Rows(table, 42.5)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "January", rows[0].Bucket)
	assert.Equal(t, "425", rows[0].Amount.String())
	assert.Equal(t, "191.25", rows[1].Amount.String())

	assert.False(t, rows[0].Highlight)
	assert.True(t, rows[1].Highlight, "last bucket with data is highlighted")
	assert.False(t, rows[2].Highlight, "empty trailing bucket is not highlighted")

	assert.Equal(t, "616.25", Sum(rows).String())
}

func TestRowsWithoutData(t *testing.T) {
	rows, err := Rows(fakeTable{labels: []string{"May"}, hours: []float64{0}}, 30)
	require.NoError(t, err)
	assert.False(t, rows[0].Highlight)
	assert.True(t, Sum(rows).IsZero())
}

func TestRowsRejectsNegativeRate(t *testing.T) {
	_, err := Rows(fakeTable{}, -3)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = Rows(fakeTable{labels: []string{"May"}, hours: []float64{-2}}, 3)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
