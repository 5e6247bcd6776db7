package category

import (
	"testing"
	"time"

	"github.com/penwyp/go-hours-report/internal/core/model"
	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	taxonomy := model.Taxonomy{"coaching", "lecture"}

	tests := []struct {
		name     string
		task     string
		taxonomy model.Taxonomy
		expected string
	}{
		{name: "single word match", task: "coaching session", taxonomy: taxonomy, expected: "coaching"},
		{name: "no match falls back", task: "unrelated admin", taxonomy: taxonomy, expected: "other"},
		{name: "substring does not count", task: "lectures prepared", taxonomy: taxonomy, expected: "other"},
		{name: "case sensitive", task: "Coaching session", taxonomy: taxonomy, expected: "other"},
		{name: "punctuation adjacent word is not matched", task: "lecture, week 3", taxonomy: taxonomy, expected: "other"},
		{name: "first label wins", task: "lecture after coaching", taxonomy: taxonomy, expected: "coaching"},
		{name: "multi-word label matches on any word", task: "review of week 2", taxonomy: model.DefaultTaxonomy(), expected: "exam review"},
		{name: "multi-word label later in order", task: "exam coaching", taxonomy: model.Taxonomy{"exam review", "coaching"}, expected: "exam review"},
		{name: "empty task", task: "", taxonomy: taxonomy, expected: "other"},
		{name: "empty taxonomy", task: "coaching", taxonomy: nil, expected: "other"},
		{name: "extra whitespace", task: "  coaching\tsession ", taxonomy: taxonomy, expected: "coaching"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Categorize(tt.task, tt.taxonomy))
		})
	}
}

func TestCategorizeResultIsExplained(t *testing.T) {
	taxonomy := model.DefaultTaxonomy()
	tasks := []string{
		"coaching", "exam prep", "lecture and review", "grading", "review coaching",
		"meeting", "exam review lecture", "",
	}

	for _, task := range tasks {
		got := Categorize(task, taxonomy)
		if got == model.FallbackCategory {
			assert.False(t, IsKnownCategory(task, taxonomy), task)
			continue
		}
		idx := taxonomy.Index(got)
		assert.GreaterOrEqual(t, idx, 0, task)
		assert.True(t, HasMatchingWord(task, got), task)
		for _, earlier := range taxonomy[:idx] {
			assert.False(t, HasMatchingWord(task, earlier), "%q also matches earlier label %q", task, earlier)
		}
	}
}

func TestIsKnownCategory(t *testing.T) {
	taxonomy := model.DefaultTaxonomy()

	assert.True(t, IsKnownCategory("exam", taxonomy))
	assert.True(t, IsKnownCategory("weekly lecture", taxonomy))
	assert.False(t, IsKnownCategory("administration", taxonomy))
}

func TestHasMatchingWord(t *testing.T) {
	assert.True(t, HasMatchingWord("exam review", "review"))
	assert.True(t, HasMatchingWord("a b c", "c d"))
	assert.False(t, HasMatchingWord("abc", "ab"))
	assert.False(t, HasMatchingWord("", ""))
}

func TestCategorizeAll(t *testing.T) {
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	records := []model.EnrichedRecord{
		{Record: model.Record{Date: date, Task: "coaching", Hours: 1}, MonthName: "March"},
		{Record: model.Record{Date: date, Task: "admin", Hours: 2}, MonthName: "March"},
	}

	got := CategorizeAll(records, model.Taxonomy{"coaching"})

	assert.Len(t, got, 2)
	assert.Equal(t, "coaching", got[0].Category)
	assert.Equal(t, "other", got[1].Category)
	assert.Equal(t, "March", got[1].MonthName)
	assert.Equal(t, 2.0, got[1].Hours)
}

func TestUnknown(t *testing.T) {
	records := []model.Record{
		{Task: "coaching"},
		{Task: "admin"},
		{Task: "lecture,"},
	}

	got := Unknown(records, model.Taxonomy{"coaching", "lecture"})

	assert.Equal(t, []model.Record{{Task: "admin"}, {Task: "lecture,"}}, got)
}
