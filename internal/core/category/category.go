// Package category resolves free-text task descriptions to taxonomy labels.
//
// Matching is whole-word and case-sensitive: a task belongs to the first
// label (in taxonomy order) that shares at least one word with it. Words are
// whitespace-delimited, so "lecture," does not match "lecture".
package category

import (
	"strings"

	"github.com/penwyp/go-hours-report/internal/core/model"
)

// Categorize returns the first label sharing a word with task, or
// model.FallbackCategory.
func Categorize(task string, taxonomy model.Taxonomy) string {
	words := strings.Fields(task)
	for _, label := range taxonomy {
		if sharesWord(words, label) {
			return label
		}
	}
	return model.FallbackCategory
}

// IsKnownCategory reports whether any label matches task.
func IsKnownCategory(task string, taxonomy model.Taxonomy) bool {
	words := strings.Fields(task)
	for _, label := range taxonomy {
		if sharesWord(words, label) {
			return true
		}
	}
	return false
}

// HasMatchingWord reports whether a and b have at least one word in common.
func HasMatchingWord(a, b string) bool {
	return sharesWord(strings.Fields(a), b)
}

func sharesWord(words []string, label string) bool {
	for _, lw := range strings.Fields(label) {
		for _, w := range words {
			if w == lw {
				return true
			}
		}
	}
	return false
}

// CategorizeAll attaches a category to each record. The input is not modified.
func CategorizeAll(records []model.EnrichedRecord, taxonomy model.Taxonomy) []model.CategorizedRecord {
	out := make([]model.CategorizedRecord, len(records))
	for i, r := range records {
		out[i] = model.CategorizedRecord{
			EnrichedRecord: r,
			Category:       Categorize(r.Task, taxonomy),
		}
	}
	return out
}

// Unknown returns the records whose task matches no label, in input order.
func Unknown(records []model.Record, taxonomy model.Taxonomy) []model.Record {
	var out []model.Record
	for _, r := range records {
		if !IsKnownCategory(r.Task, taxonomy) {
			out = append(out, r)
		}
	}
	return out
}
