package model

import "fmt"

// FallbackCategory is assigned to tasks that match no taxonomy label.
const FallbackCategory = "other"

// Taxonomy is the ordered list of category labels. Its order is the
// canonical column, stacking and colour order for every report.
type Taxonomy []string

// DefaultTaxonomy mirrors the categories the work log has always used.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{"coaching", "lecture", "exam review"}
}

// WithFallback returns a copy with FallbackCategory appended when missing.
func (t Taxonomy) WithFallback() Taxonomy {
	out := make(Taxonomy, 0, len(t)+1)
	out = append(out, t...)
	if t.Index(FallbackCategory) < 0 {
		out = append(out, FallbackCategory)
	}
	return out
}

// Index returns the position of label, or -1.
func (t Taxonomy) Index(label string) int {
	for i, l := range t {
		if l == label {
			return i
		}
	}
	return -1
}

// Validate rejects empty and duplicate labels.
func (t Taxonomy) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: taxonomy is empty", ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(t))
	for i, l := range t {
		if l == "" {
			return fmt.Errorf("%w: taxonomy label %d is empty", ErrInvalidInput, i)
		}
		if _, dup := seen[l]; dup {
			return fmt.Errorf("%w: duplicate taxonomy label %q", ErrInvalidInput, l)
		}
		seen[l] = struct{}{}
	}
	return nil
}
