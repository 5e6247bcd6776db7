// Package pie lays out an annotated pie chart.
//
// Wedges are placed counter-clockwise from 12 o'clock in input order. Wedges
// larger than the threshold carry their percentage inline; the others get a
// leader line from the rim to a text point outside the pie. Coordinates are
// in pie units with the centre at the origin and y pointing up.
package pie

import (
	"fmt"
	"math"

	"github.com/penwyp/go-hours-report/internal/core/model"
)

const (
	// StartAngle is where the first wedge begins, in degrees.
	StartAngle = 90.0
	// SumTolerance is how far the percentages may drift from 100.
	SumTolerance = 0.01
)

// Alignment is the horizontal anchor of annotation text.
type Alignment string

const (
	AlignStart Alignment = "start"
	AlignEnd   Alignment = "end"
)

// Point is a position in pie units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Annotation is an external label joined to its wedge by a leader line.
type Annotation struct {
	Anchor    Point     `json:"anchor"`
	TextPoint Point     `json:"textPoint"`
	Text      string    `json:"text"`
	Align     Alignment `json:"align"`
}

// Wedge is one laid-out slice. Angles are in degrees; EndAngle may exceed 360.
type Wedge struct {
	Label       string      `json:"label"`
	Percentage  float64     `json:"percentage"`
	StartAngle  float64     `json:"startAngle"`
	EndAngle    float64     `json:"endAngle"`
	InlineLabel string      `json:"inlineLabel,omitempty"`
	Annotation  *Annotation `json:"annotation,omitempty"`
}

// MidAngle is the angular midpoint of the wedge in degrees.
func (w Wedge) MidAngle() float64 {
	return (w.StartAngle + w.EndAngle) / 2
}

// Options are the layout parameters.
type Options struct {
	// Threshold is the largest percentage still annotated externally.
	Threshold float64 `koanf:"threshold" json:"threshold"`
	// TextRadius is the distance of annotation text from the centre.
	TextRadius float64 `koanf:"text_radius" json:"textRadius"`
	// LeaderStartRadius is where the leader line leaves the wedge.
	LeaderStartRadius float64 `koanf:"leader_start_radius" json:"leaderStartRadius"`
}

// DefaultOptions suits a unit-radius pie.
func DefaultOptions() Options {
	return Options{
		Threshold:         5,
		TextRadius:        1.4,
		LeaderStartRadius: 1.0,
	}
}

// Layout assigns angular spans and label placement to every percentage.
func Layout(percentages []float64, labels []string, opts Options) ([]Wedge, error) {
	if err := validate(percentages, labels, opts); err != nil {
		return nil, err
	}

	var sum float64
	for _, p := range percentages {
		sum += p
	}

	wedges := make([]Wedge, len(percentages))
	var cumulative float64
	for i, p := range percentages {
		start := StartAngle + cumulative/sum*360
		cumulative += p
		end := StartAngle + cumulative/sum*360
		if i == len(percentages)-1 {
			end = StartAngle + 360
		}

		w := Wedge{
			Label:      labels[i],
			Percentage: p,
			StartAngle: start,
			EndAngle:   end,
		}
		if p > opts.Threshold {
			w.InlineLabel = formatPercentage(p)
		} else {
			w.Annotation = annotate(w, opts)
		}
		wedges[i] = w
	}
	return wedges, nil
}

func annotate(w Wedge, opts Options) *Annotation {
	rad := w.MidAngle() * math.Pi / 180
	dx, dy := math.Cos(rad), math.Sin(rad)

	align := AlignEnd
	if dx > 0 {
		align = AlignStart
	}
	return &Annotation{
		Anchor:    Point{X: dx * opts.LeaderStartRadius, Y: dy * opts.LeaderStartRadius},
		TextPoint: Point{X: dx * opts.TextRadius, Y: dy * opts.TextRadius},
		Text:      formatPercentage(w.Percentage),
		Align:     align,
	}
}

func formatPercentage(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

func validate(percentages []float64, labels []string, opts Options) error {
	if len(percentages) != len(labels) {
		return fmt.Errorf("%w: %d percentages but %d labels", model.ErrInvalidInput, len(percentages), len(labels))
	}
	if len(percentages) == 0 {
		return fmt.Errorf("%w: nothing to lay out", model.ErrInvalidInput)
	}
	var sum float64
	for i, p := range percentages {
		if math.IsNaN(p) || p < 0 {
			return fmt.Errorf("%w: percentage %d (%s) is negative", model.ErrInvalidInput, i, labels[i])
		}
		sum += p
	}
	if math.Abs(sum-100) > SumTolerance {
		return fmt.Errorf("%w: percentages sum to %g, want 100", model.ErrInvalidInput, sum)
	}
	if opts.TextRadius <= 0 || opts.LeaderStartRadius <= 0 {
		return fmt.Errorf("%w: radii must be positive", model.ErrInvalidInput)
	}
	return nil
}
