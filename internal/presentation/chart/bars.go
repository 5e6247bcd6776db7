package chart

import (
	"fmt"
	"io"
	"math"

	"github.com/penwyp/go-hours-report/internal/presentation/style"
)

const (
	plotHeight = 300.0
	barWidth   = 36.0
	barGap     = 18.0
)

// BarChart stacks category hours per bucket, bottom-up in category order.
type BarChart struct {
	Title      string
	YLabel     string
	Buckets    []string
	Categories []string
	Cells      [][]float64
	Palette    style.Palette
}

func (c BarChart) maxTotal() float64 {
	var top float64
	for _, row := range c.Cells {
		var sum float64
		for _, v := range row {
			sum += v
		}
		top = math.Max(top, sum)
	}
	return top
}

// WriteBars renders the stacked bar chart as SVG.
func WriteBars(w io.Writer, c BarChart) error {
	if len(c.Cells) != len(c.Buckets) {
		return fmt.Errorf("bar chart has %d rows for %d buckets", len(c.Cells), len(c.Buckets))
	}
	for i, row := range c.Cells {
		if len(row) != len(c.Categories) {
			return fmt.Errorf("bar chart row %s has %d cells for %d categories", c.Buckets[i], len(row), len(c.Categories))
		}
		for _, v := range row {
			if v < 0 || math.IsNaN(v) {
				return fmt.Errorf("bar chart row %s has an invalid value %g", c.Buckets[i], v)
			}
		}
	}

	top, step := axisScale(c.maxTotal())
	left, topMargin, bottom := 56.0, 40.0, 60.0
	plotWidth := math.Max(float64(len(c.Buckets))*(barWidth+barGap)+barGap, 120)
	legendWidth := 140.0

	s := newSVG(left+plotWidth+legendWidth, topMargin+plotHeight+bottom)
	if c.Title != "" {
		s.text((left+plotWidth)/2, 22, "middle", c.Title, `font-size="16" font-weight="bold"`)
	}

	baseY := topMargin + plotHeight
	scale := plotHeight / top

	for v := 0.0; v <= top+1e-9; v += step {
		y := baseY - v*scale
		s.line(left, y, left+plotWidth, y, "#e0e0e0")
		s.text(left-6, y+4, "end", num(v), "")
	}
	s.line(left, baseY, left+plotWidth, baseY, "#333333")
	if c.YLabel != "" {
		s.text(14, topMargin+plotHeight/2, "middle", c.YLabel,
			fmt.Sprintf(`transform="rotate(-90 14 %s)"`, num(topMargin+plotHeight/2)))
	}

	for i, bucket := range c.Buckets {
		x := left + barGap + float64(i)*(barWidth+barGap)
		y := baseY
		for j, v := range c.Cells[i] {
			if v == 0 {
				continue
			}
			h := v * scale
			y -= h
			s.rect(x, y, barWidth, h, c.Palette.Color(c.Categories[j]))
		}
		s.text(x+barWidth/2, baseY+16, "middle", bucket, "")
	}

	s.legend(left+plotWidth+16, topMargin, c.Categories, func(j int) string { return c.Palette.Color(c.Categories[j]) })
	return s.writeTo(w)
}

// axisScale rounds peak up to a 1-2-5 step with about five ticks.
func axisScale(peak float64) (top, step float64) {
	if peak <= 0 {
		return 1, 1
	}
	raw := peak / 5
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch norm := raw / mag; {
	case norm <= 1:
		step = mag
	case norm <= 2:
		step = 2 * mag
	case norm <= 5:
		step = 5 * mag
	default:
		step = 10 * mag
	}
	return math.Ceil(peak/step) * step, step
}
