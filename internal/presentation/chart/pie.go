package chart

import (
	"fmt"
	"io"
	"math"

	"github.com/penwyp/go-hours-report/internal/core/pie"
	"github.com/penwyp/go-hours-report/internal/presentation/style"
)

// PieRadius is the pie radius in pixels; layout units are multiplied by it.
const PieRadius = 120.0

// PieChart is the category share chart.
type PieChart struct {
	Title       string
	Labels      []string
	Percentages []float64
	Palette     style.Palette
	Options     pie.Options
}

// WritePie lays out the wedges and writes them as SVG. Screen y grows
// downwards, so layout y is negated.
func WritePie(w io.Writer, c PieChart) error {
	wedges, err := pie.Layout(c.Percentages, c.Labels, c.Options)
	if err != nil {
		return err
	}

	reach := math.Max(1, math.Max(c.Options.TextRadius, c.Options.LeaderStartRadius)) * PieRadius
	margin := 60.0
	legendWidth := 140.0
	size := 2 * (reach + margin)
	cx, cy := reach+margin, reach+margin+24

	s := newSVG(size+legendWidth, size+24)
	if c.Title != "" {
		s.text((size+legendWidth)/2, 18, "middle", c.Title, `font-size="16" font-weight="bold"`)
	}

	toScreen := func(p pie.Point) (float64, float64) {
		return cx + p.X*PieRadius, cy - p.Y*PieRadius
	}
	polar := func(radius, deg float64) (float64, float64) {
		rad := deg * math.Pi / 180
		return toScreen(pie.Point{X: radius * math.Cos(rad), Y: radius * math.Sin(rad)})
	}

	for _, wedge := range wedges {
		span := wedge.EndAngle - wedge.StartAngle
		if span <= 0 {
			continue
		}
		color := c.Palette.Color(wedge.Label)
		if span >= 360-1e-9 {
			s.circle(cx, cy, PieRadius, color)
		} else {
			x1, y1 := polar(1, wedge.StartAngle)
			x2, y2 := polar(1, wedge.EndAngle)
			largeArc := 0
			if span > 180 {
				largeArc = 1
			}
			// sweep-flag 0 keeps the counter-clockwise direction after the y flip.
			s.path(fmt.Sprintf("M %s %s L %s %s A %s %s 0 %d 0 %s %s Z",
				num(cx), num(cy), num(x1), num(y1), num(PieRadius), num(PieRadius), largeArc, num(x2), num(y2)), color)
		}

		if wedge.InlineLabel != "" {
			x, y := polar(0.6, wedge.MidAngle())
			s.text(x, y+4, "middle", wedge.InlineLabel, `fill="white" font-weight="bold"`)
		}
		if a := wedge.Annotation; a != nil {
			ax, ay := toScreen(a.Anchor)
			tx, ty := toScreen(a.TextPoint)
			s.line(ax, ay, tx, ty, "#555555")
			s.text(tx, ty+4, string(a.Align), a.Text, "")
		}
	}

	s.legend(size, 40, c.Labels, func(i int) string { return c.Palette.Color(c.Labels[i]) })
	return s.writeTo(w)
}
