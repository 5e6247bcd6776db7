// Package style holds the visual vocabulary shared by chart and HTML
// outputs: validated colours, the category palette and text styles.
package style

import (
	"fmt"
	"regexp"
	"strings"
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor accepts #rgb, #rrggbb and CSS named colours.
func ValidateColor(color string) error {
	if hexColor.MatchString(color) {
		return nil
	}
	if _, ok := namedColors[strings.ToLower(color)]; ok {
		return nil
	}
	return fmt.Errorf("unknown colour %q: use #rrggbb or a CSS colour name", color)
}

// Palette maps categories to colours by taxonomy index.
type Palette struct {
	categories []string
	colors     []string
}

// NewPalette binds colors to categories in order; colours repeat when there
// are more categories than colours.
func NewPalette(categories []string, colors []string) Palette {
	return Palette{
		categories: append([]string(nil), categories...),
		colors:     append([]string(nil), colors...),
	}
}

// Color returns the colour of category. Unknown categories get the colour
// after the last known one.
func (p Palette) Color(category string) string {
	for i, c := range p.categories {
		if c == category {
			return p.At(i)
		}
	}
	return p.At(len(p.categories))
}

// At returns the colour for index i.
func (p Palette) At(i int) string {
	if len(p.colors) == 0 {
		return "gray"
	}
	return p.colors[i%len(p.colors)]
}

// namedColors is the CSS Color Module Level 4 keyword list.
var namedColors = func() map[string]struct{} {
	names := strings.Fields(`
aliceblue antiquewhite aqua aquamarine azure beige bisque black blanchedalmond blue
blueviolet brown burlywood cadetblue chartreuse chocolate coral cornflowerblue cornsilk
crimson cyan darkblue darkcyan darkgoldenrod darkgray darkgreen darkgrey darkkhaki
darkmagenta darkolivegreen darkorange darkorchid darkred darksalmon darkseagreen
darkslateblue darkslategray darkslategrey darkturquoise darkviolet deeppink deepskyblue
dimgray dimgrey dodgerblue firebrick floralwhite forestgreen fuchsia gainsboro ghostwhite
gold goldenrod gray green greenyellow grey honeydew hotpink indianred indigo ivory khaki
lavender lavenderblush lawngreen lemonchiffon lightblue lightcoral lightcyan
lightgoldenrodyellow lightgray lightgreen lightgrey lightpink lightsalmon lightseagreen
lightskyblue lightslategray lightslategrey lightsteelblue lightyellow lime limegreen linen
magenta maroon mediumaquamarine mediumblue mediumorchid mediumpurple mediumseagreen
mediumslateblue mediumspringgreen mediumturquoise mediumvioletred midnightblue mintcream
mistyrose moccasin navajowhite navy oldlace olive olivedrab orange orangered orchid
palegoldenrod palegreen paleturquoise palevioletred papayawhip peachpuff peru pink plum
powderblue purple rebeccapurple red rosybrown royalblue saddlebrown salmon sandybrown
seagreen seashell sienna silver skyblue slateblue slategray slategrey snow springgreen
steelblue tan teal thistle tomato turquoise violet wheat white whitesmoke yellow
yellowgreen`)
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}()
