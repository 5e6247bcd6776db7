package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Terminal control sequences
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorGreen = "\033[32m"
)

// GetDisplayWidth calculates the display width of a string, accounting for
// wide and combining characters
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadString pads s with spaces to width display columns
func PadString(s string, width int, leftAlign bool) string {
	actual := GetDisplayWidth(s)
	if actual >= width {
		return s
	}
	padding := strings.Repeat(" ", width-actual)
	if leftAlign {
		return s + padding
	}
	return padding + s
}

// Emphasize wraps text in bold green when enabled
func Emphasize(text string, enabled bool) string {
	if !enabled {
		return text
	}
	return ColorBold + ColorGreen + text + ColorReset
}
