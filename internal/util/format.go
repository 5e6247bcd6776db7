package util

import (
	"fmt"
	"strings"
)

// FormatHours renders hours with one decimal and thousands separators.
func FormatHours(hours float64) string {
	return groupThousands(fmt.Sprintf("%.1f", hours))
}

// FormatCurrency renders amount with two decimals, thousands separators and
// a leading currency symbol.
func FormatCurrency(amount float64, symbol string) string {
	s := groupThousands(fmt.Sprintf("%.2f", amount))
	if strings.HasPrefix(s, "-") {
		return "-" + symbol + s[1:]
	}
	return symbol + s
}

// FormatPercent renders a percentage with one decimal.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// groupThousands inserts commas into the integer part of a formatted number.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, decPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, decPart = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return sign + intPart + decPart
	}

	var b strings.Builder
	for i, digit := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(digit)
	}
	return sign + b.String() + decPart
}
