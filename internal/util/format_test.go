package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatHours(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "zero", input: 0, expected: "0.0"},
		{name: "fraction", input: 2.25, expected: "2.2"},
		{name: "hundreds", input: 999.94, expected: "999.9"},
		{name: "thousands", input: 1234.5, expected: "1,234.5"},
		{name: "millions", input: 1234567, expected: "1,234,567.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatHours(tt.input))
		})
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		symbol   string
		expected string
	}{
		{name: "zero", amount: 0, symbol: "€", expected: "€0.00"},
		{name: "small", amount: 200, symbol: "€", expected: "€200.00"},
		{name: "thousands", amount: 1234.5, symbol: "$", expected: "$1,234.50"},
		{name: "negative", amount: -1500, symbol: "$", expected: "-$1,500.00"},
		{name: "rounding", amount: 0.125, symbol: "", expected: "0.12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCurrency(tt.amount, tt.symbol))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "15.0%", FormatPercent(15))
	assert.Equal(t, "33.3%", FormatPercent(100.0/3))
}
