package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{
			name:     "zero value",
			input:    0.0,
			expected: "0.00",
		},
		{
			name:     "integer value keeps two decimals",
			input:    123.0,
			expected: "123.00",
		},
		{
			name:     "one decimal place padded",
			input:    13.4,
			expected: "13.40",
		},
		{
			name:     "two decimal places",
			input:    750.25,
			expected: "750.25",
		},
		{
			name:     "more than two decimals rounds",
			input:    1.005,
			expected: "1.00",
		},
		{
			name:     "negative value",
			input:    -456.5,
			expected: "-456.50",
		},
		{
			name:     "large value has no grouping",
			input:    1234567.89,
			expected: "1234567.89",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatFloat(tt.input)
			assert.Equal(t, tt.expected, result, "formatFloat(%f) = %s, want %s", tt.input, result, tt.expected)
		})
	}
}

func TestFormatInt(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected string
	}{
		{
			name:     "zero value",
			input:    0,
			expected: "0",
		},
		{
			name:     "positive integer",
			input:    123,
			expected: "123",
		},
		{
			name:     "negative integer",
			input:    -456,
			expected: "-456",
		},
		{
			name:     "typical product count",
			input:    42,
			expected: "42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatInt(tt.input)
			assert.Equal(t, tt.expected, result, "formatInt(%d) = %s, want %s", tt.input, result, tt.expected)
		})
	}
}
