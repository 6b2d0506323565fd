package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableName(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  ParsedName
		expectErr bool
	}{
		{
			name:     "Zone and number",
			raw:      "Patio 12",
			expected: ParsedName{Zone: "Patio", Number: 12},
		},
		{
			name:     "Hash separator",
			raw:      "Terrace#3",
			expected: ParsedName{Zone: "Terrace", Number: 3},
		},
		{
			name:     "Dash with leading zero",
			raw:      "Bar-07",
			expected: ParsedName{Zone: "Bar", Number: 7},
		},
		{
			name:     "Number only",
			raw:      "15",
			expected: ParsedName{Zone: "", Number: 15},
		},
		{
			name:     "Generic table prefix",
			raw:      "Table 4",
			expected: ParsedName{Zone: "", Number: 4},
		},
		{
			name:     "Short prefix",
			raw:      "T12",
			expected: ParsedName{Zone: "", Number: 12},
		},
		{
			name:     "Zone with table word",
			raw:      "Window Table 9",
			expected: ParsedName{Zone: "Window", Number: 9},
		},
		{
			name:     "Extra whitespace",
			raw:      "  Main   Hall  # 5 ",
			expected: ParsedName{Zone: "Main Hall", Number: 5},
		},
		{
			name:      "No number",
			raw:       "Chef's Counter",
			expectErr: true,
		},
		{
			name:      "Number not at the end",
			raw:       "Patio 1A",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := TableName(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, parsed)
			}
		})
	}
}

func TestClock(t *testing.T) {
	testCases := []struct {
		raw       string
		expected  string
		expectErr bool
	}{
		{raw: "19:00", expected: "19:00"},
		{raw: "9:30", expected: "09:30"},
		{raw: " 11:00 ", expected: "11:00"},
		{raw: "21:45:30", expected: "21:45"},
		{raw: "24:00", expectErr: true},
		{raw: "7pm", expectErr: true},
		{raw: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			c, err := Clock(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, c.String())
		})
	}
}

func TestDate(t *testing.T) {
	d, err := Date("2024-02-29")
	assert.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())

	_, err = Date("2023-02-29")
	assert.Error(t, err)

	_, err = Date("10/06/2024")
	assert.Error(t, err)
}
