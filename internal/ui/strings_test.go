package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		name  string
		value string
		limit int
		want  string
	}{
		{"fits", "cat", 5, "cat"},
		{"ascii", "hello world", 5, "hell…"},
		{"wide runes", "你好世界", 5, "你好…"},
		{"one cell", "hello", 1, "…"},
		{"no limit", "  trimmed ", 0, "trimmed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, truncate(tc.value, tc.limit))
		})
	}
}

func TestTruncateMiddle(t *testing.T) {
	assert.Equal(t, "/ph…/beach", truncateMiddle("/photos/2024/summer/beach", 10))
	assert.Equal(t, "/ph", truncateMiddle("/photos", 3))
	assert.Equal(t, "/photos", truncateMiddle("/photos", 20))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "abcdef", padRight("abcdef", 4))
	assert.Equal(t, "中 ", padRight("中", 3))
}
