package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFlexibleDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"ISO date", "2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"ISO date with surrounding spaces", "  2024-01-15  ", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"slash day-first", "15/02/2024", time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), true},
		{"dash day-first", "15-02-2024", time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), true},
		{"ambiguous date reads day-first", "03/04/2024", time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC), true},
		{"US month-first when day-first impossible", "03/25/2024", time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"whitespace only", "   ", time.Time{}, false},
		{"free text", "yesterday", time.Time{}, false},
		{"two parts", "15/02", time.Time{}, false},
		{"non-numeric part", "15/xx/2024", time.Time{}, false},
		{"both parts above twelve", "13/13/2024", time.Time{}, false},
		{"day overflow", "31/02/2024", time.Time{}, false},
		{"short year", "15/02/24", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseFlexibleDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
			}
		})
	}
}
