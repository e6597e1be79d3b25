package console_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rmaloney/backoffice/internal/console"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name  string
		total int
		limit int
		want  int
	}{
		{"partial page rounds up to one", 7, 10, 1},
		{"exact multiple", 30, 10, 3},
		{"remainder adds a page", 25, 10, 3},
		{"empty collection", 0, 10, 0},
		{"single item", 1, 10, 1},
		{"zero limit", 25, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, console.TotalPages(tt.total, tt.limit))
		})
	}
}

func TestPageNumbers(t *testing.T) {
	e := console.Ellipsis

	tests := []struct {
		name    string
		current int
		total   int
		max     int
		want    []int
	}{
		{"window at start with trailing gap", 1, 10, 5, []int{1, 2, 3, 4, 5, e, 10}},
		{"window in the middle with both gaps", 5, 10, 5, []int{1, e, 3, 4, 5, 6, 7, e, 10}},
		{"window at the end with leading gap", 10, 10, 5, []int{1, e, 6, 7, 8, 9, 10}},
		{"no gap when adjacent to last", 7, 10, 5, []int{1, e, 5, 6, 7, 8, 9, 10}},
		{"everything fits without ellipsis", 2, 5, 5, []int{1, 2, 3, 4, 5}},
		{"single page", 1, 1, 5, []int{1}},
		{"current clamped above total", 99, 10, 5, []int{1, e, 6, 7, 8, 9, 10}},
		{"current clamped below one", 0, 10, 5, []int{1, 2, 3, 4, 5, e, 10}},
		{"even window rounds down to odd", 5, 10, 6, []int{1, e, 3, 4, 5, 6, 7, e, 10}},
		{"no pages", 1, 0, 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, console.PageNumbers(tt.current, tt.total, tt.max))
		})
	}
}
