package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateRating(t *testing.T) {
	tests := []struct {
		name   string
		scores []int64
		want   int
	}{
		{"no reviews", nil, 0},
		{"single review", []int64{7}, 7},
		{"exact average", []int64{8, 9, 10}, 9},
		{"truncates toward zero", []int64{5, 6}, 5},
		{"does not round up", []int64{9, 10}, 9},
		{"all minimum", []int64{1, 1, 1, 1}, 1},
		{"all maximum", []int64{10, 10}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sum int64
			for _, s := range tt.scores {
				sum += s
			}
			got := AggregateRating(sum, int64(len(tt.scores)))
			assert.Equal(t, tt.want, got)
		})
	}
}
