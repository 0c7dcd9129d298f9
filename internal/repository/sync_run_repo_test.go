package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-5, defaultHistoryLimit},
		{0, defaultHistoryLimit},
		{1, 1},
		{50, 50},
		{maxHistoryLimit, maxHistoryLimit},
		{maxHistoryLimit + 1, defaultHistoryLimit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, clampLimit(tt.in), "limit=%d", tt.in)
	}
}
