package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedFloor(t *testing.T) {
	tests := []struct {
		in   Fixed
		want int
	}{
		{0, 0},
		{fixedScale - 1, 0},
		{fixedScale, 1},
		{fixedScale + 1, 1},
		{-1, -1},
		{-fixedScale, -1},
		{-fixedScale - 1, -2},
		{Fix(18) + 500, 18},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.floor(), "floor(%d)", tt.in)
	}
}

func TestFixedFrac(t *testing.T) {
	assert.Equal(t, Fixed(0), Fix(3).frac())
	assert.Equal(t, Fixed(500), (Fix(3) + 500).frac())
	assert.Equal(t, Fixed(fixedScale-1), Fixed(-1).frac())
}
