package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		v, lo, hi float64
		want      float64
	}{
		{"inside", 0.5, 0, 1, 0.5},
		{"below", -1, 0, 1, 0},
		{"above", 2, 0, 1, 1},
		{"swapped bounds", 2, 1, 0, 1},
		{"nan", math.NaN(), 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp(tt.v, tt.lo, tt.hi))
		})
	}
}

func TestFinite(t *testing.T) {
	assert.True(t, Finite([]float64{0, 1, -2}))
	assert.False(t, Finite([]float64{0, math.NaN()}))
	assert.False(t, Finite([]float64{math.Inf(-1)}))
}

func TestNormalize(t *testing.T) {
	w := []float64{1, 3}
	sum := Normalize(w)
	assert.Equal(t, 4.0, sum)
	assert.InDeltaSlice(t, []float64{0.25, 0.75}, w, 1e-15)

	zero := []float64{0, 0}
	Normalize(zero)
	assert.Equal(t, []float64{0, 0}, zero)
}
