package stats

import (
	"database/sql"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantile(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		x    []float64
		want float64
	}{
		{"odd median", 0.5, []float64{3, 1, 2}, 2},
		{"even median", 0.5, []float64{4, 1, 3, 2}, 2.5},
		{"lower quartile", 0.25, []float64{1, 2, 3, 4, 5}, 2},
		{"interpolated quartile", 0.75, []float64{1, 2, 3, 4}, 3.25},
		{"single", 0.25, []float64{7}, 7},
		{"max", 1, []float64{1, 9, 5}, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Quantile(tt.p, tt.x), 1e-12)
		})
	}
	assert.True(t, math.IsNaN(Quantile(0.5, nil)))
}

func TestQuantileDoesNotReorderInput(t *testing.T) {
	x := []float64{3, 1, 2}
	Median(x)
	assert.Equal(t, []float64{3, 1, 2}, x)
}

func TestFiniteDropsArtifacts(t *testing.T) {
	vals := []sql.NullFloat64{
		{Float64: 1, Valid: true},
		{Float64: math.Inf(1), Valid: true},
		{Float64: math.Inf(-1), Valid: true},
		{Float64: 5, Valid: false},
		{Float64: -3, Valid: true},
	}
	assert.Equal(t, []float64{1, -3}, Finite(vals))
	assert.Len(t, Present(vals), 4)
}

func TestDescribe(t *testing.T) {
	s := Describe([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, 8, s.Count)
	assert.InDelta(t, 5.0, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(32.0/7.0), s.Std, 1e-12)
	assert.Equal(t, 2.0, s.Min)
	assert.InDelta(t, 4.0, s.Q25, 1e-12)
	assert.InDelta(t, 4.5, s.Median, 1e-12)
	assert.InDelta(t, 5.5, s.Q75, 1e-12)
	assert.Equal(t, 9.0, s.Max)

	one := Describe([]float64{3})
	assert.Equal(t, 1, one.Count)
	assert.True(t, math.IsNaN(one.Std))

	empty := Describe(nil)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, math.IsNaN(empty.Mean))
}

func TestModesReturnsAllTies(t *testing.T) {
	assert.Equal(t, []int{1955, 1962}, Modes([]float64{1962, 1955, 1970, 1955, 1962}))
	assert.Equal(t, []int{1980}, Modes([]float64{1980, 1980, 1990}))
	assert.Nil(t, Modes(nil))
}

func TestMinMaxMean(t *testing.T) {
	x := []float64{4, -1, 9}
	assert.Equal(t, 9.0, Max(x))
	assert.Equal(t, -1.0, Min(x))
	assert.InDelta(t, 4.0, Mean(x), 1e-12)
	assert.True(t, math.IsNaN(Max(nil)))
	assert.True(t, math.IsNaN(Mean(nil)))
}
