// Package stats holds the small set of descriptive statistics the reports need.
package stats

import (
	"database/sql"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary is the describe row set for one numeric column.
type Summary struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Present returns the valid values, keeping infinities.
func Present(vals []sql.NullFloat64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if v.Valid {
			out = append(out, v.Float64)
		}
	}
	return out
}

// Finite returns the valid values that are neither NaN nor infinite.
func Finite(vals []sql.NullFloat64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if v.Valid && !math.IsNaN(v.Float64) && !math.IsInf(v.Float64, 0) {
			out = append(out, v.Float64)
		}
	}
	return out
}

func sorted(x []float64) []float64 {
	if sort.Float64sAreSorted(x) {
		return x
	}
	s := make([]float64, len(x))
	copy(s, x)
	sort.Float64s(s)
	return s
}

// Quantile interpolates linearly between the closest ranks of x, so the median
// of an even-length sample is the mean of its two middle values. NaN for empty x.
func Quantile(p float64, x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	s := sorted(x)

	h := p * float64(len(s)-1)
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(s) {
		return s[len(s)-1]
	}
	return s[i] + (h-lo)*(s[i+1]-s[i])
}

// Median is Quantile(0.5, x).
func Median(x []float64) float64 {
	return Quantile(0.5, x)
}

// Mean returns the arithmetic mean, NaN for empty x.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}

// Max returns the largest value, NaN for empty x.
func Max(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return floats.Max(x)
}

// Min returns the smallest value, NaN for empty x.
func Min(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return floats.Min(x)
}

// Describe summarises x. The standard deviation is the sample one (n-1), NaN
// for fewer than two values.
func Describe(x []float64) Summary {
	s := Summary{Count: len(x)}
	if len(x) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	xs := sorted(x)
	s.Mean, s.Std = stat.MeanStdDev(xs, nil)
	if len(xs) < 2 {
		s.Std = math.NaN()
	}
	s.Min = xs[0]
	s.Q25 = Quantile(0.25, xs)
	s.Median = Quantile(0.5, xs)
	s.Q75 = Quantile(0.75, xs)
	s.Max = xs[len(xs)-1]
	return s
}

// Modes returns every integer value tied for the highest count, ascending.
// Nil when x is empty.
func Modes(x []float64) []int {
	counts := make(map[int]int)
	best := 0
	for _, f := range x {
		n := int(f)
		counts[n]++
		if counts[n] > best {
			best = counts[n]
		}
	}

	var modes []int
	for n, c := range counts {
		if c == best {
			modes = append(modes, n)
		}
	}
	sort.Ints(modes)
	return modes
}
