package analysis

import (
	"math"

	"welfare-dashboard-go/models"
)

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := 0.0
	for _, v := range xs {
		s += v
	}
	return s / float64(len(xs))
}

// constant reports whether every value equals the first one. Deciding this on
// the inputs avoids rounding residue from the mean.
func constant(xs []float64) bool {
	for _, v := range xs[1:] {
		if v != xs[0] {
			return false
		}
	}
	return true
}

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Pearson returns the linear correlation of xs and ys. The result is undefined
// for series of unequal length, fewer than two points, or zero variance.
func Pearson(xs, ys []float64) models.Correlation {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return models.Correlation{}
	}
	if constant(xs) || constant(ys) {
		return models.Correlation{}
	}

	mx, my := mean(xs), mean(ys)
	var sxx, syy, sxy float64
	for i := 0; i < n; i++ {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	if sxx == 0 || syy == 0 {
		return models.Correlation{}
	}

	r := sxy / math.Sqrt(sxx*syy)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return models.Correlation{}
	}
	return models.Correlation{Value: clip(r, -1, 1), Defined: true}
}
