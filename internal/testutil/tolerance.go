package testutil

import (
	"fmt"
	"math"
	"testing"
)

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t testing.TB, data []float64) {
	t.Helper()

	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireDistribution fails t if weights contain a negative entry or do not
// sum to one within eps.
func RequireDistribution(t testing.TB, weights []float64, eps float64) {
	t.Helper()

	var sum float64

	for i, w := range weights {
		if w < 0 || math.IsNaN(w) {
			t.Fatalf("weight %d: invalid value %v", i, w)
		}

		sum += w
	}

	if math.Abs(sum-1) > eps {
		t.Fatalf("weights sum to %v, want 1 (eps %v)", sum, eps)
	}
}

// RelErr returns |got-want| / |want|, or |got| when want is zero.
func RelErr(got, want float64) float64 {
	if want == 0 {
		return math.Abs(got)
	}

	return math.Abs(got-want) / math.Abs(want)
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}

	maxDiff := 0.0

	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > maxDiff {
			maxDiff = d
		}
	}

	return maxDiff, nil
}
