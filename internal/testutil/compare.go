package testutil

import (
	"math"
	"testing"
)

// RequireClose fails t unless got and want have equal length and every
// element pair differs by at most eps. The report names the worst index.
func RequireClose(t testing.TB, got, want []float64, eps float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length %d, want %d", len(got), len(want))
	}

	worst, at := 0.0, -1

	for i := range got {
		d := math.Abs(got[i] - want[i])
		if d > worst || math.IsNaN(d) {
			worst, at = d, i
		}

		if math.IsNaN(d) {
			break
		}
	}

	if at >= 0 && !(worst <= eps) {
		t.Fatalf("index %d: got %v, want %v (|diff| %g > %g)", at, got[at], want[at], worst, eps)
	}
}

// RequireFinite fails t at the first NaN or infinite element.
func RequireFinite(t testing.TB, x []float64) {
	t.Helper()

	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: %v is not finite", i, v)
		}
	}
}
