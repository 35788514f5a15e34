// Package window generates tapering windows for FIR design and spectral
// analysis.
package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	// TypeRectangular applies no taper.
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
)

var typeNames = [...]string{"rectangular", "hann", "hamming"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}

	return typeNames[t]
}

// Generalized cosine coefficients: w(x) = c[0] + c[1]*cos(2*pi*x).
var (
	hannCoeffs    = [2]float64{0.5, -0.5}
	hammingCoeffs = [2]float64{0.54, -0.46}
)

// Generate returns symmetric window coefficients of the given length.
func Generate(t Type, length int) []float64 {
	if length <= 0 {
		return nil
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = evalWindow(t, samplePosition(i, length))
	}

	return out
}

// Apply multiplies buf in-place by the selected window.
func Apply(t Type, buf []float64) {
	if len(buf) == 0 {
		return
	}

	vecmath.MulBlockInPlace(buf, Generate(t, len(buf)))
}

func evalWindow(t Type, x float64) float64 {
	x = math.Min(1, math.Max(0, x))

	switch t {
	case TypeHann:
		return raisedCosine(x, hannCoeffs)
	case TypeHamming:
		return raisedCosine(x, hammingCoeffs)
	default:
		return 1
	}
}

func raisedCosine(x float64, c [2]float64) float64 {
	return c[0] + c[1]*math.Cos(2*math.Pi*x)
}

func samplePosition(n, size int) float64 {
	if size <= 1 {
		return 0
	}

	return float64(n) / float64(size-1)
}
