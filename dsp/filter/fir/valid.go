package fir

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// Valid convolves x with taps and keeps only fully overlapping positions.
// The output has len(x)-len(taps)+1 samples; output i corresponds to input
// index i+len(taps)-1.
//
//	y[i] = sum_k taps[k] * x[i+len(taps)-1-k]
func Valid(x, taps []float64) ([]float64, error) {
	if len(taps) == 0 {
		return nil, fmt.Errorf("%w: no taps", ErrInvalidDesign)
	}

	if len(x) < len(taps) {
		return nil, fmt.Errorf("%w: %d samples, %d taps", ErrShortInput, len(x), len(taps))
	}

	n := len(x) - len(taps) + 1
	out := make([]float64, n)
	ValidTo(out, x, taps)

	return out, nil
}

// ValidTo is Valid writing into a pre-allocated dst of length
// len(x)-len(taps)+1.
func ValidTo(dst, x, taps []float64) {
	n := len(dst)
	last := len(taps) - 1

	for i := range dst {
		dst[i] = 0
	}

	// One vector pass per tap; tap counts are small relative to the signal.
	temp := make([]float64, n)
	for k, h := range taps {
		off := last - k
		vecmath.ScaleBlock(temp, x[off:off+n], h)
		vecmath.AddBlockInPlace(dst, temp)
	}
}
