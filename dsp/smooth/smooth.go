// Package smooth provides a centered moving-average smoother whose window
// shrinks at the array edges instead of zero-padding.
package smooth

import (
	"fmt"

	"github.com/cwbudde/algo-motion/series"
)

// MovingAverage returns y where y[i] is the mean of x over
// [max(0, i-width/2), min(n-1, i+width/2)]. The output has the same length as
// x and x is not modified.
func MovingAverage(x []float64, width int) ([]float64, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: smoothing window %d must be > 0", series.ErrInvalidConfiguration, width)
	}

	n := len(x)
	out := make([]float64, n)
	if n == 0 {
		return out, nil
	}

	// prefix[i] = x[0] + ... + x[i-1]
	prefix := make([]float64, n+1)
	for i, v := range x {
		prefix[i+1] = prefix[i] + v
	}

	half := width / 2
	for i := range out {
		lo := max(0, i-half)
		hi := min(n-1, i+half)
		out[i] = (prefix[hi+1] - prefix[lo]) / float64(hi-lo+1)
	}

	return out, nil
}

// Axes smooths every axis of s independently, each from its own array.
func Axes(s series.AxisSet, width int) (series.AxisSet, error) {
	var out series.AxisSet

	for _, a := range series.Axes {
		y, err := MovingAverage(s[a], width)
		if err != nil {
			return series.AxisSet{}, err
		}

		out[a] = y
	}

	return out, nil
}
