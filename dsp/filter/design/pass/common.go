// Package pass designs Butterworth and Bessel lowpass and highpass
// cascades as biquad coefficient sets.
//
// All designs use the bilinear transform with frequency pre-warping so the
// -3 dB point lands on the requested cutoff. Odd orders end with a
// first-order section (B2=A2=0).
package pass

import (
	"math"

	"github.com/cwbudde/algo-motion/dsp/filter/biquad"
)

// bilinearK computes the bilinear transform frequency warping factor tan(π*freq/sampleRate).
// Returns (k, true) on success, (0, false) if parameters are invalid.
func bilinearK(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || freq <= 0 || freq >= sampleRate/2 {
		return 0, false
	}

	return math.Tan(math.Pi * freq / sampleRate), true
}

// butterworthQ returns the quality factor for a Butterworth filter section.
// index ranges from 0 to (order/2 - 1) for the biquad sections.
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))

	s := math.Sin(theta)
	if s == 0 {
		return 1 / math.Sqrt2
	}

	return 1 / (2 * s)
}

// lowpassRBJ is the second-order lowpass from the RBJ audio EQ cookbook,
// normalized by a0.
func lowpassRBJ(freq, q, sampleRate float64) biquad.Coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cosW := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	norm := 1 / (1 + alpha)

	return biquad.Coefficients{
		B0: (1 - cosW) / 2 * norm,
		B1: (1 - cosW) * norm,
		B2: (1 - cosW) / 2 * norm,
		A1: -2 * cosW * norm,
		A2: (1 - alpha) * norm,
	}
}

// highpassRBJ is the second-order highpass from the RBJ audio EQ cookbook,
// normalized by a0.
func highpassRBJ(freq, q, sampleRate float64) biquad.Coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cosW := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	norm := 1 / (1 + alpha)

	return biquad.Coefficients{
		B0: (1 + cosW) / 2 * norm,
		B1: -(1 + cosW) * norm,
		B2: (1 + cosW) / 2 * norm,
		A1: -2 * cosW * norm,
		A2: (1 - alpha) * norm,
	}
}

// butterworthFirstOrderLP designs a first-order lowpass Butterworth section.
// Used for odd-order filters.
func butterworthFirstOrderLP(freq, sampleRate float64) biquad.Coefficients {
	k, ok := bilinearK(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	norm := 1 / (1 + k)

	return biquad.Coefficients{
		B0: k * norm,
		B1: k * norm,
		A1: (k - 1) * norm,
	}
}

// butterworthFirstOrderHP designs a first-order highpass Butterworth section.
// Used for odd-order filters.
func butterworthFirstOrderHP(freq, sampleRate float64) biquad.Coefficients {
	k, ok := bilinearK(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	norm := 1 / (1 + k)

	return biquad.Coefficients{
		B0: norm,
		B1: -norm,
		A1: (k - 1) * norm,
	}
}
