package fir

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-motion/dsp/window"
)

// Errors returned by design and filtering functions.
var (
	ErrInvalidDesign = errors.New("fir: invalid design parameters")
	ErrShortInput    = errors.New("fir: input shorter than filter")
)

// NumTaps returns the tap count of an order-N design.
func NumTaps(order int) int {
	return 2*order + 1
}

// Lowpass designs a Hamming-windowed sinc lowpass with 2*order+1 taps and
// unity DC gain.
func Lowpass(cutoff float64, order int, sampleRate float64) ([]float64, error) {
	if err := validate(cutoff, order, sampleRate); err != nil {
		return nil, err
	}

	n := NumTaps(order)
	fc := cutoff / sampleRate
	w := window.Generate(window.TypeHamming, n)

	taps := make([]float64, n)
	sum := 0.0

	for i := range taps {
		m := float64(i - order)
		taps[i] = 2 * fc * sinc(2*fc*m) * w[i]
		sum += taps[i]
	}

	for i := range taps {
		taps[i] /= sum
	}

	return taps, nil
}

// Highpass designs a highpass by spectral inversion of the matching lowpass.
// The result has zero DC gain.
func Highpass(cutoff float64, order int, sampleRate float64) ([]float64, error) {
	taps, err := Lowpass(cutoff, order, sampleRate)
	if err != nil {
		return nil, err
	}

	for i := range taps {
		taps[i] = -taps[i]
	}

	taps[order]++

	return taps, nil
}

// Response computes the complex frequency response of taps at the given
// frequency (Hz) and sample rate (Hz).
func Response(taps []float64, freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate

	var h complex128
	for k, c := range taps {
		h += complex(c, 0) * cmplx.Exp(complex(0, -w*float64(k)))
	}

	return h
}

// MagnitudeDB returns the magnitude response of taps in dB.
func MagnitudeDB(taps []float64, freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(Response(taps, freqHz, sampleRate)))
}

func validate(cutoff float64, order int, sampleRate float64) error {
	if order < 1 {
		return fmt.Errorf("%w: order %d < 1", ErrInvalidDesign, order)
	}

	if sampleRate <= 0 || cutoff <= 0 || cutoff >= sampleRate/2 {
		return fmt.Errorf("%w: cutoff %g Hz outside (0, %g)", ErrInvalidDesign, cutoff, sampleRate/2)
	}

	return nil
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}

	px := math.Pi * x

	return math.Sin(px) / px
}
