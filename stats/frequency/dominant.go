package frequency

import (
	"fmt"
	"math/bits"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-motion/dsp/window"
	"github.com/cwbudde/algo-motion/series"
)

// minFFTSize keeps the bin spacing usable for short recordings.
const minFFTSize = 256

// Spectrum is a one-sided power spectrum.
type Spectrum struct {
	Power []float64 // |X[k]|^2 for bins 0..N/2
	BinHz float64   // frequency spacing between bins
}

// Freq returns the centre frequency of bin k.
func (s Spectrum) Freq(k int) float64 { return float64(k) * s.BinHz }

// PowerSpectrum removes the mean of x, applies a Hann window, zero-pads to a
// power of two at least four times len(x), and returns the one-sided power
// spectrum.
func PowerSpectrum(x []float64, sampleRate float64) (Spectrum, error) {
	if len(x) < 2 {
		return Spectrum{}, fmt.Errorf("%w: spectrum needs 2 samples, have %d", series.ErrInsufficientData, len(x))
	}

	if sampleRate <= 0 {
		return Spectrum{}, fmt.Errorf("%w: sample rate %g Hz", series.ErrInvalidConfiguration, sampleRate)
	}

	fftSize := nextPow2(max(4*len(x), minFFTSize))

	mean := 0.0
	for _, v := range x {
		mean += v
	}

	mean /= float64(len(x))

	centered := make([]float64, len(x))
	for i, v := range x {
		centered[i] = v - mean
	}

	window.Apply(window.TypeHann, centered)

	in := make([]complex128, fftSize)
	for i, v := range centered {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Spectrum{}, fmt.Errorf("frequency: fft plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return Spectrum{}, fmt.Errorf("frequency: fft: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for k := range bins {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}

	power := make([]float64, bins)
	vecmath.Power(power, re, im)

	return Spectrum{Power: power, BinHz: sampleRate / float64(fftSize)}, nil
}

// Dominant returns the frequency in Hz of the strongest non-DC component of
// x. A signal without any non-DC energy yields 0.
func Dominant(x []float64, sampleRate float64) (float64, error) {
	s, err := PowerSpectrum(x, sampleRate)
	if err != nil {
		return 0, err
	}

	best := 1
	for k := 2; k < len(s.Power); k++ {
		if s.Power[k] > s.Power[best] {
			best = k
		}
	}

	// Mean removal leaves float residue in flat signals.
	if s.Power[best] < 1e-20 {
		return 0, nil
	}

	return s.Freq(best), nil
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}

	return 1 << bits.Len(uint(n-1))
}
