// Package testutil holds deterministic test signals and comparison helpers
// shared by the package tests.
package testutil

import (
	"math"
	"math/rand/v2"
)

// Sine returns n samples of amp*sin(2*pi*freqHz*t) sampled at fs Hz.
func Sine(freqHz, fs, amp float64, n int) []float64 {
	out := make([]float64, n)
	w := 2 * math.Pi * freqHz / fs

	for i := range out {
		out[i] = amp * math.Sin(w*float64(i))
	}

	return out
}

// Noise returns n uniform samples in [-amp, amp). Equal seeds give equal
// sequences.
func Noise(seed int64, amp float64, n int) []float64 {
	rng := newRand(seed)
	out := make([]float64, n)

	for i := range out {
		out[i] = amp * (2*rng.Float64() - 1)
	}

	return out
}

// Constant returns n copies of v.
func Constant(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}

	return out
}

// Sum adds the signals element by element. The result has the length of the
// shortest input.
func Sum(signals ...[]float64) []float64 {
	if len(signals) == 0 {
		return nil
	}

	n := len(signals[0])
	for _, s := range signals[1:] {
		n = min(n, len(s))
	}

	out := make([]float64, n)
	for _, s := range signals {
		for i := range out {
			out[i] += s[i]
		}
	}

	return out
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))
}
