package pass

import (
	"github.com/cwbudde/algo-motion/dsp/filter/biquad"
)

// ButterworthLP designs a lowpass Butterworth cascade of (order+1)/2
// sections, highest Q first. Odd orders end in a first-order section
// (B2=A2=0). Returns nil for a non-positive order or a cutoff outside
// (0, Nyquist).
func ButterworthLP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	return butterworthCascade(freq, order, sampleRate, lowpassRBJ, butterworthFirstOrderLP)
}

// ButterworthHP is the highpass counterpart of ButterworthLP.
func ButterworthHP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	return butterworthCascade(freq, order, sampleRate, highpassRBJ, butterworthFirstOrderHP)
}

func butterworthCascade(
	freq float64, order int, sampleRate float64,
	second func(freq, q, sampleRate float64) biquad.Coefficients,
	first func(freq, sampleRate float64) biquad.Coefficients,
) []biquad.Coefficients {
	if order <= 0 {
		return nil
	}

	if _, ok := bilinearK(freq, sampleRate); !ok {
		return nil
	}

	out := make([]biquad.Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		out = append(out, second(freq, butterworthQ(order, i), sampleRate))
	}

	if order%2 == 1 {
		out = append(out, first(freq, sampleRate))
	}

	return out
}
