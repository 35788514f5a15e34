package pass

import (
	"math"

	"github.com/cwbudde/algo-motion/dsp/filter/biquad"
	"github.com/cwbudde/algo-motion/internal/polyroot"
)

// BesselLP designs a lowpass Bessel (Thomson) cascade.
// The Bessel filter has maximally flat group delay in the passband.
// Supported orders: 1 to 12. Returns nil for unsupported or invalid parameters.
//
// For odd orders, the final section is first-order (B2=A2=0).
func BesselLP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 || order > maxBesselOrder {
		return nil
	}

	if sampleRate <= 0 || freq <= 0 || freq >= sampleRate/2 {
		return nil
	}

	wc := math.Tan(math.Pi * freq / sampleRate)

	poles, err := besselNormPoles(order)
	if err != nil {
		return nil
	}

	sections := make([]biquad.Coefficients, 0, (order+1)/2)

	for _, p := range poles {
		sigma := -real(p)

		omega := imag(p)
		if omega == 0 {
			sections = append(sections, besselFirstOrderLP(wc, sigma))
		} else {
			sections = append(sections, besselSecondOrderLP(wc, sigma, omega))
		}
	}

	return sections
}

// BesselHP designs a highpass Bessel (Thomson) cascade.
// The Bessel filter has maximally flat group delay in the passband.
// Supported orders: 1 to 12. Returns nil for unsupported or invalid parameters.
//
// For odd orders, the final section is first-order (B2=A2=0).
func BesselHP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 || order > maxBesselOrder {
		return nil
	}

	if sampleRate <= 0 || freq <= 0 || freq >= sampleRate/2 {
		return nil
	}

	wc := math.Tan(math.Pi * freq / sampleRate)

	poles, err := besselNormPoles(order)
	if err != nil {
		return nil
	}

	sections := make([]biquad.Coefficients, 0, (order+1)/2)

	for _, p := range poles {
		sigma := -real(p)

		omega := imag(p)
		if omega == 0 {
			sections = append(sections, besselFirstOrderHP(wc, sigma))
		} else {
			sections = append(sections, besselSecondOrderHP(wc, sigma, omega))
		}
	}

	return sections
}

// besselSecondOrderLP creates a lowpass biquad from a Bessel conjugate pole pair.
// sigma and omega are the -3 dB normalized pole real/imaginary magnitudes (positive).
func besselSecondOrderLP(wc, sigma, omega float64) biquad.Coefficients {
	// Scale analog pole by pre-warped cutoff.
	a := sigma * wc
	b := omega * wc
	p2 := a*a + b*b

	// Bilinear transform: s = (z-1)/(z+1).
	a0 := 1 + 2*a + p2
	a1 := -2 + 2*p2
	a2 := 1 - 2*a + p2

	// Unity DC gain normalization.
	return biquad.Coefficients{
		B0: p2 / a0,
		B1: 2 * p2 / a0,
		B2: p2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}

// besselFirstOrderLP creates a first-order lowpass section from a real Bessel pole.
func besselFirstOrderLP(wc, sigma float64) biquad.Coefficients {
	sp := sigma * wc
	norm := 1 / (1 + sp)

	return biquad.Coefficients{
		B0: sp * norm,
		B1: sp * norm,
		A1: (sp - 1) * norm,
	}
}

// besselSecondOrderHP creates a highpass biquad from a Bessel conjugate pole pair.
// sigma and omega are the -3 dB normalized pole real/imaginary magnitudes (positive).
func besselSecondOrderHP(wc, sigma, omega float64) biquad.Coefficients {
	// HP analog: LP-to-HP frequency transformation s → 1/s in normalized domain.
	p2 := sigma*sigma + omega*omega
	wc2 := wc * wc

	a0 := wc2 + 2*sigma*wc + p2
	a1 := 2*wc2 - 2*p2
	a2 := wc2 - 2*sigma*wc + p2

	// Unity Nyquist gain normalization.
	return biquad.Coefficients{
		B0: p2 / a0,
		B1: -2 * p2 / a0,
		B2: p2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}

// besselFirstOrderHP creates a first-order highpass section from a real Bessel pole.
func besselFirstOrderHP(wc, sigma float64) biquad.Coefficients {
	norm := 1 / (wc + sigma)

	return biquad.Coefficients{
		B0: sigma * norm,
		B1: -sigma * norm,
		A1: (wc - sigma) * norm,
	}
}

const maxBesselOrder = 12

// besselNormPoles returns the -3 dB normalized analog prototype poles for a
// Bessel filter of the given order. Only unique poles are returned: one per
// conjugate pair (positive imaginary part, descending) and the real pole for
// odd orders, listed last.
func besselNormPoles(order int) ([]complex128, error) {
	roots, err := besselDelayRoots(order)
	if err != nil {
		return nil, err
	}

	w3 := minus3dBFrequency(roots)
	for i := range roots {
		roots[i] /= complex(w3, 0)
	}

	return polyroot.UpperHalf(roots)
}

// besselDelayRoots returns all roots of the reverse Bessel polynomial of the
// given order, i.e. the delay-normalized Bessel poles.
func besselDelayRoots(order int) ([]complex128, error) {
	a := reverseBesselCoefficients(order)

	// Substitute s = g*u with g = a0^(1/n) so the roots sit near the unit
	// circle, which keeps the iteration well conditioned at high orders.
	g := math.Pow(a[0], 1/float64(order))

	desc := make([]complex128, order+1)
	for k := 0; k <= order; k++ {
		desc[order-k] = complex(a[k]*math.Pow(g, float64(k))/a[0], 0)
	}

	roots, err := polyroot.DurandKerner(desc)
	if err != nil {
		return nil, err
	}

	for i := range roots {
		roots[i] *= complex(g, 0)
	}

	return roots, nil
}

// reverseBesselCoefficients returns the coefficients of the reverse Bessel
// polynomial in ascending powers: a_k = (2n-k)! / (2^(n-k) k! (n-k)!).
func reverseBesselCoefficients(n int) []float64 {
	a := make([]float64, n+1)
	for k := 0; k <= n; k++ {
		a[k] = factorial(2*n-k) / (math.Pow(2, float64(n-k)) * factorial(k) * factorial(n-k))
	}

	return a
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}

	return f
}

// minus3dBFrequency finds the angular frequency where the all-pole response
// built from poles (unity DC gain) falls to half power.
func minus3dBFrequency(poles []complex128) float64 {
	power := func(w float64) float64 {
		p := 1.0

		for _, pole := range poles {
			num := real(pole)*real(pole) + imag(pole)*imag(pole)
			d := complex(0, w) - pole
			p *= num / (real(d)*real(d) + imag(d)*imag(d))
		}

		return p
	}

	lo, hi := 0.0, 1.0
	for power(hi) > 0.5 {
		lo, hi = hi, 2*hi
	}

	for range 200 {
		mid := (lo + hi) / 2
		if power(mid) > 0.5 {
			lo = mid
		} else {
			hi = mid
		}

		if hi-lo <= 1e-15*hi {
			break
		}
	}

	return (lo + hi) / 2
}
