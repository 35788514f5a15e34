// Package polyroot provides polynomial root finding for analog prototype
// design (Bessel poles).
package polyroot

import (
	"errors"
	"math"
	"math/cmplx"
	"sort"
)

// ErrDegeneratePolynomial is returned when a polynomial has degenerate
// coefficients (leading coefficient zero, convergence failure, etc.).
var ErrDegeneratePolynomial = errors.New("polyroot: degenerate polynomial")

// ConjugateTol is the relative tolerance for deciding that a root is real or
// that two roots form a conjugate pair.
const ConjugateTol = 1e-7

// DurandKerner finds all roots of a polynomial using the Durand-Kerner
// (Weierstrass) simultaneous iteration method. Coefficients are in descending
// power order: coeff[0]*z^n + coeff[1]*z^(n-1) + ... + coeff[n].
//
//nolint:cyclop
func DurandKerner(coeff []complex128) ([]complex128, error) {
	if len(coeff) < 2 {
		return nil, ErrDegeneratePolynomial
	}

	lead := coeff[0]
	if lead == 0 {
		return nil, ErrDegeneratePolynomial
	}

	n := len(coeff) - 1

	norm := make([]complex128, len(coeff))
	for i := range coeff {
		norm[i] = coeff[i] / lead
	}

	radius := 0.0
	for i := 1; i <= n; i++ {
		if r := cmplx.Abs(norm[i]); r > radius {
			radius = r
		}
	}

	if radius < 1 {
		radius = 1
	}

	roots := make([]complex128, n)
	for i := range n {
		angle := 2*math.Pi*float64(i)/float64(n) + 0.3
		r := radius * (1 + 0.1*float64(i)/float64(n))
		roots[i] = complex(r*math.Cos(angle), r*math.Sin(angle))
	}

	const (
		maxIter = 2000
		tol     = 1e-13
	)

	for range maxIter {
		maxDelta := 0.0

		for i := range n {
			den := complex(1, 0)

			for j := range n {
				if i == j {
					continue
				}

				den *= roots[i] - roots[j]
			}

			if cmplx.Abs(den) == 0 {
				roots[i] += complex(1e-10, 1e-10)
				continue
			}

			delta := PolyEval(norm, roots[i]) / den

			roots[i] -= delta
			if d := cmplx.Abs(delta); d > maxDelta {
				maxDelta = d
			}
		}

		if maxDelta < tol*radius {
			return roots, nil
		}
	}

	maxResidual := 0.0

	for _, r := range roots {
		res := cmplx.Abs(PolyEval(norm, r))
		if res > maxResidual {
			maxResidual = res
		}
	}

	if maxResidual < 1e-6 {
		return roots, nil
	}

	return nil, ErrDegeneratePolynomial
}

// PolyEval evaluates a polynomial at x using Horner's method. Coefficients
// are in descending power order: coeff[0]*x^n + ... + coeff[n].
func PolyEval(coeff []complex128, x complex128) complex128 {
	v := coeff[0]
	for i := 1; i < len(coeff); i++ {
		v = v*x + coeff[i]
	}

	return v
}

// IsConjugate checks whether a and b are complex conjugates within tolerance.
func IsConjugate(a, b complex128, tol float64) bool {
	if math.Abs(real(a)-real(b)) > tol*math.Max(1, math.Abs(real(a))) {
		return false
	}

	if math.Abs(imag(a)+imag(b)) > tol*math.Max(1, math.Abs(imag(a))) {
		return false
	}

	return true
}

// UpperHalf reduces the roots of a real polynomial to one representative per
// conjugate pair (positive imaginary part) followed by the real roots.
// Pairs are ordered by descending imaginary part; real roots are returned
// with an exact zero imaginary part.
func UpperHalf(roots []complex128) ([]complex128, error) {
	var pairs, reals []complex128

	used := make([]bool, len(roots))
	for i, r := range roots {
		if used[i] {
			continue
		}

		if math.Abs(imag(r)) <= ConjugateTol*math.Max(1, cmplx.Abs(r)) {
			used[i] = true
			reals = append(reals, complex(real(r), 0))

			continue
		}

		best := -1
		bestDist := math.MaxFloat64

		for j := i + 1; j < len(roots); j++ {
			if used[j] {
				continue
			}

			if d := cmplx.Abs(roots[j] - cmplx.Conj(r)); d < bestDist {
				best, bestDist = j, d
			}
		}

		if best == -1 || !IsConjugate(r, roots[best], 1e-6) {
			return nil, ErrDegeneratePolynomial
		}

		used[i], used[best] = true, true

		// Average the pair to remove the residual asymmetry of the iteration.
		mid := (r + cmplx.Conj(roots[best])) / 2
		pairs = append(pairs, complex(real(mid), math.Abs(imag(mid))))
	}

	sort.Slice(pairs, func(a, b int) bool { return imag(pairs[a]) > imag(pairs[b]) })

	return append(pairs, reals...), nil
}
