package interp

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned when parsing an unrecognized mode name.
var ErrUnknownMode = errors.New("interp: unknown mode")

// Mode selects an interpolation method.
type Mode int

const (
	// Linear interpolates between the two bracketing samples.
	Linear Mode = iota
	// Hermite uses a 4-point cubic Hermite spline through the bracketing
	// samples and their neighbors.
	Hermite
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Linear:
		return "linear"
	case Hermite:
		return "hermite"
	default:
		return "unknown"
	}
}

// ParseMode parses "linear" or "hermite". The empty string is Linear.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "linear":
		return Linear, nil
	case "hermite":
		return Hermite, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m != Linear && m != Hermite {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}

	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}

	*m = v

	return nil
}

// Linear2 interpolates between x0 (t=0) and x1 (t=1).
//
// The result is exactly x0 at t == 0.
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Fraction returns the position of at inside [from, to] as a value in [0,1]
// when from <= at <= to. A degenerate interval yields 0.
func Fraction(at, from, to float64) float64 {
	span := to - from
	if span == 0 {
		return 0
	}

	return (at - from) / span
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)

	return ((c3*t+c2)*t+c1)*t + c0
}
