package series

import (
	"fmt"
	"strings"
)

// Axis identifies one accelerometer axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Axes lists all axes in storage order.
var Axes = [3]Axis{AxisX, AxisY, AxisZ}

// String returns the lower-case axis name.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// Valid reports whether a names one of the three axes.
func (a Axis) Valid() bool {
	return a >= AxisX && a <= AxisZ
}

// ParseAxis parses "x", "y" or "z" (case-insensitive).
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}

	return 0, fmt.Errorf("%w: unknown axis %q", ErrInvalidConfiguration, s)
}

// MarshalText implements encoding.TextMarshaler.
func (a Axis) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: axis %d", ErrInvalidConfiguration, int(a))
	}

	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Axis) UnmarshalText(text []byte) error {
	v, err := ParseAxis(string(text))
	if err != nil {
		return err
	}

	*a = v

	return nil
}

// AxisSet holds one array per axis, indexed by Axis.
type AxisSet [3][]float64

// Clone returns a deep copy. Each axis is copied from its own array.
func (s AxisSet) Clone() AxisSet {
	var out AxisSet
	for i := range s {
		out[i] = cloneFloats(s[i])
	}

	return out
}

// Len returns the common length of the axis arrays, or -1 if they differ.
func (s AxisSet) Len() int {
	n := len(s[0])
	if len(s[1]) != n || len(s[2]) != n {
		return -1
	}

	return n
}

func cloneFloats(x []float64) []float64 {
	if x == nil {
		return nil
	}

	out := make([]float64, len(x))
	copy(out, x)

	return out
}
