package bank

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-motion/series"
)

// MaxOrder is the highest supported filter order for every characteristic.
const MaxOrder = 12

// Direction selects the pass band.
type Direction int

const (
	Lowpass Direction = iota
	Highpass
)

// Characteristic selects the design family.
type Characteristic int

const (
	// Butterworth is maximally flat in the pass band.
	Butterworth Characteristic = iota
	// Bessel has maximally flat group delay.
	Bessel
)

// Mode selects how a stage is realized.
type Mode int

const (
	// IIR realizes the stage as a biquad cascade. Output length is preserved.
	IIR Mode = iota
	// FIR realizes the stage as a Hamming-windowed sinc kernel with
	// 2*order+1 taps. The kernel has no Bessel variant, so FIR stages must
	// use the Butterworth characteristic.
	FIR
)

var (
	directionNames      = [...]string{"lowpass", "highpass"}
	characteristicNames = [...]string{"butterworth", "bessel"}
	modeNames           = [...]string{"iir", "fir"}
)

func (d Direction) String() string      { return enumName(directionNames[:], int(d)) }
func (c Characteristic) String() string { return enumName(characteristicNames[:], int(c)) }
func (m Mode) String() string           { return enumName(modeNames[:], int(m)) }

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) { return marshalEnum(directionNames[:], int(d)) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	return unmarshalEnum(directionNames[:], text, (*int)(d))
}

// MarshalText implements encoding.TextMarshaler.
func (c Characteristic) MarshalText() ([]byte, error) {
	return marshalEnum(characteristicNames[:], int(c))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Characteristic) UnmarshalText(text []byte) error {
	return unmarshalEnum(characteristicNames[:], text, (*int)(c))
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return marshalEnum(modeNames[:], int(m)) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	return unmarshalEnum(modeNames[:], text, (*int)(m))
}

// Config describes one filter stage. Cutoff and SampleRate are in Hz.
type Config struct {
	Direction      Direction      `yaml:"direction" json:"direction"`
	Characteristic Characteristic `yaml:"characteristic" json:"characteristic"`
	Mode           Mode           `yaml:"mode" json:"mode"`
	Order          int            `yaml:"order" json:"order"`
	Cutoff         float64        `yaml:"cutoff" json:"cutoff"`
	SampleRate     float64        `yaml:"sampleRate,omitempty" json:"sampleRate,omitempty"`
}

// Validate reports whether c can be designed. Failures wrap
// series.ErrInvalidConfiguration.
func (c Config) Validate() error {
	switch {
	case !validEnum(directionNames[:], int(c.Direction)):
		return fmt.Errorf("%w: unknown direction %d", series.ErrInvalidConfiguration, c.Direction)
	case !validEnum(characteristicNames[:], int(c.Characteristic)):
		return fmt.Errorf("%w: unknown characteristic %d", series.ErrInvalidConfiguration, c.Characteristic)
	case !validEnum(modeNames[:], int(c.Mode)):
		return fmt.Errorf("%w: unknown mode %d", series.ErrInvalidConfiguration, c.Mode)
	case c.Mode == FIR && c.Characteristic != Butterworth:
		return fmt.Errorf("%w: %s has no fir design, use iir", series.ErrInvalidConfiguration, c.Characteristic)
	case c.Order <= 0 || c.Order > MaxOrder:
		return fmt.Errorf("%w: order %d outside 1..%d", series.ErrInvalidConfiguration, c.Order, MaxOrder)
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %g Hz must be positive", series.ErrInvalidConfiguration, c.SampleRate)
	case c.Cutoff <= 0:
		return fmt.Errorf("%w: cutoff %g Hz must be positive", series.ErrInvalidConfiguration, c.Cutoff)
	case c.Cutoff >= c.SampleRate/2:
		return fmt.Errorf("%w: cutoff %g Hz at or above Nyquist %g Hz",
			series.ErrInvalidConfiguration, c.Cutoff, c.SampleRate/2)
	}

	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("%s %s order %d @ %g Hz (%s)", c.Direction, c.Characteristic, c.Order, c.Cutoff, c.Mode)
}

func enumName(names []string, v int) string {
	if !validEnum(names, v) {
		return fmt.Sprintf("unknown(%d)", v)
	}

	return names[v]
}

func validEnum(names []string, v int) bool {
	return v >= 0 && v < len(names)
}

func marshalEnum(names []string, v int) ([]byte, error) {
	if !validEnum(names, v) {
		return nil, fmt.Errorf("%w: enum value %d", series.ErrInvalidConfiguration, v)
	}

	return []byte(names[v]), nil
}

func unmarshalEnum(names []string, text []byte, dst *int) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range names {
		if n == s {
			*dst = i
			return nil
		}
	}

	return fmt.Errorf("%w: %q is not one of %s", series.ErrInvalidConfiguration, s, strings.Join(names, ", "))
}
