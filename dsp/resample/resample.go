package resample

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-motion/dsp/interp"
	"github.com/cwbudde/algo-motion/series"
)

// ErrOutOfRange is returned under TailReject when a grid point lies outside
// the raw time span.
var ErrOutOfRange = errors.New("resample: grid point outside raw time span")

// TailPolicy decides the value of grid points outside the raw time span.
type TailPolicy int

const (
	// TailZero emits 0.
	TailZero TailPolicy = iota
	// TailHold repeats the nearest raw sample.
	TailHold
	// TailReject fails with ErrOutOfRange.
	TailReject
)

// String returns the policy name used in configuration files.
func (p TailPolicy) String() string {
	switch p {
	case TailZero:
		return "zero"
	case TailHold:
		return "hold"
	case TailReject:
		return "reject"
	default:
		return fmt.Sprintf("tail(%d)", int(p))
	}
}

// ParseTailPolicy parses "zero", "hold" or "reject".
func ParseTailPolicy(s string) (TailPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "zero":
		return TailZero, nil
	case "hold":
		return TailHold, nil
	case "reject":
		return TailReject, nil
	}

	return 0, fmt.Errorf("%w: unknown tail policy %q", series.ErrInvalidConfiguration, s)
}

// MarshalText implements encoding.TextMarshaler.
func (p TailPolicy) MarshalText() ([]byte, error) {
	if p < TailZero || p > TailReject {
		return nil, fmt.Errorf("%w: unknown tail policy %d", series.ErrInvalidConfiguration, int(p))
	}

	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *TailPolicy) UnmarshalText(text []byte) error {
	v, err := ParseTailPolicy(string(text))
	if err != nil {
		return err
	}

	*p = v

	return nil
}

type config struct {
	tail TailPolicy
	mode interp.Mode
	rate float64
}

// Option configures interpolation.
type Option func(*config)

// WithTail selects the out-of-range policy.
func WithTail(p TailPolicy) Option {
	return func(cfg *config) {
		cfg.tail = p
	}
}

// WithMode selects the interpolation method. Default is interp.Linear.
func WithMode(m interp.Mode) Option {
	return func(cfg *config) {
		cfg.mode = m
	}
}

// WithRate records the sampling rate in Hz the step was derived from, so
// Series reports it exactly instead of recomputing 1000/step. Ignored by
// Interpolate and for non-positive values.
func WithRate(fs float64) Option {
	return func(cfg *config) {
		if fs > 0 && !math.IsInf(fs, 0) {
			cfg.rate = fs
		}
	}
}

func applyOptions(opts []Option) config {
	cfg := config{tail: TailZero, mode: interp.Linear}
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}

	return cfg
}

// Grid returns fixed-step timestamps starting at first. Points are appended
// while the next one stays strictly below last, so the grid never reaches
// last itself unless first == last. Timestamps are first + k*step, which
// keeps spacing free of accumulated rounding drift.
//
// Returns nil for a non-positive or non-finite step.
func Grid(first, last, step float64) []float64 {
	if !(step > 0) || math.IsInf(step, 0) {
		return nil
	}

	n := 1
	if last > first {
		n = int(math.Ceil((last - first) / step))
		// Guard the ceil against rounding on exact multiples.
		for n > 1 && first+float64(n-1)*step >= last {
			n--
		}

		for first+float64(n)*step < last {
			n++
		}
	}

	out := make([]float64, n)
	for k := range out {
		out[k] = first + float64(k)*step
	}

	return out
}

// Interpolate evaluates the signal (rawTime, values) at each grid timestamp.
// rawTime must be strictly increasing and grid non-decreasing.
//
// For each grid point t the bracketing pair is the first raw index j with
// rawTime[j] > t and prev = j-1. At t == rawTime[prev] the raw value is
// returned exactly.
func Interpolate(rawTime, values, grid []float64, opts ...Option) ([]float64, error) {
	if len(rawTime) != len(values) {
		return nil, fmt.Errorf("%w: %d timestamps for %d values",
			series.ErrInvalidConfiguration, len(rawTime), len(values))
	}

	n := len(rawTime)
	if n == 0 {
		return nil, series.ErrEmptySeries
	}

	if n < 2 {
		return nil, fmt.Errorf("%w: resample needs at least 2 samples, got %d", series.ErrInsufficientData, n)
	}

	for k := 1; k < len(grid); k++ {
		if grid[k] < grid[k-1] {
			return nil, fmt.Errorf("%w: grid decreases at index %d", series.ErrInvalidConfiguration, k)
		}
	}

	cfg := applyOptions(opts)
	out := make([]float64, len(grid))

	j := 0
	for k, t := range grid {
		for j < n && rawTime[j] <= t {
			j++
		}

		if j == 0 || j == n {
			v, err := outside(cfg.tail, values, j == 0, t)
			if err != nil {
				return nil, err
			}

			out[k] = v

			continue
		}

		prev := j - 1
		frac := interp.Fraction(t, rawTime[prev], rawTime[j])

		switch cfg.mode {
		case interp.Hermite:
			xm1 := values[max(prev-1, 0)]
			x2 := values[min(j+1, n-1)]
			out[k] = interp.Hermite4(frac, xm1, values[prev], values[j], x2)
		default:
			out[k] = interp.Linear2(frac, values[prev], values[j])
		}
	}

	return out, nil
}

func outside(p TailPolicy, values []float64, before bool, t float64) (float64, error) {
	switch p {
	case TailHold:
		if before {
			return values[0], nil
		}

		return values[len(values)-1], nil
	case TailReject:
		return 0, fmt.Errorf("%w: t=%v", ErrOutOfRange, t)
	default:
		return 0, nil
	}
}

// Series resamples every axis of raw onto a grid of the given step in
// milliseconds. Each axis is interpolated from its own raw array; raw is not
// modified. The result carries FS = 1000/step unless WithRate supplies the
// rate.
func Series(raw series.RawSeries, step float64, opts ...Option) (series.ResampledSeries, error) {
	if err := raw.Validate(); err != nil {
		return series.ResampledSeries{}, err
	}

	if raw.Len() < 2 {
		return series.ResampledSeries{}, fmt.Errorf("%w: resample needs at least 2 samples, %s has %d",
			series.ErrInsufficientData, raw.Subject(), raw.Len())
	}

	if !(step > 0) || math.IsInf(step, 0) {
		return series.ResampledSeries{}, fmt.Errorf("%w: resample step %v ms must be positive and finite",
			series.ErrInvalidConfiguration, step)
	}

	rawTime := make([]float64, raw.Len())
	for i, ts := range raw.Time {
		rawTime[i] = float64(ts)
	}

	grid := Grid(rawTime[0], rawTime[len(rawTime)-1], step)

	var res series.AxisSet

	for _, a := range series.Axes {
		v, err := Interpolate(rawTime, raw.Axis(a), grid, opts...)
		if err != nil {
			return series.ResampledSeries{}, fmt.Errorf("resample axis %s: %w", a, err)
		}

		res[a] = v
	}

	rawCopy := make([]int64, raw.Len())
	copy(rawCopy, raw.Time)

	fs := applyOptions(opts).rate
	if fs == 0 {
		fs = 1000 / step
	}

	return series.ResampledSeries{
		Raw:     raw,
		Time:    grid,
		RawTime: rawCopy,
		Step:    step,
		FS:      fs,
		Res:     res,
	}, nil
}

// StepForRate returns the grid step in milliseconds for a sampling rate in Hz.
func StepForRate(fs float64) float64 {
	if !(fs > 0) {
		return 0
	}

	return 1000 / fs
}
