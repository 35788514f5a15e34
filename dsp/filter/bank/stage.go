package bank

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-motion/dsp/filter/biquad"
	"github.com/cwbudde/algo-motion/dsp/filter/design/pass"
	"github.com/cwbudde/algo-motion/dsp/filter/fir"
	"github.com/cwbudde/algo-motion/series"
)

// Stage is one designed filter. It holds coefficients only.
type Stage struct {
	cfg      Config
	sections []biquad.Coefficients // IIR
	taps     []float64             // FIR
}

// Design validates cfg and computes the stage coefficients.
func Design(cfg Config) (*Stage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Stage{cfg: cfg}

	if cfg.Mode == FIR {
		var err error
		if cfg.Direction == Lowpass {
			s.taps, err = fir.Lowpass(cfg.Cutoff, cfg.Order, cfg.SampleRate)
		} else {
			s.taps, err = fir.Highpass(cfg.Cutoff, cfg.Order, cfg.SampleRate)
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", series.ErrInvalidConfiguration, err)
		}

		return s, nil
	}

	s.sections = designSections(cfg)
	if s.sections == nil {
		return nil, fmt.Errorf("%w: cannot design %s", series.ErrInvalidConfiguration, cfg)
	}

	return s, nil
}

func designSections(cfg Config) []biquad.Coefficients {
	switch {
	case cfg.Characteristic == Bessel && cfg.Direction == Lowpass:
		return pass.BesselLP(cfg.Cutoff, cfg.Order, cfg.SampleRate)
	case cfg.Characteristic == Bessel:
		return pass.BesselHP(cfg.Cutoff, cfg.Order, cfg.SampleRate)
	case cfg.Direction == Lowpass:
		return pass.ButterworthLP(cfg.Cutoff, cfg.Order, cfg.SampleRate)
	default:
		return pass.ButterworthHP(cfg.Cutoff, cfg.Order, cfg.SampleRate)
	}
}

// Config returns the configuration the stage was designed from.
func (s *Stage) Config() Config { return s.cfg }

// String describes the stage.
func (s *Stage) String() string { return s.cfg.String() }

// Shrink returns how many samples Apply drops: tapCount-1 for FIR, 0 for IIR.
func (s *Stage) Shrink() int {
	if s.taps == nil {
		return 0
	}

	return len(s.taps) - 1
}

// MinLength is the shortest input Apply accepts.
func (s *Stage) MinLength() int { return s.Shrink() + 1 }

// Taps returns a copy of the FIR kernel, or nil for an IIR stage.
func (s *Stage) Taps() []float64 {
	if s.taps == nil {
		return nil
	}

	return append([]float64(nil), s.taps...)
}

// Sections returns a copy of the biquad sections, or nil for a FIR stage.
func (s *Stage) Sections() []biquad.Coefficients {
	if s.sections == nil {
		return nil
	}

	return append([]biquad.Coefficients(nil), s.sections...)
}

// Apply filters x and returns a new slice. x is not modified.
// IIR stages run causally through a freshly reset cascade; FIR stages return
// len(x)-Shrink() samples.
func (s *Stage) Apply(x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, series.ErrEmptySeries
	}

	if s.taps != nil {
		y, err := fir.Valid(x, s.taps)
		if errors.Is(err, fir.ErrShortInput) {
			return nil, fmt.Errorf("%w: %s needs %d samples, have %d",
				series.ErrInsufficientData, s, s.MinLength(), len(x))
		}

		return y, err
	}

	return biquad.NewChain(s.sections).Filter(x), nil
}

// MagnitudeDB returns the stage's magnitude response at freqHz.
func (s *Stage) MagnitudeDB(freqHz float64) float64 {
	if s.taps != nil {
		return fir.MagnitudeDB(s.taps, freqHz, s.cfg.SampleRate)
	}

	return biquad.NewChain(s.sections).MagnitudeDB(freqHz, s.cfg.SampleRate)
}
