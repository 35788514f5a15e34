package bank

import (
	"fmt"

	"github.com/cwbudde/algo-motion/series"
)

// Bank is an ordered chain of filter stages.
type Bank struct {
	stages []*Stage
}

// New designs every stage before returning, so an invalid configuration is
// reported before any samples are processed. Zero configs yield a
// pass-through bank.
func New(cfgs ...Config) (*Bank, error) {
	stages := make([]*Stage, 0, len(cfgs))

	for i, cfg := range cfgs {
		s, err := Design(cfg)
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", i, err)
		}

		stages = append(stages, s)
	}

	return &Bank{stages: stages}, nil
}

// Stages returns the designed stages in application order.
func (b *Bank) Stages() []*Stage { return append([]*Stage(nil), b.stages...) }

// Len returns the number of stages.
func (b *Bank) Len() int { return len(b.stages) }

// Shrink returns the total number of samples the chain drops.
func (b *Bank) Shrink() int {
	n := 0
	for _, s := range b.stages {
		n += s.Shrink()
	}

	return n
}

// MinLength is the shortest input Apply accepts.
func (b *Bank) MinLength() int { return b.Shrink() + 1 }

// Describe returns one description per stage.
func (b *Bank) Describe() []string {
	out := make([]string, len(b.stages))
	for i, s := range b.stages {
		out[i] = s.String()
	}

	return out
}

// Apply runs x through every stage in order and returns a new slice of
// len(x)-Shrink() samples. x is not modified.
func (b *Bank) Apply(x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, series.ErrEmptySeries
	}

	if len(x) < b.MinLength() {
		return nil, fmt.Errorf("%w: filter chain needs %d samples, have %d",
			series.ErrInsufficientData, b.MinLength(), len(x))
	}

	y := append([]float64(nil), x...)

	for _, s := range b.stages {
		var err error
		if y, err = s.Apply(y); err != nil {
			return nil, err
		}
	}

	return y, nil
}

// ApplyAxes filters each axis independently, each with its own fresh state.
// The input set is not modified.
func (b *Bank) ApplyAxes(in series.AxisSet) (series.AxisSet, error) {
	var out series.AxisSet

	for _, a := range series.Axes {
		y, err := b.Apply(in[a])
		if err != nil {
			return series.AxisSet{}, fmt.Errorf("axis %s: %w", a, err)
		}

		out[a] = y
	}

	return out, nil
}

// MagnitudeDB returns the combined magnitude response of the chain at freqHz.
func (b *Bank) MagnitudeDB(freqHz float64) float64 {
	db := 0.0
	for _, s := range b.stages {
		db += s.MagnitudeDB(freqHz)
	}

	return db
}
