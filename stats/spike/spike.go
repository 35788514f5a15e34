package spike

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-motion/series"
)

// Default parameters.
const (
	DefaultLag       = 16
	DefaultThreshold = 8.0
	DefaultInfluence = 0.3
)

// recomputeEvery bounds the drift of the running sums.
const recomputeEvery = 1024

// Params configures the detector.
type Params struct {
	Lag       int     `yaml:"lag" json:"lag"`             // trailing window length
	Threshold float64 `yaml:"threshold" json:"threshold"` // in standard deviations
	Influence float64 `yaml:"influence" json:"influence"` // weight of a flagged sample, 0..1
}

// DefaultParams returns lag 16, threshold 8 and influence 0.3.
func DefaultParams() Params {
	return Params{Lag: DefaultLag, Threshold: DefaultThreshold, Influence: DefaultInfluence}
}

// Validate reports parameter violations wrapped in
// series.ErrInvalidConfiguration.
func (p Params) Validate() error {
	switch {
	case p.Lag < 1:
		return fmt.Errorf("%w: lag %d < 1", series.ErrInvalidConfiguration, p.Lag)
	case p.Threshold < 0 || math.IsNaN(p.Threshold):
		return fmt.Errorf("%w: threshold %g < 0", series.ErrInvalidConfiguration, p.Threshold)
	case !(p.Influence >= 0 && p.Influence <= 1):
		return fmt.Errorf("%w: influence %g outside [0, 1]", series.ErrInvalidConfiguration, p.Influence)
	}

	return nil
}

// MinLength is the shortest input Detect accepts.
func (p Params) MinLength() int { return p.Lag + 2 }

// Detect returns one signal per sample of y. The first Lag entries are
// always 0. y is not modified.
func Detect(y []float64, p Params) (series.SignalSequence, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := len(y)
	if n < p.MinLength() {
		return nil, fmt.Errorf("%w: anomaly detection with lag %d needs at least %d samples, have %d",
			series.ErrInsufficientData, p.Lag, p.MinLength(), n)
	}

	signals := make(series.SignalSequence, n)
	filtered := append([]float64(nil), y...)

	var w rolling
	w.reset(filtered[:p.Lag])
	mean, stdev := exactStats(filtered[:p.Lag])

	for i := p.Lag; i < n; i++ {
		dev := y[i] - mean

		if math.Abs(dev) > p.Threshold*stdev {
			if dev > 0 {
				signals[i] = 1
			} else {
				signals[i] = -1
			}

			filtered[i] = p.Influence*y[i] + (1-p.Influence)*filtered[i-1]
		} else {
			filtered[i] = y[i]
		}

		// Window becomes filtered[i-lag+1 .. i].
		win := filtered[i-p.Lag+1 : i+1]
		if (i-p.Lag+1)%recomputeEvery == 0 {
			w.reset(win)
		} else {
			w.slide(filtered[i-p.Lag], filtered[i])
		}

		mean, stdev = w.stats()

		// Running sums cannot reproduce an exactly flat window.
		if stdev <= 1e-7*math.Max(1, math.Abs(mean)) {
			w.reset(win)
			mean, stdev = exactStats(win)
		}
	}

	return signals, nil
}

// Indices returns the positions of nonzero signals.
func Indices(s series.SignalSequence) []int {
	var out []int

	for i, v := range s {
		if v != 0 {
			out = append(out, i)
		}
	}

	return out
}

// rolling keeps the sum and sum of squares of a fixed-length window.
type rolling struct {
	n          float64
	sum, sumSq float64
}

func (r *rolling) reset(win []float64) {
	r.n = float64(len(win))
	r.sum, r.sumSq = 0, 0

	for _, v := range win {
		r.sum += v
		r.sumSq += v * v
	}
}

func (r *rolling) slide(out, in float64) {
	r.sum += in - out
	r.sumSq += in*in - out*out
}

func (r *rolling) stats() (mean, stdev float64) {
	mean = r.sum / r.n
	variance := r.sumSq/r.n - mean*mean

	return mean, math.Sqrt(math.Max(0, variance))
}

// exactStats is the two-pass population mean and standard deviation.
func exactStats(win []float64) (mean, stdev float64) {
	for _, v := range win {
		mean += v
	}

	mean /= float64(len(win))

	var ss float64
	for _, v := range win {
		d := v - mean
		ss += d * d
	}

	return mean, math.Sqrt(ss / float64(len(win)))
}
