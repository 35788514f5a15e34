package time

import (
	"math"

	"github.com/cwbudde/algo-motion/series"
)

// Summary holds the time-domain statistics of one signal.
type Summary struct {
	Length   int
	Min      float64
	MinPos   int
	Max      float64
	MaxPos   int
	Mean     float64
	Variance float64 // population variance (divisor N)
	Stdev    float64 // population standard deviation
	RMS      float64
}

// AxisStats converts s to the per-axis statistics record.
func (s Summary) AxisStats() series.AxisStats {
	return series.AxisStats{Min: s.Min, Max: s.Max, Mean: s.Mean, Stdev: s.Stdev}
}

// Summarize computes the statistics of x. An empty x returns
// series.ErrEmptySeries.
func Summarize(x []float64) (Summary, error) {
	if len(x) == 0 {
		return Summary{}, series.ErrEmptySeries
	}

	var acc Accumulator
	acc.Update(x)

	return acc.Result(), nil
}

// Accumulator computes a [Summary] incrementally. The zero value is ready
// to use.
type Accumulator struct {
	n      int
	mean   float64
	m2     float64
	sumSq  float64
	min    float64
	minPos int
	max    float64
	maxPos int
}

// Update folds samples into the running statistics.
func (a *Accumulator) Update(samples []float64) {
	for _, x := range samples {
		if a.n == 0 || x < a.min {
			a.min, a.minPos = x, a.n
		}

		if a.n == 0 || x > a.max {
			a.max, a.maxPos = x, a.n
		}

		a.n++
		delta := x - a.mean
		a.mean += delta / float64(a.n)
		a.m2 += delta * (x - a.mean)
		a.sumSq += x * x
	}
}

// Len returns the number of samples seen.
func (a *Accumulator) Len() int { return a.n }

// Result returns the statistics so far. With no samples every field is zero.
func (a *Accumulator) Result() Summary {
	if a.n == 0 {
		return Summary{}
	}

	nf := float64(a.n)
	variance := math.Max(0, a.m2/nf)

	return Summary{
		Length:   a.n,
		Min:      a.min,
		MinPos:   a.minPos,
		Max:      a.max,
		MaxPos:   a.maxPos,
		Mean:     a.mean,
		Variance: variance,
		Stdev:    math.Sqrt(variance),
		RMS:      math.Sqrt(a.sumSq / nf),
	}
}

// Reset clears the accumulator.
func (a *Accumulator) Reset() { *a = Accumulator{} }
