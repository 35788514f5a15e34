package testutil

import (
	"math"

	"github.com/cwbudde/algo-motion/series"
)

// Motion describes a synthetic accelerometer recording. Each axis is a sine
// of its own frequency, amplitude and offset plus uniform noise, sampled at
// Period milliseconds with up to Jitter milliseconds of timestamp jitter.
type Motion struct {
	Username string
	File     string
	Start    int64 // epoch milliseconds
	Samples  int
	Period   int64
	Jitter   int64
	Seed     int64

	Freq   [3]float64 // Hz, indexed by series.Axis
	Amp    [3]float64
	Offset [3]float64
	Noise  float64
}

// Walking returns a 100-sample-per-second recording with a 2 Hz gait on Y,
// a weaker 1 Hz sway on X, gravity on Z and broadband noise.
func Walking(samples int) Motion {
	return Motion{
		Username: "subject",
		File:     "walk.csv",
		Start:    1_700_000_000_000,
		Samples:  samples,
		Period:   10,
		Jitter:   3,
		Seed:     1,
		Freq:     [3]float64{1, 2, 0},
		Amp:      [3]float64{0.5, 2, 0},
		Offset:   [3]float64{0, 0, 9.81},
		Noise:    0.8,
	}
}

// Raw renders m as a validated RawSeries. It panics if m cannot produce
// strictly increasing timestamps.
func (m Motion) Raw() series.RawSeries {
	rng := newRand(m.Seed)
	samples := make([]series.RawSample, m.Samples)

	for i := range samples {
		ts := m.Start + int64(i)*m.Period
		if m.Jitter > 0 && i > 0 {
			ts += rng.Int64N(m.Jitter + 1)
		}

		sec := float64(ts-m.Start) / 1000

		var v [3]float64
		for a := range v {
			v[a] = m.Offset[a] + m.Amp[a]*math.Sin(2*math.Pi*m.Freq[a]*sec) + (rng.Float64()*2-1)*m.Noise
		}

		samples[i] = series.RawSample{Time: ts, X: v[0], Y: v[1], Z: v[2]}
	}

	r, err := series.NewRawSeries(m.Username, m.File, samples)
	if err != nil {
		panic(err)
	}

	return r
}
