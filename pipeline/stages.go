package pipeline

import (
	"fmt"
	"slices"

	"github.com/cwbudde/algo-motion/dsp/filter/bank"
	"github.com/cwbudde/algo-motion/dsp/resample"
	"github.com/cwbudde/algo-motion/dsp/smooth"
	"github.com/cwbudde/algo-motion/series"
	"github.com/cwbudde/algo-motion/stats/frequency"
	"github.com/cwbudde/algo-motion/stats/spike"
	timestats "github.com/cwbudde/algo-motion/stats/time"
)

// Resample places raw on the grid described by cfg.
func Resample(raw series.RawSeries, cfg Config) (series.ResampledSeries, error) {
	return resample.Series(raw, cfg.Step(),
		resample.WithTail(cfg.Tail),
		resample.WithMode(cfg.Interpolation),
		resample.WithRate(cfg.SampleRate))
}

// Smooth applies a centered moving average of the given width to every axis.
// A width of 0 returns an unchanged copy.
func Smooth(r series.ResampledSeries, width int) (series.ResampledSeries, error) {
	out := r
	out.Time = slices.Clone(r.Time)

	if width == 0 {
		out.Res = r.Res.Clone()
		return out, nil
	}

	res, err := smooth.Axes(r.Res, width)
	if err != nil {
		return series.ResampledSeries{}, err
	}

	out.Res = res

	return out, nil
}

// Filter runs every axis through b, each with fresh filter state. When FIR
// stages shorten the arrays, Time keeps its last len-Shrink entries so each
// output sample is stamped with the newest input inside its kernel window.
func Filter(r series.ResampledSeries, b *bank.Bank) (series.FilteredSeries, error) {
	res, err := b.ApplyAxes(r.Res)
	if err != nil {
		return series.FilteredSeries{}, err
	}

	out := r
	out.Res = res
	out.Time = slices.Clone(r.Time[b.Shrink():])

	return series.FilteredSeries{ResampledSeries: out, Stages: b.Describe()}, nil
}

// Annotate computes per-axis statistics over the conditioned arrays and
// selects the primary axis.
func Annotate(f series.FilteredSeries, policy AxisPolicy) (series.AnnotatedSeries, error) {
	var stats [3]series.AxisStats

	for _, a := range series.Axes {
		s, err := timestats.Summarize(f.Axis(a))
		if err != nil {
			return series.AnnotatedSeries{}, fmt.Errorf("statistics axis %s: %w", a, err)
		}

		stats[a] = s.AxisStats()
	}

	primary, w, resW := SelectAxis(f, stats, policy)

	return series.AnnotatedSeries{
		FilteredSeries: f,
		Stats:          stats,
		Primary:        primary,
		W:              w,
		ResW:           resW,
	}, nil
}

// DetectSpikes runs the anomaly detector over the primary conditioned axis.
func DetectSpikes(a series.AnnotatedSeries, p spike.Params) (series.AnnotatedSeries, error) {
	signals, err := spike.Detect(a.ResW, p)
	if err != nil {
		return series.AnnotatedSeries{}, fmt.Errorf("spikes axis %s: %w", a.Primary, err)
	}

	out := a
	out.Signals = signals

	return out, nil
}

// DominantFrequencies estimates the strongest frequency of every
// conditioned axis.
func DominantFrequencies(a series.AnnotatedSeries) (series.AnnotatedSeries, error) {
	out := a

	for _, ax := range series.Axes {
		f, err := frequency.Dominant(a.Axis(ax), a.FS)
		if err != nil {
			return series.AnnotatedSeries{}, fmt.Errorf("dominant frequency axis %s: %w", ax, err)
		}

		out.Dominant[ax] = f
	}

	return out, nil
}
