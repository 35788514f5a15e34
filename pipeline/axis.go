package pipeline

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-motion/series"
)

// AxisPolicy picks the representative axis of a conditioned recording.
type AxisPolicy interface {
	Choose(stats [3]series.AxisStats) series.Axis
	String() string
}

// AxisFixed always picks Axis.
type AxisFixed struct {
	Axis series.Axis
}

// Choose implements AxisPolicy.
func (p AxisFixed) Choose([3]series.AxisStats) series.Axis { return p.Axis }

func (p AxisFixed) String() string { return p.Axis.String() }

// AxisMaxVariance picks the axis with the largest conditioned standard
// deviation. Ties go to the earlier axis.
type AxisMaxVariance struct{}

// Choose implements AxisPolicy.
func (AxisMaxVariance) Choose(stats [3]series.AxisStats) series.Axis {
	best := series.AxisX
	for _, a := range series.Axes[1:] {
		if stats[a].Stdev > stats[best].Stdev {
			best = a
		}
	}

	return best
}

func (AxisMaxVariance) String() string { return "max-variance" }

// ParseAxisPolicy parses "x", "y", "z" or "max-variance". The empty string
// selects axis Y.
func ParseAxisPolicy(s string) (AxisPolicy, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "":
		return AxisFixed{Axis: series.AxisY}, nil
	case "max-variance", "maxvariance":
		return AxisMaxVariance{}, nil
	default:
		a, err := series.ParseAxis(v)
		if err != nil {
			return nil, fmt.Errorf("%w: primary axis %q", series.ErrInvalidConfiguration, s)
		}

		return AxisFixed{Axis: a}, nil
	}
}

// SelectAxis applies policy and returns the chosen axis together with its
// raw array (w) and conditioned array (resW). Both slices alias f and must be
// treated as read-only.
func SelectAxis(f series.FilteredSeries, stats [3]series.AxisStats, policy AxisPolicy) (a series.Axis, w, resW []float64) {
	a = policy.Choose(stats)

	return a, f.Raw.Axis(a), f.Axis(a)
}
