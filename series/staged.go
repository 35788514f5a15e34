package series

// ResampledSeries is a recording placed on a fixed-step time grid.
type ResampledSeries struct {
	Raw RawSeries

	Time    []float64 // grid in epoch milliseconds, Time[k+1]-Time[k] == Step
	RawTime []int64   // original timestamps, kept for provenance
	Step    float64   // grid spacing in milliseconds
	FS      float64   // sampling frequency in Hz, 1000/Step

	Res AxisSet // processed per-axis arrays, each len(Time)
}

// Len returns the number of grid points.
func (s ResampledSeries) Len() int { return len(s.Time) }

// Axis returns the processed array for a.
func (s ResampledSeries) Axis(a Axis) []float64 {
	if !a.Valid() {
		return nil
	}

	return s.Res[a]
}

// FilteredSeries is a resampled recording after smoothing and filtering.
// FIR stages may have shortened Res; Time is truncated to match.
type FilteredSeries struct {
	ResampledSeries

	Stages []string // applied stage descriptions, in order
}

// AxisStats summarizes one conditioned axis.
type AxisStats struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	Stdev float64 `json:"stdev"` // population standard deviation
}

// SignalSequence is the anomaly detector output: -1, 0 or +1 per sample.
type SignalSequence []int8

// Count returns the number of nonzero signals.
func (s SignalSequence) Count() int {
	n := 0
	for _, v := range s {
		if v != 0 {
			n++
		}
	}

	return n
}

// AnnotatedSeries is the terminal pipeline value handed to exporters.
type AnnotatedSeries struct {
	FilteredSeries

	Stats [3]AxisStats // indexed by Axis

	// Primary is the representative axis. W aliases the raw array and ResW the
	// processed array of that axis; both are read-only views.
	Primary Axis
	W       []float64
	ResW    []float64

	Signals  SignalSequence // nil unless anomaly detection was requested
	Dominant [3]float64     // dominant frequency per axis in Hz, 0 if not computed
}

// StatsFor returns the statistics of axis a.
func (s AnnotatedSeries) StatsFor(a Axis) AxisStats {
	if !a.Valid() {
		return AxisStats{}
	}

	return s.Stats[a]
}
