package series

import "fmt"

// RawSample is one ingested accelerometer reading.
type RawSample struct {
	Time    int64 // epoch milliseconds
	X, Y, Z float64
}

// RawSeries is a subject's ingested recording. It is created once and never
// mutated by the pipeline.
type RawSeries struct {
	Username string
	File     string

	Time []int64 // strictly increasing epoch milliseconds
	X    []float64
	Y    []float64
	Z    []float64
}

// NewRawSeries builds a validated RawSeries from samples.
func NewRawSeries(username, file string, samples []RawSample) (RawSeries, error) {
	r := RawSeries{
		Username: username,
		File:     file,
		Time:     make([]int64, len(samples)),
		X:        make([]float64, len(samples)),
		Y:        make([]float64, len(samples)),
		Z:        make([]float64, len(samples)),
	}
	for i, s := range samples {
		r.Time[i] = s.Time
		r.X[i] = s.X
		r.Y[i] = s.Y
		r.Z[i] = s.Z
	}

	if err := r.Validate(); err != nil {
		return RawSeries{}, err
	}

	return r, nil
}

// Len returns the number of samples.
func (r RawSeries) Len() int { return len(r.Time) }

// Validate checks the ingestion contract: at least one sample, equal-length
// arrays and strictly increasing timestamps.
func (r RawSeries) Validate() error {
	n := len(r.Time)
	if n == 0 {
		return fmt.Errorf("%w: %s has no samples", ErrEmptySeries, r.name())
	}

	if len(r.X) != n || len(r.Y) != n || len(r.Z) != n {
		return fmt.Errorf("%w: %s axis lengths %d/%d/%d do not match %d timestamps",
			ErrInvalidConfiguration, r.name(), len(r.X), len(r.Y), len(r.Z), n)
	}

	for i := 1; i < n; i++ {
		if r.Time[i] <= r.Time[i-1] {
			return fmt.Errorf("%w: %s timestamp %d at index %d does not increase (previous %d)",
				ErrInvalidConfiguration, r.name(), r.Time[i], i, r.Time[i-1])
		}
	}

	return nil
}

// Axis returns the raw array for a. The slice is shared, callers must not write it.
func (r RawSeries) Axis(a Axis) []float64 {
	switch a {
	case AxisX:
		return r.X
	case AxisY:
		return r.Y
	case AxisZ:
		return r.Z
	default:
		return nil
	}
}

// Axes returns the raw arrays as an AxisSet sharing the underlying storage.
func (r RawSeries) Axes() AxisSet {
	return AxisSet{r.X, r.Y, r.Z}
}

// Sample returns the i-th reading.
func (r RawSeries) Sample(i int) RawSample {
	return RawSample{Time: r.Time[i], X: r.X[i], Y: r.Y[i], Z: r.Z[i]}
}

// Subject returns a display name for logs and reports.
func (r RawSeries) Subject() string {
	return r.name()
}

func (r RawSeries) name() string {
	switch {
	case r.Username != "" && r.File != "":
		return r.Username + "/" + r.File
	case r.File != "":
		return r.File
	case r.Username != "":
		return r.Username
	default:
		return "series"
	}
}
