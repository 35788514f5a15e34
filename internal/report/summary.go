package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cwbudde/algo-motion/pipeline"
	"github.com/cwbudde/algo-motion/series"
	"github.com/cwbudde/algo-motion/stats/spike"
)

// AxisSummary is the per-axis part of a Summary.
type AxisSummary struct {
	series.AxisStats
	Dominant float64 `json:"dominantHz,omitempty"`
}

// Summary describes one subject of a batch run.
type Summary struct {
	Subject   string                 `json:"subject"`
	Username  string                 `json:"username,omitempty"`
	File      string                 `json:"file,omitempty"`
	Samples   int                    `json:"samples"`
	FS        float64                `json:"fs,omitempty"`
	Primary   string                 `json:"primaryAxis,omitempty"`
	Stages    []string               `json:"stages,omitempty"`
	Axes      map[string]AxisSummary `json:"axes,omitempty"`
	Spikes    []int                  `json:"spikes,omitempty"`
	ElapsedMS float64                `json:"elapsedMs"`
	Error     string                 `json:"error,omitempty"`
}

// Summarize converts a batch result.
func Summarize(r pipeline.Result) Summary {
	s := Summary{
		Subject:   r.Subject,
		ElapsedMS: float64(r.Elapsed.Microseconds()) / 1000,
	}

	if r.Err != nil {
		s.Error = r.Err.Error()
		return s
	}

	a := r.Series
	s.Username = a.Raw.Username
	s.File = a.Raw.File
	s.Samples = a.Len()
	s.FS = a.FS
	s.Primary = a.Primary.String()
	s.Stages = a.Stages
	s.Axes = make(map[string]AxisSummary, len(series.Axes))

	for _, ax := range series.Axes {
		s.Axes[ax.String()] = AxisSummary{AxisStats: a.Stats[ax], Dominant: a.Dominant[ax]}
	}

	s.Spikes = spike.Indices(a.Signals)

	return s
}

// WriteSummary writes results as an indented JSON array in input order.
func WriteSummary(w io.Writer, results []pipeline.Result) error {
	out := make([]Summary, len(results))
	for i, r := range results {
		out[i] = Summarize(r)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	return nil
}
