// Package report renders conditioned recordings as HTML charts and batch
// results as a JSON summary.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/cwbudde/algo-motion/series"
)

// AxisOffset separates the per-axis traces vertically.
const AxisOffset = 25.0

//go:embed templates/report.html
var templateFS embed.FS

var reportTmpl = template.Must(template.ParseFS(templateFS, "templates/report.html"))

var colors = [...]string{"#3e95cd", "#cd4665", "#37cd79", "#0d6c0b", "#cdc226", "#cd6a1c"}

type trace struct {
	Type   string         `json:"type"`
	Mode   string         `json:"mode"`
	Name   string         `json:"name"`
	X      []float64      `json:"x"`
	Y      []float64      `json:"y"`
	Line   map[string]any `json:"line,omitempty"`
	Marker map[string]any `json:"marker,omitempty"`
}

type row struct {
	Axis series.Axis
	series.AxisStats
	Dominant float64
}

type page struct {
	Title       string
	Samples     int
	FS          float64
	Primary     series.Axis
	Spikes      int
	Stages      []string
	HasDominant bool
	Rows        []row
	Traces      []trace
	Layout      map[string]any
}

// Render writes a standalone HTML report for a. Raw traces are plotted at
// their original timestamps, processed traces on the grid; every axis is
// shifted up by AxisOffset relative to the previous one.
func Render(w io.Writer, a series.AnnotatedSeries) error {
	if a.Len() == 0 {
		return fmt.Errorf("report: %w", series.ErrEmptySeries)
	}

	p := page{
		Title:       a.Raw.Subject(),
		Samples:     a.Len(),
		FS:          a.FS,
		Primary:     a.Primary,
		Spikes:      a.Signals.Count(),
		Stages:      a.Stages,
		HasDominant: a.Dominant != [3]float64{},
		Traces:      traces(a),
		Layout:      layout(a),
	}

	for _, ax := range series.Axes {
		p.Rows = append(p.Rows, row{Axis: ax, AxisStats: a.Stats[ax], Dominant: a.Dominant[ax]})
	}

	if err := reportTmpl.Execute(w, p); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	return nil
}

func traces(a series.AnnotatedSeries) []trace {
	rawTime := make([]float64, len(a.RawTime))
	for i, ts := range a.RawTime {
		rawTime[i] = float64(ts)
	}

	out := make([]trace, 0, 7)

	for _, ax := range series.Axes {
		off := AxisOffset * float64(ax)

		out = append(out,
			trace{
				Type: "scatter", Mode: "lines",
				Name: fmt.Sprintf("Raw [%s]", ax),
				X:    rawTime,
				Y:    shifted(a.Raw.Axis(ax), off),
				Line: map[string]any{"color": colors[2*ax], "width": 1},
			},
			trace{
				Type: "scatter", Mode: "lines",
				Name: fmt.Sprintf("R [%s]", strings.ToUpper(ax.String())),
				X:    a.Time,
				Y:    shifted(a.Axis(ax), off),
				Line: map[string]any{"color": colors[2*ax+1]},
			},
		)
	}

	if n := a.Signals.Count(); n > 0 {
		off := AxisOffset * float64(a.Primary)
		spikes := trace{
			Type: "scatter", Mode: "markers",
			Name:   fmt.Sprintf("Spikes [%s]", a.Primary),
			X:      make([]float64, 0, n),
			Y:      make([]float64, 0, n),
			Marker: map[string]any{"color": "#000000", "size": 8, "symbol": "x"},
		}

		for i, s := range a.Signals {
			if s != 0 {
				spikes.X = append(spikes.X, a.Time[i])
				spikes.Y = append(spikes.Y, a.ResW[i]+off)
			}
		}

		out = append(out, spikes)
	}

	return out
}

func layout(a series.AnnotatedSeries) map[string]any {
	first := a.Time[0]
	if len(a.RawTime) > 0 {
		first = min(first, float64(a.RawTime[0]))
	}

	span := []float64{first, a.Time[a.Len()-1]}

	button := func(sec int) map[string]any {
		return map[string]any{"count": sec, "label": fmt.Sprintf("%ds", sec), "step": "second", "stepmode": "backward"}
	}

	return map[string]any{
		"title": a.Raw.Subject(),
		"xaxis": map[string]any{
			"type":        "date",
			"range":       span,
			"rangeslider": map[string]any{"range": span},
			"rangeselector": map[string]any{"buttons": []map[string]any{
				button(10), button(20), button(30), {"step": "all"},
			}},
		},
		"yaxis": map[string]any{"autorange": true, "type": "linear"},
	}
}

func shifted(x []float64, off float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v + off
	}

	return out
}

// FileName returns a file system safe report name for a subject.
func FileName(subject string) string {
	var b strings.Builder

	for _, r := range subject {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == '.':
			b.WriteRune('_')
		default:
			b.WriteRune('-')
		}
	}

	name := strings.Trim(b.String(), "-")
	if name == "" {
		name = "series"
	}

	return name + ".html"
}

// FileNames returns one report name per subject, in order. Subjects that map
// to the same name, such as the same user's walk.csv from two directories,
// get a numeric suffix so no report overwrites another.
func FileNames(subjects []string) []string {
	names := make([]string, len(subjects))
	taken := make(map[string]bool, len(subjects))

	for i, s := range subjects {
		name := FileName(s)
		base := strings.TrimSuffix(name, ".html")

		for n := 2; taken[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s-%d.html", base, n)
		}

		taken[strings.ToLower(name)] = true
		names[i] = name
	}

	return names
}
