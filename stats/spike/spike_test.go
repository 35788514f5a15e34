package spike

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-motion/internal/testutil"
	"github.com/cwbudde/algo-motion/series"
)

// naiveDetect recomputes every window from scratch.
func naiveDetect(y []float64, p Params) series.SignalSequence {
	signals := make(series.SignalSequence, len(y))
	filtered := append([]float64(nil), y...)
	mean, stdev := exactStats(filtered[:p.Lag])

	for i := p.Lag; i < len(y); i++ {
		if math.Abs(y[i]-mean) > p.Threshold*stdev {
			if y[i] > mean {
				signals[i] = 1
			} else {
				signals[i] = -1
			}

			filtered[i] = p.Influence*y[i] + (1-p.Influence)*filtered[i-1]
		} else {
			filtered[i] = y[i]
		}

		mean, stdev = exactStats(filtered[i-p.Lag+1 : i+1])
	}

	return signals
}

func TestDetect_FlatInputHasNoSignals(t *testing.T) {
	for _, v := range []float64{5, 0, 0.1, -9.81} {
		got, err := Detect(testutil.Constant(v, 20), DefaultParams())
		if err != nil {
			t.Fatalf("Detect: %v", err)
		}

		if len(got) != 20 || got.Count() != 0 {
			t.Fatalf("value %v: signals=%v", v, got)
		}
	}
}

func TestDetect_SingleSpike(t *testing.T) {
	y := testutil.Constant(5, 20)
	y = append(y, 100)
	y = append(y, testutil.Constant(5, 20)...)

	got, err := Detect(y, DefaultParams())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	idx := Indices(got)
	if len(idx) != 1 || idx[0] != 20 || got[20] != 1 {
		t.Fatalf("signals at %v (value %d), want exactly +1 at 20", idx, got[20])
	}
}

func TestDetect_NegativeSpike(t *testing.T) {
	y := testutil.Constant(5, 20)
	y = append(y, -100)
	y = append(y, testutil.Constant(5, 5)...)

	got, _ := Detect(y, DefaultParams())
	if idx := Indices(got); len(idx) != 1 || got[20] != -1 {
		t.Fatalf("signals at %v, want -1 at 20", idx)
	}
}

func TestDetect_WarmupIsZero(t *testing.T) {
	y := testutil.Noise(1, 100, 64)

	got, _ := Detect(y, Params{Lag: 10, Threshold: 0, Influence: 0.5})
	for i := range 10 {
		if got[i] != 0 {
			t.Fatalf("signal[%d]=%d during warm-up", i, got[i])
		}
	}
}

func TestDetect_InsufficientData(t *testing.T) {
	_, err := Detect(make([]float64, 17), DefaultParams())
	if !errors.Is(err, series.ErrInsufficientData) {
		t.Fatalf("err=%v, want ErrInsufficientData", err)
	}

	if _, err := Detect(make([]float64, 18), DefaultParams()); err != nil {
		t.Fatalf("lag+2 samples rejected: %v", err)
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		ok   bool
	}{
		{"defaults", DefaultParams(), true},
		{"zero threshold", Params{Lag: 1, Threshold: 0, Influence: 0}, true},
		{"full influence", Params{Lag: 4, Threshold: 2, Influence: 1}, true},
		{"zero lag", Params{Lag: 0, Threshold: 8, Influence: 0.3}, false},
		{"negative threshold", Params{Lag: 16, Threshold: -1, Influence: 0.3}, false},
		{"influence above one", Params{Lag: 16, Threshold: 8, Influence: 1.5}, false},
		{"negative influence", Params{Lag: 16, Threshold: 8, Influence: -0.1}, false},
		{"nan influence", Params{Lag: 16, Threshold: 8, Influence: math.NaN()}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.ok != (err == nil) {
				t.Fatalf("err=%v, ok=%v", err, tt.ok)
			}

			if err != nil && !errors.Is(err, series.ErrInvalidConfiguration) {
				t.Fatalf("err=%v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestDetect_MatchesNaive(t *testing.T) {
	y := testutil.Sine(0.7, 60, 1, 3000)
	noise := testutil.Noise(11, 0.1, len(y))

	for i := range y {
		y[i] += noise[i] + 9.81
		if i%97 == 0 {
			y[i] += 3
		}
	}

	for _, p := range []Params{DefaultParams(), {Lag: 5, Threshold: 3, Influence: 0}, {Lag: 30, Threshold: 2.5, Influence: 1}} {
		got, err := Detect(y, p)
		if err != nil {
			t.Fatalf("Detect: %v", err)
		}

		want := naiveDetect(y, p)
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("params %+v: signal[%d]=%d, want %d", p, i, got[i], want[i])
			}
		}
	}
}

func TestDetect_DoesNotMutateInput(t *testing.T) {
	y := testutil.Constant(5, 20)
	y = append(y, 100, 5, 5)
	orig := append([]float64(nil), y...)

	_, _ = Detect(y, DefaultParams())
	testutil.RequireClose(t, y, orig, 0)
}

func TestIndices(t *testing.T) {
	if got := Indices(series.SignalSequence{0, 1, 0, -1}); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("Indices=%v", got)
	}

	if got := Indices(nil); got != nil {
		t.Fatalf("Indices(nil)=%v", got)
	}
}

func BenchmarkDetect(b *testing.B) {
	y := testutil.Noise(1, 1, 1<<14)
	p := DefaultParams()

	b.ReportAllocs()

	for b.Loop() {
		_, _ = Detect(y, p)
	}
}
