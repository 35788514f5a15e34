package fir

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-motion/internal/testutil"
)

func TestLowpass_Shape(t *testing.T) {
	taps, err := Lowpass(10, 20, 60)
	if err != nil {
		t.Fatalf("Lowpass: %v", err)
	}

	if len(taps) != 41 {
		t.Fatalf("len=%d, want 41", len(taps))
	}

	sum := 0.0
	for i := range taps {
		sum += taps[i]
		if math.Abs(taps[i]-taps[len(taps)-1-i]) > 1e-15 {
			t.Fatalf("taps not symmetric at %d", i)
		}
	}

	if math.Abs(sum-1) > 1e-12 {
		t.Fatalf("DC gain=%v, want 1", sum)
	}
}

func TestLowpass_Response(t *testing.T) {
	taps, err := Lowpass(5, 40, 60)
	if err != nil {
		t.Fatalf("Lowpass: %v", err)
	}

	if g := MagnitudeDB(taps, 1, 60); math.Abs(g) > 0.1 {
		t.Errorf("passband gain %.3f dB", g)
	}

	if g := MagnitudeDB(taps, 5, 60); math.Abs(g+6.02) > 0.5 {
		t.Errorf("cutoff gain %.3f dB, want about -6 dB", g)
	}

	if g := MagnitudeDB(taps, 15, 60); g > -40 {
		t.Errorf("stopband gain %.3f dB, want < -40", g)
	}
}

func TestHighpass_SpectralInversion(t *testing.T) {
	lp, _ := Lowpass(5, 30, 60)
	hp, err := Highpass(5, 30, 60)
	if err != nil {
		t.Fatalf("Highpass: %v", err)
	}

	for i := range hp {
		want := -lp[i]
		if i == 30 {
			want++
		}

		if math.Abs(hp[i]-want) > 1e-15 {
			t.Fatalf("hp[%d]=%v, want %v", i, hp[i], want)
		}
	}

	sum := 0.0
	for _, v := range hp {
		sum += v
	}

	if math.Abs(sum) > 1e-12 {
		t.Fatalf("DC gain=%v, want 0", sum)
	}

	if g := MagnitudeDB(hp, 30, 60); math.Abs(g) > 0.1 {
		t.Errorf("Nyquist gain %.3f dB, want 0", g)
	}
}

func TestDesign_InvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		cutoff float64
		order  int
		fs     float64
	}{
		{"zero order", 5, 0, 60},
		{"zero cutoff", 0, 10, 60},
		{"nyquist cutoff", 30, 10, 60},
		{"zero rate", 5, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Lowpass(tt.cutoff, tt.order, tt.fs); !errors.Is(err, ErrInvalidDesign) {
				t.Errorf("Lowpass err=%v", err)
			}

			if _, err := Highpass(tt.cutoff, tt.order, tt.fs); !errors.Is(err, ErrInvalidDesign) {
				t.Errorf("Highpass err=%v", err)
			}
		})
	}
}

func TestValid_MatchesNaiveConvolution(t *testing.T) {
	x := testutil.Noise(7, 1, 200)
	taps, _ := Lowpass(8, 12, 60)

	got, err := Valid(x, taps)
	if err != nil {
		t.Fatalf("Valid: %v", err)
	}

	if len(got) != len(x)-len(taps)+1 {
		t.Fatalf("len=%d, want %d", len(got), len(x)-len(taps)+1)
	}

	want := make([]float64, len(got))
	for i := range want {
		for k := range taps {
			want[i] += taps[k] * x[i+len(taps)-1-k]
		}
	}

	testutil.RequireClose(t, got, want, 1e-12)
}

func TestValid_SmallKernel(t *testing.T) {
	got, err := Valid([]float64{0, 1, 3, 6, 10}, []float64{1, -1})
	if err != nil {
		t.Fatalf("Valid: %v", err)
	}

	testutil.RequireClose(t, got, []float64{1, 2, 3, 4}, 0)
}

func TestValid_Errors(t *testing.T) {
	if _, err := Valid([]float64{1, 2}, []float64{1, 2, 3}); !errors.Is(err, ErrShortInput) {
		t.Fatalf("short input err=%v", err)
	}

	if _, err := Valid([]float64{1, 2}, nil); !errors.Is(err, ErrInvalidDesign) {
		t.Fatalf("empty taps err=%v", err)
	}
}

func TestValid_ExactLength(t *testing.T) {
	got, err := Valid([]float64{1, 2, 3}, []float64{1, 1, 1})
	if err != nil {
		t.Fatalf("Valid: %v", err)
	}

	if len(got) != 1 || got[0] != 6 {
		t.Fatalf("got %v, want [6]", got)
	}
}

func BenchmarkValid(b *testing.B) {
	x := testutil.Noise(1, 1, 4096)
	taps, _ := Lowpass(10, 20, 60)

	b.ReportAllocs()

	for b.Loop() {
		_, _ = Valid(x, taps)
	}
}
