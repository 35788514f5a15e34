package bank

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-motion/internal/testutil"
	"github.com/cwbudde/algo-motion/series"
)

func lp(order int, fc float64) Config {
	return Config{Direction: Lowpass, Characteristic: Butterworth, Order: order, Cutoff: fc, SampleRate: 60}
}

func allValidConfigs() []Config {
	var out []Config

	for _, d := range []Direction{Lowpass, Highpass} {
		for _, c := range []Characteristic{Butterworth, Bessel} {
			for _, m := range []Mode{IIR, FIR} {
				for _, order := range []int{1, 2, 5, 12} {
					out = append(out, Config{
						Direction: d, Characteristic: c, Mode: m,
						Order: order, Cutoff: 7.5, SampleRate: 60,
					})
				}
			}
		}
	}

	return out
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"valid", lp(5, 10), true},
		{"max order", lp(MaxOrder, 10), true},
		{"zero order", lp(0, 10), false},
		{"negative order", lp(-2, 10), false},
		{"order too high", lp(MaxOrder+1, 10), false},
		{"zero cutoff", lp(5, 0), false},
		{"negative cutoff", lp(5, -1), false},
		{"cutoff at nyquist", lp(5, 30), false},
		{"cutoff above nyquist", lp(5, 31), false},
		{"zero sample rate", Config{Order: 2, Cutoff: 1}, false},
		{"unknown direction", Config{Direction: 7, Order: 2, Cutoff: 1, SampleRate: 60}, false},
		{"unknown characteristic", Config{Characteristic: 7, Order: 2, Cutoff: 1, SampleRate: 60}, false},
		{"unknown mode", Config{Mode: 7, Order: 2, Cutoff: 1, SampleRate: 60}, false},
		{"fir butterworth", Config{Mode: FIR, Order: 4, Cutoff: 1, SampleRate: 60}, true},
		{"fir bessel", Config{Characteristic: Bessel, Mode: FIR, Order: 4, Cutoff: 1, SampleRate: 60}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !tt.ok && !errors.Is(err, series.ErrInvalidConfiguration) {
				t.Fatalf("err=%v, want ErrInvalidConfiguration", err)
			}

			if _, derr := Design(tt.cfg); (derr == nil) != tt.ok {
				t.Fatalf("Design err=%v, ok=%v", derr, tt.ok)
			}
		})
	}
}

func TestZeroInputYieldsZeroOutput(t *testing.T) {
	zeros := make([]float64, 200)

	for _, cfg := range allValidConfigs() {
		s, err := Design(cfg)
		if err != nil {
			t.Fatalf("%s: %v", cfg, err)
		}

		y, err := s.Apply(zeros)
		if err != nil {
			t.Fatalf("%s: %v", cfg, err)
		}

		if len(y) != len(zeros)-s.Shrink() {
			t.Fatalf("%s: len=%d, want %d", cfg, len(y), len(zeros)-s.Shrink())
		}

		for i, v := range y {
			if v != 0 {
				t.Fatalf("%s: y[%d]=%v, want 0", cfg, i, v)
			}
		}
	}
}

func TestStageShrink(t *testing.T) {
	iir, _ := Design(lp(5, 10))
	if iir.Shrink() != 0 || iir.Taps() != nil || len(iir.Sections()) != 3 {
		t.Fatalf("IIR: shrink=%d taps=%v sections=%d", iir.Shrink(), iir.Taps(), len(iir.Sections()))
	}

	cfg := lp(5, 10)
	cfg.Mode = FIR

	f, _ := Design(cfg)
	if f.Shrink() != 10 || len(f.Taps()) != 11 || f.Sections() != nil {
		t.Fatalf("FIR: shrink=%d taps=%d", f.Shrink(), len(f.Taps()))
	}
}

func TestStageApply_FreshStateEachCall(t *testing.T) {
	s, _ := Design(Config{Direction: Highpass, Characteristic: Bessel, Order: 4, Cutoff: 2, SampleRate: 60})
	x := testutil.Noise(3, 1, 300)

	first, _ := s.Apply(x)
	second, _ := s.Apply(x)

	testutil.RequireClose(t, second, first, 0)
}

func TestStageApply_DoesNotMutateInput(t *testing.T) {
	x := testutil.Noise(4, 1, 128)
	orig := append([]float64(nil), x...)

	for _, cfg := range allValidConfigs() {
		s, _ := Design(cfg)
		if _, err := s.Apply(x); err != nil {
			t.Fatalf("%s: %v", cfg, err)
		}
	}

	testutil.RequireClose(t, x, orig, 0)
}

func TestStageApply_FIRTooShort(t *testing.T) {
	cfg := lp(12, 10)
	cfg.Mode = FIR
	s, _ := Design(cfg)

	if _, err := s.Apply(make([]float64, 24)); !errors.Is(err, series.ErrInsufficientData) {
		t.Fatalf("err=%v, want ErrInsufficientData", err)
	}

	if _, err := s.Apply(nil); !errors.Is(err, series.ErrEmptySeries) {
		t.Fatalf("err=%v, want ErrEmptySeries", err)
	}
}

func TestStage_CutoffResponse(t *testing.T) {
	for _, c := range []Characteristic{Butterworth, Bessel} {
		for _, d := range []Direction{Lowpass, Highpass} {
			s, _ := Design(Config{Direction: d, Characteristic: c, Order: 6, Cutoff: 10, SampleRate: 60})
			if got := s.MagnitudeDB(10); math.Abs(got+3.0103) > 0.05 {
				t.Errorf("%s: %.3f dB at cutoff", s, got)
			}
		}
	}
}

func TestLowpassAttenuatesNoise(t *testing.T) {
	s, _ := Design(lp(5, 5))

	x := testutil.Noise(9, 1, 2000)
	y, _ := s.Apply(x)

	// White noise keeps roughly 5/30 of its power below 5 Hz.
	var before, after float64
	for i := 100; i < len(y); i++ {
		before += x[i] * x[i]
		after += y[i] * y[i]
	}

	if after > 0.4*before {
		t.Fatalf("output power %.3f not well below input power %.3f", after, before)
	}
}

func TestNew_ValidatesAllStagesFirst(t *testing.T) {
	_, err := New(lp(5, 10), lp(5, 40))
	if !errors.Is(err, series.ErrInvalidConfiguration) {
		t.Fatalf("err=%v, want ErrInvalidConfiguration", err)
	}
}

func TestBank_ChainMatchesSequentialStages(t *testing.T) {
	hp := Config{Direction: Highpass, Characteristic: Butterworth, Order: 2, Cutoff: 0.5, SampleRate: 60}
	fir := lp(8, 10)
	fir.Mode = FIR

	b, err := New(lp(4, 10), hp, fir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if b.Len() != 3 || b.Shrink() != 16 {
		t.Fatalf("len=%d shrink=%d", b.Len(), b.Shrink())
	}

	x := testutil.Noise(5, 1, 256)

	got, err := b.Apply(x)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	want := x
	for _, s := range b.Stages() {
		want, _ = s.Apply(want)
	}

	testutil.RequireClose(t, got, want, 0)

	if len(got) != len(x)-16 {
		t.Fatalf("len=%d, want %d", len(got), len(x)-16)
	}

	if d := b.Describe(); len(d) != 3 || d[0] != "lowpass butterworth order 4 @ 10 Hz (iir)" {
		t.Fatalf("Describe=%q", d)
	}
}

func TestBank_EmptyIsPassThrough(t *testing.T) {
	b, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	x := []float64{1, 2, 3}

	y, _ := b.Apply(x)
	testutil.RequireClose(t, y, x, 0)

	y[0] = 99
	if x[0] != 1 {
		t.Fatal("pass-through aliased its input")
	}
}

func TestBank_ApplyAxesIndependent(t *testing.T) {
	b, _ := New(lp(5, 10))

	in := series.AxisSet{
		testutil.Noise(1, 1, 100),
		testutil.Constant(0, 100),
		testutil.Noise(2, 1, 100),
	}

	out, err := b.ApplyAxes(in)
	if err != nil {
		t.Fatalf("ApplyAxes: %v", err)
	}

	for _, a := range series.Axes {
		want, _ := b.Apply(in[a])
		testutil.RequireClose(t, out[a], want, 0)
	}

	// Axis Y is all zeros; leaked state from X would make it nonzero.
	for i, v := range out[series.AxisY] {
		if v != 0 {
			t.Fatalf("y[%d]=%v, want 0", i, v)
		}
	}
}

func TestEnumText(t *testing.T) {
	var d Direction
	if err := d.UnmarshalText([]byte("HighPass")); err != nil || d != Highpass {
		t.Fatalf("direction=%v err=%v", d, err)
	}

	var c Characteristic
	if err := c.UnmarshalText([]byte("bessel")); err != nil || c != Bessel {
		t.Fatalf("characteristic=%v err=%v", c, err)
	}

	var m Mode
	if err := m.UnmarshalText([]byte("chebyshev")); !errors.Is(err, series.ErrInvalidConfiguration) {
		t.Fatalf("err=%v", err)
	}

	if b, _ := FIR.MarshalText(); string(b) != "fir" {
		t.Fatalf("FIR text=%q", b)
	}

	if Direction(9).String() != "unknown(9)" {
		t.Fatalf("unknown direction string = %q", Direction(9).String())
	}
}
