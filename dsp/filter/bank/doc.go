// Package bank builds the conditioning filter chain applied to each axis of a
// resampled recording.
//
// A [Stage] is one lowpass or highpass filter, designed by the pure factory
// [Design] from a validated [Config]. Stages are realized either as a cascade
// of biquads (IIR) or as a windowed-sinc kernel (FIR). A [Bank] chains stages
// in order; each stage consumes the previous stage's output.
//
// Stages hold coefficients only. Every call to Apply runs on fresh filter
// state, so one Stage or Bank may be shared by concurrent callers and reused
// across axes without leaking delay-line state between them.
//
// IIR stages preserve length. FIR stages apply valid-mode convolution and
// shorten the output by tapCount-1 samples; see [Stage.Shrink].
//
// Basic usage:
//
//	b, err := bank.New(
//	    bank.Config{Direction: bank.Lowpass, Characteristic: bank.Butterworth,
//	        Order: 5, Cutoff: 10, SampleRate: 60},
//	)
//	if err != nil { ... }
//	y, err := b.Apply(x)
package bank
