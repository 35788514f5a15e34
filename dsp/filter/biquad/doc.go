// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Multiple sections are
// cascaded via [Chain] for higher-order filters.
//
// Delay-line state belongs to the Section or Chain value that holds it. A
// Chain is meant to be created for one pass over one signal and then
// discarded, or Reset before reuse; it must not be shared between goroutines.
//
// Coefficient design (Butterworth, Bessel) lives in dsp/filter/design/pass.
package biquad
