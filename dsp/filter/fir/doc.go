// Package fir designs windowed-sinc FIR filters and applies them with
// valid-mode convolution.
//
// A filter of order N has 2N+1 symmetric taps, so its group delay is exactly
// N samples. Valid-mode application produces len(x)-2N outputs: only the
// positions where every tap overlaps the input.
package fir
