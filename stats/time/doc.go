// Package time computes time-domain summary statistics of a conditioned
// signal: extrema, mean and population standard deviation.
//
// Statistics are accumulated in a single pass with Welford's algorithm, so
// long recordings with a large DC offset keep full precision.
package time
