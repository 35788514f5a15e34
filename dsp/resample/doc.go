// Package resample places irregularly timestamped samples onto a fixed-step
// time grid.
//
// [Grid] builds the target timestamps and [Interpolate] evaluates one signal
// on them with a single monotonic two-pointer scan, O(n+m). [Series] applies
// both to every axis of a [series.RawSeries].
//
// Grid points outside the raw time span are resolved by a [TailPolicy]. The
// default, [TailZero], emits 0 there.
package resample
