// Package series defines the staged data model of the motion-conditioning
// pipeline.
//
// A recording moves through four value types, each carrying only the fields
// that are valid at that point:
//
//	RawSeries -> ResampledSeries -> FilteredSeries -> AnnotatedSeries
//
// Stage transitions (see package pipeline) are pure functions returning a new
// value. Slices held by an earlier stage are never written by a later one, so
// a RawSeries stays usable for raw overlays after the pipeline has run.
package series
