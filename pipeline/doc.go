// Package pipeline conditions accelerometer recordings.
//
// A recording moves through explicit stages, each a pure function returning
// a new value:
//
//	series.RawSeries
//	  -> Resample -> series.ResampledSeries
//	  -> Smooth   -> series.ResampledSeries
//	  -> Filter   -> series.FilteredSeries
//	  -> Annotate -> series.AnnotatedSeries (statistics, primary axis)
//	  -> DetectSpikes / DominantFrequencies (optional)
//
// No stage writes to its input. [Pipeline] wires the stages from a [Config],
// and [Pipeline.RunBatch] processes independent subjects on a bounded worker
// pool, collecting one [Result] per subject.
package pipeline
