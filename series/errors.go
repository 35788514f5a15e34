package series

import "errors"

// Error kinds shared by every stage. Stages wrap them with detail using
// fmt.Errorf("%w: ...") so callers can test with errors.Is.
var (
	// ErrEmptySeries indicates a zero-length input series.
	ErrEmptySeries = errors.New("series: empty series")
	// ErrInsufficientData indicates a series shorter than a stage's minimum.
	ErrInsufficientData = errors.New("series: insufficient data")
	// ErrInvalidConfiguration indicates stage parameters that violate constraints.
	ErrInvalidConfiguration = errors.New("series: invalid configuration")
)
