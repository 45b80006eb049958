package sizing

import "errors"

var (
	ErrDegenerateLoadLine = errors.New("design temperature equals the zero-load temperature, load line slope is undefined")
	ErrTooFewSamples      = errors.New("need at least two samples to fit a load line")
	ErrSampleLenMismatch  = errors.New("temperature and load sample slices differ in length")
)
