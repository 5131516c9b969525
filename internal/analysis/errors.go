package analysis

import "errors"

// ErrInvalidFFTSize is returned by New for a size that is not a power of two
// in [MinFFTSize, MaxFFTSize].
var ErrInvalidFFTSize = errors.New("analysis: invalid fft size")
