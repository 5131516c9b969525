// Package analysis turns the newest audio samples into the byte snapshots the
// renderer reads each frame. The outputs match a Web Audio AnalyserNode with
// the same fftSize, smoothing and decibel range.
package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

const (
	MinFFTSize = 32
	MaxFFTSize = 32768
)

// SampleSource supplies mono samples in [-1,1].
type SampleSource interface {
	// Latest fills dst with the newest samples, newest last, and returns how
	// many were real. The rest of dst is zero.
	Latest(dst []float64) int
	Active() bool
}

type Options struct {
	FFTSize     int
	Smoothing   float64
	MinDecibels float64
	MaxDecibels float64
}

func DefaultOptions() Options {
	return Options{
		FFTSize:     512,
		Smoothing:   0.85,
		MinDecibels: -100,
		MaxDecibels: -30,
	}
}

// Analyser is not safe for concurrent use. The sample source may be written
// from another goroutine.
type Analyser struct {
	src  SampleSource
	opts Options

	samples  []float64
	window   []float64 // Blackman coefficients, computed once
	windowed []float64
	smoothed []float64
	freq     []byte
	time     []byte
}

func New(src SampleSource, opts Options) (*Analyser, error) {
	n := opts.FFTSize
	if n < MinFFTSize || n > MaxFFTSize || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, n)
	}
	if opts.Smoothing < 0 || opts.Smoothing > 1 {
		return nil, fmt.Errorf("analysis: smoothing %v outside [0,1]", opts.Smoothing)
	}
	if opts.MinDecibels >= opts.MaxDecibels {
		return nil, fmt.Errorf("analysis: decibel range [%v, %v] is empty", opts.MinDecibels, opts.MaxDecibels)
	}
	return &Analyser{
		src:      src,
		opts:     opts,
		samples:  make([]float64, n),
		window:   window.Blackman(n),
		windowed: make([]float64, n),
		smoothed: make([]float64, n/2),
		freq:     make([]byte, n/2),
		time:     make([]byte, n/2),
	}, nil
}

// BinCount is fftSize/2, the length of both snapshots.
func (a *Analyser) BinCount() int { return len(a.freq) }

func (a *Analyser) Active() bool { return a.src != nil && a.src.Active() }

// FrequencySnapshot returns the smoothed magnitude spectrum mapped from the
// decibel range onto 0..255. The slice is reused by the next call.
func (a *Analyser) FrequencySnapshot() []byte {
	if a.src == nil {
		return nil
	}
	a.src.Latest(a.samples)
	for i, s := range a.samples {
		a.windowed[i] = s * a.window[i]
	}
	spectrum := fft.FFTReal(a.windowed)

	n := float64(len(a.samples))
	tau := a.opts.Smoothing
	scale := 255 / (a.opts.MaxDecibels - a.opts.MinDecibels)
	for k := range a.smoothed {
		mag := cmplx.Abs(spectrum[k]) / n
		v := tau*a.smoothed[k] + (1-tau)*mag
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		a.smoothed[k] = v
		a.freq[k] = toByte(scale * (decibels(v) - a.opts.MinDecibels))
	}
	return a.freq
}

// TimeDomainSnapshot returns the newest BinCount samples as bytes centred on
// 128. The slice is reused by the next call.
func (a *Analyser) TimeDomainSnapshot() []byte {
	if a.src == nil {
		return nil
	}
	a.src.Latest(a.samples)
	tail := a.samples[len(a.samples)-len(a.time):]
	for i, s := range tail {
		a.time[i] = toByte(128 * (1 + s))
	}
	return a.time
}

func decibels(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}

func toByte(v float64) byte {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return byte(v)
}
