package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

const (
	MicSampleRate      = 44100
	micFramesPerBuffer = 512
)

// Capture is a live input that writes into a Ring while running.
type Capture interface {
	Start() error
	Stop() error
	Running() bool
}

// Mic captures the default input device in mono.
type Mic struct {
	ring   *Ring
	stream *portaudio.Stream
	buf    []float64
}

func NewMic(ring *Ring) *Mic {
	return &Mic{ring: ring, buf: make([]float64, micFramesPerBuffer)}
}

func (m *Mic) Running() bool { return m.stream != nil }

func (m *Mic) Start() error {
	if m.stream != nil {
		return nil
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("%w: %v", ErrMicUnavailable, err)
	}
	stream, err := portaudio.OpenDefaultStream(1, 0, MicSampleRate, micFramesPerBuffer, m.process)
	if err != nil {
		_ = portaudio.Terminate()
		return fmt.Errorf("%w: %v", ErrMicUnavailable, err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return fmt.Errorf("%w: %v", ErrMicUnavailable, err)
	}
	m.stream = stream
	return nil
}

// process runs on the portaudio callback thread.
func (m *Mic) process(in []float32) {
	if cap(m.buf) < len(in) {
		m.buf = make([]float64, len(in))
	}
	buf := m.buf[:len(in)]
	for i, s := range in {
		buf[i] = float64(s)
	}
	m.ring.Write(buf)
}

func (m *Mic) Stop() error {
	if m.stream == nil {
		return nil
	}
	stream := m.stream
	m.stream = nil
	err := stream.Stop()
	if cerr := stream.Close(); err == nil {
		err = cerr
	}
	if terr := portaudio.Terminate(); err == nil {
		err = terr
	}
	if err != nil {
		return fmt.Errorf("stop mic: %w", err)
	}
	return nil
}
