package audio

import "github.com/faiface/beep"

// Tap passes a stream through unchanged while copying what was played into a
// Ring, so the analyser sees recently heard audio.
type Tap struct {
	Streamer beep.Streamer
	ring     *Ring
}

func NewTap(s beep.Streamer, ring *Ring) *Tap {
	return &Tap{Streamer: s, ring: ring}
}

func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Streamer.Stream(samples)
	if n > 0 {
		t.ring.WriteStereo(samples[:n])
	}
	return n, ok
}

func (t *Tap) Err() error { return t.Streamer.Err() }
