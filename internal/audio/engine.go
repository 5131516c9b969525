package audio

import (
	"fmt"
	"io"
	"time"
)

// Engine owns the sample ring and switches it between file playback and the
// microphone. It is the analyser's sample source.
type Engine struct {
	ring   *Ring
	player *Player
	mic    Capture
	active bool
}

// NewEngine builds an engine around a ring of ringSize samples. A nil out
// plays through the speaker and a nil mic uses the default input device.
func NewEngine(ringSize int, out Output, mic Capture) *Engine {
	ring := NewRing(ringSize)
	if mic == nil {
		mic = NewMic(ring)
	}
	return &Engine{ring: ring, player: NewPlayer(out, ring), mic: mic}
}

func (e *Engine) Ring() *Ring { return e.ring }

func (e *Engine) Player() *Player { return e.player }

func (e *Engine) Latest(dst []float64) int { return e.ring.Latest(dst) }

// Active is true once a file or the mic has been started, and stays true
// while either is loaded, paused or not.
func (e *Engine) Active() bool { return e.active }

// Live reports whether the mic is capturing.
func (e *Engine) Live() bool { return e.mic.Running() }

// Open loads path for playback. A running mic is stopped first.
func (e *Engine) Open(path string) error {
	if err := e.stopMic(); err != nil {
		return err
	}
	if err := e.player.Load(path); err != nil {
		e.active = e.player.Loaded()
		return err
	}
	e.active = true
	return nil
}

// ToggleMic starts live capture, stopping any playback, or stops it. Stopping
// clears the ring so stale input does not linger on screen.
func (e *Engine) ToggleMic() error {
	if e.mic.Running() {
		err := e.stopMic()
		e.active = e.player.Loaded()
		return err
	}
	e.player.Stop()
	e.ring.Reset()
	if err := e.mic.Start(); err != nil {
		e.active = false
		return err
	}
	e.active = true
	return nil
}

func (e *Engine) stopMic() error {
	if !e.mic.Running() {
		return nil
	}
	err := e.mic.Stop()
	e.ring.Reset()
	return err
}

func (e *Engine) TogglePause() error { return e.player.TogglePause() }

func (e *Engine) Seek(fraction float64) (bool, error) { return e.player.Seek(fraction) }

func (e *Engine) Skip(d time.Duration) error { return e.player.Skip(d) }

// NudgeVolume adds delta to the playback level and returns the new level.
func (e *Engine) NudgeVolume(delta float64) float64 {
	e.player.SetVolume(e.player.Volume() + delta)
	return e.player.Volume()
}

func (e *Engine) Close() error {
	merr := e.mic.Stop()
	perr := e.player.Close()
	e.active = false
	if merr != nil {
		return fmt.Errorf("close engine: %w", merr)
	}
	return perr
}

// OpenReader is Open for a stream that is not on disk, such as a file
// dropped onto the window. name picks the decoder.
func (e *Engine) OpenReader(name string, r io.ReadCloser) error {
	if err := e.stopMic(); err != nil {
		_ = r.Close()
		return err
	}
	if err := e.player.LoadReader(name, r); err != nil {
		e.active = e.player.Loaded()
		return err
	}
	e.active = true
	return nil
}
