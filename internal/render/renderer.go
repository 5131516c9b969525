// Package render turns analyser snapshots into paint calls. A frame is one
// call to Tick: it clears the surface and runs exactly one mode routine, which
// reads and updates the retained State.
package render

import (
	"fmt"
	"math/rand/v2"

	"github.com/iburimskiy/pulseviz/internal/theme"
)

// Frame is the per-tick input.
type Frame struct {
	Mode       Mode
	Theme      theme.Theme
	Freq       []byte
	TimeDomain []byte
}

// Tick paints one frame onto dst. Missing snapshots and empty surfaces paint
// nothing. A change in surface size resizes st before drawing.
func Tick(st *State, f Frame, dst Surface) {
	w, h := dst.Size()
	if w <= 0 || h <= 0 {
		return
	}
	if len(f.Freq) == 0 || (f.Mode == ModeWave && len(f.TimeDomain) == 0) {
		return
	}
	if w != st.width || h != st.height {
		st.Resize(w, h)
	}
	th := f.Theme
	if th == nil {
		th = theme.Default()
	}

	dst.Clear(Background)

	switch f.Mode {
	case ModeBars:
		drawBars(st, f.Freq, th, dst)
	case ModeCircle:
		drawCircle(st, f.Freq, th, dst)
	case ModeWave:
		drawWave(st, f.TimeDomain, th, dst)
	case ModeParticles:
		drawParticles(st, f.Freq, th, dst)
	case ModeMirror:
		drawMirror(st, f.Freq, th, dst)
	case ModeBurst:
		drawBurst(st, f.Freq, th, dst)
	}
}

// Renderer owns the render state and the current mode and theme. Setters
// are meant to be called between frames, from the goroutine driving Frame.
type Renderer struct {
	state *State
	mode  Mode
	theme theme.Theme
	fault error
}

func NewRenderer(mode Mode, th theme.Theme, rng *rand.Rand) *Renderer {
	if th == nil {
		th = theme.Default()
	}
	return &Renderer{state: NewState(rng), mode: mode, theme: th}
}

func (r *Renderer) Mode() Mode         { return r.mode }
func (r *Renderer) SetMode(m Mode)     { r.mode = m }
func (r *Renderer) Theme() theme.Theme { return r.theme }
func (r *Renderer) State() *State      { return r.state }

// SetTheme switches theme. Particle hues are baked in at spawn time, so the
// pool is rebuilt on the next particles frame.
func (r *Renderer) SetTheme(t theme.Theme) {
	if t == nil {
		t = theme.Default()
	}
	if r.theme == nil || r.theme.Name() != t.Name() {
		r.state.ResetParticles()
	}
	r.theme = t
}

// Resize is the surface-size notification. Particles and rays are dropped;
// envelopes are kept.
func (r *Renderer) Resize(width, height int) {
	r.state.Resize(width, height)
}

// Frame pulls the snapshots the current mode needs from src and paints one
// frame. An inactive source paints nothing. A panic inside a mode routine is
// contained and reported by Fault; the next frame runs normally.
func (r *Renderer) Frame(dst Surface, src Source) {
	if src == nil || !src.Active() {
		return
	}
	defer func() {
		if v := recover(); v != nil {
			r.fault = fmt.Errorf("%w: %s: %v", ErrFrameFault, r.mode, v)
		}
	}()

	f := Frame{Mode: r.mode, Theme: r.theme, Freq: src.FrequencySnapshot()}
	if r.mode == ModeWave {
		f.TimeDomain = src.TimeDomainSnapshot()
	}
	Tick(r.state, f, dst)
}

// Fault returns the last contained frame failure, if any.
func (r *Renderer) Fault() error { return r.fault }
