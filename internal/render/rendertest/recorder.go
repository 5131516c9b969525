// Package rendertest provides a Surface that records paint calls instead of
// rasterising them, for asserting on what a frame drew.
package rendertest

import (
	"image/color"
	"math"

	"github.com/iburimskiy/pulseviz/internal/render"
)

type Op uint8

const (
	OpClear Op = iota
	OpFillRect
	OpStroke
	OpFill
)

func (o Op) String() string {
	switch o {
	case OpClear:
		return "clear"
	case OpFillRect:
		return "fill-rect"
	case OpStroke:
		return "stroke"
	case OpFill:
		return "fill"
	}
	return "unknown"
}

// Command is one recorded paint call. Path is a private copy.
type Command struct {
	Op         Op
	Color      color.NRGBA
	X, Y, W, H float64
	Path       *render.Path
	Style      render.Style
}

// Recorder implements render.Surface.
type Recorder struct {
	Width, Height int
	Commands      []Command
}

func NewRecorder(width, height int) *Recorder {
	return &Recorder{Width: width, Height: height}
}

func (r *Recorder) Size() (int, int) { return r.Width, r.Height }

func (r *Recorder) Clear(c color.NRGBA) {
	r.Commands = append(r.Commands, Command{Op: OpClear, Color: c, W: float64(r.Width), H: float64(r.Height)})
}

func (r *Recorder) FillRect(x, y, w, h float64, s render.Style) {
	r.Commands = append(r.Commands, Command{Op: OpFillRect, X: x, Y: y, W: w, H: h, Style: s})
}

func (r *Recorder) Stroke(p *render.Path, s render.Style) {
	r.Commands = append(r.Commands, Command{Op: OpStroke, Path: p.Clone(), Style: s})
}

func (r *Recorder) Fill(p *render.Path, s render.Style) {
	r.Commands = append(r.Commands, Command{Op: OpFill, Path: p.Clone(), Style: s})
}

// Reset drops recorded commands, keeping the size.
func (r *Recorder) Reset() { r.Commands = r.Commands[:0] }

// Count returns how many commands of op were recorded.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, c := range r.Commands {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Filter returns the commands of op, in order.
func (r *Recorder) Filter(op Op) []Command {
	var out []Command
	for _, c := range r.Commands {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Invalid reports the first command carrying a NaN or infinite coordinate,
// or a negative rect size, line width or radius.
func (r *Recorder) Invalid() (Command, bool) {
	bad := func(vs ...float64) bool {
		for _, v := range vs {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return true
			}
		}
		return false
	}
	for _, c := range r.Commands {
		if bad(c.X, c.Y, c.W, c.H, c.Style.LineWidth, c.Style.Glow.Blur) || c.W < 0 || c.H < 0 || c.Style.LineWidth < 0 {
			return c, true
		}
		if c.Path == nil {
			continue
		}
		for _, s := range c.Path.Segments() {
			if bad(s.X, s.Y, s.CX, s.CY, s.Radius, s.Start, s.End) || s.Radius < 0 {
				return c, true
			}
		}
	}
	return Command{}, false
}

// Source is a fixed analysis source for tests.
type Source struct {
	Freq     []byte
	Time     []byte
	Inactive bool

	FreqCalls int
	TimeCalls int
}

func (s *Source) FrequencySnapshot() []byte {
	s.FreqCalls++
	return s.Freq
}

func (s *Source) TimeDomainSnapshot() []byte {
	s.TimeCalls++
	return s.Time
}

func (s *Source) Active() bool { return !s.Inactive }

// Constant returns n bytes all set to v.
func Constant(n int, v byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = v
	}
	return out
}
