// Package screen draws render paint calls onto an ebiten image.
package screen

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/pulseviz/internal/render"
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

const (
	// glowSpread is how much of the blur radius widens the halo pass.
	glowSpread = 0.6
	glowAlpha  = 0.3
)

// Surface implements render.Surface on an ebiten image. Point it at the
// frame's target with SetTarget before drawing.
type Surface struct {
	dst *ebiten.Image

	path     vector.Path
	vertices []ebiten.Vertex
	indices  []uint16
}

func New(dst *ebiten.Image) *Surface { return &Surface{dst: dst} }

func (s *Surface) SetTarget(dst *ebiten.Image) { s.dst = dst }

func (s *Surface) Size() (int, int) {
	if s.dst == nil {
		return 0, 0
	}
	b := s.dst.Bounds()
	return b.Dx(), b.Dy()
}

func (s *Surface) Clear(c color.NRGBA) {
	c.A = 255
	s.dst.Fill(c)
}

func (s *Surface) FillRect(x, y, w, h float64, st render.Style) {
	if w <= 0 || h <= 0 {
		return
	}
	s.path = vector.Path{}
	s.path.MoveTo(float32(x), float32(y))
	s.path.LineTo(float32(x+w), float32(y))
	s.path.LineTo(float32(x+w), float32(y+h))
	s.path.LineTo(float32(x), float32(y+h))
	s.path.Close()
	s.fillCurrent(st)
}

func (s *Surface) Fill(p *render.Path, st render.Style) {
	s.load(p)
	s.fillCurrent(st)
}

func (s *Surface) fillCurrent(st render.Style) {
	if st.Glow.Blur > 0 && st.Glow.Color.A > 0 {
		s.strokeCurrent(render.Style{
			Paint:     render.Solid(st.Glow.Color),
			LineWidth: st.Glow.Blur * glowSpread,
			Cap:       render.CapRound,
			Composite: st.Composite,
		}, glowAlpha)
	}
	s.vertices, s.indices = s.path.AppendVerticesAndIndicesForFilling(s.vertices[:0], s.indices[:0])
	s.draw(st, 1)
}

func (s *Surface) Stroke(p *render.Path, st render.Style) {
	if st.LineWidth <= 0 {
		return
	}
	s.load(p)
	if st.Glow.Blur > 0 && st.Glow.Color.A > 0 {
		s.strokeCurrent(render.Style{
			Paint:     render.Solid(st.Glow.Color),
			LineWidth: st.LineWidth + st.Glow.Blur*glowSpread,
			Cap:       render.CapRound,
			Composite: st.Composite,
		}, glowAlpha)
	}
	s.strokeCurrent(st, 1)
}

func (s *Surface) strokeCurrent(st render.Style, alpha float64) {
	op := &vector.StrokeOptions{
		Width:    float32(st.LineWidth),
		LineJoin: vector.LineJoinRound,
	}
	if st.Cap == render.CapRound {
		op.LineCap = vector.LineCapRound
	}
	s.vertices, s.indices = s.path.AppendVerticesAndIndicesForStroke(s.vertices[:0], s.indices[:0], op)
	s.draw(st, alpha)
}

func (s *Surface) draw(st render.Style, alpha float64) {
	if len(s.indices) == 0 {
		return
	}
	Shade(s.vertices, st.Paint, alpha)
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	if st.Composite == render.CompositeLighter {
		op.Blend = ebiten.BlendLighter
	}
	s.dst.DrawTriangles(s.vertices, s.indices, whiteSubImage, op)
}

// load rebuilds the vector path from p. Arcs sweep clockwise in screen
// space, the same direction as render angles.
func (s *Surface) load(p *render.Path) {
	s.path = vector.Path{}
	for _, seg := range p.Segments() {
		switch seg.Verb {
		case render.VerbMoveTo:
			s.path.MoveTo(float32(seg.X), float32(seg.Y))
		case render.VerbLineTo:
			s.path.LineTo(float32(seg.X), float32(seg.Y))
		case render.VerbQuadTo:
			s.path.QuadTo(float32(seg.CX), float32(seg.CY), float32(seg.X), float32(seg.Y))
		case render.VerbArc:
			s.path.Arc(float32(seg.X), float32(seg.Y), float32(seg.Radius), float32(seg.Start), float32(seg.End), vector.Clockwise)
		case render.VerbClose:
			s.path.Close()
		}
	}
}

// Shade colours each vertex from the paint sampled at its position, scaled
// by alpha. Vertex colours are premultiplied.
func Shade(vs []ebiten.Vertex, p render.Paint, alpha float64) {
	solid := p.Gradient == nil
	c := p.Color
	for i := range vs {
		v := &vs[i]
		v.SrcX, v.SrcY = 1, 1
		if !solid {
			c = p.At(float64(v.DstX), float64(v.DstY))
		}
		a := float32(float64(c.A) / 255 * math.Max(0, math.Min(1, alpha)))
		v.ColorR = float32(c.R) / 255 * a
		v.ColorG = float32(c.G) / 255 * a
		v.ColorB = float32(c.B) / 255 * a
		v.ColorA = a
	}
}
