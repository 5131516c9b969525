package render

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Background is the opaque fill applied before every mode draws.
var Background = color.NRGBA{R: 5, G: 5, B: 10, A: 255}

type Composite uint8

const (
	CompositeSourceOver Composite = iota
	// CompositeLighter adds source colour onto the destination.
	CompositeLighter
)

type LineCap uint8

const (
	CapButt LineCap = iota
	CapRound
)

type GradientKind uint8

const (
	GradientLinear GradientKind = iota
	GradientRadial
)

// Stop is a colour at a normalised offset along a gradient.
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// Gradient describes a linear gradient from (X0,Y0) to (X1,Y1), or a radial
// gradient between two concentric circles centred at (X1,Y1) with radii R0 and R1.
type Gradient struct {
	Kind   GradientKind
	X0, Y0 float64
	X1, Y1 float64
	R0, R1 float64
	Stops  []Stop
}

// At samples the gradient at a point on the surface.
func (g *Gradient) At(x, y float64) color.NRGBA {
	if len(g.Stops) == 0 {
		return color.NRGBA{}
	}
	var t float64
	switch g.Kind {
	case GradientRadial:
		span := g.R1 - g.R0
		if span <= 0 {
			t = 1
			break
		}
		t = (math.Hypot(x-g.X1, y-g.Y1) - g.R0) / span
	default:
		dx, dy := g.X1-g.X0, g.Y1-g.Y0
		den := dx*dx + dy*dy
		if den == 0 {
			break
		}
		t = ((x-g.X0)*dx + (y-g.Y0)*dy) / den
	}
	return sampleStops(g.Stops, clamp01(t))
}

func sampleStops(stops []Stop, t float64) color.NRGBA {
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		hi := stops[i]
		if t > hi.Offset {
			continue
		}
		lo := stops[i-1]
		span := hi.Offset - lo.Offset
		if span <= 0 {
			return hi.Color
		}
		return lerpNRGBA(lo.Color, hi.Color, (t-lo.Offset)/span)
	}
	return stops[len(stops)-1].Color
}

// Paint is either a solid colour or, when Gradient is set, a gradient.
type Paint struct {
	Color    color.NRGBA
	Gradient *Gradient
}

func Solid(c color.NRGBA) Paint { return Paint{Color: c} }

// At returns the paint colour at a point.
func (p Paint) At(x, y float64) color.NRGBA {
	if p.Gradient != nil {
		return p.Gradient.At(x, y)
	}
	return p.Color
}

// Glow is a blurred halo drawn underneath a shape, like a canvas shadow with
// zero offset.
type Glow struct {
	Blur  float64
	Color color.NRGBA
}

// Style carries everything a single draw call needs.
type Style struct {
	Paint     Paint
	LineWidth float64
	Cap       LineCap
	Glow      Glow
	Composite Composite
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerpNRGBA(a, b color.NRGBA, t float64) color.NRGBA {
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	r, g, bl := ca.BlendRgb(cb, t).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: bl, A: uint8(math.Round(float64(a.A) + (float64(b.A)-float64(a.A))*t))}
}

// hsla converts hue in degrees, saturation and lightness in percent, and an
// alpha in [0,1] into a colour.
func hsla(h, s, l, a float64) color.NRGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	r, g, b := colorful.Hsl(h, clamp01(s/100), clamp01(l/100)).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp01(a) * 255))}
}

func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * clamp01(a)))
	return c
}
