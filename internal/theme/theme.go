// Package theme holds the built-in colour themes. A theme is read-only data:
// renderers ask it for colours and never change it.
package theme

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// UIColors are the accents used by the window chrome around the visual.
type UIColors struct {
	BgStart color.NRGBA
	BgEnd   color.NRGBA
	Accent1 color.NRGBA
	Accent2 color.NRGBA
}

// Theme is the capability set a renderer needs from a colour theme.
type Theme interface {
	Name() string
	Label() string
	UI() UIColors
	// BarColor and MirrorColor map a bar height in [0,255] to a colour.
	BarColor(h float64) color.NRGBA
	MirrorColor(h float64) color.NRGBA
	// WaveGradient is [outer, middle, inner], shared by the wave and circle modes.
	WaveGradient() [3]color.NRGBA
	// ParticleHueBase is the base hue in degrees for each particle layer.
	ParticleHueBase() [3]float64
	// ParticleSaturation reports an override in percent, if the theme has one.
	ParticleSaturation() (float64, bool)
}

type colorFunc func(h float64) colorful.Color

type palette struct {
	name   string
	label  string
	ui     UIColors
	bars   colorFunc
	mirror colorFunc
	wave   [3]color.NRGBA
	hues   [3]float64
	sat    float64
	hasSat bool
}

func (p *palette) Name() string                 { return p.name }
func (p *palette) Label() string                { return p.label }
func (p *palette) UI() UIColors                 { return p.ui }
func (p *palette) WaveGradient() [3]color.NRGBA { return p.wave }
func (p *palette) ParticleHueBase() [3]float64  { return p.hues }

func (p *palette) ParticleSaturation() (float64, bool) {
	return p.sat, p.hasSat
}

func (p *palette) BarColor(h float64) color.NRGBA    { return toNRGBA(p.bars(clampHeight(h))) }
func (p *palette) MirrorColor(h float64) color.NRGBA { return toNRGBA(p.mirror(clampHeight(h))) }

func clampHeight(h float64) float64 {
	if math.IsNaN(h) || h < 0 {
		return 0
	}
	if h > 255 {
		return 255
	}
	return h
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// rgb builds a colour from 0..255 channel values, clamping like CSS does.
func rgb(r, g, b float64) colorful.Color {
	return colorful.Color{R: r / 255, G: g / 255, B: b / 255}.Clamped()
}

// hsl takes hue in degrees and saturation/lightness in percent.
func hsl(h, s, l float64) colorful.Color {
	return colorful.Hsl(math.Mod(h, 360), s/100, l/100)
}

func hex(s string) color.NRGBA {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("theme: bad colour " + s)
	}
	return toNRGBA(c)
}

// Blend interpolates between two theme colours in RGB space.
func Blend(a, b color.NRGBA, t float64) color.NRGBA {
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	out := toNRGBA(ca.BlendRgb(cb, t))
	out.A = uint8(math.Round(float64(a.A) + (float64(b.A)-float64(a.A))*t))
	return out
}
