package render

import (
	"math"

	"github.com/iburimskiy/pulseviz/internal/theme"
)

const (
	particleCount    = 270
	particleLayers   = 3
	particleSat      = 90
	particleLight    = 80
	particleHueJit   = 20
	particleSpeedMin = 0.0012
	particleSpeedVar = 0.0018
	particleSizeMin  = 2.2
	particleSizeVar  = 0.6
)

// Per layer, outer to inner.
var (
	particleRadius = [particleLayers][2]float64{{0.30, 0.46}, {0.20, 0.34}, {0.12, 0.24}}
	particleBins   = [particleLayers][2]float64{{0.0, 0.3}, {0.25, 0.65}, {0.6, 0.95}}
	particleAmp    = [particleLayers]float64{0.18, 0.14, 0.10}
)

// Particle orbits the centre of the surface. Angle is never wrapped; positions
// are derived through cos and sin.
type Particle struct {
	Layer      int
	Angle      float64
	BaseRadius float64
	Speed      float64
	Size       float64
	Bin        int
	RadiusAmp  float64
	Hue        float64
}

// Position returns the particle centre for a given radius around (cx, cy).
func (p *Particle) Position(cx, cy, radius float64) (float64, float64) {
	return cx + math.Cos(p.Angle)*radius, cy + math.Sin(p.Angle)*radius
}

// spawnParticles fills the pool for the current surface size and theme.
func spawnParticles(st *State, bins int, th theme.Theme) {
	minSide := math.Min(float64(st.width), float64(st.height))
	hues := th.ParticleHueBase()
	perLayer := particleCount / particleLayers

	if cap(st.particles) < particleCount {
		st.particles = make([]Particle, 0, particleCount)
	}
	st.particles = st.particles[:0]
	rng := st.rng

	for layer := 0; layer < particleLayers; layer++ {
		rb, fb := particleRadius[layer], particleBins[layer]
		dir := 1.0
		if layer == 1 {
			dir = -1
		}
		for i := 0; i < perLayer; i++ {
			norm := fb[0] + (fb[1]-fb[0])*rng.Float64()
			st.particles = append(st.particles, Particle{
				Layer:      layer,
				Angle:      rng.Float64() * 2 * math.Pi,
				BaseRadius: minSide * (rb[0] + (rb[1]-rb[0])*rng.Float64()),
				Speed:      (particleSpeedMin + rng.Float64()*particleSpeedVar) * dir,
				Size:       particleSizeMin + rng.Float64()*particleSizeVar,
				Bin:        int(math.Floor(norm * float64(bins-1))),
				RadiusAmp:  minSide * particleAmp[layer],
				Hue:        hues[layer] + (rng.Float64()-0.5)*particleHueJit,
			})
		}
	}
	st.particleTheme = th.Name()
}

// particleEnergy maps a bin magnitude to [0,1].
func particleEnergy(v byte) float64 {
	return math.Min(1, math.Pow(float64(v)/255, 1.1)*1.4)
}

func drawParticles(st *State, freq []byte, th theme.Theme, dst Surface) {
	if len(st.particles) == 0 || st.particleTheme != th.Name() {
		spawnParticles(st, len(freq), th)
	}

	cx, cy := float64(st.width)/2, float64(st.height)/2
	sat, ok := th.ParticleSaturation()
	if !ok {
		sat = particleSat
	}

	p := &st.path
	for i := range st.particles {
		pt := &st.particles[i]
		idx := min(max(pt.Bin, 0), len(freq)-1)
		energy := particleEnergy(freq[idx])

		pt.Angle += pt.Speed * (0.7 + energy*4.0)

		x, y := pt.Position(cx, cy, pt.BaseRadius+energy*pt.RadiusAmp)
		size := pt.Size * (0.9 + energy*1.8)
		alpha := math.Min(1, 0.22+energy*0.95)
		col := hsla(pt.Hue, sat, particleLight-10+energy*5, alpha)

		p.Reset()
		p.Arc(x, y, size, 0, 2*math.Pi)
		p.Close()
		dst.Fill(p, Style{
			Paint:     Solid(col),
			Glow:      Glow{Blur: 20 + 40*energy, Color: col},
			Composite: CompositeLighter,
		})
	}
}
