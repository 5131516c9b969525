package render

import (
	"math"

	"github.com/iburimskiy/pulseviz/internal/theme"
)

const (
	maxRays         = 80
	maxSpawnPerTick = 8
	spawnBoost      = 1.5
	minRayEnergy    = 0.12
	rayLengthFrac   = 0.55
	rayLifeBase     = 0.02
	rayLifeExtra    = 0.06
	rayJitter       = 0.45
	rayHueSpread    = 30
	burstRangeEnd   = 0.7
	burstPhaseStep  = 0.01
)

// Edges a ray can start from.
const (
	edgeTop = iota
	edgeRight
	edgeBottom
	edgeLeft
)

// Ray is a short streak fired inward from one edge of the surface.
type Ray struct {
	X, Y     float64
	Angle    float64
	Energy   float64
	Life     float64 // 0..1, the ray is gone once it reaches 1
	LifeRate float64
	Hue      float64
}

// spawnRays adds new rays for this frame, bounded by the per-frame budget and
// the overall cap.
func spawnRays(st *State, freq []byte, start, end int, hues [3]float64) {
	count := end - start
	sum := 0
	for _, v := range freq[start:end] {
		sum += int(v)
	}
	avg := float64(sum) / float64(count) / 255
	overall := math.Min(1, math.Pow(avg, 1.2))
	budget := min(maxSpawnPerTick, int(math.Floor(overall*maxSpawnPerTick*spawnBoost)))

	w, h := float64(st.width), float64(st.height)
	rng := st.rng
	for s := 0; s < budget && len(st.rays) < maxRays; s++ {
		bin := start + int(math.Floor(rng.Float64()*float64(count)))
		energy := math.Pow(float64(freq[bin])/255, 1.3)
		if energy < minRayEnergy {
			continue
		}

		side := rng.IntN(4)
		var x, y, base float64
		switch side {
		case edgeTop:
			x, y, base = rng.Float64()*w, 0, math.Pi/2
		case edgeRight:
			x, y, base = w, rng.Float64()*h, math.Pi
		case edgeBottom:
			x, y, base = rng.Float64()*w, h, -math.Pi/2
		default:
			x, y, base = 0, rng.Float64()*h, 0
		}

		st.rays = append(st.rays, Ray{
			X:        x,
			Y:        y,
			Angle:    base + (rng.Float64()-0.5)*rayJitter,
			Energy:   energy,
			LifeRate: rayLifeBase + rayLifeExtra*energy,
			Hue:      hues[side%len(hues)] + float64(bin)/float64(len(freq))*rayHueSpread,
		})
	}
}

// advanceRays ages every ray and swap-removes the ones that expired, so no
// ray is ever drawn with Life >= 1.
func advanceRays(st *State) {
	for i := 0; i < len(st.rays); {
		r := &st.rays[i]
		r.Life += r.LifeRate
		if r.Life >= 1 {
			last := len(st.rays) - 1
			st.rays[i] = st.rays[last]
			st.rays = st.rays[:last]
			continue
		}
		i++
	}
}

func drawBurst(st *State, freq []byte, th theme.Theme, dst Surface) {
	start := guardBins
	end := int(math.Floor(float64(len(freq)) * burstRangeEnd))
	if end-start <= 0 {
		return
	}

	spawnRays(st, freq, start, end, th.ParticleHueBase())
	advanceRays(st)

	maxLen := math.Max(float64(st.width), float64(st.height)) * rayLengthFrac
	p := &st.path
	for i := range st.rays {
		r := &st.rays[i]
		length := (0.25 + r.Energy*0.75) * maxLen * r.Life
		alpha := (1 - r.Life) * (0.35 + r.Energy*0.6)
		col := hsla(r.Hue, 90, 60, alpha)

		p.Reset()
		p.MoveTo(r.X, r.Y)
		p.LineTo(r.X+math.Cos(r.Angle)*length, r.Y+math.Sin(r.Angle)*length)
		dst.Stroke(p, Style{
			Paint:     Solid(col),
			LineWidth: 1.1 + 2.4*r.Energy,
			Cap:       CapRound,
			Glow:      Glow{Blur: 6 + 18*r.Energy, Color: col},
		})
	}

	st.Phase += burstPhaseStep
}
