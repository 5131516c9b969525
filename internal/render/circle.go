package render

import (
	"image/color"
	"math"

	"github.com/iburimskiy/pulseviz/internal/theme"
)

const (
	circleMargin      = 20
	circlePhaseStep   = 0.02
	circleRotation    = 0.1
	circleJitter      = 0.05
	idleLoudness      = 0.04
	idleBandEnergy    = 0.25
	idleRearm         = 0.05
	idleChance        = 0.03
	idleDecay         = 0.9
	circleWobbleScale = 0.01
)

// Splits run bass to treble; rings run outer to inner, so band 0 is the
// outer ring.
var (
	circleSplits  = []float64{0, 0.08, 0.18, 0.35, 0.6, 1}
	circleGain    = [circleBands]float64{3.4, 3.2, 3.0, 3.2, 3.6}
	circleAttack  = [circleBands]float64{0.9, 0.85, 0.8, 0.8, 0.85}
	circleRelease = [circleBands]float64{0.2, 0.22, 0.24, 0.26, 0.28}
	circleBase    = [circleBands]float64{0.88, 0.72, 0.57, 0.42, 0.28}
	circleAmp     = [circleBands]float64{0.22, 0.18, 0.15, 0.12, 0.10}
	circleLine    = [circleBands][2]float64{{4, 7}, {3, 5}, {3, 4}, {2.5, 3.5}, {2.2, 3.5}}
	circleBlur    = [circleBands][2]float64{{28, 32}, {20, 22}, {18, 20}, {15, 18}, {22, 26}}
)

// updateCircleEnvelope folds the current spectrum into the band envelopes and
// the idle pulse, returning the overall loudness.
func updateCircleEnvelope(st *State, freq []byte) float64 {
	avgAll := AggregateBands(freq, circleSplits, st.bands[:])

	total := 0.0
	for b := range st.BandEnv {
		target := math.Min(1, st.bands[b].Level*circleGain[b])
		st.BandEnv[b] = Smooth(st.BandEnv[b], target, circleAttack[b], circleRelease[b])
		total += st.BandEnv[b]
	}

	quiet := avgAll < idleLoudness && total < idleBandEnergy
	if quiet && st.IdleBeat < idleRearm && st.rng.Float64() < idleChance {
		st.IdleBeat = 1
	}
	st.IdleBeat *= idleDecay
	return avgAll
}

// ringRadii returns the five ring radii, outer first, each at most limit.
func ringRadii(st *State, limit, minSide float64) [circleBands]float64 {
	var radii [circleBands]float64
	wobble := math.Sin(st.Phase*2) * minSide * circleWobbleScale
	for b := range radii {
		level := st.BandEnv[b]
		if b == 0 {
			level = math.Min(1, level+st.IdleBeat*(1-level))
		}
		level = clamp01(level + (st.rng.Float64()-0.5)*circleJitter)

		r := limit*circleBase[b] + limit*circleAmp[b]*level + wobble*(0.5+0.25*float64(b))
		radii[b] = math.Max(0, math.Min(r, limit))
	}
	return radii
}

// ringColors spreads the theme's three gradient stops over the five rings.
func ringColors(th theme.Theme) [circleBands]color.NRGBA {
	g := th.WaveGradient()
	var out [circleBands]color.NRGBA
	for b := range out {
		t := float64(b) / float64(circleBands-1) * 2
		if t <= 1 {
			out[b] = theme.Blend(g[0], g[1], t)
		} else {
			out[b] = theme.Blend(g[1], g[2], t-1)
		}
	}
	return out
}

func drawCircle(st *State, freq []byte, th theme.Theme, dst Surface) {
	w, h := float64(st.width), float64(st.height)
	cx, cy := w/2, h/2
	minSide := math.Min(w, h)
	limit := minSide*0.5 - circleMargin

	updateCircleEnvelope(st, freq)
	if limit <= 0 {
		st.Phase += circlePhaseStep
		return
	}

	radii := ringRadii(st, limit, minSide)
	cols := ringColors(th)
	rot := st.Phase * circleRotation
	p := &st.path

	for b := 0; b < circleBands-1; b++ {
		energy := st.BandEnv[b]
		if b == 0 {
			energy += st.IdleBeat
		}
		style := Style{
			Paint:     Solid(cols[b]),
			LineWidth: circleLine[b][0] + circleLine[b][1]*energy,
			Glow:      Glow{Blur: circleBlur[b][0] + circleBlur[b][1]*energy, Color: cols[b]},
		}
		if b == 0 {
			g := cols[0]
			style.Paint = Paint{Gradient: &Gradient{
				Kind: GradientRadial, X0: cx, Y0: cy, X1: cx, Y1: cy,
				R0: radii[0] * 0.4, R1: radii[0] * 1.05,
				Stops: []Stop{
					{0, withAlpha(g, 0.25)},
					{0.5, withAlpha(g, 0.95)},
					{1, color.NRGBA{R: 255, G: 255, B: 255, A: 242}},
				},
			}}
		}
		p.Reset()
		p.Arc(cx, cy, radii[b], rot, rot+2*math.Pi)
		dst.Stroke(p, style)
	}

	// inner core: a glowing disc, then its rim
	core := circleBands - 1
	r := radii[core]
	energy := st.BandEnv[core]
	p.Reset()
	p.Arc(cx, cy, r, rot, rot+2*math.Pi)
	p.Close()
	dst.Fill(p, Style{
		Paint: Paint{Gradient: &Gradient{
			Kind: GradientRadial, X0: cx, Y0: cy, X1: cx, Y1: cy, R0: 0, R1: r,
			Stops: []Stop{
				{0, color.NRGBA{R: 255, G: 255, B: 255, A: 250}},
				{0.4, withAlpha(cols[2], 0.95)},
				{1, color.NRGBA{}},
			},
		}},
		Glow: Glow{Blur: circleBlur[core][0] + circleBlur[core][1]*energy, Color: cols[core]},
	})
	dst.Stroke(p, Style{
		Paint:     Solid(cols[core]),
		LineWidth: circleLine[core][0] + circleLine[core][1]*energy,
	})

	st.Phase += circlePhaseStep
}
