package render

import (
	"image/color"
	"math"

	"github.com/iburimskiy/pulseviz/internal/theme"
)

const (
	waveGain      = 2.5
	waveAttack    = 0.15
	waveRelease   = 0.05
	waveBaseAmp   = 0.06
	waveExtraAmp  = 0.16
	waveSpread    = 2 // samples averaged either side of each point
	waveMirrorAmp = 0.6
	waveMirrorA   = 0.25
)

// rms returns the root mean square of a byte waveform centred at 128.
func rms(td []byte) float64 {
	if len(td) == 0 {
		return 0
	}
	sum := 0.0
	for _, b := range td {
		v := (float64(b) - 128) / 128
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(td)))
}

// downsample fills out with local averages of td, then runs two passes of a
// three-point moving average over the interior points.
func downsample(td []byte, out, tmp []float64) {
	n := len(out)
	step := float64(len(td)) / float64(n)
	for i := range out {
		c := float64(i) * step
		lo, hi := int(math.Floor(c-waveSpread)), int(math.Floor(c+waveSpread))
		sum, count := 0.0, 0
		for j := lo; j <= hi; j++ {
			if j < 0 || j >= len(td) {
				continue
			}
			sum += (float64(td[j]) - 128) / 128
			count++
		}
		out[i] = 0
		if count > 0 {
			out[i] = sum / float64(count)
		}
	}
	for pass := 0; pass < 2; pass++ {
		copy(tmp, out)
		for i := 1; i < n-1; i++ {
			out[i] = (tmp[i-1] + tmp[i] + tmp[i+1]) / 3
		}
	}
}

// curve builds a smooth path through the samples, using each point as the
// control of a quadratic segment ending at the midpoint to the next.
func curve(p *Path, samples []float64, width, centerY, amp float64) {
	n := len(samples)
	p.Reset()
	p.MoveTo(0, centerY+samples[0]*amp)
	for i := 1; i < n-1; i++ {
		x1 := float64(i) / float64(n-1) * width
		y1 := centerY + samples[i]*amp
		x2 := float64(i+1) / float64(n-1) * width
		y2 := centerY + samples[i+1]*amp
		p.QuadTo(x1, y1, (x1+x2)/2, (y1+y2)/2)
	}
}

func drawWave(st *State, td []byte, th theme.Theme, dst Surface) {
	w, h := float64(st.width), float64(st.height)
	centerY := h / 2

	target := math.Min(1, rms(td)*waveGain)
	st.WaveEnergy = Smooth(st.WaveEnergy, target, waveAttack, waveRelease)
	e := st.WaveEnergy

	amp := h*waveBaseAmp + h*waveExtraAmp*e
	downsample(td, st.samples[:], st.tmp[:])

	g := th.WaveGradient()
	glow := color.NRGBA{R: 181, G: 226, B: 247, A: 255}
	grad := &Gradient{
		Kind: GradientLinear, X0: 0, Y0: 0, X1: w, Y1: 0,
		Stops: []Stop{{0, g[0]}, {0.5, g[1]}, {1, g[2]}},
	}

	p := &st.path
	curve(p, st.samples[:], w, centerY, amp)
	dst.Stroke(p, Style{
		Paint:     Paint{Gradient: grad},
		LineWidth: 1.5 + 2.5*e,
		Glow:      Glow{Blur: 12 + 18*e, Color: glow},
	})

	faint := &Gradient{
		Kind: GradientLinear, X0: 0, Y0: 0, X1: w, Y1: 0,
		Stops: []Stop{
			{0, withAlpha(g[0], waveMirrorA)},
			{0.5, withAlpha(g[1], waveMirrorA)},
			{1, withAlpha(g[2], waveMirrorA)},
		},
	}
	curve(p, st.samples[:], w, centerY, -amp*waveMirrorAmp)
	dst.Stroke(p, Style{
		Paint:     Paint{Gradient: faint},
		LineWidth: 1.5 + 2.5*e,
		Glow:      Glow{Blur: 8 + 10*e, Color: withAlpha(glow, waveMirrorA)},
	})
}
