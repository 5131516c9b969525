package render

import (
	"math"

	"github.com/iburimskiy/pulseviz/internal/theme"
)

const (
	guardBins    = 5   // lowest bins skipped by the bar modes
	visibleFrac  = 0.6 // share of the spectrum the bar modes show
	barGamma     = 1.7
	mirrorWidthK = 4
	barGapPx     = 1
)

// visibleRange returns [start,end) of the bins shown by the bar modes.
func visibleRange(n int) (int, int) {
	return guardBins, int(math.Floor(float64(n) * visibleFrac))
}

// barHeight applies the gamma curve that keeps quiet bins flat and lets
// peaks stand out.
func barHeight(v byte) float64 {
	return math.Pow(float64(v)/255, barGamma) * 255
}

func drawBars(st *State, freq []byte, th theme.Theme, dst Surface) {
	start, end := visibleRange(len(freq))
	visible := end - start
	if visible <= 0 {
		return
	}
	w, h := float64(st.width), float64(st.height)
	barWidth := w / float64(visible)

	x := 0.0
	for i := start; i < end; i++ {
		bh := barHeight(freq[i])
		dst.FillRect(x, h-bh, barWidth, bh, Style{Paint: Solid(th.BarColor(bh))})
		x += barWidth + barGapPx
	}
}

func drawMirror(st *State, freq []byte, th theme.Theme, dst Surface) {
	start, end := visibleRange(len(freq))
	if end-start <= 0 {
		return
	}
	w, h := float64(st.width), float64(st.height)
	barWidth := w / float64(len(freq)) * mirrorWidthK
	centerY := h / 2

	x := 0.0
	for i := start; i < end; i++ {
		bh := barHeight(freq[i])
		style := Style{Paint: Solid(th.MirrorColor(bh))}
		dst.FillRect(x, centerY-bh/2, barWidth, bh/2, style)
		dst.FillRect(x, centerY, barWidth, bh/2, style)
		x += barWidth + barGapPx
	}
}
