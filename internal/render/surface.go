package render

import "image/color"

// Surface is the raster target a frame is painted onto. Implementations may
// assume calls arrive from a single goroutine, one frame at a time.
type Surface interface {
	// Size reports the pixel dimensions of the target.
	Size() (width, height int)
	// Clear fills the whole target with an opaque colour.
	Clear(c color.NRGBA)
	FillRect(x, y, w, h float64, s Style)
	Stroke(p *Path, s Style)
	Fill(p *Path, s Style)
}

// Source is the audio analysis collaborator. Both snapshots are refreshed in
// place on every call and share the same fixed length.
type Source interface {
	FrequencySnapshot() []byte
	TimeDomainSnapshot() []byte
	Active() bool
}
