package game

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/pulseviz/internal/config"
	"github.com/iburimskiy/pulseviz/internal/render"
	"github.com/iburimskiy/pulseviz/internal/theme"
)

// debug font cell
const charWidth = 6

var (
	white   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black   = color.NRGBA{A: 255}
	panelBg = color.NRGBA{R: 0, G: 0, B: 0, A: 160}
)

type button struct {
	label      string
	x, y, w, h int
	hovered    bool
	pressed    bool
}

func (b *button) contains(x, y int) bool {
	return x >= b.x && x <= b.x+b.w && y >= b.y && y <= b.y+b.h
}

// update tracks hover and press state and reports a click: press and release
// both inside the button.
func (b *button) update(mouseX, mouseY int, justPressed, justReleased bool) bool {
	b.hovered = b.contains(mouseX, mouseY)
	if b.hovered && justPressed {
		b.pressed = true
	}
	clicked := false
	if justReleased {
		clicked = b.pressed && b.hovered
		b.pressed = false
	}
	return clicked
}

func (b *button) draw(scr *ebiten.Image, fill, border color.NRGBA) {
	switch {
	case b.pressed:
		fill = theme.Blend(fill, black, 0.3)
	case b.hovered:
		fill = theme.Blend(fill, white, 0.2)
	}
	vector.DrawFilledRect(scr, float32(b.x), float32(b.y), float32(b.w), float32(b.h), fill, true)
	vector.StrokeRect(scr, float32(b.x), float32(b.y), float32(b.w), float32(b.h), 1, border, true)
	textX := b.x + (b.w-len(b.label)*charWidth)/2
	textY := b.y + (b.h-16)/2
	ebitenutil.DebugPrintAt(scr, b.label, textX, textY)
}

// seekBar is a horizontal bar that can be clicked or dragged.
type seekBar struct {
	x, y, w, h int
	hovered    bool
	dragging   bool
}

func (s *seekBar) contains(x, y int) bool {
	// a little slack above and below so thin bars are easy to hit
	return x >= s.x && x <= s.x+s.w && y >= s.y-4 && y <= s.y+s.h+4
}

// update returns the fraction under the cursor while the bar is being
// clicked or dragged.
func (s *seekBar) update(mouseX, mouseY int, justPressed, justReleased bool) (float64, bool) {
	s.hovered = s.contains(mouseX, mouseY)
	if s.hovered && justPressed {
		s.dragging = true
	}
	if justReleased {
		s.dragging = false
	}
	if !s.dragging {
		return 0, false
	}
	return fraction(mouseX, s.x, s.w), true
}

// indicator is the underline under the active mode button. It slides to the
// target on a spring instead of jumping.
type indicator struct {
	spring harmonica.Spring
	x, vel float64
	placed bool
}

func (in *indicator) update(target float64) {
	if !in.placed {
		in.x, in.placed = target, true
		return
	}
	in.x, in.vel = in.spring.Update(in.x, in.vel, target)
}

// layout places the HUD widgets for a window of w x h.
func (g *Game) layout(w, h int) {
	g.width, g.height = w, h

	x := config.ButtonX
	g.openButton = button{label: "Open", x: x, y: config.ButtonY, w: config.ButtonWidth, h: config.ButtonHeight}
	x += config.ButtonWidth + config.ButtonGap
	g.micButton = button{label: "Mic", x: x, y: config.ButtonY, w: config.ButtonWidth, h: config.ButtonHeight}
	x += config.ButtonWidth + config.ButtonGap*3

	modes := render.Modes()
	if len(g.modeButtons) != len(modes) {
		g.modeButtons = make([]button, len(modes))
	}
	modeWidth := config.ButtonWidth * 3 / 4
	for i, m := range modes {
		g.modeButtons[i] = button{
			label: fmt.Sprintf("%d %s", i+1, m),
			x:     x,
			y:     config.ButtonY,
			w:     modeWidth,
			h:     config.ButtonHeight,
		}
		x += modeWidth + config.ButtonGap
	}
	x += config.ButtonGap * 2
	g.themeButton = button{x: x, y: config.ButtonY, w: config.ButtonWidth, h: config.ButtonHeight}

	barY := h - config.SeekBarMargin - config.SeekBarHeight
	volX := w - config.SeekBarMargin - config.VolumeBarWidth
	g.seek = seekBar{
		x: config.SeekBarMargin,
		y: barY,
		w: max(0, volX-config.SeekBarMargin*2),
		h: config.SeekBarHeight,
	}
	g.volume = seekBar{
		x: volX,
		y: barY + (config.SeekBarHeight-config.VolumeBarHeight)/2,
		w: config.VolumeBarWidth,
		h: config.VolumeBarHeight,
	}
}

func (g *Game) updateHUD(mouseX, mouseY int) {
	justPressed := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	justReleased := inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	g.handlePointer(mouseX, mouseY, justPressed, justReleased)
}

// handlePointer applies one frame of mouse input to the HUD.
func (g *Game) handlePointer(mouseX, mouseY int, justPressed, justReleased bool) {
	if g.openButton.update(mouseX, mouseY, justPressed, justReleased) {
		g.openDialog()
	}
	if g.micButton.update(mouseX, mouseY, justPressed, justReleased) {
		g.ToggleMic()
	}
	for i := range g.modeButtons {
		if g.modeButtons[i].update(mouseX, mouseY, justPressed, justReleased) {
			g.selectMode(render.Modes()[i])
		}
	}
	if g.themeButton.update(mouseX, mouseY, justPressed, justReleased) {
		g.cycleTheme()
	}

	player := g.engine.Player()
	if f, ok := g.seek.update(mouseX, mouseY, justPressed, justReleased); ok && player.Loaded() {
		// skip micro-seeks while dragging
		dur := player.Duration()
		if dur > 0 && (justPressed || math.Abs(f-float64(player.Position())/float64(dur)) > 0.01) {
			g.seekTo(f)
		}
	}
	if f, ok := g.volume.update(mouseX, mouseY, justPressed, justReleased); ok {
		player.SetVolume(f)
	}

	active := g.modeButtons[int(g.renderer.Mode())%len(g.modeButtons)]
	g.indicator.update(float64(active.x))
}

func (g *Game) drawHUD(scr *ebiten.Image) {
	ui := g.renderer.Theme().UI()
	fill := withAlpha(ui.Accent1, 200)

	g.openButton.draw(scr, fill, ui.Accent2)
	micFill := fill
	if g.engine.Live() {
		micFill = withAlpha(ui.Accent2, 220)
	}
	g.micButton.draw(scr, micFill, ui.Accent2)
	for i := range g.modeButtons {
		g.modeButtons[i].draw(scr, withAlpha(ui.BgStart, 200), ui.Accent1)
	}
	g.themeButton.label = g.renderer.Theme().Label()
	g.themeButton.draw(scr, withAlpha(ui.BgStart, 200), ui.Accent2)

	if len(g.modeButtons) > 0 {
		b := g.modeButtons[0]
		vector.DrawFilledRect(scr, float32(g.indicator.x), float32(b.y+b.h+3), float32(b.w), 3, ui.Accent2, true)
	}

	g.drawTrack(scr)
	g.drawSeekBar(scr, ui)
	g.drawVolumeBar(scr, ui)
	ebitenutil.DebugPrintAt(scr, g.status(), config.SeekBarMargin, g.seek.y-24)
}

// drawTrack shows the title, artist and artwork in the top-right corner.
func (g *Game) drawTrack(scr *ebiten.Image) {
	player := g.engine.Player()
	if !player.Loaded() {
		return
	}
	info := player.Track()
	right := g.width - config.SeekBarMargin
	y := config.ButtonY + config.ButtonHeight + 16

	if info.Artwork != nil {
		if g.artworkSrc != info.Artwork {
			g.artwork = ebiten.NewImageFromImage(info.Artwork)
			g.artworkSrc = info.Artwork
		}
		b := g.artwork.Bounds()
		scale := float64(config.ArtworkSize) / float64(max(b.Dx(), b.Dy()))
		op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(float64(right-config.ArtworkSize), float64(y))
		scr.DrawImage(g.artwork, op)
		right -= config.ArtworkSize + 8
	}

	for i, line := range []string{info.Title, info.Artist} {
		if line == "" {
			continue
		}
		ebitenutil.DebugPrintAt(scr, line, right-len(line)*charWidth, y+i*16)
	}
}

func (g *Game) drawSeekBar(scr *ebiten.Image, ui theme.UIColors) {
	player := g.engine.Player()
	s := g.seek
	if !player.Loaded() || s.w <= 0 {
		return
	}
	dur := player.Duration()
	pos := player.Position()
	progress := 0.0
	if dur > 0 {
		progress = clamp01(float64(pos) / float64(dur))
	}

	vector.DrawFilledRect(scr, float32(s.x), float32(s.y), float32(s.w), float32(s.h), panelBg, true)
	if progress > 0 {
		vector.DrawFilledRect(scr, float32(s.x), float32(s.y), float32(progress*float64(s.w)), float32(s.h), ui.Accent1, true)
	}
	vector.StrokeRect(scr, float32(s.x), float32(s.y), float32(s.w), float32(s.h), 1, ui.Accent2, true)

	knobX := float32(float64(s.x) + progress*float64(s.w))
	vector.DrawFilledCircle(scr, knobX, float32(s.y+s.h/2), float32(s.h)*0.8, white, true)

	ebitenutil.DebugPrintAt(scr, formatDuration(pos), s.x, s.y+s.h+2)
	total := formatDuration(dur)
	ebitenutil.DebugPrintAt(scr, total, s.x+s.w-len(total)*charWidth, s.y+s.h+2)

	if s.hovered || s.dragging {
		mouseX, mouseY := ebiten.CursorPosition()
		tip := formatDuration(time.Duration(fraction(mouseX, s.x, s.w) * float64(dur)))
		tipW := len(tip)*charWidth + 10
		tipX := min(max(0, mouseX-tipW/2), g.width-tipW)
		tipY := mouseY - 25
		vector.DrawFilledRect(scr, float32(tipX), float32(tipY), float32(tipW), 20, panelBg, true)
		vector.StrokeRect(scr, float32(tipX), float32(tipY), float32(tipW), 20, 1, ui.Accent2, true)
		ebitenutil.DebugPrintAt(scr, tip, tipX+5, tipY+2)
	}
}

func (g *Game) drawVolumeBar(scr *ebiten.Image, ui theme.UIColors) {
	v := g.volume
	level := g.engine.Player().Volume()
	vector.DrawFilledRect(scr, float32(v.x), float32(v.y), float32(v.w), float32(v.h), panelBg, true)
	vector.DrawFilledRect(scr, float32(v.x), float32(v.y), float32(level*float64(v.w)), float32(v.h), ui.Accent2, true)
	vector.StrokeRect(scr, float32(v.x), float32(v.y), float32(v.w), float32(v.h), 1, ui.Accent1, true)
	label := fmt.Sprintf("vol %3.0f%%", level*100)
	ebitenutil.DebugPrintAt(scr, label, v.x, v.y+v.h+2)
}

// status is the line above the seek bar.
func (g *Game) status() string {
	player := g.engine.Player()
	var s string
	switch {
	case g.engine.Live():
		s = "Live microphone - M to stop"
	case !player.Loaded():
		s = "O or Open to pick a file, drop one on the window, M for microphone"
	case player.Finished():
		s = "Finished - drag the bar or press O for another file"
	case player.Paused():
		s = "Paused - Space to play"
	default:
		s = "Playing - Space to pause, arrows to skip and change volume, T for theme"
	}
	if g.dialogOpen {
		s += " | choosing a file..."
	}
	if g.lastErr != nil {
		s += " | Error: " + g.lastErr.Error()
	}
	return s
}

func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}
