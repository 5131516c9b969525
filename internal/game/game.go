// Package game is the ebiten host: it drives the renderer once per frame,
// routes input to the audio engine and draws the HUD around the visual.
package game

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/pulseviz/internal/analysis"
	"github.com/iburimskiy/pulseviz/internal/audio"
	"github.com/iburimskiy/pulseviz/internal/config"
	"github.com/iburimskiy/pulseviz/internal/render"
	"github.com/iburimskiy/pulseviz/internal/screen"
	"github.com/iburimskiy/pulseviz/internal/theme"
)

type dialogResult struct {
	path string
	err  error
}

// Game implements ebiten.Game.
type Game struct {
	engine   *audio.Engine
	analyser *analysis.Analyser
	renderer *render.Renderer
	surface  *screen.Surface

	width, height int

	// file dialog runs off the game goroutine
	dialog     chan dialogResult
	dialogOpen bool
	pickFile   func() (string, error)

	// hud
	openButton  button
	micButton   button
	themeButton button
	modeButtons []button
	seek        seekBar
	volume      seekBar
	indicator   indicator
	artwork     *ebiten.Image
	artworkSrc  image.Image

	lastErr   error
	lastFault error
}

// New builds a game around engine. rng seeds the particle and ray systems.
func New(cfg config.Config, engine *audio.Engine, rng *rand.Rand) (*Game, error) {
	mode, err := render.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	a, err := analysis.New(engine, cfg.Analysis())
	if err != nil {
		return nil, err
	}
	engine.Player().SetVolume(cfg.Volume)

	g := &Game{
		engine:   engine,
		analyser: a,
		renderer: render.NewRenderer(mode, theme.ByName(cfg.Theme), rng),
		surface:  screen.New(nil),
		dialog:   make(chan dialogResult, 1),
		pickFile: selectFile,
		indicator: indicator{
			spring: harmonica.NewSpring(harmonica.FPS(ebiten.DefaultTPS), 8, 0.6),
		},
	}
	g.layout(cfg.Width, cfg.Height)
	return g, nil
}

// Open loads a file for playback, reporting failures on the status line.
func (g *Game) Open(path string) {
	if err := g.engine.Open(path); err != nil {
		g.fail("open", err)
		return
	}
	g.lastErr = nil
	log.Printf("playing %s", path)
}

// ToggleMic switches live capture on or off.
func (g *Game) ToggleMic() {
	if err := g.engine.ToggleMic(); err != nil {
		g.fail("microphone", err)
		return
	}
	g.lastErr = nil
	if g.engine.Live() {
		log.Printf("microphone on")
	} else {
		log.Printf("microphone off")
	}
}

func (g *Game) fail(what string, err error) {
	g.lastErr = fmt.Errorf("%s: %w", what, err)
	log.Printf("%v", g.lastErr)
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	for _, b := range keyBindings {
		if inpututil.IsKeyJustPressed(b.key) {
			b.do(g)
		}
	}

	mouseX, mouseY := ebiten.CursorPosition()
	g.updateHUD(mouseX, mouseY)
	g.handleDrops()
	g.pollDialog()
	return nil
}

func (g *Game) Draw(scr *ebiten.Image) {
	g.surface.SetTarget(scr)
	if !g.analyser.Active() {
		g.drawBackground()
	}
	g.renderer.Frame(g.surface, g.analyser)
	if err := g.renderer.Fault(); err != nil && err != g.lastFault {
		g.lastFault = err
		g.fail("render", err)
	}
	g.drawHUD(scr)
}

// Layout follows the window size. A change is passed on to the renderer so
// the particle and ray pools are rebuilt for the new geometry.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.layout(outsideWidth, outsideHeight)
		g.renderer.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func (g *Game) drawBackground() {
	ui := g.renderer.Theme().UI()
	h := float64(g.height)
	g.surface.FillRect(0, 0, float64(g.width), h, render.Style{
		Paint: render.Paint{Gradient: &render.Gradient{
			Kind: render.GradientLinear,
			Y1:   h,
			Stops: []render.Stop{
				{Offset: 0, Color: ui.BgStart},
				{Offset: 1, Color: ui.BgEnd},
			},
		}},
	})
}

type keyBinding struct {
	key ebiten.Key
	do  func(*Game)
}

var keyBindings = []keyBinding{
	{ebiten.KeyDigit1, func(g *Game) { g.selectMode(render.ModeBars) }},
	{ebiten.KeyDigit2, func(g *Game) { g.selectMode(render.ModeCircle) }},
	{ebiten.KeyDigit3, func(g *Game) { g.selectMode(render.ModeWave) }},
	{ebiten.KeyDigit4, func(g *Game) { g.selectMode(render.ModeParticles) }},
	{ebiten.KeyDigit5, func(g *Game) { g.selectMode(render.ModeMirror) }},
	{ebiten.KeyDigit6, func(g *Game) { g.selectMode(render.ModeBurst) }},
	{ebiten.KeyT, (*Game).cycleTheme},
	{ebiten.KeySpace, (*Game).togglePause},
	{ebiten.KeyArrowLeft, func(g *Game) { g.skip(-audio.SkipStep) }},
	{ebiten.KeyArrowRight, func(g *Game) { g.skip(audio.SkipStep) }},
	{ebiten.KeyArrowUp, func(g *Game) { g.engine.NudgeVolume(config.VolumeStep) }},
	{ebiten.KeyArrowDown, func(g *Game) { g.engine.NudgeVolume(-config.VolumeStep) }},
	{ebiten.KeyM, (*Game).ToggleMic},
	{ebiten.KeyO, (*Game).openDialog},
}

func (g *Game) selectMode(m render.Mode) { g.renderer.SetMode(m) }

func (g *Game) cycleTheme() {
	g.renderer.SetTheme(theme.Next(g.renderer.Theme().Name()))
}

func (g *Game) togglePause() {
	if err := g.engine.TogglePause(); err != nil && !errors.Is(err, audio.ErrNoTrack) {
		g.fail("pause", err)
	}
}

func (g *Game) skip(d time.Duration) {
	if err := g.engine.Skip(d); err != nil && !errors.Is(err, audio.ErrNoTrack) {
		g.fail("skip", err)
	}
}

func (g *Game) seekTo(f float64) {
	if _, err := g.engine.Seek(f); err != nil && !errors.Is(err, audio.ErrNoTrack) {
		g.fail("seek", err)
	}
}

func selectFile() (string, error) {
	patterns := make([]string, len(audio.Extensions))
	for i, ext := range audio.Extensions {
		patterns[i] = "*" + ext
	}
	return zenity.SelectFile(
		zenity.Title("Open Audio File"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: patterns,
			CaseFold: true,
		}},
	)
}

// openDialog shows the file picker without blocking the frame loop. The
// result is picked up by pollDialog.
func (g *Game) openDialog() {
	if g.dialogOpen {
		return
	}
	g.dialogOpen = true
	pick := g.pickFile
	go func() {
		path, err := pick()
		g.dialog <- dialogResult{path: path, err: err}
	}()
}

func (g *Game) pollDialog() {
	select {
	case r := <-g.dialog:
		g.dialogOpen = false
		switch {
		case errors.Is(r.err, zenity.ErrCanceled):
		case r.err != nil:
			g.fail("file dialog", r.err)
		default:
			g.Open(r.path)
		}
	default:
	}
}

// handleDrops plays the first supported file dropped onto the window.
func (g *Game) handleDrops() {
	files := ebiten.DroppedFiles()
	if files == nil {
		return
	}
	g.openDropped(files)
}

func (g *Game) openDropped(files fs.FS) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		g.fail("drop", err)
		return
	}
	var skipped []string
	for _, e := range entries {
		if e.IsDir() || !audio.Supported(e.Name()) {
			skipped = append(skipped, e.Name())
			continue
		}
		f, err := files.Open(e.Name())
		if err != nil {
			g.fail("drop", err)
			return
		}
		if err := g.engine.OpenReader(e.Name(), f); err != nil {
			g.fail("open", err)
			return
		}
		g.lastErr = nil
		log.Printf("playing dropped file %s", e.Name())
		return
	}
	if len(skipped) > 0 {
		g.fail("drop", fmt.Errorf("%w: %s", audio.ErrUnsupportedFormat, strings.Join(skipped, ", ")))
	}
}
