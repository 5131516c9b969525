package render_test

import (
	"errors"
	"image/color"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/iburimskiy/pulseviz/internal/render"
	"github.com/iburimskiy/pulseviz/internal/render/rendertest"
	"github.com/iburimskiy/pulseviz/internal/theme"
)

func newRenderer(mode render.Mode) *render.Renderer {
	return render.NewRenderer(mode, theme.Default(), rand.New(rand.NewPCG(7, 11)))
}

func requireValid(t *testing.T, rec *rendertest.Recorder) {
	t.Helper()
	if c, bad := rec.Invalid(); bad {
		t.Fatalf("invalid %s command: %+v", c.Op, c)
	}
}

func TestBarsSilence(t *testing.T) {
	rec := rendertest.NewRecorder(800, 400)
	src := &rendertest.Source{Freq: make([]byte, 256)}
	newRenderer(render.ModeBars).Frame(rec, src)

	if len(rec.Commands) == 0 || rec.Commands[0].Op != rendertest.OpClear {
		t.Fatalf("first command is not the background clear")
	}
	if rec.Commands[0].Color != render.Background {
		t.Fatalf("background = %v, want %v", rec.Commands[0].Color, render.Background)
	}
	rects := rec.Filter(rendertest.OpFillRect)
	if len(rects) != 153-5 {
		t.Fatalf("drew %d bars, want %d", len(rects), 153-5)
	}
	for i, r := range rects {
		if r.H != 0 {
			t.Fatalf("bar %d height = %v, want 0", i, r.H)
		}
	}
	requireValid(t, rec)
}

func TestBarsSingleSpike(t *testing.T) {
	freq := make([]byte, 256)
	freq[10] = 255
	rec := rendertest.NewRecorder(800, 400)
	newRenderer(render.ModeBars).Frame(rec, &rendertest.Source{Freq: freq})

	tall := 0
	for i, r := range rec.Filter(rendertest.OpFillRect) {
		switch {
		case math.Abs(r.H-255) < 1e-9:
			tall++
			if i != 10-5 {
				t.Fatalf("tall bar at index %d, want %d", i, 10-5)
			}
		case r.H != 0:
			t.Fatalf("bar %d height = %v, want 0", i, r.H)
		}
	}
	if tall != 1 {
		t.Fatalf("%d bars reached full height, want 1", tall)
	}
}

func TestMirrorIsSymmetric(t *testing.T) {
	freq := make([]byte, 256)
	for i := range freq {
		freq[i] = byte(i)
	}
	rec := rendertest.NewRecorder(640, 480)
	newRenderer(render.ModeMirror).Frame(rec, &rendertest.Source{Freq: freq})

	rects := rec.Filter(rendertest.OpFillRect)
	if len(rects)%2 != 0 || len(rects) == 0 {
		t.Fatalf("got %d rects, want pairs", len(rects))
	}
	for i := 0; i < len(rects); i += 2 {
		top, bottom := rects[i], rects[i+1]
		if math.Abs(top.Y+top.H-240) > 1e-9 || bottom.Y != 240 || top.H != bottom.H {
			t.Fatalf("pair %d not mirrored around centre: %+v %+v", i/2, top, bottom)
		}
	}
	requireValid(t, rec)
}

func TestMissingDataDrawsNothing(t *testing.T) {
	for _, m := range render.Modes() {
		t.Run(m.String(), func(t *testing.T) {
			rec := rendertest.NewRecorder(320, 240)
			r := newRenderer(m)

			r.Frame(rec, nil)
			r.Frame(rec, &rendertest.Source{})
			r.Frame(rec, &rendertest.Source{Freq: make([]byte, 256), Time: make([]byte, 256), Inactive: true})
			if len(rec.Commands) != 0 {
				t.Fatalf("recorded %d commands without data", len(rec.Commands))
			}
		})
	}
}

func TestZeroSizeSurface(t *testing.T) {
	for _, m := range render.Modes() {
		rec := rendertest.NewRecorder(0, 0)
		src := &rendertest.Source{Freq: rendertest.Constant(256, 200), Time: rendertest.Constant(256, 128)}
		newRenderer(m).Frame(rec, src)
		if len(rec.Commands) != 0 {
			t.Fatalf("%s: drew on an empty surface", m)
		}
	}
}

func TestEveryModeDrawsValidGeometry(t *testing.T) {
	freq := make([]byte, 256)
	td := make([]byte, 256)
	for i := range freq {
		freq[i] = byte(255 - i)
		td[i] = byte(128 + 100*math.Sin(float64(i)/8))
	}
	for _, m := range render.Modes() {
		t.Run(m.String(), func(t *testing.T) {
			rec := rendertest.NewRecorder(900, 500)
			r := newRenderer(m)
			for i := 0; i < 30; i++ {
				r.Frame(rec, &rendertest.Source{Freq: freq, Time: td})
			}
			if rec.Count(rendertest.OpClear) != 30 {
				t.Fatalf("cleared %d times, want 30", rec.Count(rendertest.OpClear))
			}
			requireValid(t, rec)
			if r.Fault() != nil {
				t.Fatalf("fault: %v", r.Fault())
			}
		})
	}
}

func TestWavePullsTimeDomainOnlyInWaveMode(t *testing.T) {
	src := &rendertest.Source{Freq: make([]byte, 256), Time: rendertest.Constant(256, 128)}
	rec := rendertest.NewRecorder(320, 240)

	newRenderer(render.ModeBars).Frame(rec, src)
	if src.TimeCalls != 0 || src.FreqCalls != 1 {
		t.Fatalf("bars: freq=%d time=%d calls", src.FreqCalls, src.TimeCalls)
	}
	newRenderer(render.ModeWave).Frame(rec, src)
	if src.TimeCalls != 1 || src.FreqCalls != 2 {
		t.Fatalf("wave: freq=%d time=%d calls", src.FreqCalls, src.TimeCalls)
	}
}

func TestWaveSilenceDecays(t *testing.T) {
	r := newRenderer(render.ModeWave)
	st := r.State()
	st.WaveEnergy = 0.8
	src := &rendertest.Source{Freq: make([]byte, 256), Time: rendertest.Constant(256, 128)}
	rec := rendertest.NewRecorder(600, 300)

	prev := st.WaveEnergy
	for i := 0; i < 100; i++ {
		rec.Reset()
		r.Frame(rec, src)
		if st.WaveEnergy >= prev {
			t.Fatalf("frame %d: energy %v did not fall below %v", i, st.WaveEnergy, prev)
		}
		prev = st.WaveEnergy
	}
	if prev > 0.01 {
		t.Fatalf("energy after 100 silent frames = %v", prev)
	}

	strokes := rec.Filter(rendertest.OpStroke)
	if len(strokes) != 2 {
		t.Fatalf("wave drew %d strokes, want 2", len(strokes))
	}
	for _, s := range strokes {
		for _, seg := range s.Path.Segments() {
			if seg.Y != 150 {
				t.Fatalf("silent curve point off the centre line: %+v", seg)
			}
		}
	}
}

func TestCircleEnvelopes(t *testing.T) {
	r := newRenderer(render.ModeCircle)
	st := r.State()
	rec := rendertest.NewRecorder(600, 400)
	loud := &rendertest.Source{Freq: rendertest.Constant(256, 255)}
	quiet := &rendertest.Source{Freq: make([]byte, 256)}

	for i := 0; i < 10; i++ {
		r.Frame(rec, loud)
	}
	for b, v := range st.BandEnv {
		if v < 0.99 || v > 1 {
			t.Fatalf("band %d envelope = %v after loud input", b, v)
		}
	}

	r.Frame(rec, quiet)
	if st.BandEnv[0] <= st.BandEnv[len(st.BandEnv)-1] {
		t.Fatalf("bass %v fell at least as fast as treble %v", st.BandEnv[0], st.BandEnv[len(st.BandEnv)-1])
	}

	limit := 400*0.5 - 20
	for _, c := range rec.Commands {
		if c.Path == nil {
			continue
		}
		for _, s := range c.Path.Segments() {
			if s.Verb == render.VerbArc && s.Radius > limit+1e-9 {
				t.Fatalf("ring radius %v exceeds limit %v", s.Radius, limit)
			}
		}
	}
	requireValid(t, rec)
}

func TestCircleIdlePulse(t *testing.T) {
	r := newRenderer(render.ModeCircle)
	st := r.State()
	rec := rendertest.NewRecorder(400, 400)
	quiet := &rendertest.Source{Freq: make([]byte, 256)}

	pulsed := false
	for i := 0; i < 2000 && !pulsed; i++ {
		r.Frame(rec, quiet)
		pulsed = st.IdleBeat > 0.5
		if st.IdleBeat < 0 || st.IdleBeat > 1 {
			t.Fatalf("idle beat %v out of range", st.IdleBeat)
		}
	}
	if !pulsed {
		t.Fatalf("no idle pulse during 2000 silent frames")
	}
}

func TestParticlesPopulateLazily(t *testing.T) {
	r := newRenderer(render.ModeParticles)
	if n := len(r.State().Particles()); n != 0 {
		t.Fatalf("pool has %d particles before the first frame", n)
	}
	rec := rendertest.NewRecorder(800, 600)
	r.Frame(rec, &rendertest.Source{Freq: rendertest.Constant(256, 90)})

	ps := r.State().Particles()
	if len(ps) != 270 {
		t.Fatalf("pool size = %d, want 270", len(ps))
	}
	layers := [3]int{}
	for _, p := range ps {
		layers[p.Layer]++
		if p.Bin < 0 || p.Bin > 255 {
			t.Fatalf("particle bound to bin %d", p.Bin)
		}
		if (p.Layer == 1) != (p.Speed < 0) {
			t.Fatalf("layer %d speed %v has the wrong direction", p.Layer, p.Speed)
		}
	}
	if layers != [3]int{90, 90, 90} {
		t.Fatalf("layer sizes = %v", layers)
	}
	fills := rec.Filter(rendertest.OpFill)
	if len(fills) != 270 {
		t.Fatalf("drew %d particles, want 270", len(fills))
	}
	for _, f := range fills {
		if f.Style.Composite != render.CompositeLighter {
			t.Fatalf("particle drawn without additive blending")
		}
	}
}

func TestParticlePositionWrapsAtTwoPi(t *testing.T) {
	p := render.Particle{Angle: 1.234}
	x0, y0 := p.Position(400, 300, 120)
	p.Angle += 2 * math.Pi
	x1, y1 := p.Position(400, 300, 120)
	if math.Abs(x0-x1) > 1e-9 || math.Abs(y0-y1) > 1e-9 {
		t.Fatalf("positions differ: (%v,%v) vs (%v,%v)", x0, y0, x1, y1)
	}
}

func TestModeSwitchKeepsParticles(t *testing.T) {
	r := newRenderer(render.ModeParticles)
	rec := rendertest.NewRecorder(800, 600)
	src := &rendertest.Source{Freq: rendertest.Constant(256, 120)}
	r.Frame(rec, src)

	before := append([]render.Particle(nil), r.State().Particles()...)
	r.SetMode(render.ModeBars)
	r.Frame(rec, src)
	r.SetMode(render.ModeParticles)
	r.Frame(rec, src)

	after := r.State().Particles()
	if len(after) != len(before) {
		t.Fatalf("pool size changed from %d to %d", len(before), len(after))
	}
	for i := range after {
		b, a := before[i], after[i]
		if a.BaseRadius != b.BaseRadius || a.Hue != b.Hue {
			t.Fatalf("particle %d was respawned", i)
		}
		step := a.Angle - b.Angle
		if step == 0 || math.Abs(step) > math.Abs(b.Speed)*4.7+1e-12 {
			t.Fatalf("particle %d moved %v from its previous angle", i, step)
		}
	}
}

func TestThemeChangeRespawnsParticles(t *testing.T) {
	r := newRenderer(render.ModeParticles)
	rec := rendertest.NewRecorder(800, 600)
	src := &rendertest.Source{Freq: rendertest.Constant(256, 120)}
	r.Frame(rec, src)

	r.SetTheme(theme.ByName("sunset"))
	if n := len(r.State().Particles()); n != 0 {
		t.Fatalf("pool kept %d particles after theme change", n)
	}
	r.Frame(rec, src)
	base := theme.ByName("sunset").ParticleHueBase()
	for _, p := range r.State().Particles() {
		if math.Abs(p.Hue-base[p.Layer]) > 10 {
			t.Fatalf("particle hue %v not near sunset base %v", p.Hue, base[p.Layer])
		}
	}
}

func TestResizeClearsPools(t *testing.T) {
	for _, m := range []render.Mode{render.ModeParticles, render.ModeBurst} {
		t.Run(m.String(), func(t *testing.T) {
			r := newRenderer(m)
			rec := rendertest.NewRecorder(800, 600)
			src := &rendertest.Source{Freq: rendertest.Constant(256, 255)}
			r.Frame(rec, src)
			r.State().BandEnv[0] = 0.5

			st := r.State()
			if len(st.Particles())+len(st.Rays()) == 0 {
				t.Fatalf("nothing populated before resize")
			}
			r.Resize(1024, 768)
			if len(st.Particles()) != 0 || len(st.Rays()) != 0 {
				t.Fatalf("pools not cleared: %d particles, %d rays", len(st.Particles()), len(st.Rays()))
			}
			if st.BandEnv[0] != 0.5 {
				t.Fatalf("resize reset the envelope")
			}

			rec = rendertest.NewRecorder(1024, 768)
			r.Frame(rec, src)
			if len(st.Particles())+len(st.Rays()) == 0 {
				t.Fatalf("pools not rebuilt after resize")
			}
			requireValid(t, rec)
		})
	}
}

func TestSurfaceSizeChangeActsAsResize(t *testing.T) {
	r := newRenderer(render.ModeParticles)
	src := &rendertest.Source{Freq: rendertest.Constant(256, 100)}
	r.Frame(rendertest.NewRecorder(800, 600), src)
	first := r.State().Particles()[0].BaseRadius

	r.Frame(rendertest.NewRecorder(200, 150), src)
	if w, h := r.State().Size(); w != 200 || h != 150 {
		t.Fatalf("state size = %dx%d", w, h)
	}
	for _, p := range r.State().Particles() {
		if p.BaseRadius > 150*0.46 {
			t.Fatalf("particle radius %v from the old size survived (first was %v)", p.BaseRadius, first)
		}
	}
}

type rayKey struct{ x, y, angle float64 }

func TestRayLifecycle(t *testing.T) {
	r := newRenderer(render.ModeBurst)
	st := r.State()
	rec := rendertest.NewRecorder(800, 600)
	loud := &rendertest.Source{Freq: rendertest.Constant(256, 255)}
	silent := &rendertest.Source{Freq: make([]byte, 256)}

	for i := 0; i < 5; i++ {
		r.Frame(rec, loud)
	}
	if len(st.Rays()) == 0 {
		t.Fatalf("no rays spawned from a loud spectrum")
	}

	prev := map[rayKey]render.Ray{}
	for _, ray := range st.Rays() {
		prev[rayKey{ray.X, ray.Y, ray.Angle}] = ray
	}
	for frame := 0; frame < 100 && len(prev) > 0; frame++ {
		r.Frame(rec, silent)
		next := map[rayKey]render.Ray{}
		for _, ray := range st.Rays() {
			k := rayKey{ray.X, ray.Y, ray.Angle}
			old, ok := prev[k]
			if !ok {
				t.Fatalf("frame %d: ray spawned from silence", frame)
			}
			if ray.Life < old.Life || ray.Life >= 1 {
				t.Fatalf("frame %d: life went %v -> %v", frame, old.Life, ray.Life)
			}
			next[k] = ray
		}
		for k, old := range prev {
			if _, alive := next[k]; !alive && old.Life+old.LifeRate < 1 {
				t.Fatalf("frame %d: ray removed at life %v", frame, old.Life+old.LifeRate)
			}
			if _, alive := next[k]; alive && old.Life+old.LifeRate >= 1 {
				t.Fatalf("frame %d: expired ray kept", frame)
			}
		}
		prev = next
	}
	if len(prev) != 0 {
		t.Fatalf("%d rays outlived 100 frames", len(prev))
	}
}

func TestRayCapHoldsUnderSustainedInput(t *testing.T) {
	r := newRenderer(render.ModeBurst)
	st := r.State()
	rec := rendertest.NewRecorder(800, 600)
	loud := &rendertest.Source{Freq: rendertest.Constant(256, 255)}

	// Full-scale bins spawn 8 rays a frame that live 13 frames, so the list
	// fills before the first ones expire.
	peak, full, refilled := 0, false, false
	prev := 0
	for frame := 0; frame < 30; frame++ {
		r.Frame(rec, loud)
		n := len(st.Rays())
		if n > 80 {
			t.Fatalf("frame %d: %d rays, cap is 80", frame, n)
		}
		peak = max(peak, n)
		if n == 80 {
			full = true
		}
		if full && n > prev {
			refilled = true
		}
		prev = n
	}
	if peak != 80 {
		t.Fatalf("ray list peaked at %d, want 80", peak)
	}
	if !refilled {
		t.Fatalf("no rays spawned after the cap was reached and rays expired")
	}
}

func TestBurstDegenerateRange(t *testing.T) {
	rec := rendertest.NewRecorder(400, 300)
	r := newRenderer(render.ModeBurst)
	r.Frame(rec, &rendertest.Source{Freq: rendertest.Constant(6, 255)})
	if rec.Count(rendertest.OpClear) != 1 || len(rec.Commands) != 1 {
		t.Fatalf("degenerate range drew %d commands", len(rec.Commands))
	}
	if len(r.State().Rays()) != 0 {
		t.Fatalf("rays spawned from an empty range")
	}
}

type panicSurface struct{ *rendertest.Recorder }

func (panicSurface) FillRect(x, y, w, h float64, s render.Style) { panic("boom") }

func TestFrameFaultIsContained(t *testing.T) {
	r := newRenderer(render.ModeBars)
	src := &rendertest.Source{Freq: rendertest.Constant(256, 10)}
	r.Frame(panicSurface{rendertest.NewRecorder(100, 100)}, src)
	if !errors.Is(r.Fault(), render.ErrFrameFault) {
		t.Fatalf("Fault() = %v, want ErrFrameFault", r.Fault())
	}

	rec := rendertest.NewRecorder(100, 100)
	r.Frame(rec, src)
	if rec.Count(rendertest.OpFillRect) == 0 {
		t.Fatalf("next frame did not draw")
	}
}

func TestTickDefaultsTheme(t *testing.T) {
	rec := rendertest.NewRecorder(300, 200)
	freq := rendertest.Constant(64, 255)
	render.Tick(render.NewState(nil), render.Frame{Mode: render.ModeBars, Freq: freq}, rec)

	want := theme.Default().BarColor(255)
	rects := rec.Filter(rendertest.OpFillRect)
	if len(rects) == 0 || rects[0].Style.Paint.Color != want {
		t.Fatalf("bars did not use the default theme colour")
	}
}

func TestGradientSampling(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	g := &render.Gradient{Kind: render.GradientLinear, X1: 100, Stops: []render.Stop{{Offset: 0, Color: red}, {Offset: 1, Color: blue}}}

	if got := g.At(-10, 0); got != red {
		t.Fatalf("before start = %v", got)
	}
	if got := g.At(500, 40); got != blue {
		t.Fatalf("past end = %v", got)
	}
	mid := g.At(50, 0)
	if mid.R < 100 || mid.R > 155 || mid.B < 100 || mid.B > 155 {
		t.Fatalf("midpoint = %v", mid)
	}

	rg := &render.Gradient{Kind: render.GradientRadial, X1: 0, Y1: 0, R0: 10, R1: 20, Stops: g.Stops}
	if got := rg.At(3, 4); got != red {
		t.Fatalf("inside inner radius = %v", got)
	}
	if got := rg.At(0, 25); got != blue {
		t.Fatalf("outside outer radius = %v", got)
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range render.Modes() {
		got, err := render.ParseMode(" " + m.String() + " ")
		if err != nil || got != m {
			t.Fatalf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := render.ParseMode("spiral"); !errors.Is(err, render.ErrUnknownMode) {
		t.Fatalf("ParseMode(spiral) error = %v", err)
	}
}
