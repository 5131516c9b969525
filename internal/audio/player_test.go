package audio

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/faiface/beep"

	"github.com/iburimskiy/pulseviz/internal/audio/audiotest"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestPlayer(t *testing.T) (*Player, *audiotest.Output, *Ring, *clock) {
	t.Helper()
	out := &audiotest.Output{}
	ring := NewRing(4096)
	p := NewPlayer(out, ring)
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	p.now = c.now
	return p, out, ring, c
}

func peak(samples []float64) float64 {
	m := 0.0
	for _, s := range samples {
		m = math.Max(m, math.Abs(s))
	}
	return m
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	p, _, _, _ := newTestPlayer(t)
	err := p.LoadReader("song.aiff", io.NopCloser(bytes.NewReader([]byte("FORM"))))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("LoadReader(.aiff) error = %v, want ErrUnsupportedFormat", err)
	}
	if p.Loaded() {
		t.Fatalf("player loaded a track after a failed decode")
	}
}

func TestLoadMissingFile(t *testing.T) {
	p, _, _, _ := newTestPlayer(t)
	if err := p.Load(filepath.Join(t.TempDir(), "nope.wav")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load(missing) error = %v", err)
	}
}

func TestSupported(t *testing.T) {
	for name, want := range map[string]bool{
		"a.wav": true, "b.MP3": true, "c.flac": true, "d.ogg": true,
		"e.aiff": false, "noext": false,
	} {
		if got := Supported(name); got != want {
			t.Fatalf("Supported(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestControlsWithoutTrack(t *testing.T) {
	p, _, _, _ := newTestPlayer(t)
	if err := p.TogglePause(); !errors.Is(err, ErrNoTrack) {
		t.Fatalf("TogglePause() = %v", err)
	}
	if _, err := p.Seek(0.5); !errors.Is(err, ErrNoTrack) {
		t.Fatalf("Seek() = %v", err)
	}
	if err := p.Skip(time.Second); !errors.Is(err, ErrNoTrack) {
		t.Fatalf("Skip() = %v", err)
	}
	if p.Position() != 0 || p.Duration() != 0 {
		t.Fatalf("empty player reports %v/%v", p.Position(), p.Duration())
	}
}

func TestPlaybackFeedsRing(t *testing.T) {
	p, out, ring, _ := newTestPlayer(t)
	if err := p.Load(audiotest.WriteWAV(t, 8000)); err != nil {
		t.Fatal(err)
	}
	if len(out.InitCalls) != 1 || out.InitCalls[0] != 8000 {
		t.Fatalf("output initialised with %v", out.InitCalls)
	}
	if p.Duration() != time.Second {
		t.Fatalf("Duration() = %v, want 1s", p.Duration())
	}
	if p.Track().Title != "tone" {
		t.Fatalf("title = %q, want file name fallback", p.Track().Title)
	}

	out.Pull(512)
	dst := make([]float64, 512)
	if n := ring.Latest(dst); n != 512 {
		t.Fatalf("ring holds %d samples, want 512", n)
	}
	if peak(dst) < 0.4 {
		t.Fatalf("ring peak = %v, want the tone", peak(dst))
	}
	if p.Position() != 64*time.Millisecond {
		t.Fatalf("Position() = %v, want 64ms", p.Position())
	}
}

func TestPauseFeedsSilence(t *testing.T) {
	p, out, ring, _ := newTestPlayer(t)
	if err := p.Load(audiotest.WriteWAV(t, 8000)); err != nil {
		t.Fatal(err)
	}
	out.Pull(256)
	if err := p.TogglePause(); err != nil {
		t.Fatal(err)
	}
	if !p.Paused() {
		t.Fatalf("not paused after TogglePause")
	}
	pos := p.Position()
	out.Pull(256)

	dst := make([]float64, 256)
	ring.Latest(dst)
	if peak(dst) != 0 {
		t.Fatalf("paused track wrote %v into the ring", peak(dst))
	}
	if p.Position() != pos {
		t.Fatalf("paused position moved %v -> %v", pos, p.Position())
	}
}

func TestSeekCooldown(t *testing.T) {
	p, _, _, c := newTestPlayer(t)
	if err := p.Load(audiotest.WriteWAV(t, 8000)); err != nil {
		t.Fatal(err)
	}
	if ok, err := p.Seek(0.5); !ok || err != nil {
		t.Fatalf("first Seek = %v, %v", ok, err)
	}
	c.advance(10 * time.Millisecond)
	if ok, _ := p.Seek(0.9); ok {
		t.Fatalf("seek inside the cooldown was accepted")
	}
	if p.Position() != 500*time.Millisecond {
		t.Fatalf("Position() = %v, want 500ms", p.Position())
	}
	c.advance(SeekCooldown)
	if ok, _ := p.Seek(0.6); !ok {
		t.Fatalf("seek after the cooldown was dropped")
	}
	if p.Position() != 600*time.Millisecond {
		t.Fatalf("Position() = %v, want 600ms", p.Position())
	}
}

func TestSkipClamps(t *testing.T) {
	p, _, _, _ := newTestPlayer(t)
	if err := p.Load(audiotest.WriteWAV(t, 8000)); err != nil {
		t.Fatal(err)
	}
	if err := p.Skip(-SkipStep); err != nil {
		t.Fatal(err)
	}
	if p.Position() != 0 {
		t.Fatalf("Position() = %v after skipping back past the start", p.Position())
	}
	if err := p.Skip(SkipStep); err != nil {
		t.Fatal(err)
	}
	if want := p.Duration() - time.Second/8000; p.Position() != want {
		t.Fatalf("Position() = %v, want %v", p.Position(), want)
	}
}

func TestEndOfTrackThenSeek(t *testing.T) {
	p, out, ring, c := newTestPlayer(t)
	if err := p.Load(audiotest.WriteWAV(t, 8000)); err != nil {
		t.Fatal(err)
	}
	out.Pull(8000)
	out.Pull(64)
	if !p.Finished() {
		t.Fatalf("track not finished after streaming past its end")
	}
	if p.Position() != p.Duration() {
		t.Fatalf("Position() = %v at the end, want %v", p.Position(), p.Duration())
	}
	if got := out.Pull(64); peak([]float64{got[0][0], got[63][0]}) != 0 {
		t.Fatalf("finished track is not silent")
	}
	dst := make([]float64, 64)
	ring.Latest(dst)
	if peak(dst) != 0 {
		t.Fatalf("finished track wrote %v into the ring", peak(dst))
	}

	c.advance(time.Second)
	if ok, err := p.Seek(0); !ok || err != nil {
		t.Fatalf("Seek(0) = %v, %v", ok, err)
	}
	if p.Finished() {
		t.Fatalf("still finished after seeking back")
	}
	out.Pull(512)
	ring.Latest(dst)
	if peak(dst) < 0.1 {
		t.Fatalf("no audio after seeking back from the end")
	}
}

func TestVolumeSitsAfterTap(t *testing.T) {
	p, out, ring, _ := newTestPlayer(t)
	if err := p.Load(audiotest.WriteWAV(t, 8000)); err != nil {
		t.Fatal(err)
	}
	p.SetVolume(0.5)
	got := out.Pull(256)
	dst := make([]float64, 256)
	ring.Latest(dst)
	for i := range got {
		if math.Abs(got[i][0]-dst[i]*0.5) > 1e-9 {
			t.Fatalf("frame %d: output %v, ring %v at half volume", i, got[i][0], dst[i])
		}
	}

	p.SetVolume(-3)
	if p.Volume() != 0 {
		t.Fatalf("Volume() = %v, want clamped to 0", p.Volume())
	}
	got = out.Pull(256)
	ring.Latest(dst)
	if got[100][0] != 0 || peak(dst) == 0 {
		t.Fatalf("muted output should still feed the ring")
	}
}

func TestSampleRateChangeReinitialises(t *testing.T) {
	p, out, _, _ := newTestPlayer(t)
	for _, sr := range []beep.SampleRate{8000, 8000, 11025} {
		if err := p.Load(audiotest.WriteWAV(t, sr)); err != nil {
			t.Fatal(err)
		}
		if out.Playing() != 1 {
			t.Fatalf("%d streamers attached, want 1", out.Playing())
		}
	}
	if len(out.InitCalls) != 2 || out.InitCalls[1] != 11025 {
		t.Fatalf("Init calls = %v, want [8000 11025]", out.InitCalls)
	}
}

func TestInitFailureReleasesTrack(t *testing.T) {
	p, out, _, _ := newTestPlayer(t)
	if err := p.Load(audiotest.WriteWAV(t, 8000)); err != nil {
		t.Fatal(err)
	}
	out.InitErr = audiotest.ErrNoDevice
	if err := p.Load(audiotest.WriteWAV(t, 11025)); !errors.Is(err, audiotest.ErrNoDevice) {
		t.Fatalf("Load at a new rate = %v, want the init error", err)
	}
	if p.Loaded() || out.Playing() != 0 {
		t.Fatalf("after init failure loaded=%v playing=%d", p.Loaded(), out.Playing())
	}
	if err := p.TogglePause(); !errors.Is(err, ErrNoTrack) {
		t.Fatalf("TogglePause = %v, want ErrNoTrack", err)
	}

	// the next load initialises again even at the old rate
	out.InitErr = nil
	if err := p.Load(audiotest.WriteWAV(t, 8000)); err != nil {
		t.Fatal(err)
	}
	if len(out.InitCalls) != 2 || !p.Loaded() {
		t.Fatalf("Init calls = %v loaded=%v", out.InitCalls, p.Loaded())
	}
}

func TestStopReleases(t *testing.T) {
	p, out, _, _ := newTestPlayer(t)
	if err := p.Load(audiotest.WriteWAV(t, 8000)); err != nil {
		t.Fatal(err)
	}
	p.Stop()
	if p.Loaded() || out.Playing() != 0 {
		t.Fatalf("Stop left loaded=%v playing=%d", p.Loaded(), out.Playing())
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close after Stop: %v", err)
	}
}
