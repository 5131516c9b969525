package audio

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

const (
	// SeekCooldown is the minimum gap between two accepted seeks, so a drag
	// across the seek bar does not flood the decoder.
	SeekCooldown = 50 * time.Millisecond
	// SkipStep is the arrow-key jump.
	SkipStep = 10 * time.Second
)

// Extensions lists the file types Load can decode.
var Extensions = []string{".wav", ".mp3", ".flac", ".ogg"}

// Output is where a Player sends its stream. Speaker is the real device.
// Play and Clear take the lock themselves and must not be called with it held.
type Output interface {
	Init(sr beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

type speakerOutput struct{}

func (speakerOutput) Init(sr beep.SampleRate, n int) error { return speaker.Init(sr, n) }
func (speakerOutput) Play(s beep.Streamer)                 { speaker.Play(s) }
func (speakerOutput) Clear()                               { speaker.Clear() }
func (speakerOutput) Lock()                                { speaker.Lock() }
func (speakerOutput) Unlock()                              { speaker.Unlock() }

// Speaker plays through the default audio device.
var Speaker Output = speakerOutput{}

// track plays its decoder once and then emits silence forever, so the tap
// keeps feeding zeros after the end and the visuals decay.
type track struct {
	s    beep.StreamSeekCloser
	done bool
}

func (t *track) Stream(samples [][2]float64) (int, bool) {
	n := 0
	if !t.done {
		var ok bool
		n, ok = t.s.Stream(samples)
		if !ok {
			t.done, n = true, 0
		}
	}
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

func (t *track) Err() error { return t.s.Err() }

// Player decodes one file at a time and plays it through
// decoder -> Ctrl -> Tap -> Volume -> Output. Its methods are meant to be
// called from a single goroutine; state shared with the output is touched
// under the output lock.
type Player struct {
	out  Output
	ring *Ring
	now  func() time.Time

	file   io.Closer
	track  *track
	format beep.Format
	ctrl   *beep.Ctrl
	volume *effects.Volume
	info   TrackInfo

	rate     beep.SampleRate
	level    float64
	lastSeek time.Time
}

func NewPlayer(out Output, ring *Ring) *Player {
	if out == nil {
		out = Speaker
	}
	return &Player{out: out, ring: ring, now: time.Now, level: 1}
}

// Load opens and plays path, replacing the current track.
func (p *Player) Load(path string) error {
	if !Supported(path) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	return p.LoadReader(path, f)
}

// LoadReader plays r, choosing the decoder from name's extension. r is closed
// when the track is replaced or the player is closed, or right away on error.
func (p *Player) LoadReader(name string, r io.ReadCloser) error {
	info := TrackInfo{Name: filepath.Base(name)}
	if rs, ok := r.(io.ReadSeeker); ok && strings.EqualFold(filepath.Ext(name), ".mp3") {
		info = ReadTrackInfo(name, rs)
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			_ = r.Close()
			return fmt.Errorf("rewind %s: %w", name, err)
		}
	}
	if info.Title == "" {
		info.Title = strings.TrimSuffix(info.Name, filepath.Ext(info.Name))
	}

	s, format, err := decode(name, r)
	if err != nil {
		_ = r.Close()
		return err
	}

	bufferSize := format.SampleRate.N(time.Second / 20)
	if p.rate != format.SampleRate {
		p.out.Clear()
		if err := p.out.Init(format.SampleRate, bufferSize); err != nil {
			// the old track was detached by Clear, so it is gone either way
			p.release()
			p.rate = 0
			_ = s.Close()
			_ = r.Close()
			return fmt.Errorf("init output at %d Hz: %w", format.SampleRate, err)
		}
		p.rate = format.SampleRate
	} else {
		p.out.Clear()
	}
	p.release()

	p.file = r
	p.track = &track{s: s}
	p.format = format
	p.info = info
	p.ctrl = &beep.Ctrl{Streamer: p.track}
	p.volume = &effects.Volume{Streamer: NewTap(p.ctrl, p.ring), Base: 2}
	p.applyVolume()
	p.lastSeek = time.Time{}
	p.out.Play(p.volume)
	return nil
}

func decode(name string, r io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	var (
		s      beep.StreamSeekCloser
		format beep.Format
		err    error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".wav":
		s, format, err = wav.Decode(r)
	case ".mp3":
		s, format, err = mp3.Decode(r)
	case ".flac":
		s, format, err = flac.Decode(r)
	case ".ogg":
		s, format, err = vorbis.Decode(r)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", filepath.Base(name), err)
	}
	return s, format, nil
}

// Supported reports whether Load would pick a decoder for name.
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func (p *Player) Loaded() bool { return p.track != nil }

func (p *Player) Track() TrackInfo { return p.info }

func (p *Player) Paused() bool {
	if p.ctrl == nil {
		return false
	}
	p.out.Lock()
	defer p.out.Unlock()
	return p.ctrl.Paused
}

// Finished reports whether the decoder has run out.
func (p *Player) Finished() bool {
	if p.track == nil {
		return false
	}
	p.out.Lock()
	defer p.out.Unlock()
	return p.track.done
}

func (p *Player) TogglePause() error {
	if p.ctrl == nil {
		return ErrNoTrack
	}
	p.out.Lock()
	p.ctrl.Paused = !p.ctrl.Paused
	p.out.Unlock()
	return nil
}

// Seek jumps to fraction of the track length. Calls within SeekCooldown of
// the last accepted seek are dropped and report false.
func (p *Player) Seek(fraction float64) (bool, error) {
	if p.track == nil {
		return false, ErrNoTrack
	}
	now := p.now()
	if !p.lastSeek.IsZero() && now.Sub(p.lastSeek) < SeekCooldown {
		return false, nil
	}
	if math.IsNaN(fraction) || fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	if err := p.seekTo(int(fraction * float64(p.track.s.Len()))); err != nil {
		return false, err
	}
	p.lastSeek = now
	return true, nil
}

// Skip moves the position by d, clamped to the track.
func (p *Player) Skip(d time.Duration) error {
	if p.track == nil {
		return ErrNoTrack
	}
	p.out.Lock()
	pos := p.track.s.Position()
	p.out.Unlock()
	return p.seekTo(pos + p.format.SampleRate.N(d))
}

func (p *Player) seekTo(pos int) error {
	p.out.Lock()
	defer p.out.Unlock()
	length := p.track.s.Len()
	if pos >= length {
		pos = length - 1
	}
	if pos < 0 {
		pos = 0
	}
	if err := p.track.s.Seek(pos); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	p.track.done = false
	return nil
}

// Volume is the linear level in [0,1].
func (p *Player) Volume() float64 { return p.level }

func (p *Player) SetVolume(level float64) {
	if math.IsNaN(level) || level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	p.level = level
	if p.volume != nil {
		p.out.Lock()
		p.applyVolume()
		p.out.Unlock()
	}
}

// applyVolume maps the linear level onto beep's log2 volume.
func (p *Player) applyVolume() {
	p.volume.Silent = p.level == 0
	if p.level > 0 {
		p.volume.Volume = math.Log2(p.level)
	}
}

func (p *Player) Position() time.Duration {
	if p.track == nil {
		return 0
	}
	p.out.Lock()
	defer p.out.Unlock()
	if p.track.done {
		return p.format.SampleRate.D(p.track.s.Len())
	}
	return p.format.SampleRate.D(p.track.s.Position())
}

func (p *Player) Duration() time.Duration {
	if p.track == nil {
		return 0
	}
	return p.format.SampleRate.D(p.track.s.Len())
}

// Stop silences the output and releases the current track.
func (p *Player) Stop() {
	if p.track == nil {
		return
	}
	p.out.Clear()
	p.release()
}

func (p *Player) Close() error {
	p.Stop()
	return nil
}

func (p *Player) release() {
	if p.track != nil {
		_ = p.track.s.Close()
	}
	if p.file != nil {
		_ = p.file.Close()
	}
	p.file, p.track, p.ctrl, p.volume = nil, nil, nil, nil
	p.info = TrackInfo{}
}
