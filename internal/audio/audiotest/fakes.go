// Package audiotest has stand-ins for the audio device and microphone so the
// player and engine can be driven without hardware.
package audiotest

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
)

// Output is a fake speaker. Pull plays its streamers the way the device
// callback would.
type Output struct {
	mu        sync.Mutex
	streamers []beep.Streamer

	InitCalls []beep.SampleRate
	InitErr   error
}

func (o *Output) Init(sr beep.SampleRate, bufferSize int) error {
	if o.InitErr != nil {
		return o.InitErr
	}
	o.InitCalls = append(o.InitCalls, sr)
	return nil
}

func (o *Output) Play(s beep.Streamer) {
	o.mu.Lock()
	o.streamers = append(o.streamers, s)
	o.mu.Unlock()
}

func (o *Output) Clear() {
	o.mu.Lock()
	o.streamers = nil
	o.mu.Unlock()
}

func (o *Output) Lock()   { o.mu.Lock() }
func (o *Output) Unlock() { o.mu.Unlock() }

// Playing is the number of streamers attached.
func (o *Output) Playing() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.streamers)
}

// Pull streams n frames from every attached streamer and returns their sum.
func (o *Output) Pull(n int) [][2]float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([][2]float64, n)
	buf := make([][2]float64, n)
	for _, s := range o.streamers {
		got, _ := s.Stream(buf)
		for i := 0; i < got; i++ {
			out[i][0] += buf[i][0]
			out[i][1] += buf[i][1]
		}
	}
	return out
}

// ErrNoDevice is what a Capture with Fail set returns from Start.
var ErrNoDevice = errors.New("audiotest: no input device")

// Capture is a fake microphone.
type Capture struct {
	Fail    bool
	running bool
	Starts  int
	Stops   int
}

func (c *Capture) Start() error {
	if c.Fail {
		return ErrNoDevice
	}
	c.Starts++
	c.running = true
	return nil
}

func (c *Capture) Stop() error {
	if c.running {
		c.Stops++
	}
	c.running = false
	return nil
}

func (c *Capture) Running() bool { return c.running }

// Sine returns a stereo streamer of n frames of a sine at freq Hz.
func Sine(sr beep.SampleRate, freq float64, amp float64, n int) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= n {
			return 0, false
		}
		k := 0
		for k < len(samples) && pos < n {
			v := amp * math.Sin(2*math.Pi*freq*float64(pos)/float64(sr))
			samples[k] = [2]float64{v, v}
			k++
			pos++
		}
		return k, true
	})
}

// WriteWAV writes a one-second 440Hz stereo tone at sr into a temp dir and
// returns its path.
func WriteWAV(tb testing.TB, sr beep.SampleRate) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		tb.Fatal(err)
	}
	defer f.Close()
	format := beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, Sine(sr, 440, 0.5, sr.N(time.Second)), format); err != nil {
		tb.Fatal(err)
	}
	return path
}
