package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/iburimskiy/pulseviz/internal/analysis"
	"github.com/iburimskiy/pulseviz/internal/render"
	"github.com/iburimskiy/pulseviz/internal/theme"
)

const (
	WindowWidth  = 1024
	WindowHeight = 576
	WindowTitle  = "pulseviz"

	VisualRingSize = 8192

	// Analyser defaults, matching a browser AnalyserNode.
	FFTSize     = 512
	Smoothing   = 0.85
	MinDecibels = -100
	MaxDecibels = -30

	VolumeStep = 0.05

	// Button dimensions
	ButtonWidth  = 96
	ButtonHeight = 28
	ButtonX      = 16
	ButtonY      = 16
	ButtonGap    = 8

	// Seek and volume bars
	SeekBarHeight   = 10
	SeekBarMargin   = 20
	VolumeBarWidth  = 120
	VolumeBarHeight = 8
	ArtworkSize     = 64
)

var (
	ErrInvalidSize = errors.New("config: window size must be positive")
	ErrInvalidMode = errors.New("config: unknown mode")
)

// Config is the runtime configuration, filled from flags.
type Config struct {
	Width     int
	Height    int
	Mode      string
	Theme     string
	Seed      uint64
	FFTSize   int
	Smoothing float64
	File      string
	Mic       bool
	Volume    float64
}

func Default() Config {
	return Config{
		Width:     WindowWidth,
		Height:    WindowHeight,
		Mode:      render.ModeBars.String(),
		Theme:     theme.DefaultName,
		FFTSize:   FFTSize,
		Smoothing: Smoothing,
		Volume:    1,
	}
}

// RegisterFlags binds c's fields to fs. Current values become the defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "width", c.Width, "initial window width")
	fs.IntVar(&c.Height, "height", c.Height, "initial window height")
	fs.StringVar(&c.Mode, "mode", c.Mode, "visual mode: "+modeNames())
	fs.StringVar(&c.Theme, "theme", c.Theme, "colour theme: "+strings.Join(theme.Names(), ", "))
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "random seed for particles and rays (0 picks one from the clock)")
	fs.IntVar(&c.FFTSize, "fft", c.FFTSize, "analyser fft size, a power of two")
	fs.Float64Var(&c.Smoothing, "smoothing", c.Smoothing, "analyser smoothing in [0,1]")
	fs.StringVar(&c.File, "file", c.File, "audio file to play on start")
	fs.BoolVar(&c.Mic, "mic", c.Mic, "start with the microphone")
	fs.Float64Var(&c.Volume, "volume", c.Volume, "playback volume in [0,1]")
}

// Validate checks c and normalises what can be normalised: an unknown theme
// falls back to the default, out-of-range volume is clamped.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.Width, c.Height)
	}
	if _, err := render.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Mode)
	}
	if _, ok := theme.Lookup(c.Theme); !ok {
		c.Theme = theme.DefaultName
	}
	if _, err := analysis.New(nil, c.Analysis()); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.File != "" && c.Mic {
		return errors.New("config: -file and -mic are exclusive")
	}
	c.Volume = max(0, min(1, c.Volume))
	return nil
}

// Analysis returns the analyser options for c.
func (c *Config) Analysis() analysis.Options {
	opts := analysis.DefaultOptions()
	opts.FFTSize = c.FFTSize
	opts.Smoothing = c.Smoothing
	opts.MinDecibels = MinDecibels
	opts.MaxDecibels = MaxDecibels
	return opts
}

func modeNames() string {
	var names []string
	for _, m := range render.Modes() {
		names = append(names, m.String())
	}
	return strings.Join(names, ", ")
}
