package render

import (
	"fmt"
	"strings"
)

// Mode selects which draw routine runs on a tick.
type Mode uint8

const (
	ModeBars Mode = iota
	ModeCircle
	ModeWave
	ModeParticles
	ModeMirror
	ModeBurst
)

var modeNames = [...]string{
	ModeBars:      "bars",
	ModeCircle:    "circle",
	ModeWave:      "wave",
	ModeParticles: "particles",
	ModeMirror:    "mirror",
	ModeBurst:     "burst",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", m)
}

// Modes lists every mode in display order.
func Modes() []Mode {
	return []Mode{ModeBars, ModeCircle, ModeWave, ModeParticles, ModeMirror, ModeBurst}
}

// ParseMode resolves a mode by name, case-insensitively.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return ModeBars, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}
