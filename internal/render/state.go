package render

import "math/rand/v2"

const (
	circleBands = 5
	wavePoints  = 120
)

// State is the render state retained between frames. Envelopes and phase
// accumulators survive resizes; the particle pool and ray list do not.
type State struct {
	BandEnv    [circleBands]float64
	IdleBeat   float64
	Phase      float64
	WaveEnergy float64

	particles     []Particle
	particleTheme string
	rays          []Ray

	width, height int
	rng           *rand.Rand

	// per-frame scratch, kept to avoid allocating inside the tick
	bands   [circleBands]Band
	samples [wavePoints]float64
	tmp     [wavePoints]float64
	path    Path
}

// NewState returns an empty state drawing randomness from rng. A nil rng gets
// a fixed-seed generator so replays stay deterministic.
func NewState(rng *rand.Rand) *State {
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 2))
	}
	return &State{rng: rng}
}

// Resize records new surface dimensions and drops the particle pool and ray
// list; they are rebuilt lazily by the next frame that needs them.
func (s *State) Resize(width, height int) {
	s.width, s.height = width, height
	s.particles = s.particles[:0]
	s.rays = s.rays[:0]
}

// Size returns the dimensions of the last resize.
func (s *State) Size() (int, int) { return s.width, s.height }

// Particles returns the live particle pool. Callers must not retain it.
func (s *State) Particles() []Particle { return s.particles }

// Rays returns the live ray list. Callers must not retain it.
func (s *State) Rays() []Ray { return s.rays }

// ResetParticles discards the pool so it is rebuilt with fresh hues.
func (s *State) ResetParticles() {
	s.particles = s.particles[:0]
	s.particleTheme = ""
}
