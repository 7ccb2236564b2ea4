package effects

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Pattern is the on/off state of a particle's 2x2 quad, row major.
type Pattern [4]bool

// Lit returns how many quads are on.
func (p Pattern) Lit() int {
	n := 0
	for _, on := range p {
		if on {
			n++
		}
	}
	return n
}

// Particle is one drifting speck of the cloud.
type Particle struct {
	Pos      mgl64.Vec3
	Vel      mgl64.Vec3
	Rot      mgl64.Vec3
	RotSpeed mgl64.Vec3
	Size     float64
	Opacity  float64
	Pattern  Pattern
}

// Particles owns the particle cloud. Velocities are per reference frame.
type Particles struct {
	cfg   ParticleConfig
	items []Particle
}

// NewParticles scatters cfg.Count particles inside the ±boundary box.
func NewParticles(cfg ParticleConfig, rng *rand.Rand) *Particles {
	ps := &Particles{cfg: cfg, items: make([]Particle, cfg.Count)}
	b := cfg.Boundary
	v := cfg.VelocityRange
	r := cfg.RotSpeedRange
	for i := range ps.items {
		ps.items[i] = Particle{
			Pos:      mgl64.Vec3{uniform(rng, -b, b), uniform(rng, -b, b), uniform(rng, -b, b)},
			Vel:      mgl64.Vec3{uniform(rng, -v, v), uniform(rng, -v, v), uniform(rng, -v, v)},
			Rot:      mgl64.Vec3{uniform(rng, 0, 2*math.Pi), uniform(rng, 0, 2*math.Pi), uniform(rng, 0, 2*math.Pi)},
			RotSpeed: mgl64.Vec3{uniform(rng, -r, r), uniform(rng, -r, r), uniform(rng, -r, r)},
			Size:     uniform(rng, cfg.SizeMin, cfg.SizeMax),
			Opacity:  uniform(rng, cfg.OpacityMin, cfg.OpacityMax),
			Pattern:  newPattern(rng),
		}
	}
	return ps
}

// All exposes the particles for read-only iteration.
func (ps *Particles) All() []Particle { return ps.items }

// Update moves and spins every particle by dt, wrapping positions that leave
// the box back into it modulo the box width.
func (ps *Particles) Update(dt time.Duration) {
	steps := float64(dt) / float64(referenceFrame)
	b := ps.cfg.Boundary
	for i := range ps.items {
		p := &ps.items[i]
		p.Pos = p.Pos.Add(p.Vel.Mul(steps))
		for axis := 0; axis < 3; axis++ {
			p.Pos[axis] = wrap(p.Pos[axis], b)
		}
		p.Rot = p.Rot.Add(p.RotSpeed.Mul(steps))
	}
}

// MutatePatterns regenerates the patterns of count*changeRate randomly chosen
// particles. It returns how many patterns were replaced.
func (ps *Particles) MutatePatterns(rng *rand.Rand) int {
	if len(ps.items) == 0 {
		return 0
	}
	n := int(math.Floor(float64(ps.cfg.Count) * ps.cfg.ChangeRate))
	for i := 0; i < n; i++ {
		ps.items[rng.Intn(len(ps.items))].Pattern = newPattern(rng)
	}
	return n
}

func wrap(v, b float64) float64 {
	if math.Abs(v) <= b {
		return v
	}
	m := math.Mod(v+b, 2*b)
	if m < 0 {
		m += 2 * b
	}
	return m - b
}

func newPattern(rng *rand.Rand) Pattern {
	var p Pattern
	for i := range p {
		p[i] = rng.Float64() > 0.5
	}
	if p.Lit() == 0 {
		p[rng.Intn(len(p))] = true
	}
	return p
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
