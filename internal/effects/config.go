package effects

import (
	"errors"
	"fmt"
	"time"
)

// referenceFrame is the frame length the per-step particle speeds are tuned for.
const referenceFrame = time.Second / 60

// ParticleConfig describes the drifting particle cloud.
type ParticleConfig struct {
	Count         int     `toml:"count"`
	Boundary      float64 `toml:"boundary"`
	ChangeRate    float64 `toml:"change_rate"`
	VelocityRange float64 `toml:"velocity_range"`
	SizeMin       float64 `toml:"size_min"`
	SizeMax       float64 `toml:"size_max"`
	OpacityMin    float64 `toml:"opacity_min"`
	OpacityMax    float64 `toml:"opacity_max"`
	RotSpeedRange float64 `toml:"rot_speed_range"`
}

// BezierConfig describes the curves threading the cube column.
type BezierConfig struct {
	ChainCount int     `toml:"chain_count"`
	ChainDelay float64 `toml:"chain_delay"`
}

// GridConfig describes the surface dot ripple.
type GridConfig struct {
	// AnimationSpeed is the ripple radius growth in cells per millisecond.
	AnimationSpeed float64 `toml:"animation_speed"`
	WaveDistance   float64 `toml:"wave_distance"`
	DotSize        float64 `toml:"dot_size"`
}

// Config groups the auxiliary effects.
type Config struct {
	Particles ParticleConfig `toml:"particles"`
	Bezier    BezierConfig   `toml:"bezier"`
	Grid      GridConfig     `toml:"grid"`
}

// DefaultConfig returns the reference effect settings.
func DefaultConfig() Config {
	return Config{
		Particles: ParticleConfig{
			Count:         400,
			Boundary:      400,
			ChangeRate:    0.1,
			VelocityRange: 0.3,
			SizeMin:       0.5,
			SizeMax:       2,
			OpacityMin:    30,
			OpacityMax:    100,
			RotSpeedRange: 0.02,
		},
		Bezier: BezierConfig{
			ChainCount: 16,
			ChainDelay: 0.5,
		},
		Grid: GridConfig{
			AnimationSpeed: 0.05,
			WaveDistance:   2,
			DotSize:        0.3,
		},
	}
}

// Validate rejects settings that would divide by zero or never render.
func (c Config) Validate() error {
	var errs []error
	p := c.Particles
	if p.Count < 0 {
		errs = append(errs, fmt.Errorf("particles.count must not be negative (got %d)", p.Count))
	}
	if p.Boundary <= 0 {
		errs = append(errs, fmt.Errorf("particles.boundary must be positive (got %g)", p.Boundary))
	}
	if p.ChangeRate < 0 || p.ChangeRate > 1 {
		errs = append(errs, fmt.Errorf("particles.change_rate %g outside [0,1]", p.ChangeRate))
	}
	if p.SizeMin > p.SizeMax || p.OpacityMin > p.OpacityMax {
		errs = append(errs, errors.New("particles: min above max"))
	}
	b := c.Bezier
	if b.ChainCount < 0 {
		errs = append(errs, fmt.Errorf("bezier.chain_count must not be negative (got %d)", b.ChainCount))
	}
	if b.ChainDelay < 0 || b.ChainDelay >= 1 {
		errs = append(errs, fmt.Errorf("bezier.chain_delay %g outside [0,1)", b.ChainDelay))
	}
	if c.Grid.AnimationSpeed <= 0 {
		errs = append(errs, fmt.Errorf("grid.animation_speed must be positive (got %g)", c.Grid.AnimationSpeed))
	}
	if c.Grid.WaveDistance <= 0 {
		errs = append(errs, fmt.Errorf("grid.wave_distance must be positive (got %g)", c.Grid.WaveDistance))
	}
	return errors.Join(errs...)
}
