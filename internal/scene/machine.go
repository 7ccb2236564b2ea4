package scene

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guidoenr/cellscape/internal/easing"
	"github.com/guidoenr/cellscape/internal/tick"
)

// Scene is the background mode the animation is crossfading into.
type Scene uint8

const (
	Dark Scene = iota
	Light
)

func (s Scene) String() string {
	if s == Dark {
		return "dark"
	}
	return "light"
}

// Other returns the opposite scene.
func (s Scene) Other() Scene {
	if s == Dark {
		return Light
	}
	return Dark
}

// Config controls scene timing, background levels and the effect table.
type Config struct {
	SwitchInterval     time.Duration  `toml:"switch_interval"`
	TransitionDuration time.Duration  `toml:"transition_duration"`
	BackgroundMin      float64        `toml:"background_min"`
	BackgroundMax      float64        `toml:"background_max"`
	Lighting           LightingConfig `toml:"lighting"`
	Effects            Policy         `toml:"effects"`

	// Easing is resolved from the [easing] section by the owner; only the
	// background curve is used.
	Easing easing.Curves `toml:"-"`
}

// DefaultConfig returns the reference scene settings.
func DefaultConfig() Config {
	return Config{
		SwitchInterval:     7500 * time.Millisecond,
		TransitionDuration: time.Second,
		BackgroundMin:      10,
		BackgroundMax:      95,
		Lighting:           DefaultLighting(),
		Effects:            DefaultPolicy(),
	}
}

// Validate rejects timings that would stall or divide by zero.
func (c Config) Validate() error {
	var errs []error
	if c.SwitchInterval < 0 {
		errs = append(errs, fmt.Errorf("switch_interval must not be negative (got %s)", c.SwitchInterval))
	}
	if c.TransitionDuration <= 0 {
		errs = append(errs, fmt.Errorf("transition_duration must be positive (got %s)", c.TransitionDuration))
	}
	if c.BackgroundMin < 0 || c.BackgroundMax > 100 || c.BackgroundMin > c.BackgroundMax {
		errs = append(errs, fmt.Errorf("background range [%g,%g] must lie within [0,100]", c.BackgroundMin, c.BackgroundMax))
	}
	if err := c.Effects.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("effects: %w", err))
	}
	return errors.Join(errs...)
}

// Ripple marks where and when the grid-dot wave of the latest flip started.
type Ripple struct {
	Origin mgl64.Vec3
	Start  time.Duration
}

// Machine is the dark/light transition controller.
type Machine struct {
	cfg        Config
	side       float64
	scene      Scene
	changeTime time.Duration
	progress   float64
	ripple     Ripple
	flips      int
}

// New starts in the dark scene with the transition at zero. Ripple origins
// are drawn from the corners of a cube of side cellsPerSide.
func New(cfg Config, cellsPerSide int) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cellsPerSide <= 0 {
		return nil, fmt.Errorf("cells per side must be positive (got %d)", cellsPerSide)
	}
	cfg.Effects = cfg.Effects.Clone()
	cfg.Easing = cfg.Easing.WithDefaults()
	return &Machine{cfg: cfg, side: float64(cellsPerSide), scene: Dark}, nil
}

// Update flips the scene once the current one has been shown for
// switchInterval past its transition, then refreshes the progress.
// It reports whether a flip happened.
func (m *Machine) Update(ctx *tick.Context) bool {
	flipped := false
	if ctx.Since(m.changeTime) > m.cfg.SwitchInterval+m.cfg.TransitionDuration {
		m.scene = m.scene.Other()
		m.changeTime = ctx.Elapsed
		m.ripple = Ripple{
			Origin: mgl64.Vec3{m.corner(ctx), m.corner(ctx), m.corner(ctx)},
			Start:  ctx.Elapsed,
		}
		m.flips++
		flipped = true
	}
	m.progress = easing.Clamp01(float64(ctx.Since(m.changeTime)) / float64(m.cfg.TransitionDuration))
	return flipped
}

func (m *Machine) corner(ctx *tick.Context) float64 {
	if ctx.Rand.Intn(2) == 0 {
		return 0
	}
	return m.side
}

// Scene returns the scene being shown or transitioned into.
func (m *Machine) Scene() Scene { return m.scene }

// Progress returns the transition progress in [0,1].
func (m *Machine) Progress() float64 { return m.progress }

// Flips returns how many scene changes happened so far.
func (m *Machine) Flips() int { return m.flips }

// Ripple returns the grid-dot ripple recorded at the latest flip.
func (m *Machine) Ripple() Ripple { return m.ripple }

// Policy returns the effect table in use.
func (m *Machine) Policy() Policy { return m.cfg.Effects }

// BackgroundBrightness returns the eased background level (HSB brightness, 0-100).
func (m *Machine) BackgroundBrightness() float64 {
	eased := m.cfg.Easing.Background(m.progress)
	if m.scene == Dark {
		return easing.Lerp(m.cfg.BackgroundMax, m.cfg.BackgroundMin, eased)
	}
	return easing.Lerp(m.cfg.BackgroundMin, m.cfg.BackgroundMax, eased)
}

// EffectVisible reports whether effect is shown at the current progress.
func (m *Machine) EffectVisible(effect Effect) bool {
	return m.cfg.Effects.Visible(effect, m.scene, m.progress)
}

// DarkBackground reports whether the background reads as dark, switching
// half-way through each transition.
func (m *Machine) DarkBackground() bool {
	return (m.scene == Dark && m.progress >= 0.5) || (m.scene == Light && m.progress < 0.5)
}

// Lighting returns the light setup for the current progress.
func (m *Machine) Lighting() Lighting {
	return m.cfg.Lighting.at(m.scene, m.cfg.Easing.Background(m.progress))
}
