package camera

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guidoenr/cellscape/internal/tick"
)

// Mode is the active camera work.
type Mode uint8

const (
	Orbit Mode = iota
	Flythrough
)

func (m Mode) String() string {
	if m == Orbit {
		return "orbit"
	}
	return "flythrough"
}

// Config holds the camera choreography.
type Config struct {
	SwitchInterval  time.Duration `toml:"switch_interval"`
	DistantRadius   float64       `toml:"distant_radius"`
	CloseRadius     float64       `toml:"close_radius"`
	BaseHeight      float64       `toml:"base_height"`
	HeightAmplitude float64       `toml:"height_amplitude"`
	TargetAmplitude float64       `toml:"target_amplitude"`
	// TargetPhase shifts the flythrough target wave against the eye wave.
	TargetPhase     float64       `toml:"target_phase"`
	AngleMultiplier float64       `toml:"angle_multiplier"`
	// AngularSpeed is the orbit advance in radians per simulation tick.
	AngularSpeed float64 `toml:"angular_speed"`
}

// DefaultConfig returns the reference camera settings.
func DefaultConfig() Config {
	return Config{
		SwitchInterval:  7500 * time.Millisecond,
		DistantRadius:   640,
		CloseRadius:     430,
		BaseHeight:      -50,
		HeightAmplitude: 80,
		TargetAmplitude: 50,
		AngleMultiplier: 0.5,
		AngularSpeed:    0.012,
	}
}

// Validate rejects a zero switch interval, which would make progress
// undefined, and a flythrough that does not come closer than the orbit.
func (c Config) Validate() error {
	var errs []error
	if c.SwitchInterval <= 0 {
		errs = append(errs, fmt.Errorf("switch_interval must be positive (got %s)", c.SwitchInterval))
	}
	if c.DistantRadius <= 0 || c.CloseRadius <= 0 {
		errs = append(errs, fmt.Errorf("camera radii must be positive (got %g, %g)", c.DistantRadius, c.CloseRadius))
	} else if c.CloseRadius >= c.DistantRadius {
		errs = append(errs, fmt.Errorf("close_radius %g must be below distant_radius %g", c.CloseRadius, c.DistantRadius))
	}
	return errors.Join(errs...)
}

// Pose is a look-at camera description.
type Pose struct {
	Eye    mgl64.Vec3
	Target mgl64.Vec3
	Up     mgl64.Vec3
}

// View returns the world-to-camera matrix of the pose.
func (p Pose) View() mgl64.Mat4 {
	return mgl64.LookAtV(p.Eye, p.Target, p.Up)
}

// Controller alternates between a distant orbit and a close flythrough.
type Controller struct {
	cfg        Config
	mode       Mode
	changeTime time.Duration
	progress   float64
}

// New starts in orbit mode at time zero.
func New(cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Controller{cfg: cfg}, nil
}

// Update flips the mode once switchInterval has passed and refreshes the
// progress. Progress is not clamped. It reports whether the mode changed.
func (c *Controller) Update(ctx *tick.Context) bool {
	flipped := false
	if ctx.Since(c.changeTime) > c.cfg.SwitchInterval {
		if c.mode == Orbit {
			c.mode = Flythrough
		} else {
			c.mode = Orbit
		}
		c.changeTime = ctx.Elapsed
		flipped = true
	}
	c.progress = float64(ctx.Since(c.changeTime)) / float64(c.cfg.SwitchInterval)
	return flipped
}

// Mode returns the active camera work.
func (c *Controller) Mode() Mode { return c.mode }

// Progress returns the elapsed fraction of the current mode.
func (c *Controller) Progress() float64 { return c.progress }

// Pose computes the camera for the current mode. The orbit angle follows the
// simulation tick; the flythrough follows the mode progress.
func (c *Controller) Pose(ctx *tick.Context) Pose {
	up := mgl64.Vec3{0, 1, 0}
	if c.mode == Orbit {
		a := (float64(ctx.Tick) + ctx.Phase) * c.cfg.AngularSpeed
		r := c.cfg.DistantRadius
		return Pose{
			Eye: mgl64.Vec3{r * math.Cos(a), c.cfg.BaseHeight, r * math.Sin(a)},
			Up:  up,
		}
	}

	wave := math.Sin(c.progress * 2 * math.Pi)
	targetWave := math.Sin(c.progress*2*math.Pi + c.cfg.TargetPhase)
	angle := c.progress * math.Pi * c.cfg.AngleMultiplier
	r := c.cfg.CloseRadius
	return Pose{
		Eye:    mgl64.Vec3{r * math.Cos(angle), c.cfg.BaseHeight + wave*c.cfg.HeightAmplitude, r * math.Sin(angle)},
		Target: mgl64.Vec3{0, targetWave * c.cfg.TargetAmplitude, 0},
		Up:     up,
	}
}
