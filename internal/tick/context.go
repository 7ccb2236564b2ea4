package tick

import (
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Context is the per-step simulation state handed to every component update.
// It keeps the two time sources apart: Elapsed is wall-clock time and drives
// timers, Tick counts throttled simulation updates and drives period-locked
// oscillations. Phase interpolates between ticks so tick-locked motion stays
// smooth. Frame counts rendered frames.
type Context struct {
	Elapsed     time.Duration
	Frame       uint64
	Tick        uint64
	Phase       float64
	Rand        *rand.Rand
	NoiseOffset mgl64.Vec3
}

// New returns a context seeded with seed. A zero seed picks a time-based one.
func New(seed int64) *Context {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Context{Rand: rand.New(rand.NewSource(seed))}
}

// Since returns the wall-clock time elapsed since mark.
func (c *Context) Since(mark time.Duration) time.Duration {
	return c.Elapsed - mark
}

// Uniform draws a value in [lo, hi).
func (c *Context) Uniform(lo, hi float64) float64 {
	return lo + c.Rand.Float64()*(hi-lo)
}
