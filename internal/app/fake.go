package app

import "time"

// clock reports the wall-clock time the simulation is stepped to.
type clock interface {
	Elapsed() time.Duration
}

type wallClock struct {
	start time.Time
}

func newWallClock() *wallClock {
	return &wallClock{start: time.Now()}
}

func (c *wallClock) Elapsed() time.Duration {
	return time.Since(c.start)
}

// fakeClock advances by exactly one frame per call, so headless runs are
// reproducible regardless of how fast the host is.
type fakeClock struct {
	frame time.Duration
	now   time.Duration
}

func newFakeClock(fps float64) *fakeClock {
	if fps <= 0 {
		fps = 60
	}
	return &fakeClock{frame: time.Duration(float64(time.Second) / fps)}
}

func (c *fakeClock) Elapsed() time.Duration {
	c.now += c.frame
	return c.now
}
