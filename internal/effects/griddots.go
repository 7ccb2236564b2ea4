package effects

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guidoenr/cellscape/internal/easing"
	"github.com/guidoenr/cellscape/internal/scene"
)

// GridDots is the lattice of points on the surface of a cube, in cell units.
type GridDots struct {
	cfg         GridConfig
	points      []mgl64.Vec3
	maxDistance float64
}

// NewGridDots enumerates the surface points of the [0..side]³ lattice.
func NewGridDots(cfg GridConfig, side int) *GridDots {
	g := &GridDots{cfg: cfg, maxDistance: math.Sqrt(3 * float64(side*side))}
	for x := 0; x <= side; x++ {
		for y := 0; y <= side; y++ {
			for z := 0; z <= side; z++ {
				if x == 0 || y == 0 || z == 0 || x == side || y == side || z == side {
					g.points = append(g.points, mgl64.Vec3{float64(x), float64(y), float64(z)})
				}
			}
		}
	}
	return g
}

// Points returns the surface lattice.
func (g *GridDots) Points() []mgl64.Vec3 { return g.points }

// MaxDistance returns the cube diagonal in cells.
func (g *GridDots) MaxDistance() float64 { return g.maxDistance }

// DotScale returns the scale of a dot at distance cells from the ripple
// origin. Entering the dark scene a growing wave reveals the dots, with the
// ones closest to the front still small. Entering the light scene the wave
// erases them, continuing the erasure left over from the previous scene
// during the first half of the dark transition.
func (g *GridDots) DotScale(distance float64, sc scene.Scene, progress float64, sinceRipple time.Duration) float64 {
	w := g.cfg.WaveDistance
	radius := float64(sinceRipple) / float64(time.Millisecond) * g.cfg.AnimationSpeed
	switch {
	case sc == scene.Dark && progress > 0.5:
		if distance > radius {
			return 0
		}
		return easing.Clamp01(1 - math.Max(0, (distance-(radius-w))/w))
	case sc == scene.Light && progress > 0.5:
		return erased(distance, radius, w)
	case sc == scene.Dark:
		return erased(distance, (0.5-progress)*2*g.maxDistance, w)
	default:
		return 0
	}
}

// erased is the scale of a dot behind an erasing wave of the given radius:
// untouched ahead of the front, shrinking across the wave band, gone behind it.
func erased(distance, radius, w float64) float64 {
	if distance > radius {
		return 1
	}
	return easing.Clamp01((distance - (radius - w)) / w)
}

// EdgeOpacity returns the eased opacity of the cube outlines in [0,1]: they
// fade in over the second half of the light transition and out over the
// first half of the dark one.
func EdgeOpacity(sc scene.Scene, progress float64) float64 {
	var v float64
	if sc == scene.Light {
		if progress > 0.5 {
			v = easing.Map(progress, 0.5, 1, 0, 1)
		}
	} else if progress < 0.5 {
		v = easing.Map(progress, 0, 0.5, 1, 0)
	}
	return easing.InOutQuad(easing.Clamp01(v))
}
