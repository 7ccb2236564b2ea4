package noise

import "github.com/go-gl/mathgl/mgl64"

// FeaturePoint is a drifting Worley site in grid-coordinate space.
type FeaturePoint struct {
	Pos mgl64.Vec3
	Vel mgl64.Vec3
}

// Advance moves the point by its velocity and reflects the velocity on every
// axis whose new position left [0, bound]. The position is not corrected, so
// a point may overshoot the boundary for one step.
func (p *FeaturePoint) Advance(bound float64) {
	p.Pos = p.Pos.Add(p.Vel)
	for axis := 0; axis < 3; axis++ {
		if p.Pos[axis] < 0 || p.Pos[axis] > bound {
			p.Vel[axis] = -p.Vel[axis]
		}
	}
}
