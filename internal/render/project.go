package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/guidoenr/cellscape/internal/camera"
)

const (
	fieldOfView = 45.0
	nearPlane   = 1.0
	farPlane    = 5000.0
	// cellAspect is the height of a character cell relative to its width.
	cellAspect = 2.0
)

// projector maps world space onto raster coordinates. World Y grows
// downwards on screen.
type projector struct {
	viewProj mgl64.Mat4
	width    float64
	height   float64
	scaleX   float64
	scaleY   float64
}

func newProjector(pose camera.Pose, width, height int, pixelAspect float64) projector {
	aspect := float64(width) / (float64(height) * pixelAspect)
	proj := mgl64.Perspective(mgl64.DegToRad(fieldOfView), aspect, nearPlane, farPlane)
	return projector{
		viewProj: proj.Mul4(pose.View()),
		width:    float64(width),
		height:   float64(height),
		scaleX:   proj[0] * float64(width) / 2,
		scaleY:   proj[5] * float64(height) / 2,
	}
}

// project returns the raster position and the view depth of p. ok is false
// behind the near plane.
func (pr projector) project(p mgl64.Vec3) (x, y, depth float64, ok bool) {
	clip := pr.viewProj.Mul4x1(p.Vec4(1))
	w := clip.W()
	if w < nearPlane {
		return 0, 0, 0, false
	}
	x = (clip.X()/w + 1) / 2 * pr.width
	y = (clip.Y()/w + 1) / 2 * pr.height
	return x, y, w, true
}

// extent returns the half size in raster cells of a world length seen at depth.
func (pr projector) extent(size, depth float64) (float64, float64) {
	return size / 2 * pr.scaleX / depth, size / 2 * pr.scaleY / depth
}

func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
