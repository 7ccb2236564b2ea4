package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guidoenr/cellscape/internal/tick"
)

// Cube is the world placement of one grid.
type Cube struct {
	Index    int
	Position mgl64.Vec3
	Rotation mgl64.Vec3
	Size     float64
	CellSize float64
	model    mgl64.Mat4
}

// placeCubes stacks the cubes along Y, centered on the origin, with a random
// horizontal jitter and a slight random tilt.
func placeCubes(cfg CubeConfig, cellsPerSide int, ctx *tick.Context) []Cube {
	cubes := make([]Cube, cfg.Count)
	top := -float64(cfg.Count-1) * cfg.Size / 2
	for i := range cubes {
		c := Cube{
			Index: i,
			Position: mgl64.Vec3{
				ctx.Uniform(-cfg.MaxOffset, cfg.MaxOffset),
				top + float64(i)*cfg.Size,
				ctx.Uniform(-cfg.MaxOffset, cfg.MaxOffset),
			},
			Size:     cfg.Size,
			CellSize: cfg.Size / float64(cellsPerSide),
		}
		c.Rotation = mgl64.Vec3{
			ctx.Uniform(-cfg.RotationRange, cfg.RotationRange),
			ctx.Uniform(0, 2*math.Pi),
			ctx.Uniform(-cfg.RotationRange, cfg.RotationRange),
		}
		c.model = c.buildModel()
		cubes[i] = c
	}
	return cubes
}

func (c Cube) buildModel() mgl64.Mat4 {
	h := c.Size / 2
	return mgl64.Translate3D(c.Position.X(), c.Position.Y(), c.Position.Z()).
		Mul4(mgl64.HomogRotate3DX(c.Rotation.X())).
		Mul4(mgl64.HomogRotate3DY(c.Rotation.Y())).
		Mul4(mgl64.HomogRotate3DZ(c.Rotation.Z())).
		Mul4(mgl64.Translate3D(-h, -h, -h))
}

// Model maps cube-local coordinates, with the origin at one corner, to world space.
func (c Cube) Model() mgl64.Mat4 { return c.model }

// Local converts a lattice position in cell units to world space.
func (c Cube) Local(cell mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(cell.Mul(c.CellSize), c.model)
}

// CellCenter returns the world position of the center of cell (x,y,z).
func (c Cube) CellCenter(x, y, z int) mgl64.Vec3 {
	return c.Local(mgl64.Vec3{float64(x) + 0.5, float64(y) + 0.5, float64(z) + 0.5})
}
