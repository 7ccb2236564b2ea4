package world

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guidoenr/cellscape/internal/camera"
	"github.com/guidoenr/cellscape/internal/cells"
	"github.com/guidoenr/cellscape/internal/effects"
	"github.com/guidoenr/cellscape/internal/scene"
)

// Visibility is the per-effect gate of one frame.
type Visibility struct {
	GridDots  bool
	Edges     bool
	Bezier    bool
	Particles bool
}

// CellView is one cell as a renderer needs it.
type CellView struct {
	Cell         cells.Cell
	Center       mgl64.Vec3
	Presentation cells.Presentation
	// Size is the rendered edge length of the cell box in world units.
	Size float64
}

// DotView is one visible grid dot.
type DotView struct {
	Pos   mgl64.Vec3
	Scale float64
}

// CubeView is the per-cube part of a frame.
type CubeView struct {
	Cube  Cube
	Cells []CellView
	Dots  []DotView
}

// ChainView is one Bézier chain of a frame.
type ChainView struct {
	Opacity  float64
	Segments []effects.Segment
}

// Snapshot is everything a renderer needs to draw one frame. It is an
// independent copy; later steps do not mutate it.
type Snapshot struct {
	Elapsed time.Duration
	Frame   uint64
	Tick    uint64

	Scene          scene.Scene
	Progress       float64
	Background     float64
	DarkBackground bool
	Lighting       scene.Lighting

	CameraMode camera.Mode
	Camera     camera.Pose

	Visible     Visibility
	EdgeOpacity float64
	Ripple      scene.Ripple

	Cubes     []CubeView
	Chains    []ChainView
	Particles []effects.Particle

	Population cells.Population
}

func (w *World) snapshot() Snapshot {
	ctx := w.ctx
	sm := w.scene
	s := Snapshot{
		Elapsed:        ctx.Elapsed,
		Frame:          ctx.Frame,
		Tick:           ctx.Tick,
		Scene:          sm.Scene(),
		Progress:       sm.Progress(),
		Background:     sm.BackgroundBrightness(),
		DarkBackground: sm.DarkBackground(),
		Lighting:       sm.Lighting(),
		CameraMode:     w.camera.Mode(),
		Camera:         w.camera.Pose(ctx),
		Visible: Visibility{
			GridDots:  sm.EffectVisible(scene.EffectGridDots),
			Edges:     sm.EffectVisible(scene.EffectEdges),
			Bezier:    sm.EffectVisible(scene.EffectBezier),
			Particles: sm.EffectVisible(scene.EffectParticles),
		},
		Ripple: sm.Ripple(),
		Cubes:  make([]CubeView, len(w.cubes)),
	}
	if s.Visible.Edges {
		s.EdgeOpacity = effects.EdgeOpacity(s.Scene, s.Progress)
	}

	sinceRipple := ctx.Since(s.Ripple.Start)
	for i, cube := range w.cubes {
		g := w.grids[i]
		view := CubeView{Cube: cube, Cells: make([]CellView, 0, g.Len())}
		for _, c := range g.Cells() {
			pres := g.Presentation(c)
			view.Cells = append(view.Cells, CellView{
				Cell:         c,
				Center:       cube.CellCenter(c.X, c.Y, c.Z),
				Presentation: pres,
				Size:         cube.CellSize * pres.Scale * cells.SizeModifier(c),
			})
		}
		if s.Visible.GridDots {
			for _, p := range w.dots.Points() {
				scale := w.dots.DotScale(p.Sub(s.Ripple.Origin).Len(), s.Scene, s.Progress, sinceRipple)
				if scale > 0 {
					view.Dots = append(view.Dots, DotView{Pos: cube.Local(p), Scale: scale})
				}
			}
		}
		s.Population.Add(g.Population())
		s.Cubes[i] = view
	}

	if s.Visible.Bezier {
		centers := make([]mgl64.Vec3, len(w.cubes))
		for i, cube := range w.cubes {
			centers[i] = cube.Position
		}
		rule := w.scene.Policy()[scene.EffectBezier]
		s.Chains = make([]ChainView, w.chains.Len())
		for i := range s.Chains {
			s.Chains[i] = ChainView{
				Opacity:  w.chains.Opacity(i, s.Scene, s.Progress, rule),
				Segments: w.chains.Segments(i, centers),
			}
		}
	}

	if s.Visible.Particles {
		s.Particles = append([]effects.Particle(nil), w.particles.All()...)
	}
	return s
}
