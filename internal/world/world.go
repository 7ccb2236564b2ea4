package world

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guidoenr/cellscape/internal/camera"
	"github.com/guidoenr/cellscape/internal/cells"
	"github.com/guidoenr/cellscape/internal/effects"
	"github.com/guidoenr/cellscape/internal/noise"
	"github.com/guidoenr/cellscape/internal/scene"
	"github.com/guidoenr/cellscape/internal/tick"
)

// World owns the simulation context and every component, and runs them in
// a fixed order once per rendered frame.
type World struct {
	cfg        Config
	ctx        *tick.Context
	field      *noise.Field
	offsetStep mgl64.Vec3

	cubes []Cube
	grids []*cells.Grid

	scene     *scene.Machine
	camera    *camera.Controller
	particles *effects.Particles
	chains    *effects.Chains
	dots      *effects.GridDots

	lastUpdate time.Duration
	mutations  int
}

// New builds a world from cfg. Everything random is drawn from seed; a zero
// seed picks a time-based one.
func New(cfg Config, seed int64) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	curves, err := cfg.Easing.Resolve()
	if err != nil {
		return nil, fmt.Errorf("easing: %w", err)
	}
	cfg.Grid.Easing = curves
	cfg.Scene.Easing = curves
	ctx := tick.New(seed)

	noiseSeed := cfg.Noise.Seed
	if noiseSeed == 0 {
		noiseSeed = ctx.Rand.Int63()
	}
	src, err := noise.NewSource(cfg.Noise.Backend, noiseSeed)
	if err != nil {
		return nil, err
	}
	side := cfg.Grid.CellsPerSide
	field, err := noise.NewField(side, cfg.Noise, src)
	if err != nil {
		return nil, fmt.Errorf("noise field: %w", err)
	}
	sm, err := scene.New(cfg.Scene, side)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	cam, err := camera.New(cfg.Camera)
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}

	w := &World{
		cfg:        cfg,
		ctx:        ctx,
		field:      field,
		offsetStep: cfg.Noise.OffsetStep(),
		scene:      sm,
		camera:     cam,
	}
	w.cubes = placeCubes(cfg.Cubes, side, ctx)
	w.grids = make([]*cells.Grid, len(w.cubes))
	for i := range w.grids {
		g, err := cells.NewGrid(i, cfg.Grid, field, ctx)
		if err != nil {
			return nil, fmt.Errorf("grid %d: %w", i, err)
		}
		w.grids[i] = g
	}
	w.particles = effects.NewParticles(cfg.Effects.Particles, ctx.Rand)
	w.chains = effects.NewChains(cfg.Effects.Bezier, len(w.cubes), cfg.Cubes.Size, ctx.Rand)
	w.dots = effects.NewGridDots(cfg.Effects.Grid, side)
	return w, nil
}

// Step advances the world to elapsed wall-clock time and returns the frame
// to draw. Completed fades are pruned after the snapshot is taken, so the
// frame still shows them at zero scale.
func (w *World) Step(elapsed time.Duration) Snapshot {
	ctx := w.ctx
	dt := elapsed - ctx.Elapsed
	if dt < 0 {
		dt = 0
	}
	ctx.Elapsed = elapsed

	w.scene.Update(ctx)
	w.camera.Update(ctx)

	if ctx.Since(w.lastUpdate) > w.cfg.CellUpdateInterval {
		w.updateGrids()
		if w.scene.Scene() == scene.Dark && w.scene.Progress() >= 1 {
			w.mutations += w.particles.MutatePatterns(ctx.Rand)
		}
		ctx.Tick++
		ctx.NoiseOffset = ctx.NoiseOffset.Add(w.offsetStep)
		w.lastUpdate = elapsed
	}
	ctx.Phase = 0
	if interval := w.cfg.CellUpdateInterval; interval > 0 {
		ctx.Phase = math.Min(1, float64(ctx.Since(w.lastUpdate))/float64(interval))
	}

	delta := w.cfg.CellChangeRate * dt.Seconds()
	for _, g := range w.grids {
		g.AdvanceAnimations(delta)
	}
	if w.scene.EffectVisible(scene.EffectParticles) {
		w.particles.Update(dt)
	}

	snap := w.snapshot()

	for _, g := range w.grids {
		g.Prune()
	}
	ctx.Frame++
	return snap
}

// updateGrids runs one simulation tick on every grid. Grids share nothing
// mutable, so with several workers each cube is updated on its own goroutine.
func (w *World) updateGrids() {
	workers := w.cfg.Workers
	if workers > len(w.grids) {
		workers = len(w.grids)
	}
	if workers <= 1 {
		for _, g := range w.grids {
			g.Update(w.ctx)
		}
		return
	}

	var wg sync.WaitGroup
	jobs := make(chan *cells.Grid, len(w.grids))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for g := range jobs {
				g.Update(w.ctx)
			}
		}()
	}
	for _, g := range w.grids {
		jobs <- g
	}
	close(jobs)
	wg.Wait()
}

// Context exposes the simulation context. Callers must not mutate it.
func (w *World) Context() *tick.Context { return w.ctx }

// Cubes returns the cube placements.
func (w *World) Cubes() []Cube { return w.cubes }

// Grid returns the cell grid of cube i.
func (w *World) Grid(i int) *cells.Grid { return w.grids[i] }

// Scene returns the transition machine.
func (w *World) Scene() *scene.Machine { return w.scene }

// Camera returns the camera controller.
func (w *World) Camera() *camera.Controller { return w.camera }

// Field returns the shared noise field.
func (w *World) Field() *noise.Field { return w.field }

// PatternMutations returns how many particle patterns were regenerated so far.
func (w *World) PatternMutations() int { return w.mutations }

// Population sums the cell population of every grid.
func (w *World) Population() cells.Population {
	var pop cells.Population
	for _, g := range w.grids {
		pop.Add(g.Population())
	}
	return pop
}
