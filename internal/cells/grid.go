package cells

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guidoenr/cellscape/internal/easing"
	"github.com/guidoenr/cellscape/internal/noise"
	"github.com/guidoenr/cellscape/internal/tick"
)

// Config controls the cell process of a single grid.
type Config struct {
	CellsPerSide      int     `toml:"cells_per_side"`
	PointsPerCube     int     `toml:"points_per_cube"`
	PointSpeed        float64 `toml:"point_speed"`
	ThresholdBase     float64 `toml:"threshold_base"`
	ThresholdVariance float64 `toml:"threshold_variance"`
	// ThresholdPhaseStep is the threshold oscillation advance per simulation tick.
	ThresholdPhaseStep float64 `toml:"threshold_phase_step"`
	// CubePhaseOffset desynchronizes neighbouring cubes.
	CubePhaseOffset    float64 `toml:"cube_phase_offset"`
	AppearanceVariants int     `toml:"appearance_variants"`

	// Easing is resolved from the [easing] section by the owner.
	Easing easing.Curves `toml:"-"`
}

// DefaultConfig returns the reference grid settings.
func DefaultConfig() Config {
	return Config{
		CellsPerSide:       6,
		PointsPerCube:      2,
		PointSpeed:         0.02,
		ThresholdBase:      0.3,
		ThresholdVariance:  0.25,
		ThresholdPhaseStep: 0.24,
		CubePhaseOffset:    1,
		AppearanceVariants: 3,
	}
}

// MaxCellsPerSide bounds the per-cube scan, which samples the field
// cellsPerSide³ times on every update.
const MaxCellsPerSide = 64

// Validate rejects settings that cannot produce a working grid.
func (c Config) Validate() error {
	var errs []error
	if c.CellsPerSide <= 0 {
		errs = append(errs, fmt.Errorf("cells_per_side must be positive (got %d)", c.CellsPerSide))
	}
	if c.CellsPerSide > MaxCellsPerSide {
		errs = append(errs, fmt.Errorf("cells_per_side %d above the limit of %d", c.CellsPerSide, MaxCellsPerSide))
	}
	if c.PointsPerCube <= 0 {
		errs = append(errs, fmt.Errorf("points_per_cube must be positive (got %d)", c.PointsPerCube))
	}
	if c.PointSpeed < 0 {
		errs = append(errs, fmt.Errorf("point_speed must not be negative (got %g)", c.PointSpeed))
	}
	if c.ThresholdVariance < 0 {
		errs = append(errs, fmt.Errorf("threshold_variance must not be negative (got %g)", c.ThresholdVariance))
	}
	if c.AppearanceVariants <= 0 {
		errs = append(errs, fmt.Errorf("appearance_variants must be positive (got %d)", c.AppearanceVariants))
	}
	return errors.Join(errs...)
}

// Grid is the sparse cell map of one cube plus its drifting feature points.
// Cells live in a dense arena indexed by the packed coordinate x*N²+y*N+z.
// A Grid shares nothing mutable with other grids.
type Grid struct {
	index  int
	side   int
	cfg    Config
	field  *noise.Field
	rng    *rand.Rand
	points []noise.FeaturePoint
	slots  []int32
	cells  []Cell
}

// NewGrid seeds the feature points of cube index from ctx.
func NewGrid(index int, cfg Config, field *noise.Field, ctx *tick.Context) (*Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if field == nil {
		return nil, errors.New("grid needs a noise field")
	}
	side := cfg.CellsPerSide
	g := &Grid{
		index:  index,
		side:   side,
		cfg:    cfg,
		field:  field,
		rng:    rand.New(rand.NewSource(ctx.Rand.Int63())),
		points: make([]noise.FeaturePoint, cfg.PointsPerCube),
		slots:  make([]int32, side*side*side),
	}
	for i := range g.slots {
		g.slots[i] = -1
	}
	bound := float64(side)
	for i := range g.points {
		g.points[i] = noise.FeaturePoint{
			Pos: mgl64.Vec3{ctx.Uniform(0, bound), ctx.Uniform(0, bound), ctx.Uniform(0, bound)},
			Vel: mgl64.Vec3{
				ctx.Uniform(-cfg.PointSpeed, cfg.PointSpeed),
				ctx.Uniform(-cfg.PointSpeed, cfg.PointSpeed),
				ctx.Uniform(-cfg.PointSpeed, cfg.PointSpeed),
			},
		}
	}
	return g, nil
}

// Index returns the cube index the grid belongs to.
func (g *Grid) Index() int { return g.index }

// Side returns the number of cells per cube side.
func (g *Grid) Side() int { return g.side }

// Len returns the number of cells currently held.
func (g *Grid) Len() int { return len(g.cells) }

// Cells exposes the arena for read-only iteration. The slice is invalidated
// by the next mutating call.
func (g *Grid) Cells() []Cell { return g.cells }

// FeaturePoints returns a copy of the feature points.
func (g *Grid) FeaturePoints() []noise.FeaturePoint {
	out := make([]noise.FeaturePoint, len(g.points))
	copy(out, g.points)
	return out
}

// SetFeaturePoints replaces the feature points; used to script scenarios.
func (g *Grid) SetFeaturePoints(points []noise.FeaturePoint) {
	g.points = append(g.points[:0], points...)
}

// Lookup returns the cell at (x,y,z), if any.
func (g *Grid) Lookup(x, y, z int) (Cell, bool) {
	slot := g.slots[g.key(x, y, z)]
	if slot < 0 {
		return Cell{}, false
	}
	return g.cells[slot], true
}

// Presentation returns the transform of c with the grid's easing curves.
func (g *Grid) Presentation(c Cell) Presentation {
	return PresentationFor(c, g.cfg.Easing)
}

// Threshold returns the activation threshold for the current tick.
func (g *Grid) Threshold(ctx *tick.Context) float64 {
	phase := float64(ctx.Tick)*g.cfg.ThresholdPhaseStep + float64(g.index)*g.cfg.CubePhaseOffset
	return g.cfg.ThresholdBase + math.Sin(phase)*g.cfg.ThresholdVariance
}

// Update runs one simulation step: feature points first, then cells.
func (g *Grid) Update(ctx *tick.Context) {
	g.StepFeaturePoints()
	g.StepCells(ctx)
}

// StepFeaturePoints advances every feature point, reflecting off the grid bounds.
func (g *Grid) StepFeaturePoints() {
	bound := float64(g.side)
	for i := range g.points {
		g.points[i].Advance(bound)
	}
}

// StepCells samples the field at every coordinate against one threshold
// snapshot. Values above it create, reactivate or refresh cells; active cells
// at or below it start fading.
func (g *Grid) StepCells(ctx *tick.Context) {
	threshold := g.Threshold(ctx)
	n := g.side
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			for z := 0; z < n; z++ {
				key := (x*n+y)*n + z
				value := g.field.Sample(mgl64.Vec3{float64(x), float64(y), float64(z)}, g.points, ctx.NoiseOffset)
				slot := g.slots[key]

				if value > threshold {
					if slot < 0 {
						g.insert(key, Cell{X: x, Y: y, Z: z, Phase: PhaseAppearing, Noise: value, Variant: g.pickVariant()})
						continue
					}
					c := &g.cells[slot]
					if c.Phase == PhaseFading {
						c.Phase = PhaseAppearing
						c.Progress = 0
						c.Variant = g.pickVariant()
					}
					c.Noise = value
					continue
				}

				if slot >= 0 && g.cells[slot].Active() {
					c := &g.cells[slot]
					c.Phase = PhaseFading
					c.Progress = 0
				}
			}
		}
	}
}

// AdvanceAnimations moves appearing cells towards settled and fading cells
// towards removal. Fade progress is not clamped so Prune can detect completion.
func (g *Grid) AdvanceAnimations(delta float64) {
	for i := range g.cells {
		c := &g.cells[i]
		switch c.Phase {
		case PhaseAppearing:
			c.Progress += delta
			if c.Progress >= 1 {
				c.Progress = 1
				c.Phase = PhaseSettled
			}
		case PhaseFading:
			c.Progress += delta
		case PhaseSettled:
		default:
			panic(fmt.Sprintf("cells: cube %d cell (%d,%d,%d) in unknown %s", g.index, c.X, c.Y, c.Z, c.Phase))
		}
	}
}

// Prune deletes every cell whose fade has completed and returns how many were removed.
func (g *Grid) Prune() int {
	removed := 0
	for i := 0; i < len(g.cells); {
		c := g.cells[i]
		if c.Phase == PhaseFading && c.Progress > 1 {
			g.remove(i)
			removed++
			continue
		}
		i++
	}
	return removed
}

// Population counts cells per phase.
type Population struct {
	Appearing int
	Settled   int
	Fading    int
	NoiseSum  float64
}

// Active returns the number of appearing and settled cells.
func (p Population) Active() int { return p.Appearing + p.Settled }

// Total returns the number of cells held.
func (p Population) Total() int { return p.Appearing + p.Settled + p.Fading }

// Add accumulates other into p.
func (p *Population) Add(other Population) {
	p.Appearing += other.Appearing
	p.Settled += other.Settled
	p.Fading += other.Fading
	p.NoiseSum += other.NoiseSum
}

// Population summarizes the grid.
func (g *Grid) Population() Population {
	var pop Population
	for i := range g.cells {
		switch g.cells[i].Phase {
		case PhaseAppearing:
			pop.Appearing++
		case PhaseSettled:
			pop.Settled++
		case PhaseFading:
			pop.Fading++
		}
		pop.NoiseSum += g.cells[i].Noise
	}
	return pop
}

func (g *Grid) pickVariant() Variant {
	return Variant(g.rng.Intn(g.cfg.AppearanceVariants))
}

func (g *Grid) key(x, y, z int) int {
	n := g.side
	if x < 0 || y < 0 || z < 0 || x >= n || y >= n || z >= n {
		panic(fmt.Sprintf("cells: coordinate (%d,%d,%d) outside grid of side %d", x, y, z, n))
	}
	return (x*n+y)*n + z
}

func (g *Grid) insert(key int, c Cell) {
	g.slots[key] = int32(len(g.cells))
	g.cells = append(g.cells, c)
}

func (g *Grid) remove(i int) {
	last := len(g.cells) - 1
	g.slots[g.key(g.cells[i].X, g.cells[i].Y, g.cells[i].Z)] = -1
	if i != last {
		g.cells[i] = g.cells[last]
		moved := g.cells[i]
		g.slots[g.key(moved.X, moved.Y, moved.Z)] = int32(i)
	}
	g.cells = g.cells[:last]
}
