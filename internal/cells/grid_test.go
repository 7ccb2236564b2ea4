package cells

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guidoenr/cellscape/internal/noise"
	"github.com/guidoenr/cellscape/internal/tick"
)

type constSource float64

func (c constSource) Noise3(x, y, z float64) float64 { return float64(c) }

func newTestGrid(t *testing.T, cfg Config, src noise.Source) (*Grid, *tick.Context) {
	t.Helper()
	field, err := noise.NewField(cfg.CellsPerSide, noise.DefaultConfig(), src)
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	ctx := tick.New(1)
	g, err := NewGrid(0, cfg, field, ctx)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g, ctx
}

func scenarioConfig() Config {
	cfg := DefaultConfig()
	cfg.CellsPerSide = 6
	cfg.PointsPerCube = 1
	cfg.ThresholdBase = 0.3
	cfg.ThresholdVariance = 0
	return cfg
}

func centeredPoint() []noise.FeaturePoint {
	return []noise.FeaturePoint{{Pos: mgl64.Vec3{3, 3, 3}}}
}

func checkExclusivity(t *testing.T, g *Grid) {
	t.Helper()
	for _, c := range g.Cells() {
		_, fading := c.FadeProgress()
		if c.Active() == fading {
			t.Fatalf("cell (%d,%d,%d) active=%v fading=%v", c.X, c.Y, c.Z, c.Active(), fading)
		}
		if fading && c.AgeProgress() != 1 {
			t.Fatalf("fading cell kept appearance progress %f", c.AgeProgress())
		}
		got, ok := g.Lookup(c.X, c.Y, c.Z)
		if !ok || got != c {
			t.Fatalf("arena index out of sync for (%d,%d,%d)", c.X, c.Y, c.Z)
		}
	}
}

func TestCenterActivatesCornerStaysEmpty(t *testing.T) {
	src, err := noise.NewSource("perlin", 3)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	g, ctx := newTestGrid(t, scenarioConfig(), src)
	g.SetFeaturePoints(centeredPoint())

	g.StepCells(ctx)

	center, ok := g.Lookup(3, 3, 3)
	if !ok || !center.Active() {
		t.Fatalf("expected (3,3,3) to activate")
	}
	if center.Phase != PhaseAppearing || center.AgeProgress() != 0 {
		t.Fatalf("new cell should start appearing at 0, got %s %f", center.Phase, center.AgeProgress())
	}
	if _, ok := g.Lookup(0, 0, 0); ok {
		t.Fatalf("corner (0,0,0) must stay inactive")
	}
	checkExclusivity(t, g)
}

func TestActiveCellKeepsAnimation(t *testing.T) {
	g, ctx := newTestGrid(t, scenarioConfig(), constSource(0.5))
	g.SetFeaturePoints(centeredPoint())
	g.StepCells(ctx)
	g.AdvanceAnimations(0.4)
	g.StepCells(ctx)

	c, ok := g.Lookup(3, 3, 3)
	if !ok {
		t.Fatalf("cell vanished")
	}
	if math.Abs(c.AgeProgress()-0.4) > 1e-12 {
		t.Fatalf("re-activation of an active cell reset its animation: age=%f", c.AgeProgress())
	}
}

func TestFadeAndReactivate(t *testing.T) {
	cfg := scenarioConfig()
	g, ctx := newTestGrid(t, cfg, constSource(0.5))
	g.SetFeaturePoints(centeredPoint())
	g.StepCells(ctx)
	before := g.Len()
	if before == 0 {
		t.Fatalf("expected cells around the feature point")
	}

	// Move the site away: every cell falls below the threshold and starts fading.
	g.SetFeaturePoints([]noise.FeaturePoint{{Pos: mgl64.Vec3{100, 100, 100}}})
	g.StepCells(ctx)
	if g.Len() != before {
		t.Fatalf("fading cells must stay in the map: got %d want %d", g.Len(), before)
	}
	for _, c := range g.Cells() {
		fade, ok := c.FadeProgress()
		if !ok || fade != 0 {
			t.Fatalf("cell (%d,%d,%d) should start fading at 0", c.X, c.Y, c.Z)
		}
	}
	checkExclusivity(t, g)

	g.AdvanceAnimations(0.5)

	// Bring the site back: fading cells reactivate with cleared fade state.
	g.SetFeaturePoints(centeredPoint())
	g.StepCells(ctx)
	c, ok := g.Lookup(3, 3, 3)
	if !ok || c.Phase != PhaseAppearing || c.AgeProgress() != 0 {
		t.Fatalf("reactivated cell should restart appearing, got %+v", c)
	}
	if _, fading := c.FadeProgress(); fading {
		t.Fatalf("reactivated cell kept fade state")
	}
	checkExclusivity(t, g)
}

func TestPruneRemovesCompletedFades(t *testing.T) {
	g, ctx := newTestGrid(t, scenarioConfig(), constSource(0.5))
	g.SetFeaturePoints(centeredPoint())
	g.StepCells(ctx)
	g.SetFeaturePoints([]noise.FeaturePoint{{Pos: mgl64.Vec3{100, 100, 100}}})
	g.StepCells(ctx)
	total := g.Len()

	g.AdvanceAnimations(1)
	if removed := g.Prune(); removed != 0 {
		t.Fatalf("fade of exactly 1 is not complete, pruned %d", removed)
	}
	g.AdvanceAnimations(0.08)
	if removed := g.Prune(); removed != total {
		t.Fatalf("pruned %d want %d", removed, total)
	}
	if g.Len() != 0 {
		t.Fatalf("grid should be empty, has %d", g.Len())
	}

	g.SetFeaturePoints(centeredPoint())
	g.StepCells(ctx)
	c, ok := g.Lookup(3, 3, 3)
	if !ok || c.Phase != PhaseAppearing {
		t.Fatalf("pruned coordinate should be recreated fresh, got %+v", c)
	}
	checkExclusivity(t, g)
}

func TestAppearingSettles(t *testing.T) {
	g, ctx := newTestGrid(t, scenarioConfig(), constSource(0.5))
	g.SetFeaturePoints(centeredPoint())
	g.StepCells(ctx)
	for i := 0; i < 20; i++ {
		g.AdvanceAnimations(0.08)
	}
	c, _ := g.Lookup(3, 3, 3)
	if c.Phase != PhaseSettled || c.AgeProgress() != 1 {
		t.Fatalf("expected settled cell, got %s age=%f", c.Phase, c.AgeProgress())
	}
	if p := g.Presentation(c); p.Scale != 1 || p.RotationY != 0 || p.RotationZ != 0 {
		t.Fatalf("settled presentation=%+v", p)
	}
}

func TestThresholdOscillatesPerCube(t *testing.T) {
	cfg := DefaultConfig()
	field, _ := noise.NewField(cfg.CellsPerSide, noise.DefaultConfig(), constSource(0))
	ctx := tick.New(1)
	a, _ := NewGrid(0, cfg, field, ctx)
	b, _ := NewGrid(1, cfg, field, ctx)

	if a.Threshold(ctx) == b.Threshold(ctx) {
		t.Fatalf("cubes should be desynchronized")
	}
	if got := a.Threshold(ctx); got != cfg.ThresholdBase {
		t.Fatalf("cube 0 at tick 0 threshold=%f want=%f", got, cfg.ThresholdBase)
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < 200; i++ {
		ctx.Tick = uint64(i)
		v := a.Threshold(ctx)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo < cfg.ThresholdBase-cfg.ThresholdVariance-1e-9 || hi > cfg.ThresholdBase+cfg.ThresholdVariance+1e-9 {
		t.Fatalf("threshold escaped its band: [%f,%f]", lo, hi)
	}
	if hi-lo < cfg.ThresholdVariance {
		t.Fatalf("threshold barely oscillates: [%f,%f]", lo, hi)
	}
}

func TestFeaturePointsStayNearBounds(t *testing.T) {
	g, ctx := newTestGrid(t, DefaultConfig(), constSource(0))
	for i := 0; i < 5000; i++ {
		g.Update(ctx)
	}
	slack := DefaultConfig().PointSpeed * 2
	limit := float64(g.Side()) + slack
	for _, p := range g.FeaturePoints() {
		for axis := 0; axis < 3; axis++ {
			if p.Pos[axis] < -slack || p.Pos[axis] > limit {
				t.Fatalf("feature point escaped: %v", p.Pos)
			}
		}
	}
}

func TestLifecycleExclusivityUnderFlicker(t *testing.T) {
	src, _ := noise.NewSource("simplex", 11)
	g, ctx := newTestGrid(t, DefaultConfig(), src)
	for i := 0; i < 400; i++ {
		ctx.Tick = uint64(i)
		ctx.NoiseOffset = ctx.NoiseOffset.Add(noise.DefaultConfig().OffsetStep())
		g.Update(ctx)
		g.AdvanceAnimations(0.08 * 12)
		checkExclusivity(t, g)
		g.Prune()
		for _, c := range g.Cells() {
			if fade, ok := c.FadeProgress(); ok && fade > 1 {
				t.Fatalf("stale fading cell survived prune")
			}
		}
	}
}

func TestGridConfigValidation(t *testing.T) {
	cases := map[string]func(*Config){
		"zero side":     func(c *Config) { c.CellsPerSide = 0 },
		"huge side":     func(c *Config) { c.CellsPerSide = MaxCellsPerSide + 1 },
		"no points":     func(c *Config) { c.PointsPerCube = 0 },
		"no variants":   func(c *Config) { c.AppearanceVariants = 0 },
		"negative vary": func(c *Config) { c.ThresholdVariance = -0.1 },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
	cfg := DefaultConfig()
	cfg.CellsPerSide = MaxCellsPerSide
	if err := cfg.Validate(); err != nil {
		t.Fatalf("side at the limit rejected: %v", err)
	}
}

func TestLookupOutsideGridPanics(t *testing.T) {
	g, _ := newTestGrid(t, DefaultConfig(), constSource(0))
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for out-of-range coordinate")
		}
	}()
	g.Lookup(6, 0, 0)
}
