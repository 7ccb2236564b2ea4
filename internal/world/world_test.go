package world

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

const frame = 16 * time.Millisecond

func newWorld(t *testing.T, cfg Config) *World {
	t.Helper()
	w, err := New(cfg, 42)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}

func TestCellUpdatesAreThrottled(t *testing.T) {
	w := newWorld(t, DefaultConfig())
	steps := []struct {
		at   time.Duration
		tick uint64
	}{
		{100 * time.Millisecond, 0},
		{200 * time.Millisecond, 0},
		{201 * time.Millisecond, 1},
		{300 * time.Millisecond, 1},
		{402 * time.Millisecond, 2},
	}
	for _, s := range steps {
		w.Step(s.at)
		if got := w.Context().Tick; got != s.tick {
			t.Fatalf("at %s tick=%d want %d", s.at, got, s.tick)
		}
	}
	if w.Context().Frame != uint64(len(steps)) {
		t.Fatalf("frame=%d want %d", w.Context().Frame, len(steps))
	}
	want := DefaultConfig().Noise.OffsetStep().Mul(2)
	if !w.Context().NoiseOffset.ApproxEqual(want) {
		t.Fatalf("noise offset %v want %v", w.Context().NoiseOffset, want)
	}
}

func TestSnapshotTakenBeforePrune(t *testing.T) {
	w := newWorld(t, DefaultConfig())
	sawOvershoot := false
	for elapsed := time.Duration(0); elapsed < 20*time.Second; elapsed += frame {
		snap := w.Step(elapsed)
		for _, cube := range snap.Cubes {
			for _, cv := range cube.Cells {
				if fade, ok := cv.Cell.FadeProgress(); ok && fade > 1 {
					sawOvershoot = true
					if cv.Presentation.Scale != 0 {
						t.Fatalf("completed fade still has scale %f", cv.Presentation.Scale)
					}
				}
			}
		}
		for i := range w.Cubes() {
			for _, c := range w.Grid(i).Cells() {
				if fade, ok := c.FadeProgress(); ok && fade > 1 {
					t.Fatalf("completed fade survived the step")
				}
			}
		}
		if snap.Population.Total() < w.Population().Total() {
			t.Fatalf("snapshot population below post-prune population")
		}
	}
	if !sawOvershoot {
		t.Fatalf("no fade completed in 20s of simulation")
	}
}

func TestDeterministicForSeed(t *testing.T) {
	a := newWorld(t, DefaultConfig())
	b := newWorld(t, DefaultConfig())
	for elapsed := time.Duration(0); elapsed < 5*time.Second; elapsed += frame {
		sa, sb := a.Step(elapsed), b.Step(elapsed)
		if sa.Population != sb.Population {
			t.Fatalf("populations diverged at %s: %+v vs %+v", elapsed, sa.Population, sb.Population)
		}
	}
}

func TestParallelWorkersMatchSerial(t *testing.T) {
	serial := newWorld(t, DefaultConfig())
	cfg := DefaultConfig()
	cfg.Workers = 4
	parallel := newWorld(t, cfg)
	for elapsed := time.Duration(0); elapsed < 5*time.Second; elapsed += frame {
		serial.Step(elapsed)
		parallel.Step(elapsed)
	}
	for i := range serial.Cubes() {
		sc, pc := serial.Grid(i).Cells(), parallel.Grid(i).Cells()
		if len(sc) != len(pc) {
			t.Fatalf("cube %d: %d cells serial vs %d parallel", i, len(sc), len(pc))
		}
		for k := range sc {
			if sc[k] != pc[k] {
				t.Fatalf("cube %d cell %d differs: %+v vs %+v", i, k, sc[k], pc[k])
			}
		}
	}
}

func TestPatternsMutateOnlyInSettledDark(t *testing.T) {
	w := newWorld(t, DefaultConfig())
	for elapsed := time.Duration(0); elapsed < 900*time.Millisecond; elapsed += frame {
		w.Step(elapsed)
	}
	if n := w.PatternMutations(); n != 0 {
		t.Fatalf("patterns mutated during the dark transition: %d", n)
	}
	for elapsed := time.Second; elapsed < 2*time.Second; elapsed += frame {
		w.Step(elapsed)
	}
	if w.PatternMutations() == 0 {
		t.Fatalf("patterns never mutated in the settled dark scene")
	}
}

func TestCubePlacement(t *testing.T) {
	w := newWorld(t, DefaultConfig())
	cfg := DefaultConfig().Cubes
	for i, c := range w.Cubes() {
		wantY := -float64(cfg.Count-1)*cfg.Size/2 + float64(i)*cfg.Size
		if c.Position.Y() != wantY {
			t.Fatalf("cube %d y=%f want %f", i, c.Position.Y(), wantY)
		}
		if math.Abs(c.Position.X()) > cfg.MaxOffset || math.Abs(c.Position.Z()) > cfg.MaxOffset {
			t.Fatalf("cube %d jitter out of range: %v", i, c.Position)
		}
		if math.Abs(c.Rotation.X()) > cfg.RotationRange || math.Abs(c.Rotation.Z()) > cfg.RotationRange {
			t.Fatalf("cube %d tilt out of range: %v", i, c.Rotation)
		}
		center := c.Local(mgl64.Vec3{3, 3, 3})
		if !center.ApproxEqualThreshold(c.Position, 1e-9) {
			t.Fatalf("cube %d lattice center %v is not the cube position %v", i, center, c.Position)
		}
		if c.CellSize != 10 {
			t.Fatalf("cell size %f", c.CellSize)
		}
	}
}

func TestSnapshotEffects(t *testing.T) {
	w := newWorld(t, DefaultConfig())
	snap := w.Step(0)
	if !snap.Visible.Edges || snap.Visible.GridDots || snap.Visible.Bezier || snap.Visible.Particles {
		t.Fatalf("dark p=0 visibility %+v", snap.Visible)
	}
	if snap.EdgeOpacity != 1 || snap.Background != 95 {
		t.Fatalf("dark p=0 edge=%f bg=%f", snap.EdgeOpacity, snap.Background)
	}

	snap = w.Step(1500 * time.Millisecond)
	if snap.Visible.Edges || !snap.Visible.GridDots || !snap.Visible.Bezier || !snap.Visible.Particles {
		t.Fatalf("dark p=1 visibility %+v", snap.Visible)
	}
	if len(snap.Chains) != 16 || len(snap.Chains[0].Segments) != 9 {
		t.Fatalf("chains=%d", len(snap.Chains))
	}
	if len(snap.Particles) != 400 {
		t.Fatalf("particles=%d", len(snap.Particles))
	}
	for _, cube := range snap.Cubes {
		for _, d := range cube.Dots {
			if d.Scale <= 0 || d.Scale > 1 {
				t.Fatalf("dot scale %f", d.Scale)
			}
		}
	}
}

func TestInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cubes.Count = 0
	cfg.Grid.CellsPerSide = 0
	cfg.Noise.WorleyInfluence = 0
	if _, err := New(cfg, 1); err == nil {
		t.Fatalf("expected error")
	}
	cfg = DefaultConfig()
	cfg.Noise.Backend = "mystery"
	if _, err := New(cfg, 1); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestPhaseInterpolatesBetweenTicks(t *testing.T) {
	w := newWorld(t, DefaultConfig())
	steps := []struct {
		at    time.Duration
		phase float64
	}{
		{100 * time.Millisecond, 0.5},
		{201 * time.Millisecond, 0},
		{251 * time.Millisecond, 0.25},
	}
	for _, s := range steps {
		w.Step(s.at)
		if got := w.Context().Phase; math.Abs(got-s.phase) > 1e-9 {
			t.Fatalf("at %s phase=%f want %f", s.at, got, s.phase)
		}
	}
}

func TestEasingOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Easing.Background = "linear"
	snap := newWorld(t, cfg).Step(250 * time.Millisecond)
	if math.Abs(snap.Background-73.75) > 1e-9 {
		t.Fatalf("linear background=%f want 73.75", snap.Background)
	}
	ref := newWorld(t, DefaultConfig()).Step(250 * time.Millisecond)
	if math.Abs(ref.Background-84.375) > 1e-9 {
		t.Fatalf("default background=%f want 84.375", ref.Background)
	}

	cfg.Easing.Fade = "elastic"
	if _, err := New(cfg, 1); err == nil {
		t.Fatalf("expected error for unknown easing")
	}
}
