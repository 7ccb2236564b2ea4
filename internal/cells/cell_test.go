package cells

import (
	"math"
	"testing"

	"github.com/guidoenr/cellscape/internal/easing"
)

func TestPresentationFlipZ(t *testing.T) {
	start := PresentationFor(Cell{Phase: PhaseAppearing, Variant: VariantFlipZ, Progress: 0}, easing.Curves{})
	if start.RotationZ != math.Pi || start.RotationY != 0 || start.Scale != 0 {
		t.Fatalf("FlipZ at 0: %+v", start)
	}
	end := PresentationFor(Cell{Phase: PhaseAppearing, Variant: VariantFlipZ, Progress: 1}, easing.Curves{})
	if end.RotationZ != 0 || end.Scale != 1 {
		t.Fatalf("FlipZ at 1: %+v", end)
	}
}

func TestPresentationVariants(t *testing.T) {
	tests := []struct {
		name  string
		cell  Cell
		scale float64
		rotY  float64
		rotZ  float64
	}{
		{"scale-up half", Cell{Phase: PhaseAppearing, Variant: VariantScaleUp, Progress: 0.5}, 0.875, 0, 0},
		{"flip-y half", Cell{Phase: PhaseAppearing, Variant: VariantFlipY, Progress: 0.5}, 0.875, math.Pi / 2, 0},
		{"unknown variant", Cell{Phase: PhaseAppearing, Variant: Variant(7), Progress: 0.5}, 0.875, 0, 0},
		{"fading half", Cell{Phase: PhaseFading, Progress: 0.5}, 0.875, 0, 0},
		{"fading overshoot", Cell{Phase: PhaseFading, Progress: 1.3}, 0, 0, 0},
		{"settled", Cell{Phase: PhaseSettled, Variant: VariantFlipY}, 1, 0, 0},
	}
	for _, tc := range tests {
		got := PresentationFor(tc.cell, easing.Curves{})
		if math.Abs(got.Scale-tc.scale) > 1e-12 || math.Abs(got.RotationY-tc.rotY) > 1e-12 || math.Abs(got.RotationZ-tc.rotZ) > 1e-12 {
			t.Fatalf("%s: got %+v want scale=%f rotY=%f rotZ=%f", tc.name, got, tc.scale, tc.rotY, tc.rotZ)
		}
	}
}

func TestPresentationCustomCurves(t *testing.T) {
	curves := easing.Curves{Appear: easing.Linear, Fade: easing.Linear}
	if got := PresentationFor(Cell{Phase: PhaseAppearing, Progress: 0.5}, curves); got.Scale != 0.5 {
		t.Fatalf("linear appear scale=%f want 0.5", got.Scale)
	}
	if got := PresentationFor(Cell{Phase: PhaseFading, Progress: 0.25}, curves); got.Scale != 0.75 {
		t.Fatalf("linear fade scale=%f want 0.75", got.Scale)
	}
}

func TestPresentationUnknownPhasePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown phase")
		}
	}()
	PresentationFor(Cell{Phase: Phase(9)}, easing.Curves{})
}

func TestSizeModifier(t *testing.T) {
	if got := SizeModifier(Cell{Noise: 0.5}); math.Abs(got-1.0) > 1e-12 {
		t.Fatalf("SizeModifier=%f want=1", got)
	}
}
