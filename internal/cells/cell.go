package cells

import (
	"fmt"
	"math"

	"github.com/guidoenr/cellscape/internal/easing"
)

// Phase is the lifecycle stage of a cell. A cell that is fading carries no
// appearance progress, and an appearing cell carries no fade progress.
type Phase uint8

const (
	PhaseAppearing Phase = iota
	PhaseSettled
	PhaseFading
)

func (p Phase) String() string {
	switch p {
	case PhaseAppearing:
		return "appearing"
	case PhaseSettled:
		return "settled"
	case PhaseFading:
		return "fading"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Variant selects the appearance animation picked at each (re)activation.
type Variant uint8

const (
	VariantScaleUp Variant = iota
	VariantFlipZ
	VariantFlipY
)

func (v Variant) String() string {
	switch v {
	case VariantScaleUp:
		return "scale-up"
	case VariantFlipZ:
		return "flip-z"
	case VariantFlipY:
		return "flip-y"
	default:
		return fmt.Sprintf("variant(%d)", uint8(v))
	}
}

// Cell is one occupied coordinate of a grid.
type Cell struct {
	X, Y, Z int
	Phase   Phase
	// Progress is the appearance progress while appearing and the fade
	// progress while fading. It is meaningless once settled.
	Progress float64
	Noise    float64
	Variant  Variant
}

// Active reports whether the cell is appearing or settled.
func (c Cell) Active() bool {
	return c.Phase != PhaseFading
}

// AgeProgress returns the appearance progress; settled and fading cells report 1.
func (c Cell) AgeProgress() float64 {
	if c.Phase == PhaseAppearing {
		return c.Progress
	}
	return 1
}

// FadeProgress returns the fade progress and whether the cell is fading.
func (c Cell) FadeProgress() (float64, bool) {
	if c.Phase == PhaseFading {
		return c.Progress, true
	}
	return 0, false
}

// Presentation is the per-cell transform consumed by a renderer.
type Presentation struct {
	Scale     float64
	RotationY float64
	RotationZ float64
}

// PresentationFor derives scale and rotation from the cell's phase. Scale
// follows curves.Appear while appearing and curves.Fade while fading.
func PresentationFor(c Cell, curves easing.Curves) Presentation {
	curves = curves.WithDefaults()
	switch c.Phase {
	case PhaseFading:
		return Presentation{Scale: 1 - curves.Fade(math.Min(c.Progress, 1))}
	case PhaseAppearing:
		age := c.Progress
		out := Presentation{Scale: curves.Appear(age)}
		switch c.Variant {
		case VariantFlipZ:
			out.RotationZ = (1 - age) * math.Pi
		case VariantFlipY:
			out.RotationY = (1 - age) * math.Pi
		}
		return out
	case PhaseSettled:
		return Presentation{Scale: 1}
	default:
		panic(fmt.Sprintf("cells: cell (%d,%d,%d) in unknown %s", c.X, c.Y, c.Z, c.Phase))
	}
}

// SizeModifier scales a cell box by its noise value.
func SizeModifier(c Cell) float64 {
	return 0.8 + c.Noise*0.4
}
