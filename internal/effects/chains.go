package effects

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guidoenr/cellscape/internal/easing"
	"github.com/guidoenr/cellscape/internal/scene"
)

// ChainPoint is a point inside one cube, relative to the cube center.
type ChainPoint struct {
	Cube   int
	Offset mgl64.Vec3
}

// Chain is a curve visiting one point per cube, in cube order.
type Chain struct {
	Points []ChainPoint
}

// Segment is one cubic Bézier piece of a chain.
type Segment struct {
	From, Ctrl1, Ctrl2, To mgl64.Vec3
}

// At evaluates the segment at t in [0,1].
func (s Segment) At(t float64) mgl64.Vec3 {
	u := 1 - t
	return s.From.Mul(u * u * u).
		Add(s.Ctrl1.Mul(3 * u * u * t)).
		Add(s.Ctrl2.Mul(3 * u * t * t)).
		Add(s.To.Mul(t * t * t))
}

// Chains owns the curves threading the cube column.
type Chains struct {
	cfg    BezierConfig
	chains []Chain
}

// NewChains draws cfg.ChainCount chains with one point per cube, each within
// ±cubeSize/2 of the cube center.
func NewChains(cfg BezierConfig, cubes int, cubeSize float64, rng *rand.Rand) *Chains {
	h := cubeSize / 2
	cs := &Chains{cfg: cfg, chains: make([]Chain, cfg.ChainCount)}
	for i := range cs.chains {
		points := make([]ChainPoint, cubes)
		for c := range points {
			points[c] = ChainPoint{
				Cube:   c,
				Offset: mgl64.Vec3{uniform(rng, -h, h), uniform(rng, -h, h), uniform(rng, -h, h)},
			}
		}
		cs.chains[i] = Chain{Points: points}
	}
	return cs
}

// Len returns the number of chains.
func (cs *Chains) Len() int { return len(cs.chains) }

// Chain returns chain i.
func (cs *Chains) Chain(i int) Chain { return cs.chains[i] }

// Segments resolves chain i against the cube centers. Control points keep the
// horizontal position of their endpoint and sit a third of the vertical
// delta towards the other endpoint.
func (cs *Chains) Segments(i int, centers []mgl64.Vec3) []Segment {
	points := cs.chains[i].Points
	if len(points) < 2 {
		return nil
	}
	out := make([]Segment, 0, len(points)-1)
	for k := 0; k+1 < len(points); k++ {
		a := centers[points[k].Cube].Add(points[k].Offset)
		b := centers[points[k+1].Cube].Add(points[k+1].Offset)
		dy := (b.Y() - a.Y()) * 0.33
		out = append(out, Segment{
			From:  a,
			Ctrl1: mgl64.Vec3{a.X(), a.Y() + dy, a.Z()},
			Ctrl2: mgl64.Vec3{b.X(), b.Y() - dy, b.Z()},
			To:    b,
		})
	}
	return out
}

// Opacity returns the opacity of chain i in [0,1]. Chains fade in one after
// another from the dark threshold of rule on, and fade out in reverse order
// until its light threshold, so opacity follows the visibility of the chains.
func (cs *Chains) Opacity(i int, sc scene.Scene, progress float64, rule scene.Rule) float64 {
	n := float64(cs.cfg.ChainCount)
	window := 1 - cs.cfg.ChainDelay
	start, end := rule.Dark.Threshold, rule.Light.Threshold
	switch {
	case sc == scene.Dark && progress < 1:
		if start >= 1 {
			return 0
		}
		delay := float64(i) / n * cs.cfg.ChainDelay
		fade := (progress-start)/(1-start) - delay
		return easing.InOutQuad(easing.Clamp01(fade / window))
	case sc == scene.Light && progress < end:
		delay := float64(cs.cfg.ChainCount-1-i) / n * cs.cfg.ChainDelay
		fade := progress/end - delay
		return 1 - easing.InOutQuad(easing.Clamp01(fade/window))
	case sc == scene.Dark:
		return 1
	default:
		return 0
	}
}
