package scene

import (
	"errors"
	"fmt"
	"sort"
)

// Effect names an optional visual layer gated by the scene transition.
type Effect string

const (
	EffectGridDots  Effect = "grid_dots"
	EffectEdges     Effect = "edges"
	EffectBezier    Effect = "bezier_chains"
	EffectParticles Effect = "particles"
)

// Effects lists the layers known to the default policy.
var Effects = []Effect{EffectGridDots, EffectEdges, EffectBezier, EffectParticles}

// Comparison is the predicate operator applied to the transition progress.
type Comparison string

const (
	AtLeast Comparison = "at_least"
	Below   Comparison = "below"
)

// Predicate tests the transition progress against a fixed threshold.
type Predicate struct {
	Op        Comparison `toml:"op"`
	Threshold float64    `toml:"threshold"`
}

// Holds evaluates the predicate at progress.
func (p Predicate) Holds(progress float64) bool {
	switch p.Op {
	case AtLeast:
		return progress >= p.Threshold
	case Below:
		return progress < p.Threshold
	default:
		return false
	}
}

func (p Predicate) validate() error {
	if p.Op != AtLeast && p.Op != Below {
		return fmt.Errorf("unknown op %q (want %q or %q)", p.Op, AtLeast, Below)
	}
	if p.Threshold < 0 || p.Threshold > 1 {
		return fmt.Errorf("threshold %g outside [0,1]", p.Threshold)
	}
	return nil
}

// Rule holds the visibility predicate of one effect for each scene.
type Rule struct {
	Dark  Predicate `toml:"dark"`
	Light Predicate `toml:"light"`
}

// Policy is the crossfade choreography: which effect is visible at which
// point of each scene's transition.
type Policy map[Effect]Rule

// DefaultPolicy returns the reference choreography.
func DefaultPolicy() Policy {
	return Policy{
		EffectGridDots:  {Dark: Predicate{AtLeast, 0.8}, Light: Predicate{Below, 0.2}},
		EffectEdges:     {Dark: Predicate{Below, 0.5}, Light: Predicate{AtLeast, 0.5}},
		EffectBezier:    {Dark: Predicate{AtLeast, 0.3}, Light: Predicate{Below, 0.7}},
		EffectParticles: {Dark: Predicate{AtLeast, 0.8}, Light: Predicate{Below, 0.2}},
	}
}

// Visible reports whether effect shows in scene at progress. Unknown effects never show.
func (p Policy) Visible(effect Effect, scene Scene, progress float64) bool {
	rule, ok := p[effect]
	if !ok {
		return false
	}
	if scene == Dark {
		return rule.Dark.Holds(progress)
	}
	return rule.Light.Holds(progress)
}

// Validate checks every rule of the table.
func (p Policy) Validate() error {
	names := make([]string, 0, len(p))
	for effect := range p {
		names = append(names, string(effect))
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		rule := p[Effect(name)]
		if err := rule.Dark.validate(); err != nil {
			errs = append(errs, fmt.Errorf("effect %s dark: %w", name, err))
		}
		if err := rule.Light.validate(); err != nil {
			errs = append(errs, fmt.Errorf("effect %s light: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Clone returns an independent copy of the table.
func (p Policy) Clone() Policy {
	out := make(Policy, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
