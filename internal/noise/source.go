package noise

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Source is a deterministic smooth 3D noise function with output in [0,1].
type Source interface {
	Noise3(x, y, z float64) float64
}

type sourceFactory func(seed int64) Source

var sourceRegistry = map[string]sourceFactory{
	"perlin":  newPerlinSource,
	"simplex": newSimplexSource,
	"value":   newValueSource,
}

// DefaultSource is used when no backend is configured.
const DefaultSource = "perlin"

// SourceNames returns the available noise backends.
func SourceNames() []string {
	names := make([]string, 0, len(sourceRegistry))
	for name := range sourceRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewSource builds the named backend seeded with seed.
func NewSource(name string, seed int64) (Source, error) {
	factory, ok := sourceRegistry[normalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("unknown noise backend %q (want one of %s)", name, strings.Join(SourceNames(), ", "))
	}
	return factory(seed), nil
}

type perlinSource struct {
	p *perlin.Perlin
}

func newPerlinSource(seed int64) Source {
	return &perlinSource{p: perlin.NewPerlin(2, 2, 3, seed)}
}

func (s *perlinSource) Noise3(x, y, z float64) float64 {
	return clamp01((s.p.Noise3D(x, y, z) + 1) * 0.5)
}

type simplexSource struct {
	n opensimplex.Noise
}

func newSimplexSource(seed int64) Source {
	return &simplexSource{n: opensimplex.NewNormalized(seed)}
}

func (s *simplexSource) Noise3(x, y, z float64) float64 {
	return clamp01(s.n.Eval3(x, y, z))
}

// valueSource is hashed lattice noise summed over octaves.
type valueSource struct {
	shift float64
}

func newValueSource(seed int64) Source {
	return &valueSource{shift: float64(seed%10007) * 0.6180339887}
}

func (s *valueSource) Noise3(x, y, z float64) float64 {
	amp := 0.5
	freq := 1.0
	total := 0.0
	sumAmp := 0.0

	for i := 0; i < 4; i++ {
		total += s.lattice(x*freq, y*freq, z*freq) * amp
		sumAmp += amp
		amp *= 0.5
		freq *= 2.0
	}
	return clamp01(total / sumAmp)
}

func (s *valueSource) lattice(x, y, z float64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	z0 := math.Floor(z)

	sx := smoothstep(x - x0)
	sy := smoothstep(y - y0)
	sz := smoothstep(z - z0)

	n000 := s.hash(x0, y0, z0)
	n100 := s.hash(x0+1, y0, z0)
	n010 := s.hash(x0, y0+1, z0)
	n110 := s.hash(x0+1, y0+1, z0)
	n001 := s.hash(x0, y0, z0+1)
	n101 := s.hash(x0+1, y0, z0+1)
	n011 := s.hash(x0, y0+1, z0+1)
	n111 := s.hash(x0+1, y0+1, z0+1)

	ix00 := lerp(n000, n100, sx)
	ix10 := lerp(n010, n110, sx)
	ix01 := lerp(n001, n101, sx)
	ix11 := lerp(n011, n111, sx)

	iy0 := lerp(ix00, ix10, sy)
	iy1 := lerp(ix01, ix11, sy)

	return lerp(iy0, iy1, sz)
}

func (s *valueSource) hash(x, y, z float64) float64 {
	return frac(math.Sin(x*127.1+y*311.7+z*74.7+s.shift) * 43758.5453123)
}

func smoothstep(v float64) float64 {
	return v * v * (3 - 2*v)
}

func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

func frac(v float64) float64 {
	return v - math.Floor(v)
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
