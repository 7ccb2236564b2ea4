package noise

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Config controls the combined Worley+Perlin field.
type Config struct {
	Backend         string  `toml:"backend"`
	Seed            int64   `toml:"seed"`
	Scale           float64 `toml:"scale"`
	WorleyInfluence float64 `toml:"worley_influence"`
	WorleyWeight    float64 `toml:"worley_weight"`
	PerlinWeight    float64 `toml:"perlin_weight"`
	EdgeFadeDist    float64 `toml:"edge_fade_dist"`
	// Offset drift per simulation tick; Y and Z are multiples of Speed.
	Speed  float64 `toml:"speed"`
	SpeedY float64 `toml:"speed_y"`
	SpeedZ float64 `toml:"speed_z"`
}

// DefaultConfig mirrors the reference animation at a 200ms update gate.
func DefaultConfig() Config {
	return Config{
		Backend:         DefaultSource,
		Scale:           0.3,
		WorleyInfluence: 0.4,
		WorleyWeight:    0.8,
		PerlinWeight:    0.2,
		EdgeFadeDist:    1.5,
		Speed:           0.18,
		SpeedY:          0.7,
		SpeedZ:          1.3,
	}
}

// Validate reports configuration values that would make the field degenerate.
func (c Config) Validate() error {
	var errs []error
	if c.WorleyInfluence <= 0 || math.IsNaN(c.WorleyInfluence) {
		errs = append(errs, fmt.Errorf("worley_influence must be positive (got %g)", c.WorleyInfluence))
	}
	if c.Scale < 0 {
		errs = append(errs, fmt.Errorf("scale must not be negative (got %g)", c.Scale))
	}
	if c.WorleyWeight < 0 || c.PerlinWeight < 0 {
		errs = append(errs, fmt.Errorf("field weights must not be negative (got %g/%g)", c.WorleyWeight, c.PerlinWeight))
	}
	if c.EdgeFadeDist < 0 {
		errs = append(errs, fmt.Errorf("edge_fade_dist must not be negative (got %g)", c.EdgeFadeDist))
	}
	if _, ok := sourceRegistry[normalizeName(c.Backend)]; !ok {
		errs = append(errs, fmt.Errorf("unknown noise backend %q", c.Backend))
	}
	return errors.Join(errs...)
}

// OffsetStep is the noise-time offset advance applied once per simulation tick.
func (c Config) OffsetStep() mgl64.Vec3 {
	return mgl64.Vec3{c.Speed, c.Speed * c.SpeedY, c.Speed * c.SpeedZ}
}

// Field samples the combined scalar field over a cube of side cellsPerSide.
// It holds no mutable state and is safe for concurrent use.
type Field struct {
	side         float64
	maxInfluence float64
	scale        float64
	worleyWeight float64
	perlinWeight float64
	edgeFadeDist float64
	src          Source
}

// NewField validates cfg and binds it to src.
func NewField(cellsPerSide int, cfg Config, src Source) (*Field, error) {
	if cellsPerSide <= 0 {
		return nil, fmt.Errorf("cells per side must be positive (got %d)", cellsPerSide)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, errors.New("noise source is nil")
	}
	side := float64(cellsPerSide)
	return &Field{
		side:         side,
		maxInfluence: side * cfg.WorleyInfluence,
		scale:        cfg.Scale,
		worleyWeight: cfg.WorleyWeight,
		perlinWeight: cfg.PerlinWeight,
		edgeFadeDist: cfg.EdgeFadeDist,
		src:          src,
	}, nil
}

// Sample evaluates the field at pos for the given feature points and offset.
func (f *Field) Sample(pos mgl64.Vec3, points []FeaturePoint, offset mgl64.Vec3) float64 {
	worley := f.worley(pos, points)

	perlin := f.src.Noise3(
		pos[0]*f.scale+offset[0],
		pos[1]*f.scale+offset[1],
		pos[2]*f.scale+offset[2],
	)

	combined := worley*f.worleyWeight + perlin*f.perlinWeight

	if f.edgeFadeDist > 0 {
		edge := f.edgeDistance(pos)
		if edge < f.edgeFadeDist {
			combined *= edge / f.edgeFadeDist
		}
	}
	return clamp01(combined)
}

func (f *Field) worley(pos mgl64.Vec3, points []FeaturePoint) float64 {
	if len(points) == 0 {
		return 0
	}
	minDist := math.Inf(1)
	for i := range points {
		if d := pos.Sub(points[i].Pos).Len(); d < minDist {
			minDist = d
		}
	}
	w := clamp01(1 - minDist/f.maxInfluence)
	return w * w
}

func (f *Field) edgeDistance(pos mgl64.Vec3) float64 {
	edge := math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		c := pos[axis]
		edge = math.Min(edge, math.Min(c, f.side-c))
	}
	if edge < 0 {
		return 0
	}
	return edge
}

func normalizeName(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return DefaultSource
	}
	return key
}
