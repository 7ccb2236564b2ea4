package palette

import (
	"errors"
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/guidoenr/cellscape/internal/cells"
	"github.com/guidoenr/cellscape/internal/easing"
	"github.com/guidoenr/cellscape/internal/noise"
	"github.com/guidoenr/cellscape/internal/scene"
)

// Config holds the colors of both scenes. Brightness values are HSB percentages.
type Config struct {
	CellBrightnessMin   float64  `toml:"cell_brightness_min"`
	CellBrightnessRange float64  `toml:"cell_brightness_range"`
	LightColors         []string `toml:"light_colors"`
	ColorNoiseScale     float64  `toml:"color_noise_scale"`
	CubeNoiseOffset     float64  `toml:"cube_noise_offset"`
	// ColorDrift is the color-noise advance per rendered frame.
	ColorDrift        float64 `toml:"color_drift"`
	NoiseLow          float64 `toml:"noise_low"`
	NoiseHigh         float64 `toml:"noise_high"`
	EdgeBrightness    float64 `toml:"edge_brightness"`
	ParticleGray      float64 `toml:"particle_gray"`
	OutlineBrightness float64 `toml:"outline_brightness"`
}

// DefaultConfig returns the reference colors.
func DefaultConfig() Config {
	return Config{
		CellBrightnessMin:   40,
		CellBrightnessRange: 30,
		LightColors:         []string{"#9FE4EE", "#9C9CD9", "#E7AAE9", "#FED59B"},
		ColorNoiseScale:     0.04,
		CubeNoiseOffset:     0.5,
		ColorDrift:          0.0005,
		NoiseLow:            0.25,
		NoiseHigh:           0.75,
		EdgeBrightness:      20,
		ParticleGray:        60,
		OutlineBrightness:   100,
	}
}

// Validate checks the hex colors and the noise window.
func (c Config) Validate() error {
	var errs []error
	if len(c.LightColors) == 0 {
		errs = append(errs, errors.New("light_colors must not be empty"))
	}
	for _, hex := range c.LightColors {
		if _, err := colorful.Hex(hex); err != nil {
			errs = append(errs, fmt.Errorf("light color %q: %w", hex, err))
		}
	}
	if c.NoiseHigh <= c.NoiseLow {
		errs = append(errs, fmt.Errorf("noise window [%g,%g] is empty", c.NoiseLow, c.NoiseHigh))
	}
	return errors.Join(errs...)
}

// Palette resolves the colors a renderer paints with.
type Palette struct {
	cfg    Config
	colors []colorful.Color
	src    noise.Source
}

// New parses the light-scene colors. src drives the color-noise lookup.
func New(cfg Config, src noise.Source) (*Palette, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, errors.New("palette needs a noise source")
	}
	p := &Palette{cfg: cfg, src: src, colors: make([]colorful.Color, len(cfg.LightColors))}
	for i, hex := range cfg.LightColors {
		p.colors[i], _ = colorful.Hex(hex)
	}
	return p, nil
}

// ColorIndex picks the light-scene color of a cell. Colors form slowly
// drifting blobs that are distinct per cube.
func (p *Palette) ColorIndex(c cells.Cell, cube int, frame uint64) int {
	s := p.cfg.ColorNoiseScale
	v := p.src.Noise3(
		float64(c.X)*s+float64(cube)*p.cfg.CubeNoiseOffset,
		float64(c.Y)*s,
		float64(c.Z)*s+float64(frame)*p.cfg.ColorDrift,
	)
	v = easing.Clamp01(easing.Map(v, p.cfg.NoiseLow, p.cfg.NoiseHigh, 0, 1))
	n := len(p.colors)
	idx := int(math.Floor(v * float64(n)))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// Cell returns the fill color of a cell: a noise-driven gray on a dark
// background, one of the light colors otherwise.
func (p *Palette) Cell(c cells.Cell, cube int, dark bool, frame uint64) colorful.Color {
	if dark {
		return gray(p.cfg.CellBrightnessMin + c.Noise*p.cfg.CellBrightnessRange)
	}
	return p.colors[p.ColorIndex(c, cube, frame)]
}

// Background returns the background gray for an HSB brightness in [0,100].
func (p *Palette) Background(brightness float64) colorful.Color {
	return gray(brightness)
}

// Edge returns the cube outline color at the given opacity.
func (p *Palette) Edge(opacity float64) colorful.Color {
	return gray(p.cfg.EdgeBrightness * opacity)
}

// Outline returns the color of cell borders drawn on a dark background.
func (p *Palette) Outline() colorful.Color {
	return gray(p.cfg.OutlineBrightness)
}

// Particle returns the particle gray seen over bg at an opacity percentage.
func (p *Palette) Particle(bg colorful.Color, opacity float64) colorful.Color {
	return bg.BlendRgb(gray(p.cfg.ParticleGray), easing.Clamp01(opacity/100))
}

// DirectionalLight returns the tint of the directional light.
func DirectionalLight(l scene.Lighting) colorful.Color {
	return colorful.Hsv(l.DirectionalHue, l.DirectionalSaturation/100, l.DirectionalBrightness/100)
}

// Shade lights base with the ambient term plus a Lambert term lambert in [0,1].
func Shade(base colorful.Color, l scene.Lighting, lambert float64) colorful.Color {
	dir := DirectionalLight(l)
	amb := l.Ambient / 100
	k := easing.Clamp01(lambert)
	return colorful.Color{
		R: base.R * (amb + dir.R*k),
		G: base.G * (amb + dir.G*k),
		B: base.B * (amb + dir.B*k),
	}.Clamped()
}

func gray(brightness float64) colorful.Color {
	return colorful.Hsv(0, 0, easing.Clamp01(brightness/100))
}
