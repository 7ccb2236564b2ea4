package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guidoenr/cellscape/internal/easing"
)

// LightingConfig holds the fixed light levels and the warm tint reached in
// the light scene.
type LightingConfig struct {
	Ambient        float64    `toml:"ambient"`
	Directional    float64    `toml:"directional"`
	Direction      [3]float64 `toml:"direction"`
	WarmHue        float64    `toml:"warm_hue"`
	WarmSaturation float64    `toml:"warm_saturation"`
}

// DefaultLighting returns the reference light setup.
func DefaultLighting() LightingConfig {
	return LightingConfig{
		Ambient:        70,
		Directional:    20,
		Direction:      [3]float64{-1, 0.5, -1},
		WarmHue:        30,
		WarmSaturation: 10,
	}
}

// Lighting is an HSB-described ambient plus one directional light.
type Lighting struct {
	Ambient               float64
	DirectionalHue        float64
	DirectionalSaturation float64
	DirectionalBrightness float64
	Direction             mgl64.Vec3
}

func (c LightingConfig) at(scene Scene, eased float64) Lighting {
	l := Lighting{
		Ambient:               c.Ambient,
		DirectionalBrightness: c.Directional,
		Direction:             mgl64.Vec3{c.Direction[0], c.Direction[1], c.Direction[2]},
	}
	if scene == Dark {
		l.DirectionalHue = easing.Lerp(c.WarmHue, 0, eased)
		l.DirectionalSaturation = easing.Lerp(c.WarmSaturation, 0, eased)
	} else {
		l.DirectionalHue = easing.Lerp(0, c.WarmHue, eased)
		l.DirectionalSaturation = easing.Lerp(0, c.WarmSaturation, eased)
	}
	return l
}
