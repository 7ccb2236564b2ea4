package params

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/guidoenr/cellscape/internal/palette"
	"github.com/guidoenr/cellscape/internal/world"
)

// Display controls the preview front-end.
type Display struct {
	Backend string  `toml:"backend"`
	Glyphs  string  `toml:"glyphs"`
	Width   int     `toml:"width"`
	Height  int     `toml:"height"`
	FPS     float64 `toml:"fps"`
	Color   bool    `toml:"color"`
	Status  bool    `toml:"status"`
}

// Config is the complete configuration. The simulation sections sit at the
// top level of the TOML file.
type Config struct {
	Seed int64 `toml:"seed"`
	world.Config
	Palette palette.Config `toml:"palette"`
	Display Display        `toml:"display"`
}

// Defaults returns the reference configuration.
func Defaults() Config {
	return Config{
		Config:  world.DefaultConfig(),
		Palette: palette.DefaultConfig(),
		Display: Display{
			Backend: "ascii",
			Glyphs:  "default",
			FPS:     60,
			Color:   true,
			Status:  true,
		},
	}
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if err := c.Config.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Palette.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("palette: %w", err))
	}
	if c.Display.FPS <= 0 {
		errs = append(errs, fmt.Errorf("display.fps must be positive (got %g)", c.Display.FPS))
	}
	if c.Display.Width < 0 || c.Display.Height < 0 {
		errs = append(errs, fmt.Errorf("display size %dx%d must not be negative", c.Display.Width, c.Display.Height))
	}
	return errors.Join(errs...)
}

// Load decodes the TOML file at path on top of Defaults and validates the
// result. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Defaults()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("load config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
