package world

import (
	"errors"
	"fmt"
	"time"

	"github.com/guidoenr/cellscape/internal/camera"
	"github.com/guidoenr/cellscape/internal/cells"
	"github.com/guidoenr/cellscape/internal/easing"
	"github.com/guidoenr/cellscape/internal/effects"
	"github.com/guidoenr/cellscape/internal/noise"
	"github.com/guidoenr/cellscape/internal/scene"
)

// CubeConfig describes the column of cubes.
type CubeConfig struct {
	Count         int     `toml:"count"`
	Size          float64 `toml:"size"`
	MaxOffset     float64 `toml:"max_offset"`
	RotationRange float64 `toml:"rotation_range"`
}

// Config is everything the simulation needs.
type Config struct {
	Cubes CubeConfig `toml:"cubes"`
	// CellUpdateInterval throttles cell-grid updates in wall-clock time.
	CellUpdateInterval time.Duration `toml:"cell_update_interval"`
	// CellChangeRate is the cell animation speed in progress units per second.
	CellChangeRate float64 `toml:"cell_change_rate"`
	// Workers > 1 updates the grids of different cubes in parallel.
	Workers int `toml:"workers"`

	Grid    cells.Config   `toml:"grid"`
	Noise   noise.Config   `toml:"noise"`
	Scene   scene.Config   `toml:"scene"`
	Camera  camera.Config  `toml:"camera"`
	Effects effects.Config `toml:"effects"`
	Easing  easing.Config  `toml:"easing"`
}

// DefaultConfig returns the reference simulation.
func DefaultConfig() Config {
	return Config{
		Cubes: CubeConfig{
			Count:         10,
			Size:          60,
			MaxOffset:     30,
			RotationRange: 0.1,
		},
		CellUpdateInterval: 200 * time.Millisecond,
		CellChangeRate:     4.8,
		Workers:            1,
		Grid:               cells.DefaultConfig(),
		Noise:              noise.DefaultConfig(),
		Scene:              scene.DefaultConfig(),
		Camera:             camera.DefaultConfig(),
		Effects:            effects.DefaultConfig(),
		Easing:             easing.DefaultConfig(),
	}
}

// Validate checks every section and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	if c.Cubes.Count <= 0 {
		errs = append(errs, fmt.Errorf("cubes.count must be positive (got %d)", c.Cubes.Count))
	}
	if c.Cubes.Size <= 0 {
		errs = append(errs, fmt.Errorf("cubes.size must be positive (got %g)", c.Cubes.Size))
	}
	if c.Cubes.MaxOffset < 0 || c.Cubes.RotationRange < 0 {
		errs = append(errs, errors.New("cubes: offset and rotation ranges must not be negative"))
	}
	if c.CellUpdateInterval < 0 {
		errs = append(errs, fmt.Errorf("cell_update_interval must not be negative (got %s)", c.CellUpdateInterval))
	}
	if c.CellChangeRate <= 0 {
		errs = append(errs, fmt.Errorf("cell_change_rate must be positive (got %g)", c.CellChangeRate))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative (got %d)", c.Workers))
	}
	sections := []struct {
		name string
		err  error
	}{
		{"grid", c.Grid.Validate()},
		{"noise", c.Noise.Validate()},
		{"scene", c.Scene.Validate()},
		{"camera", c.Camera.Validate()},
		{"effects", c.Effects.Validate()},
		{"easing", c.Easing.Validate()},
	}
	for _, s := range sections {
		if s.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, s.err))
		}
	}
	return errors.Join(errs...)
}
