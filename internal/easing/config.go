package easing

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var registry = map[string]Func{
	"linear":      Linear,
	"in_cubic":    InCubic,
	"out_cubic":   OutCubic,
	"in_out_quad": InOutQuad,
	"in_quad":     InQuad,
	"out_quad":    OutQuad,
}

// Names returns the registered curve names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the curve registered under name.
func Lookup(name string) (Func, error) {
	fn, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return fn, nil
}

// Config names the curve used by each animated transition.
type Config struct {
	Appear     string `toml:"appear"`
	Fade       string `toml:"fade"`
	Background string `toml:"background"`
}

// DefaultConfig returns the reference curves.
func DefaultConfig() Config {
	return Config{
		Appear:     "out_cubic",
		Fade:       "in_cubic",
		Background: "in_out_quad",
	}
}

// Validate reports every unknown curve name.
func (c Config) Validate() error {
	_, err := c.Resolve()
	return err
}

// Resolve looks up every configured curve.
func (c Config) Resolve() (Curves, error) {
	var (
		out  Curves
		errs []error
	)
	for _, f := range []struct {
		key  string
		name string
		dst  *Func
	}{
		{"appear", c.Appear, &out.Appear},
		{"fade", c.Fade, &out.Fade},
		{"background", c.Background, &out.Background},
	} {
		fn, err := Lookup(f.name)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.key, err))
			continue
		}
		*f.dst = fn
	}
	if err := errors.Join(errs...); err != nil {
		return Curves{}, err
	}
	return out, nil
}

// Curves holds resolved curves. A nil curve means the default one.
type Curves struct {
	Appear     Func
	Fade       Func
	Background Func
}

// WithDefaults fills unset curves with the reference ones.
func (c Curves) WithDefaults() Curves {
	if c.Appear == nil {
		c.Appear = OutCubic
	}
	if c.Fade == nil {
		c.Fade = InCubic
	}
	if c.Background == nil {
		c.Background = InOutQuad
	}
	return c
}
