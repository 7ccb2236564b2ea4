package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/guidoenr/cellscape/internal/app"
	"github.com/guidoenr/cellscape/internal/noise"
	"github.com/guidoenr/cellscape/internal/params"
	"github.com/guidoenr/cellscape/internal/render"
)

func main() {
	var (
		configPath = flag.String("config", "", "Optional TOML configuration file")
		seed       = flag.Int64("seed", 0, "Random seed (0 picks a time-based seed)")
		cubes      = flag.Int("cubes", 10, "Number of stacked cubes")
		cellsSide  = flag.Int("cells", 6, "Cells per cube side")
		noiseName  = flag.String("noise", noise.DefaultSource, "Noise backend ("+strings.Join(noise.SourceNames(), "|")+")")
		workers    = flag.Int("workers", 1, "Goroutines updating cube grids")
		width      = flag.Int("width", 0, "Frame width (0 uses the terminal size)")
		height     = flag.Int("height", 0, "Frame height (0 uses the terminal size)")
		targetFPS  = flag.Float64("fps", 60, "Target frames per second")
		backend    = flag.String("backend", "ascii", "Output backend ("+strings.Join(render.BackendNames(), "|")+")")
		glyphs     = flag.String("glyphs", "default", "Glyph set ("+strings.Join(render.GlyphNames(), "|")+")")
		noColor    = flag.Bool("no-color", false, "Disable ANSI color output")
		showStatus = flag.Bool("status", true, "Display status bar")
		headless   = flag.Bool("headless", false, "Step a synthetic clock and print only the last frame")
		frames     = flag.Int("frames", 0, "Stop after this many frames (required with -headless)")
		profile    = flag.String("profile", "", "Append per-frame section timings to this CSV file")
		debug      = flag.Bool("debug", false, "Enable verbose logging")
	)

	flag.Parse()

	logger := log.New(os.Stdout, "[cellscape] ", log.LstdFlags)
	if !*debug {
		logger.SetOutput(os.Stderr)
		logger.SetFlags(0)
	}

	cfg := params.Defaults()
	if *configPath != "" {
		loaded, err := params.Load(*configPath)
		if err != nil {
			logger.Fatalf("%v", err)
		}
		cfg = loaded
	}

	// Flags given on the command line win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Seed = *seed
		case "cubes":
			cfg.Cubes.Count = *cubes
		case "cells":
			cfg.Grid.CellsPerSide = *cellsSide
		case "noise":
			cfg.Noise.Backend = *noiseName
		case "workers":
			cfg.Workers = *workers
		case "width":
			cfg.Display.Width = *width
		case "height":
			cfg.Display.Height = *height
		case "fps":
			cfg.Display.FPS = *targetFPS
		case "backend":
			cfg.Display.Backend = *backend
		case "glyphs":
			cfg.Display.Glyphs = *glyphs
		case "no-color":
			cfg.Display.Color = !*noColor
		case "status":
			cfg.Display.Status = *showStatus
		}
	})

	if *headless {
		if *frames <= 0 {
			logger.Fatalf("-headless needs a positive -frames (got %d)", *frames)
		}
		cfg.Display.Backend = string(render.BackendASCII)
	}

	if fd := int(os.Stdout.Fd()); !*headless && term.IsTerminal(fd) {
		if w, h, err := term.GetSize(fd); err == nil {
			if cfg.Display.Width <= 0 && w > 0 {
				cfg.Display.Width = w
			}
			if cfg.Display.Height <= 0 && h > 0 {
				cfg.Display.Height = h
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(app.Config{
		Params:      cfg,
		Headless:    *headless,
		Frames:      *frames,
		ProfilePath: *profile,
		Log:         logger,
	})
	if err != nil {
		logger.Fatalf("failed to create app: %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "cleanup error: %v\n", err)
		}
	}()

	if err := a.Run(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nExiting...")
			return
		}
		logger.Fatalf("runtime error: %v", err)
	}
}
