package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/eiannone/keyboard"
	"golang.org/x/term"

	"github.com/guidoenr/cellscape/internal/noise"
	"github.com/guidoenr/cellscape/internal/palette"
	"github.com/guidoenr/cellscape/internal/params"
	"github.com/guidoenr/cellscape/internal/render"
	"github.com/guidoenr/cellscape/internal/stats"
	"github.com/guidoenr/cellscape/internal/world"
)

// Config configures the application runtime.
type Config struct {
	Params params.Config
	// Headless steps a synthetic clock as fast as possible and prints only
	// the final frame.
	Headless bool
	// Frames stops the run after this many frames; 0 runs until cancelled.
	Frames      int
	ProfilePath string
	Out         io.Writer
	Log         *log.Logger
}

type inputEvent int

const (
	inputEventQuit inputEvent = iota
)

// App ties together the simulation, the population analyzer and rendering.
type App struct {
	cfg          Config
	world        *world.World
	renderer     *render.Renderer
	analyzer     *stats.Analyzer
	clock        clock
	profiler     *profiler
	log          *log.Logger
	out          *bufio.Writer
	width        int
	height       int
	renderHeight int
	showStatus   bool
	inputEvents  chan inputEvent

	frames      int
	lastTick    uint64
	lastElapsed time.Duration
	fps         float64
	summary     stats.Summary
	lastFrame   render.Frame
}

// New constructs the application using the provided configuration.
func New(cfg Config) (*App, error) {
	if cfg.Log == nil {
		cfg.Log = log.New(os.Stdout, "", log.LstdFlags)
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	p := cfg.Params
	display := p.Display

	w, err := world.New(p.Config, p.Seed)
	if err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	colorSrc, err := noise.NewSource(p.Noise.Backend, int64(w.Context().Rand.Uint32())+1)
	if err != nil {
		return nil, err
	}
	pal, err := palette.New(p.Palette, colorSrc)
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}

	width, height := display.Width, display.Height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	renderHeight := height
	if display.Status && renderHeight > 1 {
		renderHeight--
	}

	renderer, err := render.New(render.Options{
		Width:   width,
		Height:  renderHeight,
		Glyphs:  display.Glyphs,
		Backend: display.Backend,
		Color:   display.Color,
	}, pal)
	if err != nil {
		return nil, err
	}

	side := p.Grid.CellsPerSide
	app := &App{
		cfg:      cfg,
		world:    w,
		renderer: renderer,
		analyzer: stats.New(stats.Config{
			Capacity:    p.Cubes.Count * side * side * side,
			HistorySize: 128,
		}),
		profiler:     newProfiler(cfg.ProfilePath, cfg.Log),
		log:          cfg.Log,
		out:          bufio.NewWriter(cfg.Out),
		width:        width,
		height:       height,
		renderHeight: renderHeight,
		showStatus:   display.Status,
	}
	if cfg.Headless {
		app.clock = newFakeClock(display.FPS)
		app.log.Printf("headless run at %.0f fps", display.FPS)
	} else {
		app.clock = newWallClock()
	}
	return app, nil
}

// Run starts the frame loop until context cancellation, the quit key or the
// frame limit.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.Headless {
		return a.runHeadless(ctx)
	}

	frameDuration := time.Duration(float64(time.Second) / a.cfg.Params.Display.FPS)
	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	terminal := !a.renderer.Windowed()
	if terminal {
		a.write(enterAltScreen + clearScreen + hideCursor)
		defer a.write(showCursor + exitAltScreen)

		inputCtx, cancelInput := context.WithCancel(ctx)
		defer cancelInput()
		a.startInputListener(inputCtx)
		a.ensureDimensions()
	}

	for {
		select {
		case <-ctx.Done():
			a.write(cursorHome)
			return ctx.Err()
		case evt, ok := <-a.inputEvents:
			if !ok {
				a.inputEvents = nil
				continue
			}
			if evt == inputEventQuit {
				a.write(cursorHome)
				return nil
			}
		case <-ticker.C:
			if terminal {
				a.ensureDimensions()
			}
			err := a.step()
			if errors.Is(err, render.ErrRendererQuit) {
				return nil
			}
			if err != nil {
				return err
			}
			if a.done() {
				return nil
			}
		}
	}
}

func (a *App) runHeadless(ctx context.Context) error {
	for !a.done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.advance()
		a.profiler.endFrame()
	}
	for _, line := range a.lastFrame.Lines {
		a.out.WriteString(line)
		a.out.WriteByte('\n')
	}
	if a.showStatus {
		a.out.WriteString(a.lastFrame.Status)
		a.out.WriteByte('\n')
	}
	return a.out.Flush()
}

// Close releases held resources.
func (a *App) Close() error {
	return errors.Join(a.renderer.Close(), a.profiler.Close())
}

// Frames returns the number of frames rendered so far.
func (a *App) Frames() int { return a.frames }

// Summary returns the latest population summary.
func (a *App) Summary() stats.Summary { return a.summary }

// World exposes the simulation.
func (a *App) World() *world.World { return a.world }

func (a *App) done() bool {
	return a.cfg.Frames > 0 && a.frames >= a.cfg.Frames
}

// advance steps the simulation and renders one frame without presenting it.
func (a *App) advance() render.Frame {
	a.profiler.beginFrame()

	elapsed := a.clock.Elapsed()
	snap := a.world.Step(elapsed)
	a.profiler.markSection("world")

	if delta := snap.Tick - a.lastTick; delta > 0 || a.frames == 0 {
		a.summary = a.analyzer.Analyze(snap.Population, float64(delta))
		a.lastTick = snap.Tick
	}
	a.profiler.markSection("stats")

	if dt := elapsed - a.lastElapsed; dt > 0 {
		instant := 1 / dt.Seconds()
		if a.fps == 0 {
			a.fps = instant
		} else {
			a.fps = a.fps*0.9 + instant*0.1
		}
	}
	a.lastElapsed = elapsed

	frame := a.renderer.Render(snap, a.summary, a.fps)
	a.profiler.markSection("render")

	a.frames++
	a.lastFrame = frame
	return frame
}

func (a *App) step() error {
	frame := a.advance()
	defer a.profiler.endFrame()

	if frame.Present != nil {
		err := frame.Present(frame.Status)
		a.profiler.markSection("present")
		return err
	}

	a.out.WriteString(cursorHome)
	for _, line := range frame.Lines {
		a.out.WriteString(line)
		a.out.WriteByte('\n')
	}
	if a.showStatus {
		a.out.WriteString(statusBar(frame.Status, a.width))
	}
	err := a.out.Flush()
	a.profiler.markSection("present")
	return err
}

func (a *App) ensureDimensions() {
	fd := int(os.Stdout.Fd())
	if fd < 0 || !term.IsTerminal(fd) {
		return
	}
	w, h, err := term.GetSize(fd)
	if err != nil || w <= 0 || h <= 0 {
		return
	}

	renderHeight := h
	if a.showStatus && renderHeight > 1 {
		renderHeight--
	}

	if w == a.width && h == a.height && renderHeight == a.renderHeight {
		return
	}

	a.width = w
	a.height = h
	a.renderHeight = renderHeight
	a.renderer.Resize(w, renderHeight)
	a.write(clearScreen)
}

func (a *App) startInputListener(ctx context.Context) {
	if err := keyboard.Open(); err != nil {
		a.log.Printf("keyboard input disabled: %v", err)
		a.inputEvents = nil
		return
	}

	events := make(chan inputEvent, 1)
	a.inputEvents = events

	closeOnce := &sync.Once{}
	go func() {
		<-ctx.Done()
		closeOnce.Do(func() {
			_ = keyboard.Close()
		})
	}()

	go func() {
		defer close(events)
		defer closeOnce.Do(func() {
			_ = keyboard.Close()
		})
		for {
			char, key, err := keyboard.GetKey()
			if err != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
			if isQuitKey(char, key) {
				events <- inputEventQuit
				return
			}
		}
	}()
}

func isQuitKey(char rune, key keyboard.Key) bool {
	return key == keyboard.KeyEsc || key == keyboard.KeyCtrlC || char == 'q' || char == 'Q'
}

func (a *App) write(s string) {
	a.out.WriteString(s)
	_ = a.out.Flush()
}

func statusBar(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) >= width {
		return string(runes[:width])
	}
	return text + strings.Repeat(" ", width-len(runes))
}

const (
	clearScreen    = "\x1b[2J\x1b[H"
	cursorHome     = "\x1b[H"
	hideCursor     = "\x1b[?25l"
	showCursor     = "\x1b[?25h"
	enterAltScreen = "\x1b[?1049h"
	exitAltScreen  = "\x1b[?1049l\x1b[0m"
)
