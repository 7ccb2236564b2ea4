package render

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/guidoenr/cellscape/internal/palette"
	"github.com/guidoenr/cellscape/internal/stats"
	"github.com/guidoenr/cellscape/internal/world"
)

// Backend selects where frames are presented.
type Backend string

const (
	BackendASCII Backend = "ascii"
	BackendSDL   Backend = "sdl"

	chainSamples = 24
)

// ErrRendererQuit is returned by Frame.Present when the user closed the output.
var ErrRendererQuit = errors.New("render: output closed")

// BackendNames returns the supported backends.
func BackendNames() []string {
	return []string{string(BackendASCII), string(BackendSDL)}
}

// Options configures a Renderer.
type Options struct {
	Width   int
	Height  int
	Glyphs  string
	Backend string
	Color   bool
}

// Renderer draws world snapshots into a character raster and presents it.
type Renderer struct {
	width         int
	height        int
	glyphs        []rune
	glyphName     string
	palette       *palette.Palette
	backend       Backend
	useANSI       bool
	pixelAspect   float64
	raster        *Raster
	statusBuilder strings.Builder
	win           *sdlWindow
}

// Frame contains the rendered ASCII lines and optional status text. Present
// is set by windowed backends.
type Frame struct {
	Lines   []string
	Status  string
	Present func(status string) error
}

var (
	resetANSI       = "\x1b[0m"
	precomputedANSI [256]string
	precomputedBG   [256]string
)

func init() {
	for i := range precomputedANSI {
		precomputedANSI[i] = "\x1b[38;5;" + strconv.Itoa(i) + "m"
		precomputedBG[i] = "\x1b[48;5;" + strconv.Itoa(i) + "m"
	}
}

// New creates a Renderer.
func New(opts Options, pal *palette.Palette) (*Renderer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid dimensions: width=%d height=%d", opts.Width, opts.Height)
	}
	if pal == nil {
		return nil, errors.New("renderer needs a palette")
	}
	if opts.Glyphs == "" {
		opts.Glyphs = "default"
	}

	r := &Renderer{
		width:       opts.Width,
		height:      opts.Height,
		glyphs:      Glyphs(opts.Glyphs),
		glyphName:   opts.Glyphs,
		palette:     pal,
		backend:     BackendASCII,
		useANSI:     opts.Color,
		pixelAspect: cellAspect,
	}
	switch Backend(strings.ToLower(opts.Backend)) {
	case "", BackendASCII:
	case BackendSDL:
		if err := r.initSDL(opts.Width, opts.Height); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown backend %q (want one of %s)", opts.Backend, strings.Join(BackendNames(), ", "))
	}
	r.raster = newRaster(r.width, r.height)
	return r, nil
}

// Resize updates the framebuffer dimensions.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 || (width == r.width && height == r.height) {
		return
	}
	r.width = width
	r.height = height
	r.raster.resize(width, height)
	r.resizeSDL()
}

// Windowed reports whether frames are presented in a window.
func (r *Renderer) Windowed() bool { return r.windowedSDL() }

// Raster returns the framebuffer of the last rendered frame.
func (r *Renderer) Raster() *Raster { return r.raster }

// Close releases backend resources.
func (r *Renderer) Close() error { return r.closeSDL() }

// Render draws a snapshot and serializes it for the active backend.
func (r *Renderer) Render(snap world.Snapshot, sum stats.Summary, fps float64) Frame {
	if r.width <= 0 || r.height <= 0 {
		return Frame{}
	}
	r.draw(snap)
	status := r.buildStatus(snap, sum, fps)
	if r.backend == BackendSDL {
		return r.renderSDL(status)
	}

	width := r.width
	height := r.height
	raster := r.raster
	useANSI := r.useANSI
	bgCode := precomputedBG[colorIndex(raster.Background)]
	lines := make([]string, height)

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > height {
		numWorkers = height
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	var wg sync.WaitGroup
	rowJobs := make(chan int, numWorkers)

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rowJobs {
				var builder strings.Builder
				builder.Grow(width * 8)
				if useANSI {
					builder.WriteString(bgCode)
				}
				lastColor := -1
				for x := 0; x < width; x++ {
					px := raster.At(x, y)
					if useANSI && px.Glyph != ' ' {
						if fg := colorIndex(px.Color); fg != lastColor {
							builder.WriteString(colorCode(fg))
							lastColor = fg
						}
					}
					builder.WriteRune(px.Glyph)
				}
				if useANSI {
					builder.WriteString(resetANSI)
				}
				lines[y] = builder.String()
			}
		}()
	}

	for y := 0; y < height; y++ {
		rowJobs <- y
	}
	close(rowJobs)
	wg.Wait()

	return Frame{Lines: lines, Status: status}
}

// draw rasterizes the snapshot: cube edges, cells, grid dots, chains and
// particles, depth tested against each other.
func (r *Renderer) draw(snap world.Snapshot) {
	pal := r.palette
	pr := newProjector(snap.Camera, r.width, r.height, r.pixelAspect)
	bg := pal.Background(snap.Background)
	r.raster.clear(bg)

	light := snap.Lighting.Direction
	if light.Len() > 0 {
		light = light.Normalize()
	}

	for ci, cv := range snap.Cubes {
		if snap.Visible.Edges {
			r.drawCubeEdges(pr, cv.Cube, pal.Edge(snap.EdgeOpacity))
		}
		for _, cell := range cv.Cells {
			base := pal.Cell(cell.Cell, ci, snap.DarkBackground, snap.Frame)
			toEye := snap.Camera.Eye.Sub(cell.Center)
			lambert := 0.0
			if toEye.Len() > 0 {
				lambert = -light.Dot(toEye.Normalize())
			}
			fill := palette.Shade(base, snap.Lighting, lambert)
			var stroke *colorful.Color
			if snap.DarkBackground {
				outline := pal.Outline()
				stroke = &outline
			}
			r.drawCell(pr, cell, fill, stroke)
		}
		for _, dot := range cv.Dots {
			r.drawPoint(pr, dot.Pos, bg.BlendRgb(pal.Outline(), dot.Scale))
		}
	}

	for _, chain := range snap.Chains {
		if chain.Opacity <= 0 {
			continue
		}
		c := bg.BlendRgb(pal.Outline(), chain.Opacity)
		for _, seg := range chain.Segments {
			for i := 0; i <= chainSamples; i++ {
				r.drawPoint(pr, seg.At(float64(i)/chainSamples), c)
			}
		}
	}

	for _, p := range snap.Particles {
		if p.Pattern.Lit() == 0 {
			continue
		}
		r.drawPoint(pr, p.Pos, pal.Particle(bg, p.Opacity))
	}
}

// drawCell fills the projected footprint of a cell box. Flips squash the box
// along the axis they rotate about.
func (r *Renderer) drawCell(pr projector, cell world.CellView, fill colorful.Color, stroke *colorful.Color) {
	if cell.Size <= 0 {
		return
	}
	cx, cy, depth, ok := pr.project(cell.Center)
	if !ok {
		return
	}
	hx, hy := pr.extent(cell.Size, depth)
	hx *= math.Abs(math.Cos(cell.Presentation.RotationY))
	hy *= math.Abs(math.Cos(cell.Presentation.RotationZ))

	x0, x1 := r.clampX(round(cx-hx)), r.clampX(round(cx+hx))
	y0, y1 := r.clampY(round(cy-hy)), r.clampY(round(cy+hy))
	glyph := r.glyphFor(fill)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c, g := fill, glyph
			if stroke != nil && (x == x0 || x == x1 || y == y0 || y == y1) {
				c, g = *stroke, r.glyphFor(*stroke)
			}
			r.raster.plot(x, y, depth, g, c)
		}
	}
}

func (r *Renderer) drawCubeEdges(pr projector, cube world.Cube, c colorful.Color) {
	side := cube.Size / cube.CellSize
	corner := func(i int) mgl64.Vec3 {
		return cube.Local(mgl64.Vec3{
			float64(i&1) * side,
			float64(i>>1&1) * side,
			float64(i>>2&1) * side,
		})
	}
	for i := 0; i < 8; i++ {
		for bit := 1; bit < 8; bit <<= 1 {
			if i&bit == 0 {
				r.drawLine(pr, corner(i), corner(i|bit), c)
			}
		}
	}
}

func (r *Renderer) drawLine(pr projector, a, b mgl64.Vec3, c colorful.Color) {
	ax, ay, ad, okA := pr.project(a)
	bx, by, bd, okB := pr.project(b)
	if !okA || !okB {
		return
	}
	steps := int(math.Ceil(math.Max(math.Abs(bx-ax), math.Abs(by-ay))))
	if limit := 2 * (r.width + r.height); steps > limit {
		steps = limit
	}
	if steps < 1 {
		steps = 1
	}
	glyph := r.glyphFor(c)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		r.raster.plot(
			round(ax+(bx-ax)*t),
			round(ay+(by-ay)*t),
			ad+(bd-ad)*t,
			glyph, c,
		)
	}
}

func (r *Renderer) drawPoint(pr projector, p mgl64.Vec3, c colorful.Color) {
	x, y, depth, ok := pr.project(p)
	if !ok {
		return
	}
	r.raster.plot(round(x), round(y), depth, r.glyphFor(c), c)
}

// glyphFor maps the lightness of c onto the glyph set. Drawn pixels never
// use the blank glyph.
func (r *Renderer) glyphFor(c colorful.Color) rune {
	l, _, _ := c.Lab()
	n := len(r.glyphs)
	if n < 2 {
		return r.glyphs[0]
	}
	idx := 1 + clampInt(int(l*float64(n-2)+0.5), 0, n-2)
	return r.glyphs[idx]
}

func (r *Renderer) clampX(x int) int { return clampInt(x, -1, r.width) }
func (r *Renderer) clampY(y int) int { return clampInt(y, -1, r.height) }

func colorIndex(c colorful.Color) int {
	c = c.Clamped()
	return rgbToANSI(c.R, c.G, c.B)
}

func colorCode(index int) string {
	if index < 0 {
		index = 0
	} else if index >= len(precomputedANSI) {
		index = len(precomputedANSI) - 1
	}
	return precomputedANSI[index]
}

func rgbToANSI(r, g, b float64) int {
	r = clamp01(r)
	g = clamp01(g)
	b = clamp01(b)

	// Grayscale ramp for neutral colors
	if math.Abs(r-g) < 0.02 && math.Abs(g-b) < 0.02 {
		gray := int(clampFloat(math.Round(r*23), 0, 23))
		return 232 + gray
	}

	ri := int(clampFloat(r*5+0.5, 0, 5))
	gi := int(clampFloat(g*5+0.5, 0, 5))
	bi := int(clampFloat(b*5+0.5, 0, 5))

	return 16 + 36*ri + 6*gi + bi
}

func clamp01(v float64) float64 {
	return clampFloat(v, 0, 1)
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func (r *Renderer) buildStatus(snap world.Snapshot, sum stats.Summary, fps float64) string {
	builder := &r.statusBuilder
	builder.Reset()
	builder.Grow(128)
	builder.WriteString(strings.ToUpper(snap.Scene.String()))
	builder.WriteByte(' ')
	appendFloat(builder, snap.Progress, 2)
	builder.WriteString(" | cam=")
	builder.WriteString(snap.CameraMode.String())
	builder.WriteString(" glyphs=")
	builder.WriteString(r.glyphName)
	builder.WriteString(" tick ")
	builder.WriteString(strconv.FormatUint(snap.Tick, 10))
	builder.WriteString(" | ")
	sum.AppendStatus(builder)
	builder.WriteString(" | fps ")
	appendFloat(builder, fps, 1)
	return builder.String()
}

func appendFloat(builder *strings.Builder, value float64, precision int) {
	var buf [32]byte
	b := strconv.AppendFloat(buf[:0], value, 'f', precision, 64)
	builder.Write(b)
}
