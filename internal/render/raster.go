package render

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Pixel is one character cell of the raster.
type Pixel struct {
	Glyph rune
	Color colorful.Color
}

// Raster is a depth-tested character framebuffer shared by every backend.
type Raster struct {
	Width      int
	Height     int
	Background colorful.Color
	Pixels     []Pixel
	depth      []float64
}

func newRaster(width, height int) *Raster {
	r := &Raster{}
	r.resize(width, height)
	return r
}

func (r *Raster) resize(width, height int) {
	r.Width = width
	r.Height = height
	r.Pixels = make([]Pixel, width*height)
	r.depth = make([]float64, width*height)
}

// clear fills the raster with the background and resets the depth buffer.
func (r *Raster) clear(bg colorful.Color) {
	r.Background = bg
	for i := range r.Pixels {
		r.Pixels[i] = Pixel{Glyph: ' ', Color: bg}
		r.depth[i] = math.Inf(1)
	}
}

// plot writes a pixel if it is in bounds and nearer than what is there.
func (r *Raster) plot(x, y int, depth float64, glyph rune, c colorful.Color) bool {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return false
	}
	i := y*r.Width + x
	if depth >= r.depth[i] {
		return false
	}
	r.depth[i] = depth
	r.Pixels[i] = Pixel{Glyph: glyph, Color: c}
	return true
}

// At returns the pixel at (x,y).
func (r *Raster) At(x, y int) Pixel {
	return r.Pixels[y*r.Width+x]
}
