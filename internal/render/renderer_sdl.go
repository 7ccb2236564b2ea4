//go:build sdl

package render

import (
	"errors"

	"github.com/veandco/go-sdl2/sdl"
)

// sdlWindow shows the raster in a native window, one texel per raster cell.
// The window and its renderer are created on the first frame; the streaming
// texture is recreated whenever the raster size changes.
type sdlWindow struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	pixels   []byte
	w, h     int
	title    string
}

func (r *Renderer) initSDL(width, height int) error {
	if r.win != nil {
		return nil
	}
	if err := sdl.InitSubSystem(sdl.INIT_VIDEO); err != nil {
		return err
	}
	r.backend = BackendSDL
	r.useANSI = false
	r.pixelAspect = 1
	r.win = &sdlWindow{}
	return nil
}

// open creates whatever the window is still missing for a w×h raster.
func (s *sdlWindow) open(w, h int) error {
	if s.window == nil {
		win, err := sdl.CreateWindow("cellscape", sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
			int32(w), int32(h), sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
		if err != nil {
			return err
		}
		ren, err := sdl.CreateRenderer(win, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
		if err != nil {
			win.Destroy()
			return err
		}
		s.window, s.renderer = win, ren
	}
	if s.texture != nil && s.w == w && s.h == h {
		return nil
	}
	if s.texture != nil {
		s.texture.Destroy()
		s.texture = nil
	}
	tex, err := s.renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, int32(w), int32(h))
	if err != nil {
		return err
	}
	_ = s.renderer.SetLogicalSize(int32(w), int32(h))
	s.texture, s.w, s.h = tex, w, h
	s.pixels = make([]byte, w*h*4)
	return nil
}

// upload copies the raster colors into the pixel buffer as RGBA bytes.
func (s *sdlWindow) upload(raster *Raster) {
	i := 0
	for y := 0; y < raster.Height; y++ {
		for x := 0; x < raster.Width; x++ {
			rr, gg, bb := raster.At(x, y).Color.Clamped().RGB255()
			s.pixels[i], s.pixels[i+1], s.pixels[i+2], s.pixels[i+3] = rr, gg, bb, 0xff
			i += 4
		}
	}
}

// present shows the buffer, mirrors status in the title bar and drains the
// event queue. It returns ErrRendererQuit once the window asks to close.
func (s *sdlWindow) present(status string) error {
	if status != "" && status != s.title {
		s.window.SetTitle(status)
		s.title = status
	}
	if err := s.texture.Update(nil, s.pixels, s.w*4); err != nil {
		return err
	}
	if err := s.renderer.Clear(); err != nil {
		return err
	}
	if err := s.renderer.Copy(s.texture, nil, nil); err != nil {
		return err
	}
	s.renderer.Present()

	quit := false
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		quit = quit || closes(ev)
	}
	if quit {
		return ErrRendererQuit
	}
	return nil
}

func closes(ev sdl.Event) bool {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		return true
	case *sdl.KeyboardEvent:
		k := e.Keysym.Sym
		return e.Type == sdl.KEYDOWN && (k == sdl.K_ESCAPE || k == sdl.K_q)
	}
	return false
}

func (s *sdlWindow) close() {
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	*s = sdlWindow{}
}

func (r *Renderer) renderSDL(status string) Frame {
	if r.win == nil {
		return failedFrame(errors.New("SDL backend not initialized"))
	}
	if err := r.win.open(r.raster.Width, r.raster.Height); err != nil {
		return failedFrame(err)
	}
	r.win.upload(r.raster)
	return Frame{Status: status, Present: r.win.present}
}

func failedFrame(err error) Frame {
	return Frame{
		Status:  "SDL error: " + err.Error(),
		Present: func(string) error { return err },
	}
}

// resizeSDL is a no-op: open notices the new raster size on the next frame.
func (r *Renderer) resizeSDL() {}

func (r *Renderer) closeSDL() error {
	if r.win == nil {
		return nil
	}
	r.win.close()
	r.win = nil
	sdl.QuitSubSystem(sdl.INIT_VIDEO)
	return nil
}

func (r *Renderer) windowedSDL() bool { return r.win != nil }

// SupportsSDL reports whether the binary was built with the SDL backend.
func SupportsSDL() bool { return true }
