package main

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/chzchzchz/iqfall/radio"
	"github.com/chzchzchz/iqfall/waterfall"
)

type frameImage struct {
	pix  []byte
	w, h int
}

// fftWindow is the display collaborator: it colorizes frames on the
// pipeline goroutine and blits them on the SDL thread.
type fftWindow struct {
	win *sdl.Window
	r   *sdl.Renderer
	tex *sdl.Texture
	w   int
	h   int

	framec chan frameImage
	pause  bool
}

func newFFTWindow(cfg waterfall.Config, height int) (fw *fftWindow, err error) {
	if height <= 0 {
		height = 650
	}
	winFlags := uint32(sdl.WINDOW_SHOWN | sdl.WINDOW_RESIZABLE | sdl.WINDOW_OPENGL)
	win, err := sdl.CreateWindow(
		bandTitle(cfg.Band()),
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		1200,
		int32(height),
		winFlags)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			win.Destroy()
		}
	}()

	// Disable letterboxing.
	sdl.SetHint(sdl.HINT_RENDER_LOGICAL_SIZE_MODE, "1")

	r, err := sdl.CreateRenderer(win, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_TARGETTEXTURE)
	if err != nil {
		return nil, err
	}
	if err := r.SetLogicalSize(int32(cfg.FFTSize), int32(cfg.Rows)); err != nil {
		return nil, err
	}
	if err := r.SetIntegerScale(false); err != nil {
		return nil, err
	}

	return &fftWindow{
		win:    win,
		r:      r,
		framec: make(chan frameImage, 2),
	}, nil
}

func bandTitle(b radio.HzBand) string {
	mhz := b.ToMHz()
	return fmt.Sprintf("iqfall @ [%0.5g,%0.5g]MHz", mhz.BeginMHz(), mhz.EndMHz())
}

func (fw *fftWindow) Destroy() {
	if fw.tex != nil {
		fw.tex.Destroy()
	}
	fw.r.Destroy()
	fw.win.Destroy()
}

// Render runs on the pipeline goroutine; frames are dropped rather than
// stalling a tick when the UI falls behind.
func (fw *fftWindow) Render(f waterfall.Frame) {
	rows := len(f.Matrix)
	if rows == 0 {
		return
	}
	cols := len(f.Matrix[0])
	span := f.Ceiling - f.Floor
	if span <= 0 {
		span = 1
	}
	pix := make([]byte, rows*cols*4)
	for y, row := range f.Matrix {
		off := y * cols * 4
		for _, v := range row {
			t := (v - f.Floor) / span
			t *= t
			c := binColor(t)
			pix[off] = c.R
			pix[off+1] = c.G
			pix[off+2] = c.B
			pix[off+3] = 0xff
			off += 4
		}
	}
	select {
	case fw.framec <- frameImage{pix: pix, w: cols, h: rows}:
	default:
	}
}

// loop runs on the SDL thread until quit.
func (fw *fftWindow) loop(ctrl *waterfall.Controller, rec *recordingSource) {
	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			if !fw.handleEvent(event, ctrl, rec) {
				return
			}
		}
		select {
		case fi := <-fw.framec:
			if !fw.pause {
				fw.draw(fi)
			}
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func (fw *fftWindow) draw(fi frameImage) {
	if fw.tex == nil || fw.w != fi.w || fw.h != fi.h {
		if fw.tex != nil {
			fw.tex.Destroy()
		}
		tex, err := fw.r.CreateTexture(
			sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, int32(fi.w), int32(fi.h))
		if err != nil {
			panic(err)
		}
		fw.tex, fw.w, fw.h = tex, fi.w, fi.h
		fw.r.SetLogicalSize(int32(fi.w), int32(fi.h))
	}
	if err := fw.tex.Update(nil, fi.pix, fi.w*4); err != nil {
		panic(err)
	}
	fw.r.Copy(fw.tex, nil, nil)
	fw.r.Present()
}

func nextGain(g radio.Gain) radio.Gain {
	if g.IsAuto() {
		return radio.FixedGain(20)
	}
	switch db, _ := g.DB(); {
	case db < 30:
		return radio.FixedGain(30)
	case db < 40:
		return radio.FixedGain(40)
	}
	return radio.AutoGain()
}

func nextFFTSize(n int, up bool) int {
	if up {
		return n * 2
	}
	return n / 2
}

func (fw *fftWindow) handleEvent(event sdl.Event, ctrl *waterfall.Controller, rec *recordingSource) bool {
	switch ev := event.(type) {
	case *sdl.QuitEvent:
		return false
	case *sdl.KeyboardEvent:
		if ev.Type != sdl.KEYDOWN {
			break
		}
		cfg, retune := ctrl.Config(), false
		switch ev.Keysym.Sym {
		case sdl.K_ESCAPE, sdl.K_q:
			return false
		case sdl.K_SPACE:
			fw.pause = !fw.pause
		case sdl.K_LEFT:
			cfg.CenterHz -= cfg.SampleRateHz / 4
			retune = true
		case sdl.K_RIGHT:
			cfg.CenterHz += cfg.SampleRateHz / 4
			retune = true
		case sdl.K_UP:
			cfg.CenterHz += cfg.SampleRateHz
			retune = true
		case sdl.K_DOWN:
			cfg.CenterHz -= cfg.SampleRateHz
			retune = true
		case sdl.K_LEFTBRACKET:
			cfg.FFTSize = nextFFTSize(cfg.FFTSize, false)
			retune = true
		case sdl.K_RIGHTBRACKET:
			cfg.FFTSize = nextFFTSize(cfg.FFTSize, true)
			retune = true
		case sdl.K_MINUS:
			cfg.FrameRateHz -= 5
			retune = true
		case sdl.K_EQUALS:
			cfg.FrameRateHz += 5
			retune = true
		case sdl.K_g:
			cfg.Gain = nextGain(cfg.Gain)
			retune = true
		case sdl.K_w:
			rec.toggle(cfg.Band())
		}
		if retune {
			// Out-of-range fields fall back to the current settings.
			ctrl.ApplySettings(cfg)
			fw.win.SetTitle(bandTitle(ctrl.Config().Band()))
		}
	}
	return true
}
