package main

import (
	"fmt"

	"github.com/dshills/sketchrun/internal/config"
	"github.com/dshills/sketchrun/internal/input"
	"github.com/dshills/sketchrun/internal/sketch"
	"github.com/dshills/sketchrun/internal/surface"
)

const trailLength = 48

var (
	backdrop = surface.MustHex("#101820")
	ink      = surface.MustHex("#f2f2f2")
)

// demo draws a pointer trail and a marker bouncing off the canvas edges.
// Space toggles looping, r requests one frame while paused and c clears
// the trail.
type demo struct {
	sketch.Base

	cfg       config.Config
	maxFrames uint64

	trail  []input.Position
	x, y   int
	dx, dy int
	hue    float64
	status string
}

func newDemo(cfg config.Config, maxFrames uint64) *demo {
	return &demo{cfg: cfg, maxFrames: maxFrames, dx: 1, dy: 1}
}

func (d *demo) Settings(s *sketch.Sketch) {
	if d.cfg.Width > 0 && d.cfg.Height > 0 {
		s.Size(d.cfg.Width, d.cfg.Height)
	}
	if d.cfg.FullScreen {
		s.FullScreen()
	}
	s.Smooth(d.cfg.Smooth)
	s.PixelDensity(d.cfg.PixelDensity)
}

func (d *demo) Setup(s *sketch.Sketch) {
	w, h := s.Width(), s.Height()
	d.x, d.y = w/2, h/2
	s.Canvas().Background(backdrop)
	s.Logger().Info("demo canvas %dx%d", w, h)
}

func (d *demo) Draw(s *sketch.Sketch) {
	if d.maxFrames > 0 && s.FrameCount() >= d.maxFrames {
		s.Exit()
		return
	}

	c := s.Canvas()
	w, h := c.Size()
	c.Background(backdrop)

	for i, p := range d.trail {
		c.Set(p.X, p.Y, '•', surface.Hue(d.hue+float64(i)*360/trailLength))
	}

	d.step(w, h)
	c.Set(d.x, d.y, '●', surface.Hue(d.hue))
	d.hue += 2
	if d.hue >= 360 {
		d.hue -= 360
	}

	px, py := s.Pointer()
	c.Text(0, 0, fmt.Sprintf("%5.1f fps  frame %d  pointer %d,%d", s.FrameRate(), s.FrameCount(), px, py), ink)
	if d.status != "" {
		c.Text(0, h-1, d.status, ink)
	}
}

// step moves the marker one cell, reflecting at the edges.
func (d *demo) step(w, h int) {
	if w <= 1 || h <= 1 {
		return
	}
	if d.x+d.dx < 0 || d.x+d.dx >= w {
		d.dx = -d.dx
	}
	if d.y+d.dy < 0 || d.y+d.dy >= h {
		d.dy = -d.dy
	}
	d.x += d.dx
	d.y += d.dy
}

func (d *demo) push(p input.Position) {
	d.trail = append(d.trail, p)
	if len(d.trail) > trailLength {
		d.trail = d.trail[len(d.trail)-trailLength:]
	}
}

func (d *demo) PointerMoved(s *sketch.Sketch, ev input.PointerEvent) {
	d.push(ev.Position)
}

func (d *demo) PointerDragged(s *sketch.Sketch, ev input.PointerEvent) {
	d.push(ev.Position)
}

func (d *demo) PointerClicked(s *sketch.Sketch, ev input.PointerEvent) {
	d.x, d.y = ev.X, ev.Y
	d.status = fmt.Sprintf("%s click at %d,%d", ev.Button, ev.X, ev.Y)
}

func (d *demo) KeyTyped(s *sketch.Sketch, ev input.KeyEvent) {
	switch ev.Rune {
	case ' ':
		if s.Looping() {
			s.NoLoop()
			d.status = "paused (space to resume, r to step)"
		} else {
			s.Loop()
			d.status = ""
		}
	case 'r':
		s.Redraw()
	case 'c':
		d.trail = d.trail[:0]
	}
}
