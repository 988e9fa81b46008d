package main

import (
	"testing"

	"github.com/tidwall/gjson"

	"github.com/dshills/sketchrun/internal/config"
	"github.com/dshills/sketchrun/internal/input"
	"github.com/dshills/sketchrun/internal/sketch"
	"github.com/dshills/sketchrun/internal/surface"
)

func newDemoSketch(t *testing.T, maxFrames uint64) (*sketch.Sketch, *surface.Manual, *int) {
	t.Helper()
	cfg := config.Default()
	cfg.Width, cfg.Height = 40, 20

	code := -1
	m := surface.NewManual()
	s := sketch.New(newDemo(cfg, maxFrames), m, sketch.WithExitFunc(func(c int) { code = c }))
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	s.Tick()
	return s, m, &code
}

func TestDemoSettingsFromConfig(t *testing.T) {
	_, m, _ := newDemoSketch(t, 0)
	if m.Settings.Width != 40 || m.Settings.Height != 20 {
		t.Errorf("expected 40x20, got %dx%d", m.Settings.Width, m.Settings.Height)
	}
	if m.Settings.Smooth != 2 || m.Settings.PixelDensity != 1 {
		t.Errorf("unexpected settings %+v", m.Settings)
	}
}

func TestDemoDrawsTrail(t *testing.T) {
	s, m, _ := newDemoSketch(t, 0)

	s.Enqueue(input.PointerEvent{Action: input.PointerMove, Position: input.Position{X: 3, Y: 4}})
	s.Tick()
	s.Tick()

	if got := m.Renderer.Cell(3, 4); got != '•' {
		t.Errorf("expected trail at 3,4, got %q", got)
	}
	if got := m.Renderer.Cell(22, 12); got != '●' {
		t.Errorf("expected marker at 22,12, got %q", got)
	}
}

func TestDemoMarkerBounces(t *testing.T) {
	d := &demo{x: 9, y: 0, dx: 1, dy: -1}
	d.step(10, 5)
	if d.x != 8 || d.y != 1 || d.dx != -1 || d.dy != 1 {
		t.Errorf("unexpected position %d,%d dir %d,%d", d.x, d.y, d.dx, d.dy)
	}
}

func TestDemoTrailIsBounded(t *testing.T) {
	d := &demo{}
	for i := 0; i < trailLength*2; i++ {
		d.push(input.Position{X: i})
	}
	if len(d.trail) != trailLength || d.trail[0].X != trailLength {
		t.Errorf("trail len %d starts at %d", len(d.trail), d.trail[0].X)
	}
}

func TestDemoSpaceTogglesLooping(t *testing.T) {
	s, _, _ := newDemoSketch(t, 0)

	s.Enqueue(input.KeyEvent{Action: input.KeyType, Rune: ' '})
	s.Tick()
	if s.Looping() {
		t.Fatal("expected looping off after space")
	}

	s.Enqueue(input.KeyEvent{Action: input.KeyType, Rune: ' '})
	if !s.Looping() {
		t.Error("expected looping back on")
	}
}

func TestDemoExitsAfterFrames(t *testing.T) {
	s, _, code := newDemoSketch(t, 3)
	for i := 0; i < 3; i++ {
		s.Tick()
	}
	if s.State() != sketch.Disposed {
		t.Fatalf("expected disposed, got %s", s.State())
	}
	if *code != 0 {
		t.Errorf("expected exit code 0, got %d", *code)
	}
}

func TestStatsJSON(t *testing.T) {
	s, _, _ := newDemoSketch(t, 0)
	s.Enqueue(input.PointerEvent{Action: input.PointerMove, Position: input.Position{X: 1, Y: 1}})
	s.Tick()

	js, err := statsJSON(s, nil, 0)
	if err != nil {
		t.Fatalf("statsJSON failed: %v", err)
	}
	if !gjson.Valid(js) {
		t.Fatalf("invalid JSON: %s", js)
	}
	if got := gjson.Get(js, "tick.count").Int(); got != 2 {
		t.Errorf("expected 2 ticks, got %d", got)
	}
	if got := gjson.Get(js, "events.drained").Int(); got != 1 {
		t.Errorf("expected 1 event, got %d", got)
	}
	if got := gjson.Get(js, "run").String(); got != s.ID().String() {
		t.Errorf("expected run id %s, got %s", s.ID(), got)
	}
	if !gjson.Get(js, "plugins").IsArray() {
		t.Error("expected plugins array")
	}
}
