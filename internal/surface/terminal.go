package surface

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/sketchrun/internal/logging"
)

// Terminal is a surface backed by a tcell screen. The screen is the
// rendering context; a poller goroutine is the input producer.
type Terminal struct {
	*Ticker

	mu       sync.Mutex
	screen   tcell.Screen
	realized bool
	bg       tcell.Style
	logger   *logging.Logger

	tracker     pointerTracker
	disposeOnce sync.Once
	pollDone    chan struct{}
}

// NewTerminal creates a terminal surface on the process's terminal.
func NewTerminal(fps float64, logger *logging.Logger) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen, fps, logger), nil
}

// NewTerminalWithScreen creates a terminal surface on screen, which may be
// a tcell simulation screen.
func NewTerminalWithScreen(screen tcell.Screen, fps float64, logger *logging.Logger) *Terminal {
	if logger == nil {
		logger = logging.Null()
	}
	return &Terminal{
		Ticker:   NewTicker(fps, logger),
		screen:   screen,
		bg:       tcell.StyleDefault,
		logger:   logger.WithComponent("terminal"),
		pollDone: make(chan struct{}),
	}
}

// Realize implements Surface. Terminal cells are fixed size, so Smooth and
// PixelDensity are accepted and ignored; Width and Height of zero or
// FullScreen use the whole terminal.
func (t *Terminal) Realize(s Settings) (Renderer, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.realized {
		return t, nil
	}
	if err := t.screen.Init(); err != nil {
		return nil, err
	}
	t.screen.EnableMouse(tcell.MouseMotionEvents)
	t.screen.EnableFocus()
	t.screen.HideCursor()
	t.screen.Clear()
	t.realized = true

	w, h := t.screen.Size()
	t.logger.Debug("realized %dx%d (requested %dx%d fullscreen=%v)", w, h, s.Width, s.Height, s.FullScreen)
	return t, nil
}

// StartTicking implements Surface. It starts the input poller and the tick loop.
func (t *Terminal) StartTicking(target Target) error {
	t.mu.Lock()
	realized := t.realized
	t.mu.Unlock()
	if !realized {
		return ErrNotRealized
	}
	if err := t.Ticker.StartTicking(target); err != nil {
		return err
	}
	go t.poll(target)
	return nil
}

// poll converts screen events to canonical events until the screen is
// finalized, at which point PollEvent returns nil.
func (t *Terminal) poll(target Target) {
	defer close(t.pollDone)

	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		if resize, ok := ev.(*tcell.EventResize); ok {
			w, h := resize.Size()
			t.logger.Debug("resize %dx%d", w, h)
			t.mu.Lock()
			t.screen.Sync()
			t.mu.Unlock()
			continue
		}
		for _, ie := range t.tracker.convert(ev) {
			target.Enqueue(ie)
		}
	}
}

// DisposeRenderingContext implements Surface.
func (t *Terminal) DisposeRenderingContext() {
	t.StopTicking()
	t.Dispose()
}

// Size implements Canvas.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Size()
}

// Background implements Canvas.
func (t *Terminal) Background(c Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bg = tcell.StyleDefault.Background(toTcell(c))
	t.screen.SetStyle(t.bg)
	t.screen.Clear()
}

// Set implements Canvas.
func (t *Terminal) Set(x, y int, r rune, c Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.SetContent(x, y, r, nil, t.bg.Foreground(toTcell(c)))
}

// Text implements Canvas. Text advances by grapheme cluster width, so
// combining marks and wide characters occupy the right number of cells.
func (t *Terminal) Text(x, y int, s string, c Color) {
	t.mu.Lock()
	defer t.mu.Unlock()

	style := t.bg.Foreground(toTcell(c))
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		runes := g.Runes()
		t.screen.SetContent(x, y, runes[0], runes[1:], style)
		w := g.Width()
		if w < 1 {
			w = 1
		}
		x += w
	}
}

// BeginFrame implements Renderer.
func (t *Terminal) BeginFrame() {}

// EndFrame implements Renderer.
func (t *Terminal) EndFrame() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.realized {
		t.screen.Show()
	}
}

// Dispose implements Renderer.
func (t *Terminal) Dispose() {
	t.disposeOnce.Do(func() {
		t.mu.Lock()
		realized := t.realized
		t.realized = false
		t.mu.Unlock()
		if realized {
			t.screen.Fini()
		}
	})
}

func toTcell(c Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
