package event

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dshills/sketchrun/internal/input"
)

type loopFlag struct{ v atomic.Bool }

func (l *loopFlag) IsLooping() bool { return l.v.Load() }

func key(r rune) input.KeyEvent {
	return input.KeyEvent{Action: input.KeyPress, Key: input.KeyRune, Rune: r}
}

func TestQueue_DrainPreservesOrder(t *testing.T) {
	var got []rune
	loop := &loopFlag{}
	loop.v.Store(true)
	q := NewQueue(func(ev input.Event) {
		got = append(got, ev.(input.KeyEvent).Rune)
	}, loop)

	for _, r := range "hello" {
		q.Enqueue(key(r))
	}
	if len(got) != 0 {
		t.Fatalf("events handled before Drain while looping: %q", string(got))
	}

	if n := q.Drain(); n != 5 {
		t.Errorf("Drain = %d, expected 5", n)
	}
	if string(got) != "hello" {
		t.Errorf("order = %q, expected hello", string(got))
	}
	if q.Len() != 0 {
		t.Errorf("Len after drain = %d", q.Len())
	}
}

func TestQueue_ImmediateDrainWhenNotLooping(t *testing.T) {
	var got []rune
	q := NewQueue(func(ev input.Event) {
		got = append(got, ev.(input.KeyEvent).Rune)
	}, &loopFlag{})

	q.Enqueue(key('a'))
	if string(got) != "a" {
		t.Fatalf("expected immediate handling, got %q", string(got))
	}
	q.Enqueue(key('b'))
	if string(got) != "ab" {
		t.Errorf("got %q, expected ab", string(got))
	}
}

func TestQueue_EnqueueFromHandler(t *testing.T) {
	var q *Queue
	var got []rune
	q = NewQueue(func(ev input.Event) {
		r := ev.(input.KeyEvent).Rune
		got = append(got, r)
		if r == 'a' {
			q.Enqueue(key('b'))
		}
	}, &loopFlag{})

	q.Enqueue(key('a'))

	if string(got) != "ab" {
		t.Errorf("got %q, expected ab", string(got))
	}
	if q.Len() != 0 {
		t.Errorf("Len = %d, expected 0", q.Len())
	}
}

func TestQueue_DrainsNeverOverlap(t *testing.T) {
	var active, overlaps atomic.Int32
	var handled atomic.Int64

	q := NewQueue(func(ev input.Event) {
		if active.Add(1) > 1 {
			overlaps.Add(1)
		}
		time.Sleep(10 * time.Microsecond)
		handled.Add(1)
		active.Add(-1)
	}, &loopFlag{})

	const producers, perProducer = 8, 200
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Enqueue(key('x'))
			}
		}()
	}
	wg.Wait()
	q.Drain()

	if overlaps.Load() != 0 {
		t.Errorf("observed %d overlapping handler calls", overlaps.Load())
	}
	if handled.Load() != producers*perProducer {
		t.Errorf("handled %d events, expected %d", handled.Load(), producers*perProducer)
	}
}

func TestQueue_PerProducerOrder(t *testing.T) {
	type tagged struct {
		producer int
		seq      int
	}

	loop := &loopFlag{}
	loop.v.Store(true)

	var got []tagged
	q := NewQueue(func(ev input.Event) {
		pe := ev.(input.PointerEvent)
		got = append(got, tagged{producer: pe.X, seq: pe.Y})
	}, loop)

	const producers, perProducer = 4, 100
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Enqueue(input.PointerEvent{Action: input.PointerMove, Position: input.Position{X: p, Y: i}})
			}
		}(p)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	// Drain concurrently with the producers, as the tick goroutine would.
	for {
		q.Drain()
		select {
		case <-done:
			q.Drain()
			last := map[int]int{}
			for _, g := range got {
				if prev, ok := last[g.producer]; ok && g.seq != prev+1 {
					t.Fatalf("producer %d: seq %d after %d", g.producer, g.seq, prev)
				}
				last[g.producer] = g.seq
			}
			if len(got) != producers*perProducer {
				t.Errorf("handled %d, expected %d", len(got), producers*perProducer)
			}
			return
		default:
		}
	}
}

func TestQueue_ClearAndStats(t *testing.T) {
	loop := &loopFlag{}
	loop.v.Store(true)
	q := NewQueue(func(input.Event) {}, loop)

	q.Enqueue(key('a'))
	q.Enqueue(key('b'))
	q.Clear()
	if q.Drain() != 0 {
		t.Error("expected nothing to drain after Clear")
	}
	q.Enqueue(key('c'))
	q.Drain()

	enq, drained := q.Stats()
	if enq != 3 || drained != 1 {
		t.Errorf("Stats = (%d, %d), expected (3, 1)", enq, drained)
	}
}

func TestQueue_FlushAfterLoopStops(t *testing.T) {
	var got []rune
	loop := &loopFlag{}
	loop.v.Store(true)
	q := NewQueue(func(ev input.Event) {
		got = append(got, ev.(input.KeyEvent).Rune)
	}, loop)

	q.Enqueue(key('x'))
	if q.Flush() != 0 {
		t.Fatal("Flush should not drain while looping")
	}

	loop.v.Store(false)
	if n := q.Flush(); n != 1 {
		t.Errorf("Flush = %d, expected 1", n)
	}
	if string(got) != "x" {
		t.Errorf("got %q, expected x", string(got))
	}
}

func TestQueue_PanickingHandlerReleasesDrain(t *testing.T) {
	loop := &loopFlag{}
	loop.v.Store(true)
	fail := true
	var handled int
	q := NewQueue(func(input.Event) {
		if fail {
			fail = false
			panic("handler failed")
		}
		handled++
	}, loop)

	q.Enqueue(key('a'))
	q.Enqueue(key('b'))
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected handler panic to propagate")
			}
		}()
		q.Drain()
	}()

	if n := q.Drain(); n != 1 {
		t.Errorf("Drain after panic = %d, expected 1", n)
	}
	if handled != 1 {
		t.Errorf("handled = %d, expected 1", handled)
	}
}
