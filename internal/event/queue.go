// Package event provides the input event queue that sits between the
// producer goroutines (platform input) and the sketch's tick goroutine.
package event

import (
	"sync"
	"sync/atomic"

	"github.com/dshills/sketchrun/internal/input"
)

// Handler processes one drained event.
type Handler func(ev input.Event)

// LoopState tells the queue whether a tick will drain it: a loop is
// running or a tick is already in progress.
type LoopState interface {
	IsLooping() bool
}

// Queue is an unbounded FIFO of input events.
//
// Enqueue is safe from any goroutine and never waits for a drain. Drain
// empties the queue through the handler; drains never overlap. Events
// enqueued while a drain is running are handled by that same drain.
//
// When the LoopState reports that no tick will drain the queue, Enqueue
// drains on the caller's goroutine.
type Queue struct {
	mu    sync.Mutex
	items []input.Event
	head  int

	drainMu sync.Mutex
	handler Handler
	loop    LoopState

	enqueued atomic.Uint64
	drained  atomic.Uint64
}

// NewQueue creates a queue. loop may be nil, meaning always looping.
func NewQueue(handler Handler, loop LoopState) *Queue {
	return &Queue{
		handler: handler,
		loop:    loop,
	}
}

// Enqueue appends ev. If no tick will drain it, it drains before returning.
func (q *Queue) Enqueue(ev input.Event) {
	q.mu.Lock()
	q.items = append(q.items, ev)
	q.mu.Unlock()
	q.enqueued.Add(1)

	q.settle()
}

// Drain handles every queued event in order and returns how many were
// handled. A concurrent Drain waits for this one to finish.
//
// Drain must not be called from inside the handler.
func (q *Queue) Drain() int {
	return q.drainExclusive() + q.settle()
}

// Flush drains on the caller's goroutine if no tick will drain the queue
// and no other drain is in progress. Unlike Drain it is safe to call from the handler.
func (q *Queue) Flush() int {
	return q.settle()
}

func (q *Queue) drainExclusive() int {
	q.drainMu.Lock()
	defer q.drainMu.Unlock()
	return q.drainLocked()
}

// settle drains on the caller's goroutine while no tick will drain and
// events remain. If another drain holds the lock it will see the events,
// either in its loop or in its own settle after unlocking.
func (q *Queue) settle() int {
	n := 0
	for !q.looping() && q.Len() > 0 {
		m, ok := q.tryDrain()
		if !ok {
			return n
		}
		n += m
	}
	return n
}

func (q *Queue) tryDrain() (int, bool) {
	if !q.drainMu.TryLock() {
		return 0, false
	}
	defer q.drainMu.Unlock()
	return q.drainLocked(), true
}

func (q *Queue) drainLocked() int {
	n := 0
	for {
		ev, ok := q.pop()
		if !ok {
			return n
		}
		q.handler(ev)
		q.drained.Add(1)
		n++
	}
}

func (q *Queue) pop() (input.Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head >= len(q.items) {
		return nil, false
	}
	ev := q.items[q.head]
	q.items[q.head] = nil
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return ev, true
}

func (q *Queue) looping() bool {
	return q.loop == nil || q.loop.IsLooping()
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Clear discards queued events without handling them.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
	q.head = 0
}

// Stats returns the number of events enqueued and handled so far.
func (q *Queue) Stats() (enqueued, drained uint64) {
	return q.enqueued.Load(), q.drained.Load()
}
