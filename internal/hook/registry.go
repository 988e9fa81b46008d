package hook

import (
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/dshills/sketchrun/internal/logging"
)

// Lifecycle event names.
const (
	EventPre     = "pre"
	EventDraw    = "draw"
	EventPost    = "post"
	EventPause   = "pause"
	EventResume  = "resume"
	EventDispose = "dispose"

	// EventPointer callables take input.PointerEvent.
	EventPointer = "pointerEvent"
	// EventKey callables take input.KeyEvent.
	EventKey = "keyEvent"
)

// entry is one registration.
type entry struct {
	receiver any
	name     string
	method   string
	fn       Func
}

// Registry maps event names to ordered lists of callables.
// It is safe for concurrent use, and callables may register or unregister
// (themselves or others) while a notification is running; such changes take
// effect from the next Notify.
type Registry struct {
	mu     sync.RWMutex
	table  map[string][]entry
	logger *logging.Logger

	failures atomic.Uint64
}

// NewRegistry creates an empty registry. A nil logger discards output.
func NewRegistry(logger *logging.Logger) *Registry {
	if logger == nil {
		logger = logging.Null()
	}
	return &Registry{
		table:  make(map[string][]entry),
		logger: logger.WithComponent("hook"),
	}
}

// Register resolves method on receiver and appends it to event's list.
func (r *Registry) Register(event string, receiver any, method string) error {
	if !validIdentity(receiver) {
		return &RegistrationError{Event: event, Receiver: "<invalid>", Method: method, Err: ErrBadReceiver}
	}
	name := receiverName(receiver)

	fn, err := resolve(receiver, method, PayloadFor(event))
	if err != nil {
		return &RegistrationError{Event: event, Receiver: name, Method: method, Err: err}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.table[event] {
		if e.receiver == receiver {
			return &RegistrationError{Event: event, Receiver: name, Method: method, Err: ErrDuplicateRegistration}
		}
	}

	r.table[event] = append(r.table[event], entry{
		receiver: receiver,
		name:     name,
		method:   method,
		fn:       fn,
	})
	return nil
}

// Unregister removes receiver from event's list.
func (r *Registry) Unregister(event string, receiver any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.table[event]
	for i, e := range list {
		if validIdentity(receiver) && e.receiver == receiver {
			updated := make([]entry, 0, len(list)-1)
			updated = append(updated, list[:i]...)
			updated = append(updated, list[i+1:]...)
			if len(updated) == 0 {
				delete(r.table, event)
			} else {
				r.table[event] = updated
			}
			return nil
		}
	}

	name := "<invalid>"
	if validIdentity(receiver) {
		name = receiverName(receiver)
	}
	return &RegistrationError{Event: event, Receiver: name, Err: ErrNotRegistered}
}

// UnregisterAll removes receiver from every event and returns how many
// registrations were dropped.
func (r *Registry) UnregisterAll(receiver any) int {
	if !validIdentity(receiver) {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for event, list := range r.table {
		kept := make([]entry, 0, len(list))
		for _, e := range list {
			if e.receiver == receiver {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		if len(kept) == 0 {
			delete(r.table, event)
		} else {
			r.table[event] = kept
		}
	}
	return removed
}

// Count returns the number of callables registered for event.
func (r *Registry) Count(event string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.table[event])
}

// Has reports whether receiver is registered for event.
func (r *Registry) Has(event string, receiver any) bool {
	if !validIdentity(receiver) {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.table[event] {
		if e.receiver == receiver {
			return true
		}
	}
	return false
}

// Failures returns how many non-fatal callable failures have been isolated.
func (r *Registry) Failures() uint64 {
	return r.failures.Load()
}

// Notify calls every callable registered for event, in registration order.
// payload must be an input.PointerEvent for EventPointer, an input.KeyEvent
// for EventKey and is ignored otherwise.
//
// Non-fatal failures (returned errors and recovered panics) are logged and
// skipped. The first fatal failure stops the notification and is returned
// as a *CallError.
func (r *Registry) Notify(event string, payload any) error {
	r.mu.RLock()
	list := r.table[event]
	r.mu.RUnlock()

	// list is never mutated in place, so iterating the captured slice is safe
	// against concurrent Register/Unregister.
	for _, e := range list {
		err := call(e, payload)
		if err == nil {
			continue
		}

		callErr := &CallError{Event: event, Receiver: e.name, Method: e.method, Err: err}
		if IsFatal(err) {
			return callErr
		}

		r.failures.Add(1)
		r.logger.WithFields(map[string]any{
			"hook":     event,
			"receiver": e.name,
		}).Error("%s: %v", e.method, err)
	}
	return nil
}

// call invokes one callable, converting a panic into a *PanicError.
func call(e entry, payload any) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{Value: v, Stack: string(debug.Stack())}
		}
	}()
	return e.fn(payload)
}
