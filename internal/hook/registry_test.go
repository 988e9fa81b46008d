package hook

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dshills/sketchrun/internal/input"
	"github.com/dshills/sketchrun/internal/logging"
)

type recorder struct {
	name  string
	calls *[]string
}

func (r *recorder) Draw() {
	*r.calls = append(*r.calls, r.name+".Draw")
}

func (r *recorder) Fails() error {
	*r.calls = append(*r.calls, r.name+".Fails")
	return errors.New("ordinary failure")
}

func (r *recorder) Explodes() {
	*r.calls = append(*r.calls, r.name+".Explodes")
	var m map[string]int
	m["boom"] = 1
}

func (r *recorder) Fatal() error {
	*r.calls = append(*r.calls, r.name+".Fatal")
	return fmt.Errorf("assertion: %w", ErrFatal)
}

func (r *recorder) FatalPanic() {
	*r.calls = append(*r.calls, r.name+".FatalPanic")
	panic(fmt.Errorf("invariant broken: %w", ErrFatal))
}

func (r *recorder) OnPointer(ev input.PointerEvent) {
	*r.calls = append(*r.calls, fmt.Sprintf("%s.OnPointer(%d,%d)", r.name, ev.X, ev.Y))
}

func (r *recorder) OnKey(ev input.KeyEvent) error {
	*r.calls = append(*r.calls, r.name+".OnKey("+string(ev.Rune)+")")
	return nil
}

func (r *recorder) WrongArgs(n int) {}

func (r *recorder) unexported() {}

func (r *recorder) HookName() string { return r.name }

func newRecorders(names ...string) ([]*recorder, *[]string) {
	calls := &[]string{}
	out := make([]*recorder, len(names))
	for i, n := range names {
		out[i] = &recorder{name: n, calls: calls}
	}
	return out, calls
}

func TestRegistry_NotifyOrder(t *testing.T) {
	reg := NewRegistry(nil)
	rs, calls := newRecorders("a", "b", "c")

	for _, r := range rs {
		if err := reg.Register(EventDraw, r, "Draw"); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
	}

	if err := reg.Notify(EventDraw, nil); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	want := "a.Draw,b.Draw,c.Draw"
	if got := strings.Join(*calls, ","); got != want {
		t.Errorf("calls = %s, expected %s", got, want)
	}
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	reg := NewRegistry(nil)
	rs, _ := newRecorders("a")

	if err := reg.Register(EventDraw, rs[0], "Draw"); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	err := reg.Register(EventDraw, rs[0], "Draw")
	if !errors.Is(err, ErrDuplicateRegistration) {
		t.Fatalf("second Register error = %v, expected ErrDuplicateRegistration", err)
	}
	if n := reg.Count(EventDraw); n != 1 {
		t.Errorf("Count = %d, expected 1", n)
	}

	// The same receiver may subscribe to a different event.
	if err := reg.Register(EventPre, rs[0], "Draw"); err != nil {
		t.Errorf("Register under another event failed: %v", err)
	}
}

func TestRegistry_ResolutionErrors(t *testing.T) {
	reg := NewRegistry(nil)
	rs, _ := newRecorders("a")
	r := rs[0]

	tests := []struct {
		name   string
		event  string
		method string
		want   error
	}{
		{"missing", EventDraw, "Nope", ErrNoSuchMethod},
		{"unexported", EventDraw, "unexported", ErrNoSuchMethod},
		{"args on plain event", EventDraw, "OnPointer", ErrBadSignature},
		{"wrong payload", EventKey, "OnPointer", ErrBadSignature},
		{"no payload on pointer event", EventPointer, "Draw", ErrBadSignature},
		{"wrong arg type", EventDraw, "WrongArgs", ErrBadSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Register(tt.event, r, tt.method)
			if !errors.Is(err, tt.want) {
				t.Errorf("Register(%s, %s) error = %v, expected %v", tt.event, tt.method, err, tt.want)
			}
			var regErr *RegistrationError
			if !errors.As(err, &regErr) || regErr.Receiver != "a" {
				t.Errorf("expected RegistrationError naming receiver a, got %v", err)
			}
		})
	}

	if n := reg.Count(EventDraw); n != 0 {
		t.Errorf("failed registrations left %d entries", n)
	}
}

func TestRegistry_BadReceiver(t *testing.T) {
	reg := NewRegistry(nil)
	if err := reg.Register(EventDraw, nil, "Draw"); !errors.Is(err, ErrBadReceiver) {
		t.Errorf("nil receiver error = %v", err)
	}
	if err := reg.Register(EventDraw, map[string]int{}, "Draw"); !errors.Is(err, ErrBadReceiver) {
		t.Errorf("map receiver error = %v", err)
	}
}

func TestRegistry_Unregister(t *testing.T) {
	reg := NewRegistry(nil)
	rs, calls := newRecorders("a", "b")

	_ = reg.Register(EventDraw, rs[0], "Draw")
	_ = reg.Register(EventDraw, rs[1], "Draw")

	if err := reg.Unregister(EventDraw, rs[0]); err != nil {
		t.Fatalf("Unregister failed: %v", err)
	}
	if err := reg.Unregister(EventDraw, rs[0]); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("second Unregister error = %v, expected ErrNotRegistered", err)
	}

	_ = reg.Notify(EventDraw, nil)
	if got := strings.Join(*calls, ","); got != "b.Draw" {
		t.Errorf("calls = %s, expected b.Draw", got)
	}
}

func TestRegistry_UnregisterAll(t *testing.T) {
	reg := NewRegistry(nil)
	rs, _ := newRecorders("a", "b")

	_ = reg.Register(EventDraw, rs[0], "Draw")
	_ = reg.Register(EventPre, rs[0], "Draw")
	_ = reg.Register(EventDraw, rs[1], "Draw")

	if n := reg.UnregisterAll(rs[0]); n != 2 {
		t.Errorf("UnregisterAll = %d, expected 2", n)
	}
	if reg.Has(EventDraw, rs[0]) || reg.Has(EventPre, rs[0]) {
		t.Error("receiver still registered")
	}
	if !reg.Has(EventDraw, rs[1]) {
		t.Error("other receiver was removed")
	}
}

func TestRegistry_NonFatalFailuresAreIsolated(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelDebug, Output: &buf})
	reg := NewRegistry(logger)
	rs, calls := newRecorders("a", "b", "c")

	_ = reg.Register(EventDraw, rs[0], "Fails")
	_ = reg.Register(EventDraw, rs[1], "Explodes")
	_ = reg.Register(EventDraw, rs[2], "Draw")

	if err := reg.Notify(EventDraw, nil); err != nil {
		t.Fatalf("Notify returned %v, expected nil for non-fatal failures", err)
	}

	want := "a.Fails,b.Explodes,c.Draw"
	if got := strings.Join(*calls, ","); got != want {
		t.Errorf("calls = %s, expected %s", got, want)
	}
	if reg.Failures() != 2 {
		t.Errorf("Failures = %d, expected 2", reg.Failures())
	}
	if !strings.Contains(buf.String(), "receiver=a") || !strings.Contains(buf.String(), "receiver=b") {
		t.Errorf("expected both failures to be logged, got %q", buf.String())
	}
}

func TestRegistry_FatalFailureStopsNotification(t *testing.T) {
	for _, method := range []string{"Fatal", "FatalPanic"} {
		t.Run(method, func(t *testing.T) {
			reg := NewRegistry(nil)
			rs, calls := newRecorders("a", "b")

			_ = reg.Register(EventDraw, rs[0], method)
			_ = reg.Register(EventDraw, rs[1], "Draw")

			err := reg.Notify(EventDraw, nil)
			if !IsFatal(err) {
				t.Fatalf("Notify error = %v, expected fatal", err)
			}
			var callErr *CallError
			if !errors.As(err, &callErr) || callErr.Receiver != "a" {
				t.Errorf("expected CallError from a, got %v", err)
			}
			if got := strings.Join(*calls, ","); got != "a."+method {
				t.Errorf("calls = %s, expected only a.%s", got, method)
			}
		})
	}
}

func TestRegistry_Payloads(t *testing.T) {
	reg := NewRegistry(nil)
	rs, calls := newRecorders("a")

	if err := reg.Register(EventPointer, rs[0], "OnPointer"); err != nil {
		t.Fatalf("Register pointer failed: %v", err)
	}
	if err := reg.Register(EventKey, rs[0], "OnKey"); err != nil {
		t.Fatalf("Register key failed: %v", err)
	}

	_ = reg.Notify(EventPointer, input.PointerEvent{Action: input.PointerMove, Position: input.Position{X: 3, Y: 4}})
	_ = reg.Notify(EventKey, input.KeyEvent{Action: input.KeyPress, Key: input.KeyRune, Rune: 'k'})

	want := "a.OnPointer(3,4),a.OnKey(k)"
	if got := strings.Join(*calls, ","); got != want {
		t.Errorf("calls = %s, expected %s", got, want)
	}
}

type selfRemover struct {
	reg   *Registry
	calls int
}

func (s *selfRemover) Once() {
	s.calls++
	_ = s.reg.Unregister(EventPost, s)
}

func TestRegistry_ReentrantUnregister(t *testing.T) {
	reg := NewRegistry(nil)
	s := &selfRemover{reg: reg}
	if err := reg.Register(EventPost, s, "Once"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_ = reg.Notify(EventPost, nil)
	_ = reg.Notify(EventPost, nil)

	if s.calls != 1 {
		t.Errorf("calls = %d, expected 1", s.calls)
	}
}

type stubResolver struct{ called bool }

func (s *stubResolver) ResolveHook(name string, p Payload) (Func, error) {
	if name != "go" {
		return nil, fmt.Errorf("stub: %w", ErrNoSuchMethod)
	}
	return func(any) error {
		s.called = true
		return nil
	}, nil
}

func TestRegistry_Resolver(t *testing.T) {
	reg := NewRegistry(nil)
	s := &stubResolver{}

	if err := reg.Register(EventDraw, s, "missing"); !errors.Is(err, ErrNoSuchMethod) {
		t.Errorf("error = %v, expected ErrNoSuchMethod", err)
	}
	if err := reg.Register(EventDraw, s, "go"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	_ = reg.Notify(EventDraw, nil)
	if !s.called {
		t.Error("resolver callable was not invoked")
	}
}

type fatalErr struct{}

func (fatalErr) Error() string { return "self-classified" }
func (fatalErr) Fatal() bool   { return true }

func TestIsFatal(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("plain"), false},
		{fmt.Errorf("wrapped: %w", ErrFatal), true},
		{fatalErr{}, true},
		{&PanicError{Value: fatalErr{}}, true},
		{&PanicError{Value: "string panic"}, false},
	}
	for _, tt := range tests {
		if got := IsFatal(tt.err); got != tt.want {
			t.Errorf("IsFatal(%v) = %v, expected %v", tt.err, got, tt.want)
		}
	}
}
