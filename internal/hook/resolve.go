package hook

import (
	"fmt"
	"reflect"

	"github.com/dshills/sketchrun/internal/input"
)

// Payload is the argument type a callable for an event must accept.
type Payload uint8

const (
	// PayloadNone is a zero-argument callable.
	PayloadNone Payload = iota
	// PayloadPointer is a callable taking input.PointerEvent.
	PayloadPointer
	// PayloadKey is a callable taking input.KeyEvent.
	PayloadKey
)

// String returns the payload name.
func (p Payload) String() string {
	switch p {
	case PayloadPointer:
		return "pointer event"
	case PayloadKey:
		return "key event"
	default:
		return "no arguments"
	}
}

// PayloadFor returns the payload required by an event name.
func PayloadFor(event string) Payload {
	switch event {
	case EventPointer:
		return PayloadPointer
	case EventKey:
		return PayloadKey
	default:
		return PayloadNone
	}
}

// Func is a resolved callable. payload is nil for PayloadNone events.
type Func func(payload any) error

// Resolver is implemented by receivers whose callables are not Go methods.
// ResolveHook must fail with ErrNoSuchMethod or ErrBadSignature (possibly
// wrapped) when name cannot serve an event with payload p.
type Resolver interface {
	ResolveHook(name string, p Payload) (Func, error)
}

// Namer lets a receiver choose how it appears in logs and errors.
type Namer interface {
	HookName() string
}

var (
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	pointerType = reflect.TypeOf(input.PointerEvent{})
	keyType     = reflect.TypeOf(input.KeyEvent{})
)

// resolve looks up method on receiver for payload p.
func resolve(receiver any, method string, p Payload) (Func, error) {
	if r, ok := receiver.(Resolver); ok {
		return r.ResolveHook(method, p)
	}

	m := reflect.ValueOf(receiver).MethodByName(method)
	if !m.IsValid() {
		return nil, ErrNoSuchMethod
	}
	if err := checkSignature(m.Type(), p); err != nil {
		return nil, err
	}

	returnsError := m.Type().NumOut() == 1
	return func(payload any) error {
		var args []reflect.Value
		if p != PayloadNone {
			args = []reflect.Value{reflect.ValueOf(payload)}
		}
		out := m.Call(args)
		if returnsError && !out[0].IsNil() {
			return out[0].Interface().(error)
		}
		return nil
	}, nil
}

// checkSignature accepts func(), func() error, func(T) and func(T) error
// where T is the payload type.
func checkSignature(t reflect.Type, p Payload) error {
	switch t.NumOut() {
	case 0:
	case 1:
		if t.Out(0) != errorType {
			return fmt.Errorf("%w: returns %s, want nothing or error", ErrBadSignature, t.Out(0))
		}
	default:
		return fmt.Errorf("%w: returns %d values", ErrBadSignature, t.NumOut())
	}

	if t.IsVariadic() {
		return fmt.Errorf("%w: variadic", ErrBadSignature)
	}

	switch p {
	case PayloadNone:
		if t.NumIn() != 0 {
			return fmt.Errorf("%w: takes %d arguments, want none", ErrBadSignature, t.NumIn())
		}
	case PayloadPointer, PayloadKey:
		want := pointerType
		if p == PayloadKey {
			want = keyType
		}
		if t.NumIn() != 1 || t.In(0) != want {
			return fmt.Errorf("%w: want func(%s)", ErrBadSignature, want)
		}
	}
	return nil
}

// receiverName returns the log name of a receiver.
func receiverName(receiver any) string {
	if n, ok := receiver.(Namer); ok {
		return n.HookName()
	}
	return fmt.Sprintf("%T", receiver)
}

// validIdentity reports whether receiver can be used as a registration identity.
func validIdentity(receiver any) bool {
	if receiver == nil {
		return false
	}
	return reflect.TypeOf(receiver).Comparable()
}
