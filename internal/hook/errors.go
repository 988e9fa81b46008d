package hook

import (
	"errors"
	"fmt"
)

// Registration errors.
var (
	// ErrNoSuchMethod indicates the receiver has no exported method of that name.
	ErrNoSuchMethod = errors.New("no such public method")

	// ErrBadSignature indicates the method exists but cannot take the event payload.
	ErrBadSignature = errors.New("method signature does not match event")

	// ErrDuplicateRegistration indicates the receiver is already registered for the event.
	ErrDuplicateRegistration = errors.New("receiver already registered")

	// ErrNotRegistered indicates Unregister found no matching receiver.
	ErrNotRegistered = errors.New("receiver not registered")

	// ErrBadReceiver indicates the receiver cannot be used as an identity (nil or not comparable).
	ErrBadReceiver = errors.New("receiver cannot be registered")
)

// ErrFatal marks an error returned from a hook callable as fatal. Wrap it
// (fmt.Errorf("...: %w", hook.ErrFatal)) to abort the notification.
var ErrFatal = errors.New("fatal hook error")

// Fataler is implemented by errors that classify themselves.
type Fataler interface {
	Fatal() bool
}

// IsFatal reports whether err must abort a notification and reach the host.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrFatal) {
		return true
	}
	var f Fataler
	return errors.As(err, &f) && f.Fatal()
}

// RegistrationError describes a failed Register or Unregister call.
type RegistrationError struct {
	Event    string
	Receiver string
	Method   string
	Err      error
}

func (e *RegistrationError) Error() string {
	if e.Method != "" {
		return fmt.Sprintf("hook %q: %s.%s: %v", e.Event, e.Receiver, e.Method, e.Err)
	}
	return fmt.Sprintf("hook %q: %s: %v", e.Event, e.Receiver, e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// CallError is a failure of one callable during Notify.
type CallError struct {
	Event    string
	Receiver string
	Method   string
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("hook %q: %s.%s: %v", e.Event, e.Receiver, e.Method, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// PanicError wraps a value recovered from a panicking callable.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it is an error, so classification
// sees through the panic.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
