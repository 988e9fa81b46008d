package plugin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/sketchrun/internal/hook"
	"github.com/dshills/sketchrun/internal/input"
	"github.com/dshills/sketchrun/internal/logging"
)

// DefaultCallTimeout bounds a single hook call.
const DefaultCallTimeout = time.Second

// Host is the sketch surface a plugin can see and drive.
type Host interface {
	FrameCount() uint64
	FrameRate() float64
	Width() int
	Height() int
	Exit()
	Loop()
	NoLoop()
	Redraw()
	RegisterMethod(event string, receiver any, method string) error
	UnregisterMethod(event string, receiver any) error
	Logger() *logging.Logger
}

// Plugin is a loaded Lua script attached to a host's hooks.
//
// gopher-lua states are not goroutine-safe; every entry into the state
// holds mu.
type Plugin struct {
	id       uuid.UUID
	manifest *Manifest
	host     Host
	logger   *logging.Logger
	timeout  time.Duration

	mu     sync.Mutex
	L      *lua.LState
	closed bool

	// pendingExit defers sketch.exit() until the state is released, since
	// exiting can run the dispose hook back into this plugin.
	pendingExit atomic.Bool

	registered []string
	calls      atomic.Uint64
	failures   atomic.Uint64
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithCallTimeout bounds each hook call. Zero disables the bound.
func WithCallTimeout(d time.Duration) Option {
	return func(p *Plugin) {
		if d >= 0 {
			p.timeout = d
		}
	}
}

// WithLogger overrides the host's logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Plugin) {
		if l != nil {
			p.logger = l
		}
	}
}

// Load reads the plugin in dir, runs its script and registers its hooks on
// host. A hook naming a function the script did not define fails the load.
func Load(dir string, host Host, opts ...Option) (*Plugin, error) {
	m, err := LoadManifest(dir)
	if err != nil {
		return nil, err
	}
	return New(m, host, opts...)
}

// New builds a plugin from an already loaded manifest.
func New(m *Manifest, host Host, opts ...Option) (*Plugin, error) {
	p := &Plugin{
		id:       uuid.New(),
		manifest: m,
		host:     host,
		logger:   host.Logger(),
		timeout:  DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.WithComponent("plugin").WithField("plugin", m.Name)

	p.L = newState()
	p.installModule()

	if err := p.run(m.MainPath()); err != nil {
		p.L.Close()
		return nil, err
	}

	for _, event := range m.Events() {
		if err := host.RegisterMethod(event, p, m.Hooks[event]); err != nil {
			p.unregister(p.registered)
			p.L.Close()
			return nil, fmt.Errorf("plugin %s: %w", m.Name, err)
		}
		p.registered = append(p.registered, event)
	}

	p.logger.Info("loaded %d hooks from %s", len(p.registered), m.Main)
	if p.pendingExit.CompareAndSwap(true, false) {
		host.Exit()
	}
	return p, nil
}

// LoadAll loads every plugin directory under root. Directories without a
// manifest are skipped. Plugins that fail are reported together and the
// rest stay loaded.
func LoadAll(root string, host Host, opts ...Option) ([]*Plugin, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var plugins []*Plugin
	var errs []error
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		p, err := Load(filepath.Join(root, e.Name()), host, opts...)
		if errors.Is(err, ErrNoManifest) {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		plugins = append(plugins, p)
	}
	return plugins, errors.Join(errs...)
}

// newState creates a Lua state with only the safe standard libraries.
func newState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// run executes the entry script.
func (p *Plugin) run(path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ScriptError{Plugin: p.manifest.Name, Message: fmt.Sprintf("lua panic: %v", r)}
		}
	}()
	if err := p.L.DoFile(path); err != nil {
		return p.scriptError("", err)
	}
	return nil
}

// ID returns the plugin instance id.
func (p *Plugin) ID() uuid.UUID { return p.id }

// Name returns the manifest name.
func (p *Plugin) Name() string { return p.manifest.Name }

// Manifest returns the plugin manifest.
func (p *Plugin) Manifest() *Manifest { return p.manifest }

// HookName implements hook.Namer.
func (p *Plugin) HookName() string { return "plugin:" + p.manifest.Name }

// Calls returns how many hook calls the plugin has served.
func (p *Plugin) Calls() uint64 { return p.calls.Load() }

// Failures returns how many hook calls raised an error.
func (p *Plugin) Failures() uint64 { return p.failures.Load() }

// ResolveHook implements hook.Resolver. name must be a global Lua function.
func (p *Plugin) ResolveHook(name string, payload hook.Payload) (hook.Func, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrPluginClosed
	}

	if fn := p.L.GetGlobal(name); fn.Type() != lua.LTFunction {
		return nil, fmt.Errorf("%w: %s is %s", hook.ErrNoSuchMethod, name, fn.Type())
	}

	return func(arg any) error {
		return p.call(name, payload, arg)
	}, nil
}

// call runs one hook function and then applies a deferred exit.
func (p *Plugin) call(name string, payload hook.Payload, arg any) error {
	err := p.callLocked(name, payload, arg)
	if p.pendingExit.CompareAndSwap(true, false) {
		p.host.Exit()
	}
	return err
}

func (p *Plugin) callLocked(name string, payload hook.Payload, arg any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPluginClosed
	}
	p.calls.Add(1)

	fn := p.L.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		p.failures.Add(1)
		return fmt.Errorf("%w: %s", hook.ErrNoSuchMethod, name)
	}

	var args []lua.LValue
	switch payload {
	case hook.PayloadPointer:
		if ev, ok := arg.(input.PointerEvent); ok {
			args = append(args, pointerTable(p.L, ev))
		}
	case hook.PayloadKey:
		if ev, ok := arg.(input.KeyEvent); ok {
			args = append(args, keyTable(p.L, ev))
		}
	}

	if p.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		p.L.SetContext(ctx)
		defer p.L.RemoveContext()
	}

	top := p.L.GetTop()
	err := p.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
	p.L.SetTop(top)
	if err != nil {
		p.failures.Add(1)
		return p.scriptError(name, err)
	}
	return nil
}

func (p *Plugin) scriptError(function string, err error) error {
	msg := err.Error()
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil {
		msg = apiErr.Object.String()
	}
	return &ScriptError{Plugin: p.manifest.Name, Function: function, Message: msg, Err: err}
}

// Close detaches the plugin from its host and releases the Lua state.
func (p *Plugin) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPluginClosed
	}
	events := p.registered
	p.registered = nil
	p.mu.Unlock()

	// Unregister without holding mu: a notification in flight may be
	// waiting on it.
	p.unregister(events)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPluginClosed
	}
	p.closed = true
	p.L.Close()
	p.logger.Debug("closed after %d calls", p.calls.Load())
	return nil
}

func (p *Plugin) unregister(events []string) {
	for _, event := range events {
		if err := p.host.UnregisterMethod(event, p); err != nil && !errors.Is(err, hook.ErrNotRegistered) {
			p.logger.Warn("unregister %s: %v", event, err)
		}
	}
}
