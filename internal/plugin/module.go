package plugin

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/sketchrun/internal/input"
)

// installModule publishes the global "sketch" table.
func (p *Plugin) installModule() {
	mod := p.L.NewTable()
	p.L.SetFuncs(mod, map[string]lua.LGFunction{
		"frame_count": p.luaFrameCount,
		"frame_rate":  p.luaFrameRate,
		"size":        p.luaSize,
		"exit":        p.luaExit,
		"no_loop":     p.luaNoLoop,
		"loop":        p.luaLoop,
		"redraw":      p.luaRedraw,
		"log":         p.luaLog,
	})
	p.L.SetField(mod, "name", lua.LString(p.manifest.Name))
	p.L.SetGlobal("sketch", mod)
}

func (p *Plugin) luaFrameCount(L *lua.LState) int {
	L.Push(lua.LNumber(p.host.FrameCount()))
	return 1
}

func (p *Plugin) luaFrameRate(L *lua.LState) int {
	L.Push(lua.LNumber(p.host.FrameRate()))
	return 1
}

func (p *Plugin) luaSize(L *lua.LState) int {
	L.Push(lua.LNumber(p.host.Width()))
	L.Push(lua.LNumber(p.host.Height()))
	return 2
}

func (p *Plugin) luaExit(L *lua.LState) int {
	p.pendingExit.Store(true)
	return 0
}

func (p *Plugin) luaNoLoop(L *lua.LState) int {
	p.host.NoLoop()
	return 0
}

func (p *Plugin) luaLoop(L *lua.LState) int {
	p.host.Loop()
	return 0
}

func (p *Plugin) luaRedraw(L *lua.LState) int {
	p.host.Redraw()
	return 0
}

// luaLog is sketch.log(msg [, level]).
func (p *Plugin) luaLog(L *lua.LState) int {
	msg := L.CheckString(1)
	switch strings.ToLower(L.OptString(2, "info")) {
	case "debug":
		p.logger.Debug("%s", msg)
	case "warn":
		p.logger.Warn("%s", msg)
	case "error":
		p.logger.Error("%s", msg)
	default:
		p.logger.Info("%s", msg)
	}
	return 0
}

func pointerTable(L *lua.LState, ev input.PointerEvent) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("action", lua.LString(ev.Action.String()))
	t.RawSetString("x", lua.LNumber(ev.X))
	t.RawSetString("y", lua.LNumber(ev.Y))
	t.RawSetString("button", lua.LString(ev.Button.String()))
	t.RawSetString("count", lua.LNumber(ev.Count))
	t.RawSetString("wheel", lua.LNumber(ev.Wheel))
	setMods(t, ev.Mods)
	return t
}

func keyTable(L *lua.LState, ev input.KeyEvent) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("action", lua.LString(ev.Action.String()))
	t.RawSetString("key", lua.LString(ev.Key.String()))
	if ev.Rune != 0 {
		t.RawSetString("rune", lua.LString(string(ev.Rune)))
	}
	t.RawSetString("repeat", lua.LBool(ev.Repeat))
	setMods(t, ev.Mods)
	return t
}

func setMods(t *lua.LTable, m input.Modifier) {
	t.RawSetString("mods", lua.LString(m.String()))
	t.RawSetString("shift", lua.LBool(m.Has(input.ModShift)))
	t.RawSetString("ctrl", lua.LBool(m.Has(input.ModCtrl)))
	t.RawSetString("alt", lua.LBool(m.Has(input.ModAlt)))
	t.RawSetString("meta", lua.LBool(m.Has(input.ModMeta)))
}
