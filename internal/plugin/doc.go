// Package plugin loads Lua plugins and attaches them to a sketch's hooks.
//
// A plugin is a directory holding a manifest and a script:
//
//	trail/
//	    plugin.yaml
//	    init.lua
//
// The manifest names the entry script and maps hook events to global Lua
// functions:
//
//	name: trail
//	main: init.lua
//	hooks:
//	  draw: on_draw
//	  keyEvent: on_key
//
// Scripts run in a restricted state with only the base, table, string and
// math libraries. The sketch is reachable through the global "sketch" table:
//
//	function on_key(ev)
//	    if ev.rune == "q" then
//	        sketch.exit()
//	    end
//	end
//
// Pointer and key payloads arrive as tables. Raising an error whose message
// starts with "fatal:" aborts the notification and stops the sketch; any
// other error is logged and the remaining hooks still run.
package plugin
