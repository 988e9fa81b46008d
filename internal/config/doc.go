// Package config loads sketch configuration files and watches them for
// changes.
//
// A file is read by extension: .toml, .yaml/.yml or .json. Missing keys
// keep their defaults and a missing file yields Default(). Environment
// variables prefixed SKETCHRUN_ override file values:
//
//	SKETCHRUN_FRAME_RATE=30 sketchrun -config sketch.toml
//
// Only frame_rate and key_repeat can change while a sketch runs; the rest
// are applied during configuration.
//
// # Live Reload
//
//	w, err := config.NewWatcher("sketch.toml", func(cfg config.Config) {
//	    s.SetFrameRate(cfg.FrameRate)
//	})
//	defer w.Close()
package config
