// Package main is the entry point for the sketchrun demo host.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/tidwall/sjson"
	"golang.org/x/term"

	"github.com/dshills/sketchrun/internal/config"
	"github.com/dshills/sketchrun/internal/input"
	"github.com/dshills/sketchrun/internal/logging"
	"github.com/dshills/sketchrun/internal/plugin"
	"github.com/dshills/sketchrun/internal/sketch"
	"github.com/dshills/sketchrun/internal/surface"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	pluginDir  string
	logLevel   string
	logFile    string
	headless   bool
	frames     uint64
	stats      bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err == nil {
		err = cfg.ApplyEnv()
	}
	if err == nil && opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if err == nil && opts.pluginDir != "" {
		cfg.PluginDir = opts.pluginDir
	}
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	headless := opts.headless || !term.IsTerminal(int(os.Stdout.Fd()))

	logger, closeLog, err := newLogger(cfg.LogLevel, opts.logFile, headless)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	var surf surface.Surface
	if headless {
		surf = surface.NewHeadless(cfg.FrameRate, logger)
	} else {
		t, err := surface.NewTerminal(cfg.FrameRate, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
			return 1
		}
		surf = t
	}

	var exitCode atomic.Int32
	s := sketch.New(newDemo(cfg, opts.frames), surf,
		sketch.WithLogger(logger),
		sketch.WithFrameRate(cfg.FrameRate),
		sketch.WithInputConfig(input.Config{
			ControlClickAsRight: cfg.CtrlClickRight,
			KeyRepeat:           cfg.KeyRepeat,
		}),
		sketch.WithExitFunc(func(code int) { exitCode.Store(int32(code)) }),
	)

	var plugins []*plugin.Plugin
	if cfg.PluginDir != "" {
		plugins, err = plugin.LoadAll(cfg.PluginDir, s)
		if err != nil {
			logger.Warn("plugins: %v", err)
		}
	}
	defer func() {
		for _, p := range plugins {
			if err := p.Close(); err != nil && !errors.Is(err, plugin.ErrPluginClosed) {
				logger.Warn("closing plugin %s: %v", p.Name(), err)
			}
		}
	}()

	if opts.configPath != "" {
		w, err := watchConfig(opts.configPath, cfg, s, logger)
		if err != nil {
			logger.Warn("config watch disabled: %v", err)
		} else {
			defer w.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := s.Run(ctx)
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		if exitCode.Load() == 0 {
			exitCode.Store(1)
		}
	}

	if opts.stats {
		js, err := statsJSON(s, plugins, int(exitCode.Load()))
		if err != nil {
			logger.Error("stats: %v", err)
		} else {
			fmt.Fprintln(os.Stderr, js)
		}
	}
	return int(exitCode.Load())
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml, .yaml or .json)")
	flag.StringVar(&opts.pluginDir, "plugins", "", "Directory of Lua plugins")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.logFile, "log-file", "", "Write logs to this file")
	flag.BoolVar(&opts.headless, "headless", false, "Run without a terminal canvas")
	flag.Uint64Var(&opts.frames, "frames", 0, "Exit after this many frames (0 runs until closed)")
	flag.BoolVar(&opts.stats, "stats", false, "Print run statistics as JSON on exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "sketchrun - interactive sketch runner\n\n")
		fmt.Fprintf(os.Stderr, "Usage: sketchrun [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  sketchrun                          Run the demo in this terminal\n")
		fmt.Fprintf(os.Stderr, "  sketchrun -headless -frames 120    Run 120 frames without a canvas\n")
		fmt.Fprintf(os.Stderr, "  sketchrun -plugins ./plugins       Load Lua plugins\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("sketchrun %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.logLevel != "" && !logging.ValidLevel(opts.logLevel) {
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
		os.Exit(1)
	}
	return opts
}

// newLogger writes to stderr when headless. A terminal canvas owns the
// screen, so logs go to -log-file or nowhere.
func newLogger(level, path string, headless bool) (*logging.Logger, func(), error) {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(level)

	closer := func() {}
	switch {
	case path != "":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		cfg.Output = f
		closer = func() { f.Close() }
	case !headless:
		cfg.Output = io.Discard
	}
	return logging.New(cfg), closer, nil
}

// watchConfig applies the live settings from config file changes.
func watchConfig(path string, current config.Config, s *sketch.Sketch, logger *logging.Logger) (*config.Watcher, error) {
	return config.NewWatcher(path, func(next config.Config) {
		frameRate, keyRepeat := current.Live(next)
		if frameRate {
			s.SetFrameRate(next.FrameRate)
		}
		if keyRepeat {
			s.SetKeyRepeat(next.KeyRepeat)
		}
		if next.LogLevel != current.LogLevel {
			logger.SetLevel(logging.ParseLevel(next.LogLevel))
		}
		current = next
	}, config.WithWatcherLogger(logger))
}

// statsJSON renders the run metrics.
func statsJSON(s *sketch.Sketch, plugins []*plugin.Plugin, code int) (string, error) {
	m := s.Metrics()
	js := "{}"
	var err error
	set := func(path string, v any) {
		if err == nil {
			js, err = sjson.Set(js, path, v)
		}
	}

	set("run", s.ID().String())
	set("exit_code", code)
	set("frames", s.FrameCount())
	set("uptime_ms", m.Uptime.Milliseconds())
	set("frame_rate.target", s.TargetFrameRate())
	set("frame_rate.measured", m.FrameRate)
	set("tick.count", m.TickCount)
	set("tick.avg_ns", m.AvgTickNs)
	set("tick.min_ns", m.MinTickNs)
	set("tick.max_ns", m.MaxTickNs)
	set("tick.busy", m.Busy())
	set("events.drained", m.EventCount)
	set("events.dropped", m.DroppedEvents)
	set("hooks.failures", m.HookFailures)
	set("plugins", []any{})
	for _, p := range plugins {
		set("plugins.-1", map[string]any{
			"name":     p.Name(),
			"calls":    p.Calls(),
			"failures": p.Failures(),
		})
	}
	if runErr := s.Err(); runErr != nil {
		set("error", runErr.Error())
	}
	return js, err
}
