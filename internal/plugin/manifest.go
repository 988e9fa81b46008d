package plugin

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/sketchrun/internal/hook"
)

// ManifestFile is the manifest file name inside a plugin directory.
const ManifestFile = "plugin.yaml"

// DefaultMain is the entry script used when the manifest omits main.
const DefaultMain = "init.lua"

// Manifest describes a plugin.
type Manifest struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Main        string            `yaml:"main"`
	Hooks       map[string]string `yaml:"hooks"`

	dir string
}

// namePattern validates plugin names.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$|^[a-z]$`)

// identPattern validates Lua global function names.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var knownEvents = map[string]bool{
	hook.EventPre:     true,
	hook.EventDraw:    true,
	hook.EventPost:    true,
	hook.EventPause:   true,
	hook.EventResume:  true,
	hook.EventDispose: true,
	hook.EventPointer: true,
	hook.EventKey:     true,
}

// LoadManifest reads dir/plugin.yaml.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoManifest, dir)
		}
		return nil, err
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.dir = dir
	return m, nil
}

// ParseManifest decodes and validates manifest YAML.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if m.Main == "" {
		m.Main = DefaultMain
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest fields.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidManifest)
	}
	if !namePattern.MatchString(m.Name) {
		return fmt.Errorf("%w: name %q must be lowercase alphanumeric with hyphens", ErrInvalidManifest, m.Name)
	}
	if filepath.Ext(m.Main) != ".lua" {
		return fmt.Errorf("%w: main %q must be a .lua file", ErrInvalidManifest, m.Main)
	}
	if filepath.IsAbs(m.Main) || strings.HasPrefix(filepath.Clean(m.Main), "..") {
		return fmt.Errorf("%w: main %q must stay inside the plugin directory", ErrInvalidManifest, m.Main)
	}
	for event, fn := range m.Hooks {
		if !knownEvents[event] {
			return fmt.Errorf("%w: unknown hook event %q", ErrInvalidManifest, event)
		}
		if !identPattern.MatchString(fn) {
			return fmt.Errorf("%w: hook %q: %q is not a Lua identifier", ErrInvalidManifest, event, fn)
		}
	}
	return nil
}

// Dir returns the directory the manifest was loaded from.
func (m *Manifest) Dir() string { return m.dir }

// MainPath returns the entry script path.
func (m *Manifest) MainPath() string {
	return filepath.Join(m.dir, m.Main)
}

// Events returns the hooked events in a stable order.
func (m *Manifest) Events() []string {
	events := make([]string, 0, len(m.Hooks))
	for e := range m.Hooks {
		events = append(events, e)
	}
	sort.Strings(events)
	return events
}
