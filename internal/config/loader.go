package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Format is a configuration file format.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
	FormatJSON
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// FormatFor returns the format of path by extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads path over the defaults and validates the result. A missing
// file is not an error. Environment overrides are not applied.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	format, err := FormatFor(path)
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := decode(&cfg, format, path, data); err != nil {
		return Default(), err
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Parse decodes data over the defaults.
func Parse(format Format, data []byte) (Config, error) {
	cfg := Default()
	if err := decode(&cfg, format, "<data>", data); err != nil {
		return Default(), err
	}
	return cfg, nil
}

func decode(cfg *Config, format Format, source string, data []byte) error {
	switch format {
	case FormatTOML:
		return decodeTOML(cfg, source, data)
	case FormatYAML:
		return decodeYAML(cfg, source, data)
	case FormatJSON:
		return decodeJSON(cfg, source, data)
	default:
		return ErrUnsupportedFormat
	}
}

func decodeTOML(cfg *Config, source string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, _ = derr.Position()
		}
		return perr
	}
	return nil
}

func decodeYAML(cfg *Config, source string, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return nil
}

// decodeJSON reads known keys with gjson. Unknown keys are rejected like the
// other formats.
func decodeJSON(cfg *Config, source string, data []byte) error {
	if !gjson.ValidBytes(data) {
		return &ParseError{Path: source, Message: "invalid JSON"}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return &ParseError{Path: source, Message: "top level must be an object"}
	}

	known := make(map[string]bool, len(envKeys))
	for _, k := range envKeys {
		known[k] = true
	}

	var perr error
	root.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if !known[name] {
			perr = &ParseError{Path: source, Message: fmt.Sprintf("unknown key %q", name)}
			return false
		}
		if err := setJSON(cfg, name, value); err != nil {
			perr = &ParseError{Path: source, Message: fmt.Sprintf("%s: %v", name, err), Err: err}
			return false
		}
		return true
	})
	return perr
}

func setJSON(cfg *Config, key string, v gjson.Result) error {
	want := gjson.Number
	switch key {
	case "fullscreen", "key_repeat", "ctrl_click_right":
		if v.Type != gjson.True && v.Type != gjson.False {
			return fmt.Errorf("expected boolean, got %s", v.Type)
		}
		return cfg.set(key, v.Raw)
	case "log_level", "plugin_dir":
		want = gjson.String
	}
	if v.Type != want {
		return fmt.Errorf("expected %s, got %s", want, v.Type)
	}
	return cfg.set(key, v.String())
}
