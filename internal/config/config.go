// Package config loads respond CLI and server settings from YAML or TOML
// files.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFile is returned for config files with an unknown extension.
var ErrUnsupportedFile = errors.New("unsupported config file")

// Defaults applied by Load.
const (
	DefaultAddr        = ":8080"
	DefaultMetricsPath = "/metrics"
)

// File is the on-disk configuration.
type File struct {
	LogLevel string `yaml:"log_level" toml:"log_level"`
	Server   Server `yaml:"server" toml:"server"`
	// Adapters maps a route name to adapter settings as accepted by
	// respond.Create. A missing "adapter" key defaults to the route name.
	Adapters map[string]map[string]any `yaml:"adapters" toml:"adapters"`
}

// Server holds preview server settings.
type Server struct {
	Addr        string `yaml:"addr" toml:"addr"`
	MetricsPath string `yaml:"metrics_path" toml:"metrics_path"`
}

// Default returns a configuration exposing the built-in adapters with
// default settings.
func Default() *File {
	f := &File{Adapters: map[string]map[string]any{
		"json": {},
		"yaml": {},
		"xml":  {"xml_root": "response"},
		"html": {},
	}}
	f.applyDefaults()
	return f
}

// Load reads path, choosing the decoder from its extension.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	f := &File{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, path)
	}
	f.applyDefaults()
	return f, nil
}

func (f *File) applyDefaults() {
	if f.Server.Addr == "" {
		f.Server.Addr = DefaultAddr
	}
	if f.Server.MetricsPath == "" {
		f.Server.MetricsPath = DefaultMetricsPath
	}
	if f.Adapters == nil {
		f.Adapters = map[string]map[string]any{}
	}
}

// Names returns the configured route names in sorted order.
func (f *File) Names() []string {
	return slices.Sorted(maps.Keys(f.Adapters))
}

// Settings returns a copy of the settings for route name with the
// adapter key filled in.
func (f *File) Settings(name string) (map[string]any, bool) {
	s, ok := f.Adapters[name]
	if !ok {
		return nil, false
	}
	out := make(map[string]any, len(s)+1)
	maps.Copy(out, s)
	if _, ok := out["adapter"]; !ok {
		out["adapter"] = name
	}
	return out, true
}
