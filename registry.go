package respond

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/mitchellh/mapstructure"
)

// Constructor builds an adapter from a configuration.
type Constructor func(cfg Config) (Adapter, error)

// Registry maps adapter names to constructors.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// NewRegistry returns a registry holding the built-in adapters.
func NewRegistry() *Registry {
	r := &Registry{ctors: make(map[string]Constructor)}
	r.ctors[string(JSON)] = func(cfg Config) (Adapter, error) { return NewJSON(cfg), nil }
	r.ctors[string(XML)] = func(cfg Config) (Adapter, error) { return NewXML(cfg), nil }
	r.ctors[string(HTML)] = func(cfg Config) (Adapter, error) { return NewHTML(cfg), nil }
	r.ctors[string(YAML)] = func(cfg Config) (Adapter, error) { return NewYAML(cfg), nil }
	return r
}

// Register adds a constructor under name.
func (r *Registry) Register(name string, c Constructor) error {
	if name == "" || c == nil {
		return fmt.Errorf("%w: name and constructor are required", ErrInvalidAdapter)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ctors[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateAdapter, name)
	}
	r.ctors[name] = c
	return nil
}

// New builds the adapter named by cfg.Adapter.
func (r *Registry) New(cfg Config) (Adapter, error) {
	r.mu.RLock()
	c, ok := r.ctors[cfg.Adapter]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAdapter, cfg.Adapter)
	}
	a, err := c(cfg)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: constructor for %q returned nil", ErrInvalidAdapter, cfg.Adapter)
	}
	return a, nil
}

// Names returns the registered adapter names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Create decodes settings into a [Config] and builds the adapter it names.
// Keys follow the mapstructure tags of Config, for example:
//
//	respond.Create(map[string]any{"adapter": "xml", "xml_root": "example"})
func (r *Registry) Create(settings map[string]any) (Adapter, error) {
	cfg, err := DecodeConfig(settings)
	if err != nil {
		return nil, err
	}
	return r.New(cfg)
}

// DecodeConfig decodes a settings map into a [Config]. String values are
// converted to the field types where possible, and an engine may be given
// by name.
func DecodeConfig(settings map[string]any) (Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		DecodeHook:       engineHook,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(settings); err != nil {
		return Config{}, fmt.Errorf("decode adapter settings: %w", err)
	}
	return cfg, nil
}

var engineType = reflect.TypeOf((*Engine)(nil)).Elem()

func engineHook(from, to reflect.Type, data any) (any, error) {
	if to != engineType || from.Kind() != reflect.String {
		return data, nil
	}
	return ParseEngine(reflect.ValueOf(data).String())
}

var defaultRegistry = NewRegistry()

// Register adds a constructor to the default registry.
func Register(name string, c Constructor) error { return defaultRegistry.Register(name, c) }

// New builds an adapter from the default registry.
func New(cfg Config) (Adapter, error) { return defaultRegistry.New(cfg) }

// Create decodes settings and builds an adapter from the default registry.
func Create(settings map[string]any) (Adapter, error) { return defaultRegistry.Create(settings) }

// Names lists the adapters in the default registry.
func Names() []string { return defaultRegistry.Names() }
