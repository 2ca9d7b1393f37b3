package respond

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/flosch/pongo2/v6"
)

// ParseEngine returns the built-in engine registered under name. An empty
// name selects [Pongo2Engine].
func ParseEngine(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "pongo2", "django":
		return Pongo2Engine{}, nil
	case "gotemplate", "go":
		return GoTemplateEngine{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
}

// Engine renders template text against data. Implementations receive the
// resolved template path in opts.Filename so relative includes can be
// resolved, and engine specific settings in opts.Config.
type Engine interface {
	Render(ctx context.Context, tmpl string, data any, opts EngineOptions) (string, error)
}

// EngineOptions are passed to every [Engine.Render] call.
type EngineOptions struct {
	Filename string
	Config   map[string]any
}

// EngineFunc adapts a function to the [Engine] interface.
type EngineFunc func(ctx context.Context, tmpl string, data any, opts EngineOptions) (string, error)

// Render calls f.
func (f EngineFunc) Render(ctx context.Context, tmpl string, data any, opts EngineOptions) (string, error) {
	return f(ctx, tmpl, data, opts)
}

// Pongo2Engine renders Django-style templates with pongo2. It is the
// default engine of the HTML adapter. Includes and extends resolve
// relative to the template's directory. Engine configuration values are
// available to templates as globals.
type Pongo2Engine struct{}

// Render parses tmpl and executes it with data.
func (Pongo2Engine) Render(ctx context.Context, tmpl string, data any, opts EngineOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	baseDir := ""
	if opts.Filename != "" {
		baseDir = filepath.Dir(opts.Filename)
	}
	loader, err := pongo2.NewLocalFileSystemLoader(baseDir)
	if err != nil {
		return "", fmt.Errorf("pongo2: create loader: %w", err)
	}
	set := pongo2.NewSet("respond", loader)
	if len(opts.Config) > 0 {
		set.Globals = pongo2.Context{}
		set.Globals.Update(pongo2.Context(opts.Config))
	}

	t, err := set.FromString(tmpl)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidTemplate, err)
	}
	viewCtx, err := templateContext(data)
	if err != nil {
		return "", fmt.Errorf("pongo2: convert data: %w", err)
	}
	out, err := t.Execute(pongo2.Context(viewCtx))
	if err != nil {
		return "", fmt.Errorf("pongo2: execute %q: %w", opts.Filename, err)
	}
	return out, nil
}

// templateContext turns data into a map usable as a template context.
// Values that do not normalize to an object are exposed under "data".
func templateContext(data any) (map[string]any, error) {
	if m, ok := data.(map[string]any); ok {
		return m, nil
	}
	normalized, err := normalize(data, false)
	if err != nil {
		return nil, err
	}
	if m, ok := normalized.(map[string]any); ok {
		return m, nil
	}
	return map[string]any{"data": normalized}, nil
}
