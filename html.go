package respond

import (
	"context"
	"fmt"
	"html"
	"os"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// HTMLAdapter renders template files. The template for a view is looked up
// in the configured directories, most specific first, and falls back to
// the view name itself when no candidate exists.
type HTMLAdapter struct {
	p        pipeline
	engine   Engine
	resolver Resolver
}

// NewHTML returns an HTML adapter. A nil cfg.Engine selects
// [Pongo2Engine].
func NewHTML(cfg Config) *HTMLAdapter {
	engine := cfg.Engine
	if engine == nil {
		engine = Pongo2Engine{}
	}
	a := &HTMLAdapter{p: newPipeline(HTML, cfg), engine: engine}
	a.resolver = Resolver{Logger: a.p.log}
	a.p.render = a.renderView
	a.p.fail = a.renderError
	a.p.write = func(o *callOptions, status int, out any) error {
		return writeText(o.w, status, ContentTypeHTML, out)
	}
	return a
}

// Render renders the configured view with data.
func (a *HTMLAdapter) Render(ctx context.Context, data any, opts ...Option) (any, error) {
	return a.p.doRender(ctx, data, applyOptions(opts))
}

// Error renders the error view with the message of err. The view defaults
// to "home/error404".
func (a *HTMLAdapter) Error(ctx context.Context, err any, opts ...Option) (any, error) {
	return a.p.doError(ctx, err, applyOptions(opts))
}

// lookup merges call options over the adapter configuration.
func (a *HTMLAdapter) lookup(o *callOptions) Lookup {
	cfg := a.p.cfg
	return Lookup{
		Dirs:          o.dirs,
		ThemesDir:     firstNonEmpty(cfg.ThemesDir, DefaultThemesDir),
		Theme:         firstNonEmpty(o.themeName, cfg.ThemeName, DefaultThemeName),
		ExtensionsDir: firstNonEmpty(cfg.ExtensionsDir, DefaultExtensionsDir),
		Extension:     firstNonEmpty(o.extName, cfg.ExtName),
		ViewsDir:      firstNonEmpty(cfg.ViewsDir, DefaultViewsDir),
		FileExt:       NormalizeExt(firstNonEmpty(o.fileExt, cfg.FileExt, DefaultFileExt)),
	}
}

func (a *HTMLAdapter) renderView(ctx context.Context, data any, o *callOptions) (any, error) {
	view := firstNonEmpty(o.viewName, a.p.cfg.ViewName)
	if strings.TrimSpace(view) == "" {
		return nil, ErrMissingView
	}
	return a.renderFile(ctx, view, data, o)
}

func (a *HTMLAdapter) renderError(ctx context.Context, e any, o *callOptions) (any, error) {
	view := firstNonEmpty(o.viewName, DefaultErrorView)
	data := map[string]any{
		"pagedata": map[string]any{
			"title": "Not Found",
			"error": sanitizeMessage(ErrorMessage(e)),
		},
		"url": view,
	}
	return a.renderFile(ctx, view, data, o)
}

func (a *HTMLAdapter) renderFile(ctx context.Context, view string, data any, o *callOptions) (any, error) {
	lookup := a.lookup(o)
	path := a.resolver.Find(ViewFile(view, lookup.FileExt), lookup.Candidates(view))
	if o.resolveFilepath {
		return path, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %q: %w", path, err)
	}
	engineCfg := o.engineConfig
	if engineCfg == nil {
		engineCfg = a.p.cfg.EngineConfig
	}
	a.p.log.Debug("rendering view", "view", view, "path", path)
	return a.engine.Render(ctx, string(content), data, EngineOptions{
		Filename: path,
		Config:   engineCfg,
	})
}

var (
	messagePolicyOnce sync.Once
	messagePolicy     *bluemonday.Policy
)

// sanitizeMessage strips markup from error messages before they reach a
// template. The result is plain text; escaping is left to the engine.
func sanitizeMessage(msg string) string {
	messagePolicyOnce.Do(func() {
		messagePolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(messagePolicy.Sanitize(msg)))
}
