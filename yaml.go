package respond

import (
	"bytes"
	"context"

	"gopkg.in/yaml.v3"
)

// YAMLAdapter formats the same envelopes as [JSONAdapter] and returns them
// as YAML text.
type YAMLAdapter struct {
	p pipeline
}

// NewYAML returns a YAML adapter. cfg.Indent, when set, controls the
// indentation width by its length.
func NewYAML(cfg Config) *YAMLAdapter {
	a := &YAMLAdapter{p: newPipeline(YAML, cfg)}
	a.p.render = func(_ context.Context, data any, _ *callOptions) (any, error) {
		return encodeYAML(Success(data), cfg.Indent)
	}
	a.p.fail = func(_ context.Context, err any, _ *callOptions) (any, error) {
		return encodeYAML(Failure(err), cfg.Indent)
	}
	a.p.write = func(o *callOptions, status int, out any) error {
		return writeText(o.w, status, ContentTypeYAML, out)
	}
	return a
}

// Render formats data as a YAML success document.
func (a *YAMLAdapter) Render(ctx context.Context, data any, opts ...Option) (any, error) {
	return a.p.doRender(ctx, data, applyOptions(opts))
}

// Error formats err as a YAML error document.
func (a *YAMLAdapter) Error(ctx context.Context, err any, opts ...Option) (any, error) {
	return a.p.doError(ctx, err, applyOptions(opts))
}

func encodeYAML(env Envelope, indent string) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if indent != "" {
		enc.SetIndent(len(indent))
	}
	if err := enc.Encode(env); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
