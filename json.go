package respond

import (
	"context"
)

// JSONAdapter wraps payloads in an [Envelope]. Render returns a success
// envelope, Error an error envelope. Attached HTTP responses receive the
// result as JSON, or JSONP when the request has a callback parameter.
type JSONAdapter struct {
	p pipeline
}

// NewJSON returns a JSON adapter. Only the format and indent settings of
// cfg are used.
func NewJSON(cfg Config) *JSONAdapter {
	a := &JSONAdapter{p: newPipeline(JSON, cfg)}
	a.p.render = func(_ context.Context, data any, _ *callOptions) (any, error) {
		return Success(data), nil
	}
	a.p.fail = func(_ context.Context, err any, _ *callOptions) (any, error) {
		return Failure(err), nil
	}
	a.p.write = func(o *callOptions, status int, out any) error {
		return writeJSONBody(o.w, o.r, status, cfg.Indent, out)
	}
	return a
}

// Render formats data as a success response.
func (a *JSONAdapter) Render(ctx context.Context, data any, opts ...Option) (any, error) {
	return a.p.doRender(ctx, data, applyOptions(opts))
}

// Error formats err as an error response.
func (a *JSONAdapter) Error(ctx context.Context, err any, opts ...Option) (any, error) {
	return a.p.doError(ctx, err, applyOptions(opts))
}
