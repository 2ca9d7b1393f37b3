package respond

import (
	"context"
	"log/slog"
	"net/http"
)

// pipeline is the render/error flow shared by every adapter: pick a
// formatter, run it, and write the result when an HTTP response is
// attached. Adapters supply the built-in formatters and the writer.
type pipeline struct {
	kind   Kind
	cfg    Config
	log    *slog.Logger
	render func(ctx context.Context, data any, o *callOptions) (any, error)
	fail   func(ctx context.Context, err any, o *callOptions) (any, error)
	write  func(o *callOptions, status int, out any) error
}

func newPipeline(kind Kind, cfg Config) pipeline {
	return pipeline{
		kind: kind,
		cfg:  cfg,
		log:  cfg.logger().With("adapter", string(kind)),
	}
}

func (p *pipeline) doRender(ctx context.Context, data any, o *callOptions) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	builtin := func(ctx context.Context, v any) (any, error) { return p.render(ctx, v, o) }
	out, err := safeFormat(ctx, pickFormat(o.formatRender, p.cfg.FormatRender, builtin), data)
	if err != nil {
		if !o.responding() {
			return nil, err
		}
		p.log.Debug("render failed, responding with error", "err", err)
		fallback := *o
		fallback.viewName = ""
		fallback.resolveFilepath = false
		return p.doError(ctx, err, &fallback)
	}
	if o.responding() {
		if err := p.respond(o, statusOf(out, http.StatusOK), out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (p *pipeline) doError(ctx context.Context, e any, o *callOptions) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	builtin := func(ctx context.Context, v any) (any, error) { return p.fail(ctx, v, o) }
	out, err := safeFormat(ctx, pickFormat(o.formatError, p.cfg.FormatError, builtin), e)
	if err != nil {
		return nil, err
	}
	if o.responding() {
		if err := p.respond(o, statusOf(out, http.StatusInternalServerError), out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (p *pipeline) respond(o *callOptions, status int, out any) error {
	if err := p.write(o, status, out); err != nil {
		p.log.Warn("failed to write response", "status", status, "err", err)
		return err
	}
	return nil
}
