package respond

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
var (
	ErrUnknownAdapter   = errors.New("unknown adapter")
	ErrDuplicateAdapter = errors.New("adapter already registered")
	ErrInvalidAdapter   = errors.New("invalid adapter")
	ErrMissingView      = errors.New("view name must be specified")
	ErrMissingXMLRoot   = errors.New("xml root must be specified")
	ErrInvalidXMLName   = errors.New("invalid xml element name")
	ErrInvalidTemplate  = errors.New("invalid template")
	ErrUnknownEngine    = errors.New("unknown template engine")
	ErrPanic            = errors.New("panic during formatting")
)

// Kind names a built-in adapter.
type Kind string

const (
	JSON Kind = "json"
	XML  Kind = "xml"
	HTML Kind = "html"
	YAML Kind = "yaml"
)

var kinds = []Kind{JSON, XML, HTML, YAML}

// String returns the adapter name.
func (k Kind) String() string { return string(k) }

// Kinds returns all built-in adapter names.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind parses a built-in adapter name.
func ParseKind(s string) (Kind, error) {
	for _, k := range kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAdapter, s)
}

// Adapter formats success and error payloads. Render wraps data in a
// success response, Error wraps err in an error response. When an HTTP
// response is attached with [WithHTTP], the formatted result is also
// written to it.
type Adapter interface {
	Render(ctx context.Context, data any, opts ...Option) (any, error)
	Error(ctx context.Context, err any, opts ...Option) (any, error)
}

// FormatFunc replaces an adapter's built-in formatting. Whatever it returns
// becomes the result of Render or Error.
type FormatFunc func(ctx context.Context, v any) (any, error)

// Compile-time interface checks.
var (
	_ Adapter = (*JSONAdapter)(nil)
	_ Adapter = (*XMLAdapter)(nil)
	_ Adapter = (*HTMLAdapter)(nil)
	_ Adapter = (*YAMLAdapter)(nil)
)

// pickFormat returns the first non-nil formatter.
func pickFormat(fns ...FormatFunc) FormatFunc {
	for _, fn := range fns {
		if fn != nil {
			return fn
		}
	}
	return nil
}

// safeFormat runs fn, turning a panic into an error.
func safeFormat(ctx context.Context, fn FormatFunc, v any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn(ctx, v)
}
