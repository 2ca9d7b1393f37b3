package respond

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"path/filepath"
)

// GoTemplateEngine renders templates with html/template. The template is
// named after the file it was read from. Set "left_delim" and
// "right_delim" in the engine configuration to change delimiters.
type GoTemplateEngine struct {
	Funcs template.FuncMap
}

// Render parses tmpl and executes it with data.
func (e GoTemplateEngine) Render(ctx context.Context, tmpl string, data any, opts EngineOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := "view"
	if opts.Filename != "" {
		name = filepath.Base(opts.Filename)
	}
	t := template.New(name)
	left, _ := opts.Config["left_delim"].(string)
	right, _ := opts.Config["right_delim"].(string)
	if left != "" || right != "" {
		t = t.Delims(left, right)
	}
	if len(e.Funcs) > 0 {
		t = t.Funcs(e.Funcs)
	}
	t, err := t.Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidTemplate, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
