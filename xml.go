package respond

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"

	"github.com/clbanning/mxj/v2"
)

// XMLConfig controls XML document output.
type XMLConfig struct {
	Declaration XMLDeclaration `mapstructure:"declaration"`
	// Indent enables pretty printing with the given indent string.
	Indent string `mapstructure:"indent"`
}

// XMLDeclaration controls the <?xml ...?> header. It is written by
// default with version 1.0 and no encoding attribute.
type XMLDeclaration struct {
	Omit     bool   `mapstructure:"omit"`
	Version  string `mapstructure:"version"`
	Encoding string `mapstructure:"encoding"`
}

func (d XMLDeclaration) header() string {
	if d.Omit {
		return ""
	}
	version := firstNonEmpty(d.Version, "1.0")
	if d.Encoding != "" {
		return fmt.Sprintf("<?xml version=%q encoding=%q?>\n", version, d.Encoding)
	}
	return fmt.Sprintf("<?xml version=%q?>\n", version)
}

// XMLAdapter wraps payloads in the success/error envelope and converts the
// result to an XML document under a configurable root tag.
type XMLAdapter struct {
	p pipeline
}

// NewXML returns an XML adapter. cfg.XMLRoot may be left empty when every
// call supplies [WithXMLRoot] or skips conversion.
func NewXML(cfg Config) *XMLAdapter {
	a := &XMLAdapter{p: newPipeline(XML, cfg)}
	a.p.render = func(_ context.Context, data any, o *callOptions) (any, error) {
		if a.skip(o) {
			return data, nil
		}
		root, xcfg, err := a.settings(o)
		if err != nil {
			return nil, err
		}
		return convertXML(root, xcfg, ResultSuccess, http.StatusOK, data)
	}
	a.p.fail = func(_ context.Context, e any, o *callOptions) (any, error) {
		if a.skip(o) {
			return e, nil
		}
		root, xcfg, err := a.settings(o)
		if err != nil {
			return nil, err
		}
		body := map[string]any{"error": ErrorMessage(e)}
		return convertXML(root, xcfg, ResultError, http.StatusInternalServerError, body)
	}
	a.p.write = func(o *callOptions, status int, out any) error {
		return writeText(o.w, status, ContentTypeXML, out)
	}
	return a
}

// Render formats data as an XML success document.
func (a *XMLAdapter) Render(ctx context.Context, data any, opts ...Option) (any, error) {
	return a.p.doRender(ctx, data, applyOptions(opts))
}

// Error formats err as an XML error document. Only the message of err is
// included.
func (a *XMLAdapter) Error(ctx context.Context, err any, opts ...Option) (any, error) {
	return a.p.doError(ctx, err, applyOptions(opts))
}

func (a *XMLAdapter) skip(o *callOptions) bool {
	if o.skipConversion != nil {
		return *o.skipConversion
	}
	return a.p.cfg.SkipConversion
}

func (a *XMLAdapter) settings(o *callOptions) (string, XMLConfig, error) {
	root := firstNonEmpty(o.xmlRoot, a.p.cfg.XMLRoot)
	if root == "" {
		return "", XMLConfig{}, ErrMissingXMLRoot
	}
	xcfg := a.p.cfg.XMLConfig
	if o.xmlConfig != nil {
		xcfg = *o.xmlConfig
	}
	return root, xcfg, nil
}

// envelopeOrder is the child order of every XML document. mxj writes map
// keys sorted, so documents are reordered after conversion.
var envelopeOrder = []string{"result", "status", "data"}

func convertXML(root string, cfg XMLConfig, result string, status int, data any) (string, error) {
	if !validXMLName(root) {
		return "", fmt.Errorf("convert xml: %w: root %q", ErrInvalidXMLName, root)
	}
	normalized, err := normalize(data, true)
	if err != nil {
		return "", fmt.Errorf("convert xml data: %w", err)
	}
	escaped, err := escapeXML(normalized)
	if err != nil {
		return "", fmt.Errorf("convert xml: %w", err)
	}
	doc := mxj.Map{
		"result": result,
		"status": status,
		"data":   escaped,
	}
	raw, err := doc.Xml(root)
	if err != nil {
		return "", fmt.Errorf("convert xml: %w", err)
	}
	out, err := reorderXML(raw, cfg.Indent)
	if err != nil {
		return "", fmt.Errorf("convert xml: %w", err)
	}
	return cfg.Declaration.header() + string(out), nil
}

// reorderXML re-encodes a document with the root's children in
// envelopeOrder, indenting when indent is set. Malformed input is an error.
func reorderXML(raw []byte, indent string) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	var root xml.StartElement
	children := map[string][]xml.Token{}
	var current string
	depth := 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				root = t.Copy()
				continue
			}
			if depth == 2 {
				current = t.Name.Local
			}
		case xml.EndElement:
			depth--
			if depth == 0 {
				continue
			}
		default:
			if depth < 2 {
				continue
			}
		}
		children[current] = append(children[current], xml.CopyToken(tok))
	}

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if indent != "" {
		enc.Indent("", indent)
	}
	if err := enc.EncodeToken(root); err != nil {
		return nil, err
	}
	for _, name := range envelopeOrder {
		for _, tok := range children[name] {
			if err := enc.EncodeToken(tok); err != nil {
				return nil, err
			}
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var xmlName = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_.\-]*$`)

// validXMLName reports whether s can be used as an element name. Colons
// are rejected so keys never bind namespace prefixes.
func validXMLName(s string) bool {
	return xmlName.MatchString(s)
}

// escapeXML escapes string values and checks that every map key is a valid
// element name. mxj writes text as given.
func escapeXML(v any) (any, error) {
	switch t := v.(type) {
	case string:
		var buf bytes.Buffer
		if err := xml.EscapeText(&buf, []byte(t)); err != nil {
			return nil, err
		}
		return buf.String(), nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if !validXMLName(k) {
				return nil, fmt.Errorf("%w: %q", ErrInvalidXMLName, k)
			}
			e, err := escapeXML(val)
			if err != nil {
				return nil, err
			}
			out[k] = e
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			e, err := escapeXML(val)
			if err != nil {
				return nil, err
			}
			out[i] = e
		}
		return out, nil
	}
	return v, nil
}

// normalize turns arbitrary data into maps, slices and scalars by a JSON
// round trip so structs convert the same way maps do. With numbersAsText,
// numbers come back as their literal text instead of float64.
func normalize(data any, numbersAsText bool) (any, error) {
	switch data.(type) {
	case nil, string, bool, int, int64, float64:
		return data, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	if numbersAsText {
		dec.UseNumber()
	}
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if numbersAsText {
		out = numbersToText(out)
	}
	return out, nil
}

// numbersToText replaces json.Number values with their literal text.
func numbersToText(v any) any {
	switch t := v.(type) {
	case json.Number:
		return t.String()
	case map[string]any:
		for k, val := range t {
			t[k] = numbersToText(val)
		}
	case []any:
		for i, val := range t {
			t[i] = numbersToText(val)
		}
	}
	return v
}
