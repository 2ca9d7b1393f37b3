package respond_test

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/respond"
)

func personData() map[string]any {
	return map[string]any{
		"person": []any{
			map[string]any{"firstname": "Fake", "lastname": "Guy"},
		},
	}
}

func TestXMLRender(t *testing.T) {
	t.Parallel()
	a := respond.NewXML(respond.Config{XMLRoot: "example"})
	out, err := a.Render(context.Background(), personData())
	require.NoError(t, err)

	doc, ok := out.(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(doc, `<?xml version="1.0"?>`), doc)
	assert.Contains(t, doc, "<example>")
	assert.Contains(t, doc, "</example>")
	assert.Contains(t, doc, "<result>success</result>")
	assert.Contains(t, doc, "<status>200</status>")
	assert.Contains(t, doc, "<firstname>Fake</firstname>")
	assert.Contains(t, doc, "<lastname>Guy</lastname>")
}

func TestXMLRenderStruct(t *testing.T) {
	t.Parallel()
	type person struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}
	a := respond.NewXML(respond.Config{XMLRoot: "example"})
	out, err := a.Render(context.Background(), person{Name: "Fake", Age: 42})
	require.NoError(t, err)
	assert.Contains(t, out, "<name>Fake</name>")
	assert.Contains(t, out, "<age>42</age>")
}

func TestXMLRenderDeclarationEncoding(t *testing.T) {
	t.Parallel()
	a := respond.NewXML(respond.Config{
		XMLRoot:   "example",
		XMLConfig: respond.XMLConfig{Declaration: respond.XMLDeclaration{Encoding: "UTF-8"}},
	})
	out, err := a.Render(context.Background(), personData())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.(string), `<?xml version="1.0" encoding="UTF-8"?>`), out)
}

func TestXMLRenderOmitDeclaration(t *testing.T) {
	t.Parallel()
	a := respond.NewXML(respond.Config{XMLRoot: "example"})
	out, err := a.Render(context.Background(), personData(),
		respond.WithXMLConfig(respond.XMLConfig{Declaration: respond.XMLDeclaration{Omit: true}}))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.(string), "<example>"), out)
}

func TestXMLRenderIndent(t *testing.T) {
	t.Parallel()
	a := respond.NewXML(respond.Config{XMLRoot: "example", XMLConfig: respond.XMLConfig{Indent: "  "}})
	out, err := a.Render(context.Background(), personData())
	require.NoError(t, err)
	assert.Contains(t, out, "\n  <status>200</status>")
}

func TestXMLRenderSkipConversion(t *testing.T) {
	t.Parallel()
	a := respond.NewXML(respond.Config{XMLRoot: "example"})
	data := personData()
	out, err := a.Render(context.Background(), data, respond.WithSkipConversion(true))
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestXMLRenderSkipConversionCallOverridesConfig(t *testing.T) {
	t.Parallel()
	a := respond.NewXML(respond.Config{XMLRoot: "example", SkipConversion: true})

	out, err := a.Render(context.Background(), personData())
	require.NoError(t, err)
	assert.IsType(t, map[string]any{}, out)

	out, err = a.Render(context.Background(), personData(), respond.WithSkipConversion(false))
	require.NoError(t, err)
	assert.IsType(t, "", out)
}

func TestXMLRenderMissingRoot(t *testing.T) {
	t.Parallel()
	a := respond.NewXML(respond.Config{})
	_, err := a.Render(context.Background(), personData())
	assert.ErrorIs(t, err, respond.ErrMissingXMLRoot)

	out, err := a.Render(context.Background(), personData(), respond.WithXMLRoot("people"))
	require.NoError(t, err)
	assert.Contains(t, out, "<people>")
}

func TestXMLError(t *testing.T) {
	t.Parallel()
	a := respond.NewXML(respond.Config{XMLRoot: "example"})
	out, err := a.Error(context.Background(), map[string]any{"message": "Some Random Error"})
	require.NoError(t, err)
	assert.Contains(t, out, "<result>error</result>")
	assert.Contains(t, out, "<status>500</status>")
	assert.Contains(t, out, "<error>Some Random Error</error>")
}

func TestXMLErrorFromError(t *testing.T) {
	t.Parallel()
	a := respond.NewXML(respond.Config{XMLRoot: "example"})
	out, err := a.Error(context.Background(), errRandom)
	require.NoError(t, err)
	assert.Contains(t, out, "<error>Some Random Error</error>")
}

func TestXMLErrorSkipConversion(t *testing.T) {
	t.Parallel()
	a := respond.NewXML(respond.Config{XMLRoot: "example"})
	in := map[string]any{"message": "Some Random Error"}
	out, err := a.Error(context.Background(), in, respond.WithSkipConversion(true))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestXMLWritesResponse(t *testing.T) {
	t.Parallel()
	a := respond.NewXML(respond.Config{XMLRoot: "example"})
	rec, req := newExchange("/")

	out, err := a.Render(context.Background(), personData(), respond.WithHTTP(rec, req))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, respond.ContentTypeXML, rec.Header().Get("Content-Type"))
	assert.Equal(t, out, rec.Body.String())
}

func TestXMLRenderMissingRootRespondsWithError(t *testing.T) {
	t.Parallel()
	a := respond.NewXML(respond.Config{})
	rec, req := newExchange("/")

	_, err := a.Render(context.Background(), personData(), respond.WithHTTP(rec, req))
	assert.ErrorIs(t, err, respond.ErrMissingXMLRoot, "the error document needs a root as well")
	assert.Zero(t, rec.Body.Len())
}

func TestXMLRenderEscapesText(t *testing.T) {
	t.Parallel()
	a := respond.NewXML(respond.Config{XMLRoot: "example"})
	out, err := a.Render(context.Background(), map[string]any{"expr": "a<b & c"})
	require.NoError(t, err)
	assert.Contains(t, out, "<expr>a&lt;b &amp; c</expr>")
}

func TestXMLRenderElementOrder(t *testing.T) {
	t.Parallel()
	a := respond.NewXML(respond.Config{XMLRoot: "r", XMLConfig: respond.XMLConfig{Declaration: respond.XMLDeclaration{Omit: true}}})
	out, err := a.Render(context.Background(), map[string]any{"b": 1, "a": "x<&y", "c": []any{1, 2}})
	require.NoError(t, err)
	assert.Equal(t,
		"<r><result>success</result><status>200</status><data><a>x&lt;&amp;y</a><b>1</b><c>1</c><c>2</c></data></r>",
		out)
}

func TestXMLErrorElementOrder(t *testing.T) {
	t.Parallel()
	a := respond.NewXML(respond.Config{XMLRoot: "r"})
	out, err := a.Error(context.Background(), errRandom)
	require.NoError(t, err)
	assert.Equal(t,
		"<?xml version=\"1.0\"?>\n<r><result>error</result><status>500</status><data><error>Some Random Error</error></data></r>",
		out)
}

func TestXMLRenderIndentKeepsOrder(t *testing.T) {
	t.Parallel()
	a := respond.NewXML(respond.Config{XMLRoot: "r", XMLConfig: respond.XMLConfig{
		Indent:      "  ",
		Declaration: respond.XMLDeclaration{Omit: true},
	}})
	out, err := a.Render(context.Background(), map[string]any{"name": "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "<r>\n  <result>success</result>\n  <status>200</status>\n  <data>\n    <name>Ann</name>\n  </data>\n</r>", out)
}

func TestXMLRenderIsWellFormed(t *testing.T) {
	t.Parallel()
	a := respond.NewXML(respond.Config{XMLRoot: "example"})
	out, err := a.Render(context.Background(), map[string]any{
		"quote": `say "hi" & 'bye'`,
		"list":  []any{map[string]any{"x": "<tag>"}, nil},
	})
	require.NoError(t, err)

	dec := xml.NewDecoder(strings.NewReader(out.(string)))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err, out)
	}
}

func TestXMLRenderInvalidElementName(t *testing.T) {
	t.Parallel()
	a := respond.NewXML(respond.Config{XMLRoot: "example"})
	for _, key := range []string{"bad key", "1x", "-attr", "#text", "ns:name", ""} {
		_, err := a.Render(context.Background(), map[string]any{key: 1})
		assert.ErrorIs(t, err, respond.ErrInvalidXMLName, key)
	}

	_, err := a.Render(context.Background(), map[string]any{"ok": map[string]any{"nested key": 1}})
	assert.ErrorIs(t, err, respond.ErrInvalidXMLName)

	_, err = a.Render(context.Background(), nil, respond.WithXMLRoot("bad root"))
	assert.ErrorIs(t, err, respond.ErrInvalidXMLName)
}

func TestXMLRenderInvalidElementNameRespondsWithError(t *testing.T) {
	t.Parallel()
	a := respond.NewXML(respond.Config{XMLRoot: "example"})
	rec, req := newExchange("/")

	out, err := a.Render(context.Background(), map[string]any{"bad key": 1}, respond.WithHTTP(rec, req))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, out, "<result>error</result>")
	assert.Contains(t, rec.Body.String(), "invalid xml element name")
}

func TestXMLErrorSkipConversionWritesMessage(t *testing.T) {
	t.Parallel()
	a := respond.NewXML(respond.Config{SkipConversion: true})
	rec, req := newExchange("/")

	out, err := a.Error(context.Background(), errRandom, respond.WithHTTP(rec, req))
	require.NoError(t, err)
	assert.Equal(t, errRandom, out)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Some Random Error"}`, rec.Body.String())
}
