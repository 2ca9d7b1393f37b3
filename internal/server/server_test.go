package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/respond"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	adapters := map[string]respond.Adapter{
		"json": respond.NewJSON(respond.Config{}),
		"xml":  respond.NewXML(respond.Config{XMLRoot: "example"}),
		"html": respond.NewHTML(respond.Config{ViewName: "example"}),
	}
	srv := httptest.NewServer(New(adapters).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var env map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, "success", env["result"])
	assert.Equal(t, map[string]any{"status": "ok"}, env["data"])
}

func TestRenderJSON(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	resp, body := post(t, srv.URL+"/render/json", `{"data":{"foo":"bar"}}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"result":"success","status":200,"data":{"foo":"bar"}}`, body)
}

func TestRenderJSONP(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	resp, body := post(t, srv.URL+"/render/json?callback=handle", `{"data":1}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/javascript")
	assert.Contains(t, body, "handle(")
}

func TestRenderXML(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	resp, body := post(t, srv.URL+"/render/xml", `{"data":{"name":"Fake"}}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/xml")
	assert.Contains(t, body, "<status>200</status>")
	assert.Contains(t, body, "<name>Fake</name>")
}

func TestRenderHTML(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	dir, err := filepath.Abs("../../testdata/views")
	require.NoError(t, err)
	payload, err := json.Marshal(RenderRequest{Data: map[string]any{"name": "OG Bobby Johnson"}, Dirs: []string{dir}})
	require.NoError(t, err)

	resp, body := post(t, srv.URL+"/render/html", string(payload))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "OG Bobby Johnson")
}

func TestRenderHTMLMissingTemplate(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	resp, body := post(t, srv.URL+"/render/html", `{"data":{},"view":"does/not/exist"}`)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, `"result":"error"`)
}

func TestErrorEndpoint(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	resp, body := post(t, srv.URL+"/error/json", `{"message":"Some Random Error"}`)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"result":"error","status":500,"data":{"error":{"message":"Some Random Error"}}}`, body)
}

func TestUnknownAdapter(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	resp, body := post(t, srv.URL+"/render/csv", `{}`)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "unknown adapter")
}

func TestInvalidBody(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	resp, _ := post(t, srv.URL+"/render/json", `{`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetrics(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	post(t, srv.URL+"/render/json", `{"data":1}`)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(b), `respond_responses_total{adapter="json",op="render",outcome="ok"} 1`)
	assert.Contains(t, string(b), "respond_render_duration_seconds")
}

func TestMetricsCountsFallbackErrorPageAsFailed(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	dir, err := filepath.Abs("../../testdata/views")
	require.NoError(t, err)
	payload, err := json.Marshal(RenderRequest{Data: map[string]any{}, View: "nope", Dirs: []string{dir}})
	require.NoError(t, err)

	resp, body := post(t, srv.URL+"/render/html", string(payload))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "Not Found")

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(b), `respond_responses_total{adapter="html",op="render",outcome="failed"} 1`)
	assert.NotContains(t, string(b), `respond_responses_total{adapter="html",op="render",outcome="ok"}`)
}

func TestMetricsDisabled(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(New(nil, WithMetricsPath("")).Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
