package respond

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
)

// Content types written by the adapters.
const (
	ContentTypeJSON       = "application/json; charset=utf-8"
	ContentTypeJavaScript = "text/javascript; charset=utf-8"
	ContentTypeXML        = "application/xml; charset=utf-8"
	ContentTypeHTML       = "text/html; charset=utf-8"
	ContentTypeYAML       = "application/yaml; charset=utf-8"
)

// CallbackParam is the query parameter that switches JSON output to JSONP.
const CallbackParam = "callback"

var callbackUnsafe = regexp.MustCompile(`[^\[\]\w$.]`)

// jsonpCallback returns the sanitized JSONP callback for r, or "".
func jsonpCallback(r *http.Request) string {
	if r == nil || r.URL == nil {
		return ""
	}
	return callbackUnsafe.ReplaceAllString(r.URL.Query().Get(CallbackParam), "")
}

// writeText writes pre-rendered output. Strings and byte slices are sent as
// they are with contentType; any other value is sent as JSON, with error
// values reduced to an [ErrorDetail].
func writeText(w http.ResponseWriter, status int, contentType string, out any) error {
	switch v := out.(type) {
	case string:
		return writeBody(w, status, contentType, []byte(v))
	case []byte:
		return writeBody(w, status, contentType, v)
	case error:
		return writeJSONBody(w, nil, status, "", ErrorDetail{Message: ErrorMessage(v)})
	default:
		return writeJSONBody(w, nil, status, "", out)
	}
}

// writeJSONBody encodes out as JSON, or as JSONP when r asks for it.
func writeJSONBody(w http.ResponseWriter, r *http.Request, status int, indent string, out any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	body := bytes.TrimRight(buf.Bytes(), "\n")

	if cb := jsonpCallback(r); cb != "" {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		js := fmt.Sprintf("/**/ typeof %s === 'function' && %s(%s);", cb, cb, body)
		return writeBody(w, status, ContentTypeJavaScript, []byte(js))
	}
	return writeBody(w, status, ContentTypeJSON, body)
}

func writeBody(w http.ResponseWriter, status int, contentType string, body []byte) error {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}
