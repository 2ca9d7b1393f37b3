package respond

import (
	"fmt"
	"net/http"
)

// Result values carried by an [Envelope].
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Envelope is the uniform wrapper around response payloads.
type Envelope struct {
	Result string `json:"result" yaml:"result"`
	Status int    `json:"status" yaml:"status"`
	Data   any    `json:"data" yaml:"data"`
}

// ErrorData is the Data of an error envelope.
type ErrorData struct {
	Error any `json:"error" yaml:"error"`
}

// ErrorDetail describes an error value inside [ErrorData].
type ErrorDetail struct {
	Message string `json:"message" yaml:"message"`
}

// Success wraps data in a success envelope.
func Success(data any) Envelope {
	return Envelope{Result: ResultSuccess, Status: http.StatusOK, Data: data}
}

// Failure wraps v in an error envelope. Error values are reduced to their
// message; anything else is carried as is.
func Failure(v any) Envelope {
	return Envelope{
		Result: ResultError,
		Status: http.StatusInternalServerError,
		Data:   ErrorData{Error: errorDetail(v)},
	}
}

func errorDetail(v any) any {
	if err, ok := v.(error); ok {
		return ErrorDetail{Message: err.Error()}
	}
	return v
}

type messager interface {
	Message() string
}

// ErrorMessage extracts a human readable message from an error payload.
func ErrorMessage(v any) string {
	switch e := v.(type) {
	case nil:
		return ""
	case error:
		return e.Error()
	case messager:
		return e.Message()
	case string:
		return e
	case map[string]any:
		if msg, ok := e["message"].(string); ok {
			return msg
		}
	case map[string]string:
		if msg, ok := e["message"]; ok {
			return msg
		}
	}
	return fmt.Sprint(v)
}

// statusOf returns the HTTP status to use for out, falling back to def.
func statusOf(out any, def int) int {
	switch e := out.(type) {
	case Envelope:
		if e.Status != 0 {
			return e.Status
		}
	case *Envelope:
		if e != nil && e.Status != 0 {
			return e.Status
		}
	}
	return def
}
