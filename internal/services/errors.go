package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/desertthunder/hobbyhub/internal/shared"
)

// APIError is a non-2xx response from the backend.
//
// It unwraps to [shared.ErrUnauthorized] for 401, [shared.ErrNotFound] for 404,
// [shared.ErrServiceUnavailable] for 502-504 and [shared.ErrAPIRequest] otherwise.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
	Payload    map[string]any
}

func newAPIError(method, url string, status int, body []byte) *APIError {
	e := &APIError{Method: method, URL: url, StatusCode: status, Body: body}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		e.Payload = payload
	}
	return e
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Message())
}

// Message returns the backend's own message: the "error" or "detail" field, then the first field
// validation error, then a generic fallback.
func (e *APIError) Message() string {
	for _, key := range []string{"error", "detail", "message"} {
		if s, ok := e.Payload[key].(string); ok && s != "" {
			return s
		}
	}

	if len(e.Payload) > 0 {
		keys := make([]string, 0, len(e.Payload))
		for k := range e.Payload {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if msg := firstMessage(e.Payload[k]); msg != "" {
				return k + ": " + msg
			}
		}
	}

	if text := strings.TrimSpace(string(e.Body)); text != "" && e.Payload == nil && len(text) <= 200 && !strings.HasPrefix(text, "<") {
		return text
	}

	return fmt.Sprintf("request failed (%s)", http.StatusText(e.StatusCode))
}

func firstMessage(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		for _, item := range val {
			if s := firstMessage(item); s != "" {
				return s
			}
		}
	}
	return ""
}

func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return shared.ErrUnauthorized
	case e.StatusCode == http.StatusNotFound:
		return shared.ErrNotFound
	case e.StatusCode >= http.StatusBadGateway && e.StatusCode <= http.StatusGatewayTimeout:
		return shared.ErrServiceUnavailable
	default:
		return shared.ErrAPIRequest
	}
}

// Message extracts a user-facing message from any error returned by this package.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return err.Error()
}
