package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is returned when the cinema API responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	// Message is the backend's own explanation, taken from the "message"
	// field of a JSON error body when there is one.
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e == nil {
		return "cinema api error"
	}
	if e.Message != "" {
		return fmt.Sprintf("cinema api error: %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("cinema api error: %s: %s", e.Status, e.Body)
}

func newAPIError(res *http.Response, endpoint string, snippet []byte) *APIError {
	body := strings.TrimSpace(string(snippet))
	return &APIError{
		StatusCode: res.StatusCode,
		Status:     res.Status,
		Endpoint:   endpoint,
		Message:    extractMessage(snippet),
		Body:       body,
	}
}

// extractMessage understands {"message":"..."} and the validation form
// {"message":["a","b"]}.
func extractMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if len(payload.Message) > 0 {
		var text string
		if err := json.Unmarshal(payload.Message, &text); err == nil {
			return strings.TrimSpace(text)
		}
		var list []string
		if err := json.Unmarshal(payload.Message, &list); err == nil {
			return strings.TrimSpace(strings.Join(list, "; "))
		}
	}
	return strings.TrimSpace(payload.Error)
}

// DecodeError is a 2xx response whose body could not be decoded. The request
// itself succeeded.
type DecodeError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response from %s: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether the error represents a 404 from the API.
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// IsConflict reports whether the error represents a 409 from the API.
func IsConflict(err error) bool {
	return statusOf(err) == http.StatusConflict
}

func IsUnauthorized(err error) bool {
	code := statusOf(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// MessageOf returns the backend message carried by err, the error text for
// transport failures, or fallback when neither says anything.
func MessageOf(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	if text := strings.TrimSpace(err.Error()); text != "" {
		return text
	}
	return fallback
}
