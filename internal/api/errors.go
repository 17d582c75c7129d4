package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized matches 401 and 403 responses
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound matches 404 responses
	ErrNotFound = errors.New("not found")
	// ErrNetwork wraps transport failures
	ErrNetwork = errors.New("failed to connect")

	ErrMissingPassword = errors.New("old and new password are required")
	ErrMissingLogin    = errors.New("email and password are required")
	ErrAvatarType      = errors.New("avatar must be a JPEG or PNG image")
	ErrAvatarSize      = errors.New("avatar must be 2MB or smaller")
	ErrNoToken         = errors.New("backend returned no token")
)

// Error is a non-2xx backend response
type Error struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
}

// Is lets errors.Is match the sentinel errors by status code
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// Message returns the backend's message for err, or err's text
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// errorMessage pulls a human message out of the backend's error bodies:
// {"message": ...}, {"error": ...} or FastAPI's {"detail": ...}.
func errorMessage(body []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Error   string          `json:"error"`
		Detail  json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return strings.TrimSpace(string(body))
	}

	switch {
	case payload.Message != "":
		return payload.Message
	case payload.Error != "":
		return payload.Error
	case len(payload.Detail) > 0:
		var s string
		if json.Unmarshal(payload.Detail, &s) == nil {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if json.Unmarshal(payload.Detail, &items) == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}
	return ""
}
