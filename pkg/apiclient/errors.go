package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches 401 responses and failed refresh cycles. In the
	// refresh case the stored session has already been cleared.
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNoRefreshToken = errors.New("no refresh token stored")
	// ErrValidation matches 4xx responses other than 401 and envelopes with
	// success=false.
	ErrValidation = errors.New("request rejected")
	ErrServer     = errors.New("server error")
)

// APIError is a response the server answered with a failure.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrValidation:
		return e.StatusCode < 300 || (e.StatusCode >= 400 && e.StatusCode < 500 && e.StatusCode != http.StatusUnauthorized)
	case ErrServer:
		return e.StatusCode >= 500
	}
	return false
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Body: body}
	var env struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &env) == nil {
		e.Message = env.Message
		if e.Message == "" {
			e.Message = env.Error
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}
