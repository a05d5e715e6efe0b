package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNoToken is returned when a protected call is attempted without an
// active session.
var ErrNoToken = errors.New("not logged in")

// Error is a non-2xx response from the backend. Detail carries the
// structured message from the response body when the backend provided one.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// decodeError builds an *Error from a non-2xx response, extracting the
// FastAPI-style {"detail": ...} payload when present.
func decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Detail != "" {
		apiErr.Detail = payload.Detail
	}
	return apiErr
}

// Detail returns the structured message of err when it is a backend
// rejection, or fallback for transport and unknown failures. Rejection
// messages travel verbatim; everything else collapses to the operation's
// fixed fallback string.
func Detail(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// surfaced carries a user-facing message while keeping the cause
// inspectable through errors.Is/As.
type surfaced struct {
	msg string
	err error
}

func (e *surfaced) Error() string { return e.msg }
func (e *surfaced) Unwrap() error { return e.err }

// Surface wraps err so its message is what the user should see: the
// backend's detail verbatim when present, otherwise fallback.
func Surface(err error, fallback string) error {
	return &surfaced{msg: Detail(err, fallback), err: err}
}
