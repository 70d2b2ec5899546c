package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// maxSnippet bounds the part of an error body kept for display.
const maxSnippet = 200

// NetworkError reports that a request never produced an HTTP response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError reports a response outside the 2xx range.
type ServerError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: server returned %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.StatusCode, e.Body)
}

// newServerError keeps the "error" field of a JSON body when there is one,
// otherwise a trimmed snippet of the raw body.
func newServerError(op string, status int, body []byte) *ServerError {
	var payload struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}
	if len(msg) > maxSnippet {
		msg = msg[:maxSnippet] + "..."
	}
	return &ServerError{Op: op, StatusCode: status, Body: msg}
}
