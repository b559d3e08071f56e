// Package httpx holds the outbound HTTP plumbing shared by the Wikidata and
// synonym clients.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	Service    string
	StatusCode int
	Status     string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s error: %s (%s)", e.Service, e.Message, e.Status)
	}
	return fmt.Sprintf("%s http status: %s", e.Service, e.Status)
}

// ErrMalformed is wrapped when an upstream body cannot be understood.
var ErrMalformed = errors.New("malformed upstream response")

// NewClient returns an *http.Client. A zero timeout leaves the client
// default in place.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// CheckStatus returns a *StatusError for non-2xx responses, pulling a
// message out of the common {"error": "..."} and {"error": {"message": "..."}}
// bodies when present. The body is not closed.
func CheckStatus(service string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	se := &StatusError{Service: service, StatusCode: resp.StatusCode, Status: resp.Status}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	var flat struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &nested) == nil && nested.Error.Message != "" {
		se.Message = nested.Error.Message
	} else if json.Unmarshal(body, &flat) == nil && flat.Error != "" {
		se.Message = flat.Error
	}
	return se
}

// Drain discards the rest of the body and closes it so the connection can
// be reused.
func Drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
