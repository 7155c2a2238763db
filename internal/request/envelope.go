package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Error is the single failure type surfaced by API calls. Status is the
// HTTP status code, or 0 when the request never produced a response
// (timeout, connection failure). Application-level failures under an HTTP
// 200 carry the envelope's message and the 200 status.
type Error struct {
	URL     string
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request to %s failed: %s", e.URL, e.Message)
	}
	return fmt.Sprintf("request to %s failed (%d): %s", e.URL, e.Status, e.Message)
}

// IsTransport reports whether the failure happened before any HTTP
// response was received.
func (e *Error) IsTransport() bool {
	return e.Status == 0
}

func NewTransportError(url string, err error) *Error {
	return &Error{URL: url, Status: 0, Message: err.Error()}
}

func NewStatusError(url string, status int, body []byte) *Error {
	return &Error{URL: url, Status: status, Message: snippet(body)}
}

// snippet keeps diagnostics readable when a site replies with a full HTML page.
func snippet(body []byte) string {
	const max = 256
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}

// EnvelopeCode is an application status code that sites serialize either
// as a JSON number or a quoted string. Zero means success.
type EnvelopeCode string

func (c *EnvelopeCode) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	*c = EnvelopeCode(s)
	return nil
}

// OK reports success: integer 0 or string "0".
func (c EnvelopeCode) OK() bool {
	return c == "0"
}

// Envelope is the application-level response wrapper used by API-based
// sites: {"code": ..., "message": ..., "data": ...}. The code signals
// logical failure even under HTTP 200.
type Envelope[T any] struct {
	Code    EnvelopeCode `json:"code"`
	Message string       `json:"message"`
	Data    *T           `json:"data"` // pointer to allow nil
}

// DoEnvelope performs the request and unwraps the envelope, collapsing
// transport errors, non-2xx statuses, and envelope failure codes into a
// single *Error. On success the payload is returned; it may be nil when
// the site sends no data.
func DoEnvelope[T any](c *Client, req *http.Request) (*T, error) {
	body, err := c.MakeRequest(req)
	if err != nil {
		return nil, err
	}

	var env Envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &Error{
			URL:     req.URL.String(),
			Status:  http.StatusOK,
			Message: fmt.Sprintf("unexpected response shape: %s", snippet(body)),
		}
	}

	if !env.Code.OK() {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("api error code %s", env.Code)
		}
		return nil, &Error{URL: req.URL.String(), Status: http.StatusOK, Message: msg}
	}

	return env.Data, nil
}
