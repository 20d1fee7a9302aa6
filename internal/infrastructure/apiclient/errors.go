package apiclient

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// Fallback messages used when neither the server nor the transport gave one.
const (
	FallbackLoginMessage   = "Login failed"
	FallbackRequestMessage = "Request failed"
)

// APIError is a failed call with a human-readable message. Error returns
// Message verbatim so it can be shown to the user as is.
type APIError struct {
	// StatusCode is zero when no response was received.
	StatusCode int
	Message    string
	// Err is the transport error, if any.
	Err error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// StatusCode extracts the HTTP status from err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// errorBody is the subset of error payloads the client understands.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message json.RawMessage `json:"message"`
}

// decodeError builds an APIError choosing, in order: the body's detail, its
// message, the HTTP status text, then fallback.
func decodeError(resp *http.Response, body []byte, fallback string) *APIError {
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    firstNonEmpty(bodyMessage(body), statusText(resp), fallback),
	}
}

// transportError wraps a failure that produced no response. The transport's
// own text is used since the server supplied no reason.
func transportError(err error, fallback string) *APIError {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &APIError{Message: firstNonEmpty(msg, fallback), Err: err}
}

func bodyMessage(body []byte) string {
	var eb errorBody
	if len(body) == 0 || json.Unmarshal(body, &eb) != nil {
		return ""
	}
	return firstNonEmpty(detailText(eb.Detail), plainText(eb.Message))
}

// detailText accepts a string detail or a list of validation items of the
// form {"msg": "..."}, whose messages are joined.
func detailText(raw json.RawMessage) string {
	if s := plainText(raw); s != "" {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(raw, &items) == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	var item struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(raw, &item) == nil {
		return item.Msg
	}
	return ""
}

func plainText(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// statusText returns the reason phrase of the response status line, or the
// standard text for the code when the line carries none.
func statusText(resp *http.Response) string {
	if resp == nil {
		return ""
	}
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
