package base

import (
	"encoding/json"
	"errors"
	"strings"
)

// DefaultErrorMessage is used when the backend gives no usable message.
const DefaultErrorMessage = "An unexpected error occurred."

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []string
	RequestID  string
}

func (e *APIError) Error() string { return e.Message }

type errorBody struct {
	Message   string   `json:"message"`
	Errors    []string `json:"errors"`
	RequestID string   `json:"requestId"`
}

// NewAPIError builds an APIError from a response body. The message is the first
// entry of errors, else message, else DefaultErrorMessage, with its first letter
// upper-cased.
func NewAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Message: DefaultErrorMessage}

	var b errorBody
	if err := json.Unmarshal(body, &b); err == nil {
		e.Errors = b.Errors
		e.RequestID = b.RequestID
		switch {
		case len(b.Errors) > 0 && b.Errors[0] != "":
			e.Message = b.Errors[0]
		case b.Message != "":
			e.Message = b.Message
		}
	}
	e.Message = capitalize(e.Message)
	return e
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
