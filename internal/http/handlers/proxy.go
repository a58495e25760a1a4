package handlers

import (
	"net/http"

	"adminconsole/internal/upstream"
)

// validator is implemented by every payload the console forwards upstream.
type validator interface {
	Validate() error
}

// decodeValid decodes and validates a payload, answering the request itself
// when either step fails.
func decodeValid(w http.ResponseWriter, r *http.Request, v validator) bool {
	if err := decodeJSON(w, r, v); err != nil {
		writeError(w, r, err)
		return false
	}
	if n, ok := v.(interface{ Normalize() }); ok {
		n.Normalize()
	}
	if err := v.Validate(); err != nil {
		writeError(w, r, err)
		return false
	}
	return true
}

// relay writes an upstream answer and, after a successful mutation, invalidates
// the list namespaces it affects.
func relay[T any](w http.ResponseWriter, r *http.Request, status int, resp upstream.Response[T], err error, invalidate func(...string), namespaces ...string) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	if invalidate != nil && len(namespaces) > 0 {
		invalidate(namespaces...)
	}
	writeJSON(w, status, resp)
}
