package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adminconsole/internal/domain/project"
	"adminconsole/internal/domain/session"
	middlewarex "adminconsole/internal/http/middleware"
	sessionsvc "adminconsole/internal/services/session"
	"adminconsole/internal/services/views"
	"adminconsole/internal/upstream/base"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var out errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestWriteErrorStatuses(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"upstream", &sessionsvc.ServiceError{Op: "login", Err: base.NewAPIError(http.StatusUnauthorized, []byte(`{"message":"invalid credentials"}`))}, http.StatusUnauthorized, "Invalid credentials"},
		{"unauthenticated", sessionsvc.ErrUnauthenticated, http.StatusUnauthorized, "Session expired, please sign in again"},
		{"unknown corporate", fmt.Errorf("select: %w", sessionsvc.ErrUnknownCorporate), http.StatusBadRequest, "Corporate is not available for this user"},
		{"no corporate", views.ErrNoCorporate, http.StatusBadRequest, NoCorporateMessage},
		{"missing view", views.ErrNotFound, http.StatusNotFound, "View not found"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, base.DefaultErrorMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.message, decodeBody(t, rec).Message)
		})
	}
}

func TestDecodeValidReportsFirstField(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"  ","description":"x"}`))
	rec := httptest.NewRecorder()

	var p project.Payload
	assert.False(t, decodeValid(rec, req, &p))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "name", body.Field)
	assert.Equal(t, "Name is required", body.Message)
}

func TestDecodeValidRejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	rec := httptest.NewRecorder()

	var p project.Payload
	assert.False(t, decodeValid(rec, req, &p))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSelectedCorporateRequiresSelection(t *testing.T) {
	sess := &session.Session{ID: "s-1"}
	req := httptest.NewRequest(http.MethodPost, "/projects", nil)
	req = req.WithContext(middlewarex.WithSession(req.Context(), sess))

	rec := httptest.NewRecorder()
	_, _, ok := selectedCorporate(rec, req)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, NoCorporateMessage, decodeBody(t, rec).Message)

	sess.SelectedCorporate = "c-1"
	rec = httptest.NewRecorder()
	_, cid, ok := selectedCorporate(rec, req)
	assert.True(t, ok)
	assert.Equal(t, "c-1", cid)
}
