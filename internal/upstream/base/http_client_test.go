package base

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSendsQueryAndBearer(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Write([]byte(`{"code":200}`))
	}))
	defer srv.Close()

	c := NewHTTPClient("test", 5)
	c.SetBaseURL(srv.URL + "/")
	resp, err := c.Get(context.Background(), "/corporates", url.Values{"q": {"acme"}, "status": {""}}, "tok")
	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())

	assert.Equal(t, "/corporates", got.URL.Path)
	assert.Equal(t, "acme", got.URL.Query().Get("q"))
	_, hasStatus := got.URL.Query()["status"]
	assert.False(t, hasStatus)
	assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))
}

func TestPutJSONSendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "x", body["name"])
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewHTTPClient("test", 0)
	c.SetBaseURL(srv.URL)
	_, err := c.PutJSON(context.Background(), "/p", map[string]string{"name": "x"}, "")
	require.NoError(t, err)
}

func TestNonSuccessBecomesAPIError(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"first of errors", `{"message":"bad","errors":["code already used","other"]}`, "Code already used"},
		{"message", `{"message":"invalid credentials"}`, "Invalid credentials"},
		{"empty", `{}`, DefaultErrorMessage},
		{"not json", `<html>`, DefaultErrorMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewHTTPClient("test", 5)
			c.SetBaseURL(srv.URL)
			_, err := c.PostJSON(context.Background(), "/x", struct{}{}, "")
			apiErr, ok := AsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
			assert.Equal(t, tc.want, apiErr.Message)
		})
	}
}
