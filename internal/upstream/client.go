package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"adminconsole/internal/listquery"
	"adminconsole/internal/upstream/base"
)

// ProcessingImageSuffix marks an image the backend is still generating.
const ProcessingImageSuffix = "/processing.png"

// Response is the envelope of every backend answer.
type Response[T any] struct {
	Code      int                 `json:"code"`
	Message   string              `json:"message"`
	RequestID string              `json:"requestId"`
	Data      T                   `json:"data"`
	PageInfo  *listquery.PageInfo `json:"pageInfo,omitempty"`
}

// Client talks to the project-management backend on behalf of a signed-in user.
type Client struct {
	http *base.HTTPClient
}

// New creates a Client for baseURL.
func New(baseURL string, timeoutSec int) *Client {
	h := base.NewHTTPClient("backend", timeoutSec)
	h.SetBaseURL(baseURL)
	return &Client{http: h}
}

// IsProcessingImage reports whether an image URL is the backend's placeholder
// for an image that is still being processed.
func IsProcessingImage(imageURL string) bool {
	return strings.HasSuffix(imageURL, ProcessingImageSuffix)
}

func get[T any](ctx context.Context, c *Client, token, endpoint string, query url.Values) (Response[T], error) {
	resp, err := c.http.Get(ctx, endpoint, query, token)
	return decode[T](endpoint, resp, err)
}

func post[T any](ctx context.Context, c *Client, token, endpoint string, payload any) (Response[T], error) {
	resp, err := c.http.PostJSON(ctx, endpoint, payload, token)
	return decode[T](endpoint, resp, err)
}

func put[T any](ctx context.Context, c *Client, token, endpoint string, payload any) (Response[T], error) {
	resp, err := c.http.PutJSON(ctx, endpoint, payload, token)
	return decode[T](endpoint, resp, err)
}

func decode[T any](endpoint string, resp *base.HTTPResponse, err error) (Response[T], error) {
	var out Response[T]
	if err != nil {
		return out, err
	}
	if len(resp.Body) == 0 {
		return out, nil
	}
	if err := resp.UnmarshalJSON(&out); err != nil {
		return out, fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return out, nil
}

func pageQuery(q url.Values, page, limit int) url.Values {
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

func corporatePath(corporateID string, parts ...string) string {
	p := "/corporates/" + url.PathEscape(corporateID)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}
