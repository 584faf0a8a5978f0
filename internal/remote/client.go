// Package remote issues single HTTP requests against external JSON APIs.
//
// Every call performs exactly one network round trip. There are no retries and no
// response caching; callers bound the request with their context.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Kind classifies a failed remote call
type Kind int

const (
	// KindNetwork means the request never produced a response
	KindNetwork Kind = iota + 1
	// KindStatus means the server answered with a non-2xx status
	KindStatus
	// KindDecode means the body was not the JSON shape we expected
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is the typed failure returned by Client
type Error struct {
	Kind       Kind
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
	default:
		return fmt.Sprintf("%s %s: %s error: %v", e.Method, e.URL, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Request describes one outgoing call. Body, when set, is encoded as JSON.
type Request struct {
	Method string
	URL    string
	Body   interface{}
	Header http.Header
}

// Client wraps an *http.Client
type Client struct {
	http *http.Client
}

// NewClient creates a Client. A nil httpClient uses http.DefaultClient.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient}
}

// Do sends the request and decodes a JSON response body into out.
// out may be nil when the caller only cares about success.
func (c *Client) Do(ctx context.Context, req Request, out interface{}) error {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return &Error{Kind: KindDecode, Method: method, URL: req.URL, Err: fmt.Errorf("failed to marshal request: %w", err)}
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return &Error{Kind: KindNetwork, Method: method, URL: req.URL, Err: err}
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return &Error{Kind: KindNetwork, Method: method, URL: req.URL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return &Error{Kind: KindStatus, Method: method, URL: req.URL, StatusCode: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindDecode, Method: method, URL: req.URL, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

// GetJSON fetches url and decodes the body into a T
func GetJSON[T any](ctx context.Context, c *Client, url string) (T, error) {
	var out T
	err := c.Do(ctx, Request{Method: http.MethodGet, URL: url}, &out)
	return out, err
}

// PostJSON posts body to url and decodes the answer into a T
func PostJSON[T any](ctx context.Context, c *Client, url string, body interface{}, header http.Header) (T, error) {
	var out T
	err := c.Do(ctx, Request{Method: http.MethodPost, URL: url, Body: body, Header: header}, &out)
	return out, err
}
