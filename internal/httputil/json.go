// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// bodySnippetLimit bounds how much of an error response body is kept for
// error messages and logs.
const bodySnippetLimit = 512

// UpstreamError reports a non-2xx response from an upstream API. Status and
// a snippet of the response body are preserved for logs and error text.
type UpstreamError struct {
	API    string
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned HTTP %d", e.API, e.Status)
	}
	return fmt.Sprintf("%s returned HTTP %d: %s", e.API, e.Status, e.Body)
}

// DecodeError reports a response body that could not be decoded into the
// expected JSON shape.
type DecodeError struct {
	API string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("parsing %s response: %v", e.API, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// JSONClient issues JSON requests against an upstream API. The api label
// passed to each call names the endpoint in errors (e.g. "RePORTER
// projects/search").
type JSONClient struct {
	// Client is the underlying HTTP client; nil falls back to
	// http.DefaultClient.
	Client *http.Client

	// UserAgent is set on every request when non-empty.
	UserAgent string

	// MaxRetries is passed through to DoWithRetry for 429 handling.
	MaxRetries int
}

// PostJSON sends body as a JSON POST to url and decodes the 2xx response
// into out. Non-2xx responses return an *UpstreamError, undecodable bodies
// a *DecodeError.
func (c JSONClient) PostJSON(ctx context.Context, api, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", api, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, api, out)
}

// GetJSON issues a GET to url and decodes the 2xx response into out, with
// the same error contract as PostJSON.
func (c JSONClient) GetJSON(ctx context.Context, api, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, api, out)
}

func (c JSONClient) do(req *http.Request, api string, out any) error {
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := DoWithRetry(req.Context(), client, req, c.MaxRetries)
	if err != nil {
		return fmt.Errorf("%s request: %w", api, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamError{API: api, Status: resp.StatusCode, Body: bodySnippet(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{API: api, Err: err}
	}
	return nil
}

// bodySnippet reads at most bodySnippetLimit bytes of r for error text.
func bodySnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, bodySnippetLimit))
	return strings.TrimSpace(string(b))
}
