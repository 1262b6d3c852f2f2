package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a thin HTTP client for the delivery backend REST API. It
// attaches the session's bearer token to every request, normalizes
// transport failures to ErrUnreachable, and clears the session when the
// backend answers 401.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// token supplies the current bearer token; empty means no auth header.
	token func() string

	// onAuthLost runs once per 401 response, before the error is returned.
	// Wired to the session store's Clear.
	onAuthLost func()
}

// NewClient creates a Client for the given base URL. baseURL may be empty,
// in which case every request returns ErrNotConfigured. token and
// onAuthLost may be nil.
func NewClient(baseURL string, timeout time.Duration, token func() string, onAuthLost func()) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		token:      token,
		onAuthLost: onAuthLost,
	}
}

// Configured reports whether a backend base URL is set.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// post performs an HTTP POST request with a JSON body and unmarshals the
// JSON response.
func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// do builds the request, attaches auth, and handles the error taxonomy:
// transport failure -> ErrUnreachable, 401 -> session clear + RequestError,
// other non-2xx -> RequestError with the backend message when present.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s %s: %v", ErrUnreachable, method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onAuthLost != nil {
			c.onAuthLost()
		}
		return &RequestError{
			Status:  http.StatusUnauthorized,
			Message: "session expired, please sign in again",
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.Unmarshal(respBody, &eb)
		return &RequestError{Status: resp.StatusCode, Message: eb.text()}
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}

	return nil
}
