package appsscript

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client defines the interface for talking to the Apps Script web app
type Client interface {
	// Fetch issues a bare GET and returns the response body.
	Fetch(ctx context.Context) ([]byte, error)
	// Submit POSTs form values and returns the response body.
	Submit(ctx context.Context, form url.Values) ([]byte, error)
}

type clientImpl struct {
	scriptURL  string
	httpClient *http.Client
}

// NewClient creates a new Apps Script client. A zero timeout means the
// request blocks until the script answers.
func NewClient(scriptURL string, timeout time.Duration) Client {
	return &clientImpl{
		scriptURL:  scriptURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *clientImpl) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.scriptURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	return c.do(req)
}

func (c *clientImpl) Submit(ctx context.Context, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.scriptURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

func (c *clientImpl) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error contacting Apps Script: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	slog.DebugContext(req.Context(), "Apps Script responded", "method", req.Method, "status", resp.StatusCode, "bytes", len(body))
	return body, nil
}

// StatusError reports a non-2xx answer from the script.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP Error %d: %s", e.Code, http.StatusText(e.Code))
}
