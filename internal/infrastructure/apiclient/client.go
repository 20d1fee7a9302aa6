// Package apiclient is the dashboard's HTTP request client. A Client owns a
// base URL and an interceptor pipeline: request interceptors run in order
// immediately before a request is sent, response interceptors immediately
// after it is received. Either kind can reject the call.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 4 << 20

	headerAccept      = "Accept"
	headerContentType = "Content-Type"
	mimeJSON          = "application/json"
	mimeForm          = "application/x-www-form-urlencoded"
)

// RequestInterceptor may mutate an outbound request or reject it.
type RequestInterceptor func(req *http.Request) error

// ResponseInterceptor inspects a response before the caller sees it. A
// non-nil error rejects the call with that error.
type ResponseInterceptor func(resp *http.Response) error

// Config holds the settings shared by every client instance.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client issues requests against the API.
type Client struct {
	name                 string
	baseURL              string
	httpClient           *http.Client
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
	log                  zerolog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithName labels the instance in logs and metrics.
func WithName(name string) Option {
	return func(c *Client) { c.name = name }
}

// WithHTTPClient replaces the transport. The configured timeout is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func WithRequestInterceptor(fn RequestInterceptor) Option {
	return func(c *Client) { c.requestInterceptors = append(c.requestInterceptors, fn) }
}

func WithResponseInterceptor(fn ResponseInterceptor) Option {
	return func(c *Client) { c.responseInterceptors = append(c.responseInterceptors, fn) }
}

// New creates a client for cfg.BaseURL.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("apiclient: base URL is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("apiclient: invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("apiclient: base URL %q must be http or https", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		name:       "default",
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name returns the instance label.
func (c *Client) Name() string {
	return c.name
}

// do sends one request through the pipeline and returns the response with
// its body already read. Non-2xx statuses are not errors at this level.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, header http.Header) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, nil, fmt.Errorf("apiclient: build request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	for _, intercept := range c.requestInterceptors {
		if err := intercept(req); err != nil {
			return nil, nil, err
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observeRequest(c.name, method, path, "error", time.Since(start))
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return nil, nil, err
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	observeRequest(c.name, method, path, strconv.Itoa(resp.StatusCode), time.Since(start))

	for _, intercept := range c.responseInterceptors {
		if err := intercept(resp); err != nil {
			return resp, data, err
		}
	}
	if readErr != nil {
		return resp, nil, fmt.Errorf("apiclient: read %s %s response: %w", method, path, readErr)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		c.log.Warn().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("request rejected")
	} else {
		c.log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("request completed")
	}
	return resp, data, nil
}

// doJSON sends in as JSON (when non-nil) and decodes a 2xx body into out.
// Failures carry the API's message, or fallback when it gave none.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any, fallback string) error {
	header := http.Header{}
	header.Set(headerAccept, mimeJSON)

	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("apiclient: encode %s %s body: %w", method, path, err)
		}
		body = bytes.NewReader(encoded)
		header.Set(headerContentType, mimeJSON)
	}

	resp, data, err := c.do(ctx, method, path, body, header)
	if err != nil {
		if resp != nil {
			return err
		}
		return transportError(err, fallback)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp, data, fallback)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("apiclient: decode %s %s response: %w", method, path, err)
	}
	return nil
}
