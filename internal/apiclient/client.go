// Package apiclient talks to the e-commerce backend on behalf of the operator.
// Every call attaches the stored bearer token, runs under a per-attempt
// timeout, refreshes the token once on 401 and retries transient failures with
// linear backoff. Responses are parsed as JSON with object keys converted from
// PascalCase to camelCase.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"admin-console/internal/event"
	"admin-console/internal/retry"
	"admin-console/internal/tokenstore"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultLoginPath = "/login"

	userAgent    = "Mozilla/5.0 (compatible; Admin-Panel/1.0)"
	acceptHeader = "application/json, text/plain, */*"
	maxBodyBytes = 16 << 20
)

type Config struct {
	BaseURL string
	// Timeout bounds each network attempt, not the whole call.
	Timeout time.Duration
	// RetryInterval is the backoff unit; retry i waits RetryInterval × (i+1).
	RetryInterval time.Duration
	LoginPath     string
}

type Client struct {
	baseURL    *url.URL
	http       *http.Client
	tokens     *tokenstore.Store
	bus        event.Bus
	timeout    time.Duration
	interval   time.Duration
	loginPath  string
	sleep      retry.SleepFunc
	refreshing singleflight.Group
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithBus(bus event.Bus) Option {
	return func(c *Client) { c.bus = bus }
}

// WithSleep replaces the backoff wait, for tests.
func WithSleep(sleep retry.SleepFunc) Option {
	return func(c *Client) { c.sleep = sleep }
}

func New(cfg Config, tokens *tokenstore.Store, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("parse backend base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend base url %q must be http or https", cfg.BaseURL)
	}

	c := &Client{
		baseURL:   base,
		http:      &http.Client{},
		tokens:    tokens,
		bus:       event.Nop{},
		timeout:   cfg.Timeout,
		interval:  cfg.RetryInterval,
		loginPath: cfg.LoginPath,
		sleep:     retry.Sleep,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.interval <= 0 {
		c.interval = retry.DefaultInterval
	}
	if c.loginPath == "" {
		c.loginPath = DefaultLoginPath
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) LoginPath() string { return c.loginPath }

// Request describes one logical backend call.
type Request struct {
	Method string
	// Path is either absolute or relative to the configured base URL.
	Path  string
	Query url.Values
	// Body is JSON encoded. Ignored when RawBody is set.
	Body        any
	RawBody     []byte
	ContentType string
	Header      http.Header
	SkipAuth    bool
	// Retries is the number of extra attempts on transient failures.
	Retries int
}

// Do runs req and decodes the case-converted response into out, which may be
// nil.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	value, err := c.DoValue(ctx, req)
	if err != nil {
		return err
	}
	return decodeInto(value, out)
}

// DoValue runs req and returns the case-converted JSON value.
func (c *Client) DoValue(ctx context.Context, req Request) (any, error) {
	body, err := req.encodeBody()
	if err != nil {
		return nil, err
	}

	retrier := retry.New(retry.Config{MaxRetries: req.Retries, Interval: c.interval}, retry.WithSleep(c.sleep))

	var value any
	refreshed := false
	result := retrier.DoWithCallback(ctx, func(ctx context.Context) error {
		v, err := c.attempt(ctx, &req, body, &refreshed)
		if err != nil {
			if !retryable(err) {
				return retry.Permanent(err)
			}
			return err
		}
		value = v
		return nil
	}, func(attempt int, err error, wait time.Duration) {
		slog.Warn("backend request failed, retrying",
			"method", req.Method,
			"path", req.Path,
			"attempt", attempt,
			"wait", wait,
			"error", err,
		)
	})

	if result.Err != nil {
		slog.Error("backend request failed",
			"method", req.Method,
			"path", req.Path,
			"attempts", result.Attempts,
			"error", result.Err,
		)
		return nil, result.Err
	}
	return value, nil
}

// attempt performs one network round trip plus, on 401, a single refresh and
// a replay. refreshed spans every attempt of one call, so a 401 after the
// call's refresh is final.
func (c *Client) attempt(ctx context.Context, req *Request, body []byte, refreshed *bool) (any, error) {
	resp, err := c.send(ctx, req, body)
	if err != nil {
		return nil, err
	}

	if resp.status == http.StatusUnauthorized && !req.SkipAuth && !*refreshed {
		*refreshed = true
		slog.Info("access token rejected, refreshing", "path", req.Path)
		if _, err := c.Refresh(ctx); err != nil {
			return nil, err
		}

		resp, err = c.send(ctx, req, body)
		if err != nil {
			return nil, err
		}
	}

	return parse(resp)
}

func (c *Client) send(ctx context.Context, req *Request, body []byte) (*rawResponse, error) {
	target, err := c.resolve(req.Path, req.Query)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: "invalid request url", Err: err}
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(attemptCtx, method, target, reader)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: "build request", Err: err}
	}
	c.applyHeaders(ctx, httpReq, req)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, transportError(err)
	}

	slog.Debug("backend request",
		"method", method,
		"path", httpReq.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", httpReq.Header.Get("X-Request-ID"),
	)

	return &rawResponse{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

func (c *Client) applyHeaders(ctx context.Context, httpReq *http.Request, req *Request) {
	h := httpReq.Header
	h.Set("Accept", acceptHeader)
	h.Set("Content-Type", "application/json")
	if req.ContentType != "" {
		h.Set("Content-Type", req.ContentType)
	}
	h.Set("ngrok-skip-browser-warning", "true")
	h.Set("User-Agent", userAgent)
	h.Set("X-Request-ID", uuid.NewString())

	if !req.SkipAuth {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			slog.Warn("read access token failed", "error", err)
		}
		if token != "" {
			h.Set("Authorization", "Bearer "+token)
		}
	}

	for key, values := range req.Header {
		h.Del(key)
		for _, v := range values {
			h.Add(key, v)
		}
	}
}

func (c *Client) resolve(path string, query url.Values) (string, error) {
	var u *url.URL
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		parsed, err := url.Parse(path)
		if err != nil {
			return "", err
		}
		u = parsed
	} else {
		u = c.baseURL.JoinPath(path)
	}

	if len(query) > 0 {
		merged := u.Query()
		for key, values := range query {
			for _, v := range values {
				merged.Add(key, v)
			}
		}
		u.RawQuery = merged.Encode()
	}
	return u.String(), nil
}

func (r *Request) encodeBody() ([]byte, error) {
	if r.RawBody != nil {
		return r.RawBody, nil
	}
	if r.Body == nil {
		return nil, nil
	}
	data, err := json.Marshal(r.Body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return data, nil
}

func transportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Kind: KindTimeout, Message: "backend did not answer in time", Err: err}
	}
	return &Error{Kind: KindNetwork, Message: "backend unreachable", Err: err}
}
