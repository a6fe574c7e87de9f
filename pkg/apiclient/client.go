// Package apiclient is the typed client for the Mood Corner REST API.
//
// Every request carries the stored access token as a bearer token. A 401 runs
// one refresh cycle (shared between concurrent callers) and the original
// request is replayed once with the new token.
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

	"golang.org/x/sync/singleflight"

	"github.com/tigermood/moodcorner/pkg/models"
	"github.com/tigermood/moodcorner/pkg/tokenstore"
)

const (
	DefaultTimeout     = 10 * time.Second
	DefaultRefreshPath = "/auth/refresh"
)

type Config struct {
	// BaseURL is the API root, e.g. https://api.example.com/api.
	BaseURL string
	// Store holds the session. Defaults to an in-memory store.
	Store tokenstore.Store
	// HTTPClient supplies the base transport. Its Transport is wrapped, not
	// replaced.
	HTTPClient  *http.Client
	Timeout     time.Duration
	RefreshPath string
	Logger      *slog.Logger
}

type Client struct {
	baseURL     string
	refreshPath string
	timeout     time.Duration
	store       tokenstore.Store
	log         *slog.Logger

	// http runs through the auth interceptors; raw does not and is only used
	// for the refresh call.
	http *http.Client
	raw  *http.Client

	flight singleflight.Group
}

func New(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}

	if cfg.Store == nil {
		cfg.Store = tokenstore.NewMemoryStore()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RefreshPath == "" {
		cfg.RefreshPath = DefaultRefreshPath
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	var base http.RoundTripper
	if cfg.HTTPClient != nil && cfg.HTTPClient.Transport != nil {
		base = cfg.HTTPClient.Transport
	} else {
		base = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 60 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		}
	}

	c := &Client{
		baseURL:     strings.TrimRight(u.String(), "/"),
		refreshPath: cfg.RefreshPath,
		timeout:     cfg.Timeout,
		store:       cfg.Store,
		log:         cfg.Logger.With("component", "apiclient"),
		raw:         &http.Client{Timeout: cfg.Timeout, Transport: base},
	}
	c.http = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &authTransport{
			base:    base,
			store:   cfg.Store,
			refresh: c.refreshAccess,
		},
	}
	return c, nil
}

// Store returns the session store the client reads tokens from.
func (c *Client) Store() tokenstore.Store { return c.store }

// Session returns the stored token pair.
func (c *Client) Session(ctx context.Context) (models.TokenPair, error) {
	return c.store.Load(ctx)
}

type skipRefreshKey struct{}

// withoutRefresh marks requests whose 401 is a credential error rather than
// an expired session.
func withoutRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipRefreshKey{}, true)
}

func refreshDisabled(ctx context.Context) bool {
	v, _ := ctx.Value(skipRefreshKey{}).(bool)
	return v
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// send performs one call through hc and returns the body of a 2xx response.
func send(hc *http.Client, req *http.Request) (int, []byte, error) {
	resp, err := hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, raw, newAPIError(resp.StatusCode, raw)
	}
	return resp.StatusCode, raw, nil
}

func decodeEnvelope[T any](status int, raw []byte) (*models.Envelope[T], error) {
	var env models.Envelope[T]
	if len(bytes.TrimSpace(raw)) == 0 {
		env.Success = true
		return &env, nil
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		e := newAPIError(status, raw)
		if env.Message == "" {
			e.Message = "request failed"
		}
		return nil, e
	}
	return &env, nil
}

func callEnvelope[T any](ctx context.Context, c *Client, method, path string, body any) (*models.Envelope[T], error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	status, raw, err := send(c.http, req)
	if err != nil {
		return nil, err
	}
	return decodeEnvelope[T](status, raw)
}

// call performs the request and unwraps the envelope's data.
func call[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	env, err := callEnvelope[T](ctx, c, method, path, body)
	if err != nil {
		var zero T
		return zero, err
	}
	return env.Data, nil
}

func callPtr[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	v, err := call[T](ctx, c, method, path, body)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) clearSession(ctx context.Context) {
	if err := c.store.Clear(context.WithoutCancel(ctx)); err != nil {
		c.log.Error("clear_session_failed", "error", err)
	}
}

func pathID(prefix, id, suffix string) string {
	return prefix + "/" + url.PathEscape(id) + suffix
}

// IsUnauthorized reports whether err means the session is gone and the user
// has to log in again.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
