// Package fifa provides a minimal client for the public FIFA API v3 used by
// the match centre: season calendar, match timelines, squads and the
// competition team directory.
package fifa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pable/go-futsal-metrics/internal/cache"
	"github.com/pable/go-futsal-metrics/internal/metrics"
)

// DefaultBaseURL is the root endpoint of the FIFA API v3.
const DefaultBaseURL = "https://api.fifa.com/api/v3"

// Cache is the read-through capability responses are fetched through.
type Cache interface {
	Fetch(ctx context.Context, key string, ttl time.Duration, load cache.LoadFunc) ([]byte, error)
}

// TTLs are the freshness windows per endpoint family.
type TTLs struct {
	Matches time.Duration
	Events  time.Duration
	Squads  time.Duration
	Teams   time.Duration
}

// DefaultTTLs mirror how often each resource changes during a tournament.
var DefaultTTLs = TTLs{
	Matches: time.Hour,
	Events:  30 * time.Minute,
	Squads:  24 * time.Hour,
	Teams:   24 * time.Hour,
}

// HTTPError is a non-200 answer from the API.
type HTTPError struct {
	Path       string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.Path, e.StatusCode)
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host, e.g. an httptest server.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithLanguage sets the language query parameter sent on every request.
func WithLanguage(lang string) Option {
	return func(c *Client) {
		if lang != "" {
			c.language = lang
		}
	}
}

// WithUserAgent sets the User-Agent header. The API rejects some default
// library agents.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithCache routes every request through a read-through cache.
func WithCache(ch Cache) Option {
	return func(c *Client) {
		c.cache = ch
	}
}

// WithTTLs overrides the per-endpoint freshness windows.
func WithTTLs(t TTLs) Option {
	return func(c *Client) {
		c.ttls = t
	}
}

// WithMetrics counts upstream requests on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// Client is a minimal FIFA API v3 client.
type Client struct {
	baseURL   string
	language  string
	userAgent string
	http      *http.Client
	cache     Cache
	ttls      TTLs
	metrics   *metrics.Manager
}

// NewClient returns a client for the public API.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		language:  "en",
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36",
		http:      &http.Client{Timeout: 30 * time.Second},
		ttls:      DefaultTTLs,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL is the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// FlagURL returns the square flag picture of a FIFA abbreviation, or "".
func (c *Client) FlagURL(abbr string) string {
	abbr = strings.TrimSpace(abbr)
	if abbr == "" {
		return ""
	}
	return c.baseURL + "/picture/flags-sq-4/" + abbr
}

// get fetches path with params (language is always added) through the cache
// and JSON-decodes the body into out. Numbers decode as json.Number.
func (c *Client) get(ctx context.Context, path string, params url.Values, ttl time.Duration, out any) error {
	q := url.Values{}
	for k, vs := range params {
		q[k] = vs
	}
	q.Set("language", c.language)
	key := path + "?" + q.Encode()

	load := func(ctx context.Context) ([]byte, error) {
		return c.fetch(ctx, path, key)
	}

	var (
		body []byte
		err  error
	)
	if c.cache != nil {
		body, err = c.cache.Fetch(ctx, key, ttl, load)
	} else {
		body, err = load(ctx)
	}
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// fetch performs the GET of pathAndQuery and returns the raw body.
func (c *Client) fetch(ctx context.Context, path, pathAndQuery string) ([]byte, error) {
	endpoint := endpointLabel(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathAndQuery, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordUpstreamRequest(endpoint, 0)
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	c.metrics.RecordUpstreamRequest(endpoint, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{Path: path, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: read body: %w", path, err)
	}
	return body, nil
}

// endpointLabel keeps metric cardinality bounded: "/timelines/106/..." -> "timelines".
func endpointLabel(path string) string {
	p := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "root"
	}
	return p
}
