// Package jina provides a client for the Jina AI site search API used to
// confirm that a domain serves real content.
package jina

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client defines the Jina site lookup operations.
type Client interface {
	// FetchSiteInfo queries Jina for the given domain using the supplied
	// query term (typically the domain's second-level label). The parsed
	// body is returned for any HTTP status — Jina signals errors in-body
	// via code/status, not via HTTP status alone.
	FetchSiteInfo(ctx context.Context, domain, query string) (*SiteResponse, error)
}

// SiteResponse is the parsed Jina API response, success or error shaped.
type SiteResponse struct {
	Code            int          `json:"code"`
	Status          int          `json:"status"`
	Data            []SiteResult `json:"data"`
	ReadableMessage string       `json:"readableMessage,omitempty"`
	Message         string       `json:"message,omitempty"`
}

// SiteResult is a single site record in a successful response.
type SiteResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Content     string `json:"content"`
	Description string `json:"description"`
}

// IsSuccess reports whether the response indicates success by the
// service's own contract.
func IsSuccess(r *SiteResponse) bool {
	return r != nil && r.Code == 200 && r.Status == 20000
}

// ErrorMessage extracts the error text from a failed response, or "" for a
// successful one.
func ErrorMessage(r *SiteResponse) string {
	if IsSuccess(r) || r == nil {
		return ""
	}
	if r.ReadableMessage != "" {
		return r.ReadableMessage
	}
	return r.Message
}

// Option configures the Jina client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new Jina site search client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://s.jina.ai",
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(10), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) FetchSiteInfo(ctx context.Context, domain, query string) (*SiteResponse, error) {
	if c.apiKey == "" {
		return nil, eris.New("jina: api key is required")
	}
	if query == "" {
		return nil, eris.New("jina: empty query term")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "jina: rate limit wait")
	}

	reqURL := c.baseURL + "/?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "jina: create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Engine", "direct")
	req.Header.Set("X-Site", domain)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "jina: request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "jina: read response body")
	}

	// Error responses (422 and friends) still carry a JSON body; the caller
	// classifies via code/status.
	var result SiteResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "jina: unmarshal response")
	}
	return &result, nil
}
