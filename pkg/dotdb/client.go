// Package dotdb provides a client for the DotDB bulk domain discovery API.
package dotdb

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client defines the DotDB discovery operations.
type Client interface {
	// GetActiveDomains fetches matches for all keywords in one bulk call and
	// flattens each match's active suffixes into full domain strings,
	// grouped by keyword.
	GetActiveDomains(ctx context.Context, keywords []string, opts ...QueryOption) (map[string][]string, error)
}

// QueryOption adjusts the discovery query parameters.
type QueryOption func(*queryOpts)

type queryOpts struct {
	siteStatus   string
	countSorting int
}

// WithSiteStatus overrides the site_status filter (default "active").
func WithSiteStatus(status string) QueryOption {
	return func(o *queryOpts) {
		o.siteStatus = status
	}
}

// WithCountSorting overrides the count_sorting parameter (default 1).
func WithCountSorting(sorting int) QueryOption {
	return func(o *queryOpts) {
		o.countSorting = sorting
	}
}

// Option configures the DotDB client.
type Option func(*httpClient)

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
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a DotDB client for the given base URL.
func NewClient(baseURL string, opts ...Option) Client {
	c := &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(5), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// bulkMatch mirrors one match record in the bulk response.
type bulkMatch struct {
	Name       string `json:"name"`
	SiteStatus struct {
		ActiveSuffixes []string `json:"active_suffixes"`
	} `json:"site_status"`
}

// bulkEntry mirrors one keyword's payload in the bulk response.
type bulkEntry struct {
	Matches []bulkMatch `json:"matches"`
}

func (c *httpClient) GetActiveDomains(ctx context.Context, keywords []string, opts ...QueryOption) (map[string][]string, error) {
	qo := &queryOpts{siteStatus: "active", countSorting: 1}
	for _, opt := range opts {
		opt(qo)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "dotdb: rate limit wait")
	}

	payload, err := json.Marshal(keywords)
	if err != nil {
		return nil, eris.Wrap(err, "dotdb: marshal keywords")
	}

	params := url.Values{}
	params.Set("site_status", qo.siteStatus)
	params.Set("count_sorting", strconv.Itoa(qo.countSorting))
	reqURL := c.baseURL + "/dotdb/getleads/bulk?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrap(err, "dotdb: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "dotdb: request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "dotdb: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("dotdb: status %d: %s", resp.StatusCode, string(body))
	}

	// Keyword payloads are parsed individually: a null or malformed entry
	// degrades to an empty list for that keyword, never the whole batch.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, eris.Wrap(err, "dotdb: unmarshal response")
	}

	result := make(map[string][]string, len(raw))
	for keyword, entryRaw := range raw {
		result[keyword] = flattenEntry(entryRaw)
	}
	return result, nil
}

// flattenEntry converts one keyword's matches into full domain strings.
func flattenEntry(entryRaw json.RawMessage) []string {
	domains := []string{}

	var entry bulkEntry
	if err := json.Unmarshal(entryRaw, &entry); err != nil {
		return domains
	}

	for _, match := range entry.Matches {
		name := strings.TrimSpace(match.Name)
		if name == "" {
			continue
		}
		for _, suffix := range match.SiteStatus.ActiveSuffixes {
			clean := strings.TrimLeft(suffix, ".")
			if clean == "" {
				domains = append(domains, name)
				continue
			}
			domains = append(domains, name+"."+clean)
		}
	}
	return domains
}
