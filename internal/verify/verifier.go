// Package verify confirms that candidate domains serve real site content by
// querying the Jina site search API with bounded concurrency.
package verify

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/namekart/lead-gen-deep-research/internal/domainkey"
	"github.com/namekart/lead-gen-deep-research/internal/model"
	"github.com/namekart/lead-gen-deep-research/pkg/jina"
)

// DefaultMaxConcurrent bounds simultaneous content lookups.
const DefaultMaxConcurrent = 10

// Verifier checks candidate domains for real content.
type Verifier struct {
	client        jina.Client
	norm          *domainkey.Normalizer
	maxConcurrent int
}

// Option configures the Verifier.
type Option func(*Verifier)

// WithMaxConcurrent overrides the concurrency bound.
func WithMaxConcurrent(n int) Option {
	return func(v *Verifier) {
		if n > 0 {
			v.maxConcurrent = n
		}
	}
}

// NewVerifier creates a Verifier backed by the given content client.
func NewVerifier(client jina.Client, norm *domainkey.Normalizer, opts ...Option) *Verifier {
	v := &Verifier{
		client:        client,
		norm:          norm,
		maxConcurrent: DefaultMaxConcurrent,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify runs a content check for every unique input domain and returns one
// result per unique domain in first-seen order. Per-domain failures are
// recorded in the result, never raised; a run always produces a full result
// slice.
func (v *Verifier) Verify(ctx context.Context, domains []string) []model.ContentCheckResult {
	unique := dedupe(domains)
	if len(unique) == 0 {
		return []model.ContentCheckResult{}
	}

	zap.L().Info("verify: content checks starting",
		zap.Int("domains", len(unique)),
		zap.Int("concurrency", v.maxConcurrent))

	results := make([]model.ContentCheckResult, len(unique))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.maxConcurrent)
	for i, domain := range unique {
		i, domain := i, domain
		g.Go(func() error {
			results[i] = v.checkOne(gctx, domain)
			return nil
		})
	}
	g.Wait() //nolint:errcheck

	successes := 0
	for _, r := range results {
		if r.Success {
			successes++
		}
	}
	zap.L().Info("verify: content checks done",
		zap.Int("domains", len(unique)),
		zap.Int("successes", successes))
	return results
}

// ActiveDomains returns the domains of successful checks, preserving order.
func ActiveDomains(results []model.ContentCheckResult) []string {
	active := []string{}
	for _, r := range results {
		if r.Success {
			active = append(active, r.Domain)
		}
	}
	return active
}

func (v *Verifier) checkOne(ctx context.Context, domain string) model.ContentCheckResult {
	resp, err := v.client.FetchSiteInfo(ctx, domain, v.norm.SLD(domain))
	if err != nil {
		zap.L().Warn("verify: content lookup failed",
			zap.String("domain", domain),
			zap.Error(err))
		return model.ContentCheckResult{Domain: domain, Error: err.Error()}
	}

	if jina.IsSuccess(resp) && len(resp.Data) > 0 {
		first := resp.Data[0]
		return model.ContentCheckResult{
			Domain:      domain,
			Success:     true,
			Title:       first.Title,
			URL:         first.URL,
			Content:     first.Content,
			Description: first.Description,
		}
	}

	msg := jina.ErrorMessage(resp)
	if msg == "" {
		msg = "no content returned"
	}
	zap.L().Debug("verify: content check negative",
		zap.String("domain", domain),
		zap.String("error", msg))
	return model.ContentCheckResult{Domain: domain, Error: msg}
}

func dedupe(domains []string) []string {
	unique := []string{}
	seen := map[string]struct{}{}
	for _, d := range domains {
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		unique = append(unique, d)
	}
	return unique
}
