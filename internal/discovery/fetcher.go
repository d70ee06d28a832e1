package discovery

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/namekart/lead-gen-deep-research/internal/domainkey"
	"github.com/namekart/lead-gen-deep-research/pkg/dotdb"
)

// Fetcher retrieves candidate domains for a keyword batch and narrows them
// down to exact second-level matches.
type Fetcher struct {
	client dotdb.Client
	norm   *domainkey.Normalizer
}

// NewFetcher creates a Fetcher backed by the given DotDB client.
func NewFetcher(client dotdb.Client, norm *domainkey.Normalizer) *Fetcher {
	return &Fetcher{client: client, norm: norm}
}

// FetchCandidates runs one bulk discovery call for all keywords. A failed
// batch degrades to an empty result set; discovery is best-effort and never
// fails the surrounding run.
func (f *Fetcher) FetchCandidates(ctx context.Context, keywords []string) map[string][]string {
	if len(keywords) == 0 {
		return map[string][]string{}
	}

	domainsByKeyword, err := f.client.GetActiveDomains(ctx, keywords)
	if err != nil {
		zap.L().Warn("discovery: bulk fetch failed",
			zap.Int("keywords", len(keywords)),
			zap.Error(err))
		return map[string][]string{}
	}

	total := 0
	for _, domains := range domainsByKeyword {
		total += len(domains)
	}
	zap.L().Info("discovery: candidates fetched",
		zap.Int("keywords", len(keywords)),
		zap.Int("domains", total))
	return domainsByKeyword
}

// FilterExact flattens the per-keyword domain lists, dedupes them preserving
// first-seen order, and keeps only domains whose second-level label exactly
// equals one of the keywords. This drops the lookup service's fuzzy matches
// (e.g. "widgetprofactory.com" for keyword "widgetpro").
func (f *Fetcher) FilterExact(domainsByKeyword map[string][]string, keywords []string) []string {
	allowed := map[string]struct{}{}
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			allowed[kw] = struct{}{}
		}
	}

	filtered := []string{}
	seen := map[string]struct{}{}
	for _, kw := range keywords {
		for _, domain := range domainsByKeyword[kw] {
			if _, dup := seen[domain]; dup {
				continue
			}
			seen[domain] = struct{}{}
			if _, ok := allowed[f.norm.SLD(domain)]; ok {
				filtered = append(filtered, domain)
			}
		}
	}

	zap.L().Info("discovery: exact-match filter applied",
		zap.Int("seen", len(seen)),
		zap.Int("kept", len(filtered)))
	return filtered
}
