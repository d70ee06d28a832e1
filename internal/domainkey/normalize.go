// Package domainkey reduces raw URLs and domain strings to canonical
// registrable-domain keys used for lead identity comparisons.
package domainkey

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// SuffixList resolves the public suffix of a host. The default is the
// compiled-in ICANN list from golang.org/x/net/publicsuffix; tests inject
// their own. Implementations must be safe for concurrent use.
type SuffixList interface {
	PublicSuffix(domain string) string
}

// icannList adapts publicsuffix.List, which also carries a String method we
// don't need.
type icannList struct{}

func (icannList) PublicSuffix(domain string) string {
	suffix, _ := publicsuffix.PublicSuffix(domain)
	return suffix
}

// Normalizer derives canonical domain keys. It is pure and safe for any
// number of concurrent callers.
type Normalizer struct {
	suffixes SuffixList
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithSuffixList overrides the public suffix lookup.
func WithSuffixList(list SuffixList) Option {
	return func(n *Normalizer) {
		n.suffixes = list
	}
}

// New creates a Normalizer backed by the embedded ICANN suffix list.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{suffixes: icannList{}}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize reduces a raw URL or domain string to its lower-cased
// registrable domain: "https://www.Example.co.uk/path" → "example.co.uk".
// Two inputs denote the same entity iff their normalized forms are equal.
//
// Fallbacks: when suffix-aware parsing yields no registrable domain the
// bare URL-authority host is returned; when even that fails the lower-cased
// input is returned unchanged rather than erroring. Normalize("") is "".
func (n *Normalizer) Normalize(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}

	host := hostOf(trimmed)
	if host == "" {
		return trimmed
	}

	if reg := n.registrable(host); reg != "" {
		return reg
	}
	return host
}

// SLD returns the second-level label of the registrable domain:
// "www.marketingguru.io" → "marketingguru". Used to build discovery
// keywords and content-fetch queries.
func (n *Normalizer) SLD(raw string) string {
	key := n.Normalize(raw)
	if i := strings.IndexByte(key, '.'); i > 0 {
		return key[:i]
	}
	return key
}

// registrable computes eTLD+1 from the suffix list. Returns "" when the
// host has no label left of its public suffix.
func (n *Normalizer) registrable(host string) string {
	host = strings.Trim(host, ".")
	suffix := n.suffixes.PublicSuffix(host)
	if suffix == "" || len(host) <= len(suffix) {
		return ""
	}
	rest := strings.TrimSuffix(host[:len(host)-len(suffix)], ".")
	if rest == "" {
		return ""
	}
	label := rest[strings.LastIndexByte(rest, '.')+1:]
	if label == "" {
		return ""
	}
	return label + "." + suffix
}

// hostOf extracts the bare authority host from a raw string that may carry
// a scheme, userinfo, port, path, or query. Returns "" when no host can be
// parsed.
func hostOf(raw string) string {
	candidate := raw
	if !strings.Contains(candidate, "://") {
		candidate = "//" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil || u.Hostname() == "" {
		// Last resort: manual strip of scheme and path.
		s := raw
		if i := strings.Index(s, "://"); i >= 0 {
			s = s[i+3:]
		}
		if i := strings.IndexAny(s, "/?#"); i >= 0 {
			s = s[:i]
		}
		if i := strings.LastIndexByte(s, '@'); i >= 0 {
			s = s[i+1:]
		}
		if i := strings.IndexByte(s, ':'); i >= 0 {
			s = s[:i]
		}
		return s
	}
	return u.Hostname()
}
