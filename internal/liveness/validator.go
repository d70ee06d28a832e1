package liveness

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/namekart/lead-gen-deep-research/internal/model"
)

const (
	// DefaultMaxConcurrent bounds simultaneous in-flight domain checks.
	DefaultMaxConcurrent = 20
	// DefaultTimeout applies per individual probe.
	DefaultTimeout = 5 * time.Second
)

// Validator folds per-strategy probe results into one liveness verdict per
// domain under a global concurrency budget.
type Validator struct {
	prober        Prober
	maxConcurrent int
}

// NewValidator creates a Validator. A nil prober gets a NetProber with the
// default timeout; maxConcurrent <= 0 falls back to DefaultMaxConcurrent.
func NewValidator(prober Prober, maxConcurrent int) *Validator {
	if prober == nil {
		prober = NewProber(DefaultTimeout)
	}
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return &Validator{prober: prober, maxConcurrent: maxConcurrent}
}

// ValidateAll checks every domain concurrently (bounded) and returns one
// verdict per input domain. DNS runs first; a DNS failure short-circuits the
// HTTP/HTTPS probes. A failure in one domain never affects another — any
// escaped error is caught at the per-domain boundary and recorded on that
// domain's verdict.
func (v *Validator) ValidateAll(ctx context.Context, domains []string) map[string]model.LivenessVerdict {
	results := make(map[string]model.LivenessVerdict, len(domains))

	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(v.maxConcurrent)

	for _, domain := range domains {
		domain := domain
		g.Go(func() error {
			verdict := v.validateOne(gCtx, domain)
			mu.Lock()
			results[domain] = verdict
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	zap.L().Debug("liveness: validated domains",
		zap.Int("total", len(results)),
		zap.Int("active", len(FilterActive(domains, results))),
	)
	return results
}

// validateOne runs the strategy stack for a single domain, converting any
// panic into a failed verdict so siblings are unaffected.
func (v *Validator) validateOne(ctx context.Context, domain string) (verdict model.LivenessVerdict) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Warn("liveness: probe panicked",
				zap.String("domain", domain),
				zap.Any("panic", r),
			)
			verdict = model.LivenessVerdict{Error: fmt.Sprintf("probe panic: %v", r)}
		}
	}()

	if err := ctx.Err(); err != nil {
		return model.LivenessVerdict{Error: err.Error()}
	}

	host := bareHost(domain)

	verdict.DNSResolves = v.prober.CheckDNS(ctx, host)
	if !verdict.DNSResolves {
		return verdict
	}

	verdict.HTTPReachable = v.prober.CheckHTTP(ctx, host)
	verdict.HTTPSReachable, verdict.TLSValid = v.prober.CheckHTTPS(ctx, host)

	// HTTPS alone is enough; plain HTTP counts only alongside DNS.
	verdict.IsActive = verdict.HTTPSReachable || (verdict.HTTPReachable && verdict.DNSResolves)
	return verdict
}

// FilterActive returns the domains with is_active verdicts, preserving
// input order.
func FilterActive(domains []string, verdicts map[string]model.LivenessVerdict) []string {
	active := make([]string, 0, len(domains))
	for _, d := range domains {
		if verdicts[d].IsActive {
			active = append(active, d)
		}
	}
	return active
}

// bareHost strips any scheme and path so probes get a plain host.
func bareHost(domain string) string {
	s := strings.TrimSpace(domain)
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	return s
}
