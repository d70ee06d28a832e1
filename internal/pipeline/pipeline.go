// Package pipeline sequences a lead-generation run: keyword expansion,
// candidate discovery, liveness validation, content verification, lead
// extraction and merge.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/namekart/lead-gen-deep-research/internal/discovery"
	"github.com/namekart/lead-gen-deep-research/internal/domainkey"
	"github.com/namekart/lead-gen-deep-research/internal/extract"
	"github.com/namekart/lead-gen-deep-research/internal/liveness"
	"github.com/namekart/lead-gen-deep-research/internal/merge"
	"github.com/namekart/lead-gen-deep-research/internal/model"
	"github.com/namekart/lead-gen-deep-research/internal/verify"
)

// Pipeline wires the lead-generation stages together.
type Pipeline struct {
	norm      *domainkey.Normalizer
	fetcher   *discovery.Fetcher
	validator *liveness.Validator
	verifier  *verify.Verifier
	oracle    extract.Oracle
}

// New creates a Pipeline from its stage components.
func New(
	norm *domainkey.Normalizer,
	fetcher *discovery.Fetcher,
	validator *liveness.Validator,
	verifier *verify.Verifier,
	oracle extract.Oracle,
) *Pipeline {
	return &Pipeline{
		norm:      norm,
		fetcher:   fetcher,
		validator: validator,
		verifier:  verifier,
		oracle:    oracle,
	}
}

// RunOptions tune a single run.
type RunOptions struct {
	// Guidance is free-text classification context passed to the oracle.
	Guidance string
	// ExtraStreams are lead collections from other producers merged after
	// the extracted leads.
	ExtraStreams []model.LeadCollection
}

// Run executes the full flow for one subject domain. Stage failures shrink
// the result; only ctx errors abort the run.
func (p *Pipeline) Run(ctx context.Context, subjectDomain string, opts RunOptions) (*model.RunResult, error) {
	result := &model.RunResult{
		RunID:         uuid.NewString(),
		SubjectDomain: subjectDomain,
		StartedAt:     time.Now().UTC(),
	}
	log := zap.L().With(
		zap.String("run_id", result.RunID),
		zap.String("subject", subjectDomain))
	log.Info("pipeline: run starting")

	seed := p.norm.SLD(subjectDomain)
	result.Keywords = discovery.ExpandKeywords([]string{seed})

	byKeyword := p.fetcher.FetchCandidates(ctx, result.Keywords)
	result.Candidates = p.fetcher.FilterExact(byKeyword, result.Keywords)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	verdicts := p.validator.ValidateAll(ctx, result.Candidates)
	alive := liveness.FilterActive(result.Candidates, verdicts)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.ContentChecks = p.verifier.Verify(ctx, alive)
	result.ActiveDomains = verify.ActiveDomains(result.ContentChecks)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	extracted := extract.Leads(ctx, p.oracle, result.ContentChecks, opts.Guidance)

	streams := append([]model.LeadCollection{extracted}, opts.ExtraStreams...)
	result.Leads = merge.Leads(p.norm, streams...)
	result.FinishedAt = time.Now().UTC()

	log.Info("pipeline: run finished",
		zap.Int("keywords", len(result.Keywords)),
		zap.Int("candidates", len(result.Candidates)),
		zap.Int("active_domains", len(result.ActiveDomains)),
		zap.Int("leads", len(result.Leads)),
		zap.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)))
	return result, nil
}
