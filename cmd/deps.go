package main

import (
	"time"

	"github.com/namekart/lead-gen-deep-research/internal/config"
	"github.com/namekart/lead-gen-deep-research/internal/discovery"
	"github.com/namekart/lead-gen-deep-research/internal/domainkey"
	"github.com/namekart/lead-gen-deep-research/internal/extract"
	"github.com/namekart/lead-gen-deep-research/internal/liveness"
	"github.com/namekart/lead-gen-deep-research/internal/pipeline"
	"github.com/namekart/lead-gen-deep-research/internal/verify"
	"github.com/namekart/lead-gen-deep-research/pkg/anthropic"
	"github.com/namekart/lead-gen-deep-research/pkg/dotdb"
	"github.com/namekart/lead-gen-deep-research/pkg/jina"
)

// newNormalizer is shared by every command so all stages agree on keys.
func newNormalizer() *domainkey.Normalizer {
	return domainkey.New()
}

func newFetcher(cfg *config.Config, norm *domainkey.Normalizer) *discovery.Fetcher {
	client := dotdb.NewClient(cfg.DotDB.URL,
		dotdb.WithRateLimit(cfg.DotDB.RateLimit))
	return discovery.NewFetcher(client, norm)
}

func newValidator(cfg *config.Config) *liveness.Validator {
	prober := liveness.NewProber(time.Duration(cfg.Liveness.TimeoutSecs) * time.Second)
	return liveness.NewValidator(prober, cfg.Liveness.MaxConcurrent)
}

func newVerifier(cfg *config.Config, norm *domainkey.Normalizer) *verify.Verifier {
	client := jina.NewClient(cfg.Jina.Key,
		jina.WithBaseURL(cfg.Jina.BaseURL),
		jina.WithRateLimit(cfg.Jina.RateLimit))
	return verify.NewVerifier(client, norm, verify.WithMaxConcurrent(cfg.Verify.MaxConcurrent))
}

func newOracle(cfg *config.Config) extract.Oracle {
	client := anthropic.NewClient(cfg.Anthropic.Key)
	return extract.NewClaudeOracle(client, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens)
}

// newPipeline assembles the full run pipeline from config.
func newPipeline(cfg *config.Config) *pipeline.Pipeline {
	norm := newNormalizer()
	return pipeline.New(
		norm,
		newFetcher(cfg, norm),
		newValidator(cfg),
		newVerifier(cfg, norm),
		newOracle(cfg),
	)
}
