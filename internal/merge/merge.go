// Package merge deduplicates leads from multiple producers by normalized
// website key, keeping the richest record per key.
package merge

import (
	"go.uber.org/zap"

	"github.com/namekart/lead-gen-deep-research/internal/domainkey"
	"github.com/namekart/lead-gen-deep-research/internal/model"
)

// Leads merges the producer streams in order into a single collection. The
// dedup key is the normalized registrable domain of each lead's website; a
// later duplicate replaces the stored lead in place only when it is strictly
// richer. Leads whose website yields an empty key are retained
// unconditionally.
func Leads(norm *domainkey.Normalizer, streams ...model.LeadCollection) model.LeadCollection {
	merged := model.LeadCollection{}
	position := map[string]int{}
	replaced := 0

	for _, stream := range streams {
		for _, lead := range stream {
			key := norm.Normalize(lead.Website)
			if key == "" {
				merged = append(merged, lead)
				continue
			}

			at, seen := position[key]
			if !seen {
				position[key] = len(merged)
				merged = append(merged, lead)
				continue
			}
			if richer(lead, merged[at]) {
				merged[at] = lead
				replaced++
			}
		}
	}

	zap.L().Info("merge: leads merged",
		zap.Int("streams", len(streams)),
		zap.Int("unique", len(merged)),
		zap.Int("replaced", replaced))
	return merged
}

// richer reports whether a beats b: longer detailed summary first, presence
// of metadata as the tie-break. Equal richness keeps the stored lead.
func richer(a, b model.Lead) bool {
	if len(a.DetailedSummary) != len(b.DetailedSummary) {
		return len(a.DetailedSummary) > len(b.DetailedSummary)
	}
	return a.MetaData != nil && b.MetaData == nil
}
