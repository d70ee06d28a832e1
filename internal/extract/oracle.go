// Package extract turns verified site content into structured lead records
// via a text-to-record oracle.
package extract

import (
	"context"

	"go.uber.org/zap"

	"github.com/namekart/lead-gen-deep-research/internal/model"
)

// Oracle extracts a single lead record from a verified content check. A nil
// lead with a nil error means the oracle rejected the site (parked,
// domain-for-sale, personal blog, directory) — that is a normal outcome, not
// a failure.
type Oracle interface {
	ExtractLead(ctx context.Context, check model.ContentCheckResult, guidance string) (*model.Lead, error)
}

// Leads runs the oracle over every successful content check and collects the
// accepted records. Per-domain oracle failures are logged and skipped; an
// oracle contract violation (record without a website) is surfaced the same
// way but counted separately.
func Leads(ctx context.Context, oracle Oracle, checks []model.ContentCheckResult, guidance string) model.LeadCollection {
	leads := model.LeadCollection{}
	rejected, failed := 0, 0

	for _, check := range checks {
		if !check.Success {
			continue
		}
		if err := ctx.Err(); err != nil {
			zap.L().Warn("extract: run cancelled", zap.Error(err))
			break
		}

		lead, err := oracle.ExtractLead(ctx, check, guidance)
		switch {
		case err != nil:
			failed++
			zap.L().Warn("extract: lead extraction failed",
				zap.String("domain", check.Domain),
				zap.Error(err))
		case lead == nil:
			rejected++
			zap.L().Debug("extract: lead rejected",
				zap.String("domain", check.Domain))
		default:
			leads = append(leads, *lead)
			zap.L().Info("extract: lead accepted",
				zap.String("domain", check.Domain))
		}
	}

	zap.L().Info("extract: done",
		zap.Int("accepted", len(leads)),
		zap.Int("rejected", rejected),
		zap.Int("failed", failed))
	return leads
}
