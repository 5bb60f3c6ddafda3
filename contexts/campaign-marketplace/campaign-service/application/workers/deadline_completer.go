package workers

import (
	"context"
	"log/slog"

	application "vitrine/contexts/campaign-marketplace/campaign-service/application"
	"vitrine/contexts/campaign-marketplace/campaign-service/ports"
)

// DeadlineCompleter moves approved campaigns past their deadline into the
// completed state.
type DeadlineCompleter struct {
	Deadlines ports.DeadlineRepository
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (c DeadlineCompleter) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	limit := c.BatchSize
	if limit <= 0 {
		limit = 100
	}

	completed, err := c.Deadlines.CompleteCampaignsPastDeadline(ctx, c.Clock.Now().UTC(), limit)
	if err != nil {
		logger.Error("campaign deadline completion failed",
			"event", "campaign_deadline_completion_failed",
			"module", "campaign-marketplace/campaign-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	for _, item := range completed {
		logger.Info("campaign completed by deadline",
			"event", "campaign_completed_by_deadline",
			"module", "campaign-marketplace/campaign-service",
			"layer", "worker",
			"campaign_id", item.CampaignID,
			"brand_id", item.BrandID,
		)
	}
	return nil
}
