package commands

import (
	"context"
	"log/slog"
	"strings"

	application "vitrine/contexts/campaign-marketplace/application-service/application"
	domainerrors "vitrine/contexts/campaign-marketplace/application-service/domain/errors"
	"vitrine/contexts/campaign-marketplace/application-service/ports"
)

type WithdrawApplicationCommand struct {
	ApplicationID string
	ActorID       string
}

// WithdrawApplicationUseCase removes the creator's application entirely; a
// withdrawn bid leaves no row behind and frees the one-per-campaign slot.
type WithdrawApplicationUseCase struct {
	Applications ports.ApplicationRepository
	Counter      ports.ApplicationCounter
	Outbox       ports.OutboxWriter
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Logger       *slog.Logger
}

func (uc WithdrawApplicationUseCase) Execute(ctx context.Context, cmd WithdrawApplicationCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	item, err := uc.Applications.GetApplication(ctx, strings.TrimSpace(cmd.ApplicationID))
	if err != nil {
		return err
	}
	if item.CreatorID != strings.TrimSpace(cmd.ActorID) {
		return domainerrors.ErrNotApplicationOwner
	}

	if err := uc.Applications.DeleteApplication(ctx, item.ApplicationID); err != nil {
		return err
	}
	if err := uc.Counter.IncrementApplications(ctx, item.CampaignID, -1); err != nil {
		return err
	}
	if err := appendApplicationOutbox(ctx, uc.Outbox, uc.IDGen, "application.withdrawn", item, uc.Clock.Now().UTC()); err != nil {
		return err
	}

	logger.Info("application withdrawn",
		"event", "application_withdrawn",
		"module", "campaign-marketplace/application-service",
		"layer", "application",
		"application_id", item.ApplicationID,
		"campaign_id", item.CampaignID,
	)
	return nil
}
