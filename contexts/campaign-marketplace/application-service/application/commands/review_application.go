package commands

import (
	"context"
	"log/slog"
	"strings"

	application "vitrine/contexts/campaign-marketplace/application-service/application"
	"vitrine/contexts/campaign-marketplace/application-service/domain/entities"
	domainerrors "vitrine/contexts/campaign-marketplace/application-service/domain/errors"
	"vitrine/contexts/campaign-marketplace/application-service/ports"
)

type ReviewDecision string

const (
	ReviewDecisionApprove ReviewDecision = "approve"
	ReviewDecisionReject  ReviewDecision = "reject"
)

type ReviewApplicationCommand struct {
	ApplicationID string
	ActorID       string
	Decision      ReviewDecision
	Reason        string
}

// ReviewApplicationUseCase lets the campaign's owning brand decide a pending
// application.
type ReviewApplicationUseCase struct {
	Applications ports.ApplicationRepository
	Campaigns    ports.CampaignProjection
	Outbox       ports.OutboxWriter
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Logger       *slog.Logger
}

func (uc ReviewApplicationUseCase) Execute(ctx context.Context, cmd ReviewApplicationCommand) (entities.Application, error) {
	logger := application.ResolveLogger(uc.Logger)
	actorID := strings.TrimSpace(cmd.ActorID)
	if actorID == "" {
		return entities.Application{}, domainerrors.ErrInvalidApplicationInput
	}

	item, err := uc.Applications.GetApplication(ctx, strings.TrimSpace(cmd.ApplicationID))
	if err != nil {
		return entities.Application{}, err
	}
	campaign, err := uc.Campaigns.GetCampaignSummary(ctx, item.CampaignID)
	if err != nil {
		return entities.Application{}, err
	}
	if campaign.BrandID != actorID {
		return entities.Application{}, domainerrors.ErrNotCampaignOwner
	}
	if item.Status != entities.ApplicationStatusPending {
		return entities.Application{}, domainerrors.ErrInvalidStateTransition
	}

	now := uc.Clock.Now().UTC()
	switch cmd.Decision {
	case ReviewDecisionApprove:
		item.Status = entities.ApplicationStatusApproved
		item.RejectionReason = ""
	case ReviewDecisionReject:
		item.Status = entities.ApplicationStatusRejected
		item.RejectionReason = strings.TrimSpace(cmd.Reason)
	default:
		return entities.Application{}, domainerrors.ErrInvalidStateTransition
	}
	item.ReviewedBy = actorID
	item.ReviewedAt = &now
	item.UpdatedAt = now

	if err := uc.Applications.UpdateApplication(ctx, item); err != nil {
		return entities.Application{}, err
	}
	eventType := "application.approved"
	if item.Status == entities.ApplicationStatusRejected {
		eventType = "application.rejected"
	}
	if err := appendApplicationOutbox(ctx, uc.Outbox, uc.IDGen, eventType, item, now); err != nil {
		return entities.Application{}, err
	}

	logger.Info("application reviewed",
		"event", "application_reviewed",
		"module", "campaign-marketplace/application-service",
		"layer", "application",
		"application_id", item.ApplicationID,
		"campaign_id", item.CampaignID,
		"decision", string(cmd.Decision),
	)
	return item, nil
}
