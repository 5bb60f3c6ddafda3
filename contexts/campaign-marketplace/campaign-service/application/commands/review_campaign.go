package commands

import (
	"context"
	"log/slog"
	"strings"

	application "vitrine/contexts/campaign-marketplace/campaign-service/application"
	"vitrine/contexts/campaign-marketplace/campaign-service/domain/entities"
	domainerrors "vitrine/contexts/campaign-marketplace/campaign-service/domain/errors"
	"vitrine/contexts/campaign-marketplace/campaign-service/ports"
)

type ReviewAction string

const (
	ReviewActionApprove ReviewAction = "approve"
	ReviewActionReject  ReviewAction = "reject"
	ReviewActionArchive ReviewAction = "archive"
	ReviewActionCancel  ReviewAction = "cancel"
)

type ReviewCampaignCommand struct {
	CampaignID string
	ActorID    string
	ActorRole  string
	Action     ReviewAction
	Reason     string
}

// ReviewCampaignUseCase applies the moderation state machine. Approve,
// reject and archive are admin actions; cancel belongs to the owning brand.
type ReviewCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	History   ports.HistoryRepository
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc ReviewCampaignUseCase) Execute(ctx context.Context, cmd ReviewCampaignCommand) (entities.Campaign, error) {
	logger := application.ResolveLogger(uc.Logger)
	actorID := strings.TrimSpace(cmd.ActorID)
	if actorID == "" {
		return entities.Campaign{}, domainerrors.ErrInvalidCampaignInput
	}

	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(cmd.CampaignID))
	if err != nil {
		return entities.Campaign{}, err
	}

	now := uc.Clock.Now().UTC()
	from := campaign.Status
	to := from
	switch cmd.Action {
	case ReviewActionApprove:
		if !isAdmin(cmd.ActorRole) {
			return entities.Campaign{}, domainerrors.ErrAdminRequired
		}
		if campaign.Status != entities.CampaignStatusPending {
			return entities.Campaign{}, domainerrors.ErrInvalidStateTransition
		}
		to = entities.CampaignStatusApproved
		campaign.ReviewedBy = actorID
		campaign.ReviewedAt = &now
		campaign.RejectionReason = ""
	case ReviewActionReject:
		if !isAdmin(cmd.ActorRole) {
			return entities.Campaign{}, domainerrors.ErrAdminRequired
		}
		if campaign.Status != entities.CampaignStatusPending {
			return entities.Campaign{}, domainerrors.ErrInvalidStateTransition
		}
		to = entities.CampaignStatusRejected
		campaign.ReviewedBy = actorID
		campaign.ReviewedAt = &now
		campaign.RejectionReason = strings.TrimSpace(cmd.Reason)
	case ReviewActionArchive:
		if !isAdmin(cmd.ActorRole) {
			return entities.Campaign{}, domainerrors.ErrAdminRequired
		}
		if campaign.Status != entities.CampaignStatusApproved {
			return entities.Campaign{}, domainerrors.ErrInvalidStateTransition
		}
		to = entities.CampaignStatusArchived
	case ReviewActionCancel:
		if campaign.BrandID != actorID {
			return entities.Campaign{}, domainerrors.ErrNotCampaignOwner
		}
		if campaign.Status != entities.CampaignStatusPending && campaign.Status != entities.CampaignStatusApproved {
			return entities.Campaign{}, domainerrors.ErrInvalidStateTransition
		}
		to = entities.CampaignStatusCancelled
	default:
		return entities.Campaign{}, domainerrors.ErrInvalidStateTransition
	}

	campaign.Status = to
	campaign.UpdatedAt = now
	if err := uc.Campaigns.UpdateCampaign(ctx, campaign); err != nil {
		return entities.Campaign{}, err
	}

	historyID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Campaign{}, err
	}
	if err := uc.History.AppendState(ctx, entities.StateHistory{
		HistoryID:    historyID,
		CampaignID:   campaign.CampaignID,
		FromState:    from,
		ToState:      to,
		ChangedBy:    actorID,
		ChangeReason: strings.TrimSpace(cmd.Reason),
		CreatedAt:    now,
	}); err != nil {
		return entities.Campaign{}, err
	}
	if err := appendCampaignStatusOutbox(ctx, uc.Outbox, uc.IDGen, campaign, from, now); err != nil {
		return entities.Campaign{}, err
	}

	logger.Info("campaign reviewed",
		"event", "campaign_reviewed",
		"module", "campaign-marketplace/campaign-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"action", string(cmd.Action),
		"from_status", string(from),
		"to_status", string(to),
	)
	return campaign, nil
}

func isAdmin(role string) bool {
	return strings.EqualFold(strings.TrimSpace(role), "admin")
}
