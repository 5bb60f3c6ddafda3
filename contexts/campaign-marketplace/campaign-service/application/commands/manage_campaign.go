package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "vitrine/contexts/campaign-marketplace/campaign-service/application"
	"vitrine/contexts/campaign-marketplace/campaign-service/domain/entities"
	domainerrors "vitrine/contexts/campaign-marketplace/campaign-service/domain/errors"
	"vitrine/contexts/campaign-marketplace/campaign-service/ports"
)

type DuplicateCampaignCommand struct {
	CampaignID string
	ActorID    string
}

// DuplicateCampaignUseCase clones a campaign into a fresh pending copy with
// reset counters, whatever state the original is in.
type DuplicateCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc DuplicateCampaignUseCase) Execute(ctx context.Context, cmd DuplicateCampaignCommand) (entities.Campaign, error) {
	logger := application.ResolveLogger(uc.Logger)
	original, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(cmd.CampaignID))
	if err != nil {
		return entities.Campaign{}, err
	}
	if original.BrandID != strings.TrimSpace(cmd.ActorID) {
		return entities.Campaign{}, domainerrors.ErrNotCampaignOwner
	}

	now := uc.Clock.Now().UTC()
	copyID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Campaign{}, err
	}

	duplicate := original
	duplicate.CampaignID = strings.TrimSpace(copyID)
	duplicate.Title = original.Title + " (cópia)"
	duplicate.Status = entities.CampaignStatusPending
	duplicate.Featured = false
	duplicate.ApplicationsCount = 0
	duplicate.ReviewedBy = ""
	duplicate.ReviewedAt = nil
	duplicate.RejectionReason = ""
	duplicate.TargetStates = append([]string(nil), original.TargetStates...)
	duplicate.AttachmentURLs = append([]string(nil), original.AttachmentURLs...)
	duplicate.CreatedAt = now
	duplicate.UpdatedAt = now

	if err := uc.Campaigns.CreateCampaign(ctx, duplicate); err != nil {
		return entities.Campaign{}, err
	}
	logger.Info("campaign duplicated",
		"event", "campaign_duplicated",
		"module", "campaign-marketplace/campaign-service",
		"layer", "application",
		"source_campaign_id", original.CampaignID,
		"campaign_id", duplicate.CampaignID,
	)
	return duplicate, nil
}

type ExtendDeadlineCommand struct {
	CampaignID  string
	ActorID     string
	NewDeadline time.Time
}

type ExtendDeadlineUseCase struct {
	Campaigns ports.CampaignRepository
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc ExtendDeadlineUseCase) Execute(ctx context.Context, cmd ExtendDeadlineCommand) (entities.Campaign, error) {
	logger := application.ResolveLogger(uc.Logger)
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(cmd.CampaignID))
	if err != nil {
		return entities.Campaign{}, err
	}
	if campaign.BrandID != strings.TrimSpace(cmd.ActorID) {
		return entities.Campaign{}, domainerrors.ErrNotCampaignOwner
	}

	deadline := cmd.NewDeadline.UTC()
	if deadline.IsZero() {
		return entities.Campaign{}, domainerrors.ErrInvalidDeadline
	}
	if campaign.DeadlineAt != nil && !deadline.After(campaign.DeadlineAt.UTC()) {
		return entities.Campaign{}, domainerrors.ErrInvalidDeadline
	}

	campaign.DeadlineAt = &deadline
	campaign.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Campaigns.UpdateCampaign(ctx, campaign); err != nil {
		return entities.Campaign{}, err
	}
	logger.Info("campaign deadline extended",
		"event", "campaign_deadline_extended",
		"module", "campaign-marketplace/campaign-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"deadline", deadline.Format(time.RFC3339),
	)
	return campaign, nil
}

type UpdateBudgetCommand struct {
	CampaignID string
	ActorID    string
	NewBudget  float64
	Reason     string
}

type UpdateBudgetUseCase struct {
	Campaigns ports.CampaignRepository
	History   ports.HistoryRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc UpdateBudgetUseCase) Execute(ctx context.Context, cmd UpdateBudgetCommand) (entities.Campaign, error) {
	logger := application.ResolveLogger(uc.Logger)
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(cmd.CampaignID))
	if err != nil {
		return entities.Campaign{}, err
	}
	if campaign.BrandID != strings.TrimSpace(cmd.ActorID) {
		return entities.Campaign{}, domainerrors.ErrNotCampaignOwner
	}
	if cmd.NewBudget < 0 {
		return entities.Campaign{}, domainerrors.ErrInvalidCampaignInput
	}

	now := uc.Clock.Now().UTC()
	previous := campaign.Budget
	campaign.Budget = entities.NormalizeBudget(cmd.NewBudget, campaign.RemunerationType)
	campaign.UpdatedAt = now
	if err := uc.Campaigns.UpdateCampaign(ctx, campaign); err != nil {
		return entities.Campaign{}, err
	}

	logID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Campaign{}, err
	}
	if err := uc.History.AppendBudget(ctx, entities.BudgetLog{
		LogID:       logID,
		CampaignID:  campaign.CampaignID,
		AmountDelta: campaign.Budget - previous,
		Reason:      strings.TrimSpace(cmd.Reason),
		CreatedAt:   now,
	}); err != nil {
		return entities.Campaign{}, err
	}
	logger.Info("campaign budget updated",
		"event", "campaign_budget_updated",
		"module", "campaign-marketplace/campaign-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"budget", campaign.Budget,
	)
	return campaign, nil
}

type DeleteCampaignCommand struct {
	CampaignID string
	ActorID    string
}

type DeleteCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc DeleteCampaignUseCase) Execute(ctx context.Context, cmd DeleteCampaignCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(cmd.CampaignID))
	if err != nil {
		return err
	}
	if campaign.BrandID != strings.TrimSpace(cmd.ActorID) {
		return domainerrors.ErrNotCampaignOwner
	}
	if campaign.Status == entities.CampaignStatusApproved {
		return domainerrors.ErrCampaignNotDeletable
	}
	if err := uc.Campaigns.DeleteCampaign(ctx, campaign.CampaignID); err != nil {
		return err
	}
	logger.Info("campaign deleted",
		"event", "campaign_deleted",
		"module", "campaign-marketplace/campaign-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
	)
	return nil
}

type ToggleFeaturedCommand struct {
	CampaignID string
	ActorRole  string
}

type ToggleFeaturedUseCase struct {
	Campaigns ports.CampaignRepository
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc ToggleFeaturedUseCase) Execute(ctx context.Context, cmd ToggleFeaturedCommand) (entities.Campaign, error) {
	if !isAdmin(cmd.ActorRole) {
		return entities.Campaign{}, domainerrors.ErrAdminRequired
	}
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(cmd.CampaignID))
	if err != nil {
		return entities.Campaign{}, err
	}
	campaign.Featured = !campaign.Featured
	campaign.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Campaigns.UpdateCampaign(ctx, campaign); err != nil {
		return entities.Campaign{}, err
	}
	return campaign, nil
}

type ToggleFavoriteCommand struct {
	CampaignID string
	CreatorID  string
}

type ToggleFavoriteResult struct {
	CampaignID  string
	IsFavorited bool
}

// ToggleFavoriteUseCase flips the per-creator favorite flag and reports the
// resulting value, so callers always apply what the service returns.
type ToggleFavoriteUseCase struct {
	Campaigns ports.CampaignRepository
	Favorites ports.FavoriteRepository
	Logger    *slog.Logger
}

func (uc ToggleFavoriteUseCase) Execute(ctx context.Context, cmd ToggleFavoriteCommand) (ToggleFavoriteResult, error) {
	creatorID := strings.TrimSpace(cmd.CreatorID)
	if creatorID == "" {
		return ToggleFavoriteResult{}, domainerrors.ErrInvalidCampaignInput
	}
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(cmd.CampaignID))
	if err != nil {
		return ToggleFavoriteResult{}, err
	}
	current, err := uc.Favorites.IsFavorited(ctx, creatorID, campaign.CampaignID)
	if err != nil {
		return ToggleFavoriteResult{}, err
	}
	if err := uc.Favorites.SetFavorite(ctx, creatorID, campaign.CampaignID, !current); err != nil {
		return ToggleFavoriteResult{}, err
	}
	return ToggleFavoriteResult{
		CampaignID:  campaign.CampaignID,
		IsFavorited: !current,
	}, nil
}
