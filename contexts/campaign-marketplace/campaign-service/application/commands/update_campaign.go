package commands

import (
	"context"
	"log/slog"
	"strings"

	"vitrine/contexts/campaign-marketplace/campaign-service/domain/entities"
	domainerrors "vitrine/contexts/campaign-marketplace/campaign-service/domain/errors"
	"vitrine/contexts/campaign-marketplace/campaign-service/ports"
)

// UpdateCampaignCommand carries partial edits; nil fields are left alone.
type UpdateCampaignCommand struct {
	CampaignID       string
	ActorID          string
	Title            *string
	Description      *string
	Category         *string
	Budget           *float64
	RemunerationType *string
	TargetStates     *[]string
	LogoURL          *string
	AttachmentURLs   *[]string
}

type UpdateCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc UpdateCampaignUseCase) Execute(ctx context.Context, cmd UpdateCampaignCommand) (entities.Campaign, error) {
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(cmd.CampaignID))
	if err != nil {
		return entities.Campaign{}, err
	}
	if campaign.BrandID != strings.TrimSpace(cmd.ActorID) {
		return entities.Campaign{}, domainerrors.ErrNotCampaignOwner
	}

	if cmd.Title != nil {
		campaign.Title = strings.TrimSpace(*cmd.Title)
	}
	if cmd.Description != nil {
		campaign.Description = strings.TrimSpace(*cmd.Description)
	}
	if cmd.Category != nil {
		campaign.Category = strings.ToLower(strings.TrimSpace(*cmd.Category))
	}
	if cmd.RemunerationType != nil {
		campaign.RemunerationType = entities.RemunerationType(strings.ToLower(strings.TrimSpace(*cmd.RemunerationType)))
	}
	if cmd.Budget != nil {
		campaign.Budget = *cmd.Budget
	}
	campaign.Budget = entities.NormalizeBudget(campaign.Budget, campaign.RemunerationType)
	if cmd.TargetStates != nil {
		campaign.TargetStates = normalizeStates(*cmd.TargetStates)
	}
	if cmd.LogoURL != nil {
		campaign.LogoURL = strings.TrimSpace(*cmd.LogoURL)
	}
	if cmd.AttachmentURLs != nil {
		campaign.AttachmentURLs = append([]string(nil), (*cmd.AttachmentURLs)...)
	}

	if !campaign.ValidateBasics() {
		return entities.Campaign{}, domainerrors.ErrInvalidCampaignInput
	}
	campaign.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Campaigns.UpdateCampaign(ctx, campaign); err != nil {
		return entities.Campaign{}, err
	}
	return campaign, nil
}
