package queries

import (
	"context"
	"log/slog"
	"strings"

	"vitrine/contexts/campaign-marketplace/application-service/domain/entities"
	domainerrors "vitrine/contexts/campaign-marketplace/application-service/domain/errors"
	"vitrine/contexts/campaign-marketplace/application-service/ports"
)

// ListByCampaignUseCase returns a campaign's applications to its owning
// brand.
type ListByCampaignUseCase struct {
	Applications ports.ApplicationRepository
	Campaigns    ports.CampaignProjection
	Logger       *slog.Logger
}

func (uc ListByCampaignUseCase) Execute(ctx context.Context, campaignID string, actorID string) ([]entities.Application, error) {
	campaign, err := uc.Campaigns.GetCampaignSummary(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return nil, err
	}
	if campaign.BrandID != strings.TrimSpace(actorID) {
		return nil, domainerrors.ErrNotCampaignOwner
	}
	return uc.Applications.ListApplications(ctx, ports.ApplicationFilter{CampaignID: campaign.CampaignID})
}

type ListByCreatorUseCase struct {
	Applications ports.ApplicationRepository
	Logger       *slog.Logger
}

func (uc ListByCreatorUseCase) Execute(ctx context.Context, creatorID string) ([]entities.Application, error) {
	creatorID = strings.TrimSpace(creatorID)
	if creatorID == "" {
		return nil, domainerrors.ErrInvalidApplicationInput
	}
	return uc.Applications.ListApplications(ctx, ports.ApplicationFilter{CreatorID: creatorID})
}

type GetApplicationUseCase struct {
	Applications ports.ApplicationRepository
	Campaigns    ports.CampaignProjection
	Logger       *slog.Logger
}

// Execute returns the application to its creator or to the campaign's brand.
func (uc GetApplicationUseCase) Execute(ctx context.Context, applicationID string, actorID string) (entities.Application, error) {
	item, err := uc.Applications.GetApplication(ctx, strings.TrimSpace(applicationID))
	if err != nil {
		return entities.Application{}, err
	}
	actorID = strings.TrimSpace(actorID)
	if item.CreatorID == actorID {
		return item, nil
	}
	campaign, err := uc.Campaigns.GetCampaignSummary(ctx, item.CampaignID)
	if err != nil {
		return entities.Application{}, err
	}
	if campaign.BrandID != actorID {
		return entities.Application{}, domainerrors.ErrNotApplicationOwner
	}
	return item, nil
}
