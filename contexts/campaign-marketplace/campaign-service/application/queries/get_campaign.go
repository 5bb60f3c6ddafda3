package queries

import (
	"context"
	"log/slog"
	"strings"

	domainerrors "vitrine/contexts/campaign-marketplace/campaign-service/domain/errors"
	"vitrine/contexts/campaign-marketplace/campaign-service/ports"
)

type GetCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Favorites ports.FavoriteRepository
	Logger    *slog.Logger
}

func (uc GetCampaignUseCase) Execute(ctx context.Context, campaignID string, viewerID string) (CampaignView, error) {
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return CampaignView{}, domainerrors.ErrInvalidCampaignInput
	}
	campaign, err := uc.Campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return CampaignView{}, err
	}
	view := CampaignView{Campaign: campaign}
	if viewerID = strings.TrimSpace(viewerID); viewerID != "" && uc.Favorites != nil {
		favorited, err := uc.Favorites.IsFavorited(ctx, viewerID, campaign.CampaignID)
		if err != nil {
			return CampaignView{}, err
		}
		view.IsFavorited = favorited
	}
	return view, nil
}
