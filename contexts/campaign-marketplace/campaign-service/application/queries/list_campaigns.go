package queries

import (
	"context"
	"log/slog"
	"strings"

	"vitrine/contexts/campaign-marketplace/campaign-service/domain/entities"
	domainerrors "vitrine/contexts/campaign-marketplace/campaign-service/domain/errors"
	"vitrine/contexts/campaign-marketplace/campaign-service/ports"
)

type ListCampaignsQuery struct {
	BrandID string
	Status  string
	// ViewerID enriches results with the viewer's favorite flags.
	ViewerID string
}

// CampaignView is a campaign plus viewer-specific state.
type CampaignView struct {
	Campaign    entities.Campaign
	IsFavorited bool
}

type ListCampaignsUseCase struct {
	Campaigns ports.CampaignRepository
	Favorites ports.FavoriteRepository
	Logger    *slog.Logger
}

func (uc ListCampaignsUseCase) Execute(ctx context.Context, query ListCampaignsQuery) ([]CampaignView, error) {
	status := entities.CampaignStatus(strings.ToLower(strings.TrimSpace(query.Status)))
	if status != "" {
		switch status {
		case entities.CampaignStatusPending, entities.CampaignStatusApproved,
			entities.CampaignStatusRejected, entities.CampaignStatusArchived,
			entities.CampaignStatusCompleted, entities.CampaignStatusCancelled:
		default:
			return nil, domainerrors.ErrInvalidCampaignInput
		}
	}

	items, err := uc.Campaigns.ListCampaigns(ctx, ports.CampaignFilter{
		BrandID: strings.TrimSpace(query.BrandID),
		Status:  status,
	})
	if err != nil {
		return nil, err
	}
	return uc.enrich(ctx, items, strings.TrimSpace(query.ViewerID))
}

type ListFavoritesUseCase struct {
	Campaigns ports.CampaignRepository
	Favorites ports.FavoriteRepository
	Logger    *slog.Logger
}

func (uc ListFavoritesUseCase) Execute(ctx context.Context, creatorID string) ([]CampaignView, error) {
	creatorID = strings.TrimSpace(creatorID)
	if creatorID == "" {
		return nil, domainerrors.ErrInvalidCampaignInput
	}
	items, err := uc.Campaigns.ListCampaigns(ctx, ports.CampaignFilter{FavoritedBy: creatorID})
	if err != nil {
		return nil, err
	}
	views := make([]CampaignView, 0, len(items))
	for _, item := range items {
		views = append(views, CampaignView{Campaign: item, IsFavorited: true})
	}
	return views, nil
}

func (uc ListCampaignsUseCase) enrich(ctx context.Context, items []entities.Campaign, viewerID string) ([]CampaignView, error) {
	favorites := map[string]bool{}
	if viewerID != "" && uc.Favorites != nil {
		ids, err := uc.Favorites.ListFavoriteIDs(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			favorites[id] = true
		}
	}
	views := make([]CampaignView, 0, len(items))
	for _, item := range items {
		views = append(views, CampaignView{
			Campaign:    item,
			IsFavorited: favorites[item.CampaignID],
		})
	}
	return views, nil
}
