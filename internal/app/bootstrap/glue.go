package bootstrap

import (
	"context"
	"errors"

	applicationerrors "vitrine/contexts/campaign-marketplace/application-service/domain/errors"
	applicationports "vitrine/contexts/campaign-marketplace/application-service/ports"
	campaignentities "vitrine/contexts/campaign-marketplace/campaign-service/domain/entities"
	campaignerrors "vitrine/contexts/campaign-marketplace/campaign-service/domain/errors"
	campaignports "vitrine/contexts/campaign-marketplace/campaign-service/ports"
	discoveryports "vitrine/contexts/campaign-marketplace/discovery-service/ports"
)

// Cross-context adapters live here so the services only know their own
// ports. Each adapter narrows one context's repository to the view another
// context consumes.

// campaignProjectionGlue feeds the application service the campaign state it
// needs to gate submissions.
type campaignProjectionGlue struct {
	Campaigns campaignports.CampaignRepository
}

func (g campaignProjectionGlue) GetCampaignSummary(ctx context.Context, campaignID string) (applicationports.CampaignSummary, error) {
	campaign, err := g.Campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		if errors.Is(err, campaignerrors.ErrCampaignNotFound) {
			return applicationports.CampaignSummary{}, applicationerrors.ErrCampaignNotFound
		}
		return applicationports.CampaignSummary{}, err
	}
	return applicationports.CampaignSummary{
		CampaignID: campaign.CampaignID,
		BrandID:    campaign.BrandID,
		Title:      campaign.Title,
		Status:     string(campaign.Status),
	}, nil
}

func (g campaignProjectionGlue) IncrementApplications(ctx context.Context, campaignID string, delta int) error {
	return g.Campaigns.IncrementApplications(ctx, campaignID, delta)
}

// applicationStatsGlue answers the campaign analytics query from the
// application service's counts.
type applicationStatsGlue struct {
	Applications applicationports.ApplicationRepository
}

func (g applicationStatsGlue) CountByCampaign(ctx context.Context, campaignID string) (campaignports.ApplicationStats, error) {
	items, err := g.Applications.ListApplications(ctx, applicationports.ApplicationFilter{CampaignID: campaignID})
	if err != nil {
		return campaignports.ApplicationStats{}, err
	}
	stats := campaignports.ApplicationStats{Total: len(items)}
	for _, item := range items {
		switch item.Status {
		case "pending":
			stats.Pending++
		case "approved":
			stats.Approved++
		case "rejected":
			stats.Rejected++
		}
	}
	return stats, nil
}

// discoverySourceGlue projects approved campaigns into the discovery
// read model.
type discoverySourceGlue struct {
	Campaigns campaignports.CampaignRepository
}

func (g discoverySourceGlue) ListOpenCampaigns(ctx context.Context) ([]discoveryports.Campaign, error) {
	items, err := g.Campaigns.ListCampaigns(ctx, campaignports.CampaignFilter{
		Status: campaignentities.CampaignStatusApproved,
	})
	if err != nil {
		return nil, err
	}
	views := make([]discoveryports.Campaign, 0, len(items))
	for _, item := range items {
		views = append(views, discoveryports.Campaign{
			CampaignID:        item.CampaignID,
			BrandID:           item.BrandID,
			BrandName:         item.BrandName,
			Title:             item.Title,
			Description:       item.Description,
			Category:          item.Category,
			Budget:            item.Budget,
			RemunerationType:  string(item.RemunerationType),
			TargetStates:      append([]string(nil), item.TargetStates...),
			DeadlineAt:        item.DeadlineAt,
			Featured:          item.Featured,
			ApplicationsCount: item.ApplicationsCount,
			Status:            string(item.Status),
			CreatedAt:         item.CreatedAt,
		})
	}
	return views, nil
}

// discoveryFavoritesGlue exposes the campaign service's favorites to the
// discovery ranking.
type discoveryFavoritesGlue struct {
	Favorites campaignports.FavoriteRepository
}

func (g discoveryFavoritesGlue) ListFavoriteIDs(ctx context.Context, creatorID string) ([]string, error) {
	return g.Favorites.ListFavoriteIDs(ctx, creatorID)
}
