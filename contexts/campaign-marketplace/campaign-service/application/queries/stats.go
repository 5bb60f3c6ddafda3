package queries

import (
	"context"
	"log/slog"

	"vitrine/contexts/campaign-marketplace/campaign-service/domain/entities"
	"vitrine/contexts/campaign-marketplace/campaign-service/ports"
)

type CampaignStats struct {
	Total          int
	Pending        int
	Approved       int
	Rejected       int
	Archived       int
	Completed      int
	Cancelled      int
	ApprovedBudget float64
}

type GetStatsUseCase struct {
	Campaigns ports.CampaignRepository
	Logger    *slog.Logger
}

func (uc GetStatsUseCase) Execute(ctx context.Context) (CampaignStats, error) {
	items, err := uc.Campaigns.ListCampaigns(ctx, ports.CampaignFilter{})
	if err != nil {
		return CampaignStats{}, err
	}

	stats := CampaignStats{Total: len(items)}
	for _, item := range items {
		switch item.Status {
		case entities.CampaignStatusPending:
			stats.Pending++
		case entities.CampaignStatusApproved:
			stats.Approved++
			stats.ApprovedBudget += item.Budget
		case entities.CampaignStatusRejected:
			stats.Rejected++
		case entities.CampaignStatusArchived:
			stats.Archived++
		case entities.CampaignStatusCompleted:
			stats.Completed++
		case entities.CampaignStatusCancelled:
			stats.Cancelled++
		}
	}
	return stats, nil
}
