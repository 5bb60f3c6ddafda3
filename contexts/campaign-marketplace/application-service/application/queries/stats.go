package queries

import (
	"context"
	"log/slog"
	"strings"

	"vitrine/contexts/campaign-marketplace/application-service/domain/entities"
	"vitrine/contexts/campaign-marketplace/application-service/ports"
)

type ApplicationCounts struct {
	Total    int
	Pending  int
	Approved int
	Rejected int
}

// CountByCampaignUseCase backs the campaign analytics view.
type CountByCampaignUseCase struct {
	Applications ports.ApplicationRepository
	Logger       *slog.Logger
}

func (uc CountByCampaignUseCase) Execute(ctx context.Context, campaignID string) (ApplicationCounts, error) {
	items, err := uc.Applications.ListApplications(ctx, ports.ApplicationFilter{
		CampaignID: strings.TrimSpace(campaignID),
	})
	if err != nil {
		return ApplicationCounts{}, err
	}
	counts := ApplicationCounts{Total: len(items)}
	for _, item := range items {
		switch item.Status {
		case entities.ApplicationStatusPending:
			counts.Pending++
		case entities.ApplicationStatusApproved:
			counts.Approved++
		case entities.ApplicationStatusRejected:
			counts.Rejected++
		}
	}
	return counts, nil
}
