package queries

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	domainerrors "vitrine/contexts/campaign-marketplace/campaign-service/domain/errors"
	"vitrine/contexts/campaign-marketplace/campaign-service/ports"
)

type CampaignAnalytics struct {
	CampaignID           string
	Status               string
	ApplicationsTotal    int
	ApplicationsPending  int
	ApplicationsApproved int
	ApplicationsRejected int
	DaysToDeadline       *int
}

type GetAnalyticsUseCase struct {
	Campaigns    ports.CampaignRepository
	Applications ports.ApplicationStatsProvider
	Clock        ports.Clock
	Logger       *slog.Logger
}

func (uc GetAnalyticsUseCase) Execute(ctx context.Context, campaignID string) (CampaignAnalytics, error) {
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return CampaignAnalytics{}, err
	}

	analytics := CampaignAnalytics{
		CampaignID: campaign.CampaignID,
		Status:     string(campaign.Status),
	}
	if uc.Applications != nil {
		counts, err := uc.Applications.CountByCampaign(ctx, campaign.CampaignID)
		if err != nil {
			return CampaignAnalytics{}, domainerrors.ErrInvalidCampaignInput
		}
		analytics.ApplicationsTotal = counts.Total
		analytics.ApplicationsPending = counts.Pending
		analytics.ApplicationsApproved = counts.Approved
		analytics.ApplicationsRejected = counts.Rejected
	}
	if campaign.DeadlineAt != nil {
		days := int(math.Ceil(campaign.DeadlineAt.UTC().Sub(uc.now()).Hours() / 24))
		analytics.DaysToDeadline = &days
	}
	return analytics, nil
}

func (uc GetAnalyticsUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}
