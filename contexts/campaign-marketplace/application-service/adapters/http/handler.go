package httpadapter

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"vitrine/contexts/campaign-marketplace/application-service/application/commands"
	"vitrine/contexts/campaign-marketplace/application-service/application/queries"
	"vitrine/contexts/campaign-marketplace/application-service/domain/entities"
	httptransport "vitrine/contexts/campaign-marketplace/application-service/transport/http"
)

type Handler struct {
	SubmitApplication   commands.SubmitApplicationUseCase
	ReviewApplication   commands.ReviewApplicationUseCase
	WithdrawApplication commands.WithdrawApplicationUseCase
	ListByCampaign      queries.ListByCampaignUseCase
	ListByCreator       queries.ListByCreatorUseCase
	GetApplication      queries.GetApplicationUseCase
	CountByCampaign     queries.CountByCampaignUseCase
	Logger              *slog.Logger
}

func (h Handler) SubmitApplicationHandler(
	ctx context.Context,
	userID string,
	idempotencyKey string,
	req httptransport.SubmitApplicationRequest,
) (httptransport.SubmitApplicationResponse, error) {
	result, err := h.SubmitApplication.Execute(ctx, commands.SubmitApplicationCommand{
		CampaignID:     req.CampaignID,
		CreatorID:      userID,
		CreatorName:    req.CreatorName,
		IdempotencyKey: idempotencyKey,
		Proposal:       req.Proposal,
		PortfolioLinks: append([]string(nil), req.PortfolioLinks...),
		DeliveryDays:   req.DeliveryDays,
		ProposedBudget: req.ProposedBudget,
	})
	if err != nil {
		return httptransport.SubmitApplicationResponse{}, err
	}
	return httptransport.SubmitApplicationResponse{
		Application: mapApplication(result.Application),
		Replayed:    result.Replayed,
	}, nil
}

func (h Handler) ReviewApplicationHandler(
	ctx context.Context,
	userID string,
	applicationID string,
	decision string,
	req httptransport.ReviewApplicationRequest,
) (httptransport.GetApplicationResponse, error) {
	item, err := h.ReviewApplication.Execute(ctx, commands.ReviewApplicationCommand{
		ApplicationID: applicationID,
		ActorID:       userID,
		Decision:      commands.ReviewDecision(strings.ToLower(strings.TrimSpace(decision))),
		Reason:        req.Reason,
	})
	if err != nil {
		return httptransport.GetApplicationResponse{}, err
	}
	return httptransport.GetApplicationResponse{Application: mapApplication(item)}, nil
}

func (h Handler) WithdrawApplicationHandler(ctx context.Context, userID string, applicationID string) error {
	return h.WithdrawApplication.Execute(ctx, commands.WithdrawApplicationCommand{
		ApplicationID: applicationID,
		ActorID:       userID,
	})
}

func (h Handler) ListByCampaignHandler(
	ctx context.Context,
	userID string,
	campaignID string,
) (httptransport.ListApplicationsResponse, error) {
	items, err := h.ListByCampaign.Execute(ctx, campaignID, userID)
	if err != nil {
		return httptransport.ListApplicationsResponse{}, err
	}
	return httptransport.ListApplicationsResponse{Items: mapApplications(items)}, nil
}

func (h Handler) ListByCreatorHandler(ctx context.Context, userID string) (httptransport.ListApplicationsResponse, error) {
	items, err := h.ListByCreator.Execute(ctx, userID)
	if err != nil {
		return httptransport.ListApplicationsResponse{}, err
	}
	return httptransport.ListApplicationsResponse{Items: mapApplications(items)}, nil
}

func (h Handler) GetApplicationHandler(
	ctx context.Context,
	userID string,
	applicationID string,
) (httptransport.GetApplicationResponse, error) {
	item, err := h.GetApplication.Execute(ctx, applicationID, userID)
	if err != nil {
		return httptransport.GetApplicationResponse{}, err
	}
	return httptransport.GetApplicationResponse{Application: mapApplication(item)}, nil
}

func (h Handler) CountByCampaignHandler(ctx context.Context, campaignID string) (httptransport.ApplicationCountsResponse, error) {
	counts, err := h.CountByCampaign.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.ApplicationCountsResponse{}, err
	}
	response := httptransport.ApplicationCountsResponse{
		CampaignID: strings.TrimSpace(campaignID),
		Total:      counts.Total,
		Pending:    counts.Pending,
		Approved:   counts.Approved,
		Rejected:   counts.Rejected,
	}
	if reviewed := counts.Approved + counts.Rejected; reviewed > 0 {
		response.ApprovalRate = math.Round(float64(counts.Approved)/float64(reviewed)*10000) / 100
	}
	return response, nil
}

func mapApplications(items []entities.Application) []httptransport.ApplicationDTO {
	result := make([]httptransport.ApplicationDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapApplication(item))
	}
	return result
}

func mapApplication(item entities.Application) httptransport.ApplicationDTO {
	result := httptransport.ApplicationDTO{
		ApplicationID:   item.ApplicationID,
		CampaignID:      item.CampaignID,
		CreatorID:       item.CreatorID,
		CreatorName:     item.CreatorName,
		Proposal:        item.Proposal,
		PortfolioLinks:  append([]string(nil), item.PortfolioLinks...),
		DeliveryDays:    item.DeliveryDays,
		ProposedBudget:  item.ProposedBudget,
		Status:          string(item.Status),
		ReviewedBy:      item.ReviewedBy,
		RejectionReason: item.RejectionReason,
		CreatedAt:       item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       item.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if item.ReviewedAt != nil {
		result.ReviewedAt = item.ReviewedAt.UTC().Format(time.RFC3339)
	}
	return result
}
