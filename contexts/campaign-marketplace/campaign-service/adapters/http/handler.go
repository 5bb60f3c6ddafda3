package httpadapter

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	application "vitrine/contexts/campaign-marketplace/campaign-service/application"
	"vitrine/contexts/campaign-marketplace/campaign-service/application/commands"
	"vitrine/contexts/campaign-marketplace/campaign-service/application/queries"
	domainerrors "vitrine/contexts/campaign-marketplace/campaign-service/domain/errors"
	httptransport "vitrine/contexts/campaign-marketplace/campaign-service/transport/http"
)

type Handler struct {
	CreateCampaign    commands.CreateCampaignUseCase
	UpdateCampaign    commands.UpdateCampaignUseCase
	ReviewCampaign    commands.ReviewCampaignUseCase
	DuplicateCampaign commands.DuplicateCampaignUseCase
	ExtendDeadline    commands.ExtendDeadlineUseCase
	UpdateBudget      commands.UpdateBudgetUseCase
	DeleteCampaign    commands.DeleteCampaignUseCase
	ToggleFeatured    commands.ToggleFeaturedUseCase
	ToggleFavorite    commands.ToggleFavoriteUseCase
	ListCampaigns     queries.ListCampaignsUseCase
	ListFavorites     queries.ListFavoritesUseCase
	GetCampaign       queries.GetCampaignUseCase
	GetStats          queries.GetStatsUseCase
	GetAnalytics      queries.GetAnalyticsUseCase
	ExportCampaigns   queries.ExportCampaignsUseCase
	Catalog           queries.CatalogUseCase
	Logger            *slog.Logger
}

func (h Handler) CreateCampaignHandler(
	ctx context.Context,
	userID string,
	idempotencyKey string,
	req httptransport.CreateCampaignRequest,
) (httptransport.CreateCampaignResponse, error) {
	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return httptransport.CreateCampaignResponse{}, domainerrors.ErrInvalidCampaignInput
	}
	budget, err := parseBudget(req.Budget)
	if err != nil {
		return httptransport.CreateCampaignResponse{}, domainerrors.ErrInvalidCampaignInput
	}
	result, err := h.CreateCampaign.Execute(ctx, commands.CreateCampaignCommand{
		BrandID:          userID,
		BrandName:        req.BrandName,
		IdempotencyKey:   idempotencyKey,
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Budget:           budget,
		RemunerationType: req.RemunerationType,
		TargetStates:     append([]string(nil), req.TargetStates...),
		DeadlineAt:       deadline,
		LogoURL:          req.LogoURL,
		AttachmentURLs:   append([]string(nil), req.AttachmentURLs...),
	})
	if err != nil {
		return httptransport.CreateCampaignResponse{}, err
	}
	return httptransport.CreateCampaignResponse{
		Campaign: mapCampaign(queries.CampaignView{Campaign: result.Campaign}),
		Replayed: result.Replayed,
	}, nil
}

func (h Handler) UpdateCampaignHandler(
	ctx context.Context,
	userID string,
	campaignID string,
	req httptransport.UpdateCampaignRequest,
) (httptransport.GetCampaignResponse, error) {
	campaign, err := h.UpdateCampaign.Execute(ctx, commands.UpdateCampaignCommand{
		CampaignID:       campaignID,
		ActorID:          userID,
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Budget:           req.Budget,
		RemunerationType: req.RemunerationType,
		TargetStates:     req.TargetStates,
		LogoURL:          req.LogoURL,
		AttachmentURLs:   req.AttachmentURLs,
	})
	if err != nil {
		return httptransport.GetCampaignResponse{}, err
	}
	return httptransport.GetCampaignResponse{Campaign: mapCampaign(queries.CampaignView{Campaign: campaign})}, nil
}

func (h Handler) ReviewCampaignHandler(
	ctx context.Context,
	userID string,
	userRole string,
	campaignID string,
	action string,
	reason string,
) (httptransport.GetCampaignResponse, error) {
	campaign, err := h.ReviewCampaign.Execute(ctx, commands.ReviewCampaignCommand{
		CampaignID: campaignID,
		ActorID:    userID,
		ActorRole:  userRole,
		Action:     commands.ReviewAction(strings.ToLower(strings.TrimSpace(action))),
		Reason:     reason,
	})
	if err != nil {
		return httptransport.GetCampaignResponse{}, err
	}
	return httptransport.GetCampaignResponse{Campaign: mapCampaign(queries.CampaignView{Campaign: campaign})}, nil
}

func (h Handler) DuplicateCampaignHandler(
	ctx context.Context,
	userID string,
	campaignID string,
) (httptransport.GetCampaignResponse, error) {
	campaign, err := h.DuplicateCampaign.Execute(ctx, commands.DuplicateCampaignCommand{
		CampaignID: campaignID,
		ActorID:    userID,
	})
	if err != nil {
		return httptransport.GetCampaignResponse{}, err
	}
	return httptransport.GetCampaignResponse{Campaign: mapCampaign(queries.CampaignView{Campaign: campaign})}, nil
}

func (h Handler) ExtendDeadlineHandler(
	ctx context.Context,
	userID string,
	campaignID string,
	req httptransport.ExtendDeadlineRequest,
) (httptransport.GetCampaignResponse, error) {
	deadline, err := parseDeadline(req.Deadline)
	if err != nil || deadline == nil {
		return httptransport.GetCampaignResponse{}, domainerrors.ErrInvalidDeadline
	}
	campaign, err := h.ExtendDeadline.Execute(ctx, commands.ExtendDeadlineCommand{
		CampaignID:  campaignID,
		ActorID:     userID,
		NewDeadline: *deadline,
	})
	if err != nil {
		return httptransport.GetCampaignResponse{}, err
	}
	return httptransport.GetCampaignResponse{Campaign: mapCampaign(queries.CampaignView{Campaign: campaign})}, nil
}

func (h Handler) UpdateBudgetHandler(
	ctx context.Context,
	userID string,
	campaignID string,
	req httptransport.UpdateBudgetRequest,
) (httptransport.GetCampaignResponse, error) {
	campaign, err := h.UpdateBudget.Execute(ctx, commands.UpdateBudgetCommand{
		CampaignID: campaignID,
		ActorID:    userID,
		NewBudget:  req.Budget,
		Reason:     req.Reason,
	})
	if err != nil {
		return httptransport.GetCampaignResponse{}, err
	}
	return httptransport.GetCampaignResponse{Campaign: mapCampaign(queries.CampaignView{Campaign: campaign})}, nil
}

func (h Handler) DeleteCampaignHandler(ctx context.Context, userID string, campaignID string) error {
	return h.DeleteCampaign.Execute(ctx, commands.DeleteCampaignCommand{
		CampaignID: campaignID,
		ActorID:    userID,
	})
}

func (h Handler) ToggleFeaturedHandler(
	ctx context.Context,
	userRole string,
	campaignID string,
) (httptransport.GetCampaignResponse, error) {
	campaign, err := h.ToggleFeatured.Execute(ctx, commands.ToggleFeaturedCommand{
		CampaignID: campaignID,
		ActorRole:  userRole,
	})
	if err != nil {
		return httptransport.GetCampaignResponse{}, err
	}
	return httptransport.GetCampaignResponse{Campaign: mapCampaign(queries.CampaignView{Campaign: campaign})}, nil
}

func (h Handler) ToggleFavoriteHandler(
	ctx context.Context,
	userID string,
	campaignID string,
) (httptransport.ToggleFavoriteResponse, error) {
	result, err := h.ToggleFavorite.Execute(ctx, commands.ToggleFavoriteCommand{
		CampaignID: campaignID,
		CreatorID:  userID,
	})
	if err != nil {
		return httptransport.ToggleFavoriteResponse{}, err
	}
	return httptransport.ToggleFavoriteResponse{
		CampaignID:  result.CampaignID,
		IsFavorited: result.IsFavorited,
	}, nil
}

func (h Handler) ListCampaignsHandler(
	ctx context.Context,
	userID string,
	brandID string,
	status string,
) (httptransport.ListCampaignsResponse, error) {
	items, err := h.ListCampaigns.Execute(ctx, queries.ListCampaignsQuery{
		BrandID:  brandID,
		Status:   status,
		ViewerID: userID,
	})
	if err != nil {
		return httptransport.ListCampaignsResponse{}, err
	}
	return httptransport.ListCampaignsResponse{Items: mapCampaigns(items)}, nil
}

func (h Handler) ListFavoritesHandler(ctx context.Context, userID string) (httptransport.ListCampaignsResponse, error) {
	items, err := h.ListFavorites.Execute(ctx, userID)
	if err != nil {
		return httptransport.ListCampaignsResponse{}, err
	}
	return httptransport.ListCampaignsResponse{Items: mapCampaigns(items)}, nil
}

func (h Handler) GetCampaignHandler(
	ctx context.Context,
	userID string,
	campaignID string,
) (httptransport.GetCampaignResponse, error) {
	view, err := h.GetCampaign.Execute(ctx, campaignID, userID)
	if err != nil {
		return httptransport.GetCampaignResponse{}, err
	}
	return httptransport.GetCampaignResponse{Campaign: mapCampaign(view)}, nil
}

func (h Handler) GetStatsHandler(ctx context.Context) (httptransport.CampaignStatsResponse, error) {
	stats, err := h.GetStats.Execute(ctx)
	if err != nil {
		return httptransport.CampaignStatsResponse{}, err
	}
	return httptransport.CampaignStatsResponse{
		Total:          stats.Total,
		Pending:        stats.Pending,
		Approved:       stats.Approved,
		Rejected:       stats.Rejected,
		Archived:       stats.Archived,
		Completed:      stats.Completed,
		Cancelled:      stats.Cancelled,
		ApprovedBudget: stats.ApprovedBudget,
	}, nil
}

func (h Handler) GetAnalyticsHandler(ctx context.Context, campaignID string) (httptransport.CampaignAnalyticsResponse, error) {
	result, err := h.GetAnalytics.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.CampaignAnalyticsResponse{}, err
	}
	return httptransport.CampaignAnalyticsResponse{
		CampaignID:           result.CampaignID,
		Status:               result.Status,
		ApplicationsTotal:    result.ApplicationsTotal,
		ApplicationsPending:  result.ApplicationsPending,
		ApplicationsApproved: result.ApplicationsApproved,
		ApplicationsRejected: result.ApplicationsRejected,
		DaysToDeadline:       result.DaysToDeadline,
	}, nil
}

func (h Handler) ExportCampaignsHandler(ctx context.Context, status string) ([]byte, error) {
	logger := application.ResolveLogger(h.Logger)
	data, err := h.ExportCampaigns.Execute(ctx, status)
	if err != nil {
		return nil, err
	}
	logger.Info("campaign export generated",
		"event", "campaign_export_generated",
		"module", "campaign-marketplace/campaign-service",
		"layer", "transport",
		"status_filter", status,
	)
	return data, nil
}

func (h Handler) CatalogHandler(ctx context.Context) httptransport.CatalogResponse {
	return httptransport.CatalogResponse{
		Categories:        h.Catalog.Categories(ctx),
		RemunerationTypes: h.Catalog.RemunerationTypes(ctx),
	}
}

func mapCampaigns(items []queries.CampaignView) []httptransport.CampaignDTO {
	result := make([]httptransport.CampaignDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapCampaign(item))
	}
	return result
}

func mapCampaign(view queries.CampaignView) httptransport.CampaignDTO {
	item := view.Campaign
	result := httptransport.CampaignDTO{
		CampaignID:        item.CampaignID,
		BrandID:           item.BrandID,
		BrandName:         item.BrandName,
		Title:             item.Title,
		Description:       item.Description,
		Category:          item.Category,
		Budget:            item.Budget,
		RemunerationType:  string(item.RemunerationType),
		TargetStates:      append([]string(nil), item.TargetStates...),
		LogoURL:           item.LogoURL,
		AttachmentURLs:    append([]string(nil), item.AttachmentURLs...),
		Featured:          item.Featured,
		IsFavorited:       view.IsFavorited,
		ApplicationsCount: item.ApplicationsCount,
		Status:            string(item.Status),
		ReviewedBy:        item.ReviewedBy,
		RejectionReason:   item.RejectionReason,
		CreatedAt:         item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         item.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if item.DeadlineAt != nil {
		result.Deadline = item.DeadlineAt.UTC().Format(time.RFC3339)
	}
	if item.ReviewedAt != nil {
		result.ReviewedAt = item.ReviewedAt.UTC().Format(time.RFC3339)
	}
	return result
}

// parseBudget accepts the form's string budget; empty means zero, which the
// permuta normalization keeps at zero.
func parseBudget(raw string) (float64, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		value = "0"
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("parse budget: %w", err)
	}
	return parsed, nil
}

func parseDeadline(raw string) (*time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("parse deadline: %w", err)
	}
	utc := parsed.UTC()
	return &utc, nil
}
