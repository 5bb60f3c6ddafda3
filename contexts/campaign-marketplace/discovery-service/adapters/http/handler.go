package httpadapter

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vitrine/contexts/campaign-marketplace/discovery-service/application"
	domainerrors "vitrine/contexts/campaign-marketplace/discovery-service/domain/errors"
	"vitrine/contexts/campaign-marketplace/discovery-service/ports"
	httptransport "vitrine/contexts/campaign-marketplace/discovery-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// BrowseHandler parses the query string into a browse query. Every filter is
// optional and they combine conjunctively.
func (h Handler) BrowseHandler(ctx context.Context, userID string, params url.Values) (httptransport.BrowseResponse, error) {
	query := ports.BrowseQuery{
		ViewerID: userID,
		SortBy:   params.Get("sort"),
		Filters: ports.Filters{
			Search:   params.Get("search"),
			Category: params.Get("category"),
			Region:   params.Get("region"),
		},
	}

	var err error
	if query.Page, err = parseOptionalInt(params.Get("page")); err != nil {
		return httptransport.BrowseResponse{}, domainerrors.ErrInvalidQuery
	}
	if query.PageSize, err = parseOptionalInt(params.Get("page_size")); err != nil {
		return httptransport.BrowseResponse{}, domainerrors.ErrInvalidQuery
	}
	if query.Filters.BudgetMin, err = parseOptionalFloat(params.Get("budget_min")); err != nil {
		return httptransport.BrowseResponse{}, domainerrors.ErrInvalidQuery
	}
	if query.Filters.BudgetMax, err = parseOptionalFloat(params.Get("budget_max")); err != nil {
		return httptransport.BrowseResponse{}, domainerrors.ErrInvalidQuery
	}
	if query.Filters.DeadlineAfter, err = parseOptionalTime(params.Get("deadline_after")); err != nil {
		return httptransport.BrowseResponse{}, domainerrors.ErrInvalidQuery
	}
	if query.Filters.DeadlineBefore, err = parseOptionalTime(params.Get("deadline_before")); err != nil {
		return httptransport.BrowseResponse{}, domainerrors.ErrInvalidQuery
	}

	result, err := h.Service.Browse(ctx, query)
	if err != nil {
		return httptransport.BrowseResponse{}, err
	}
	items := make([]httptransport.DiscoveryCampaignDTO, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, mapDiscoveryCampaign(item))
	}
	return httptransport.BrowseResponse{
		Items:    items,
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	}, nil
}

func (h Handler) GetHandler(ctx context.Context, userID string, campaignID string) (httptransport.GetDiscoveryCampaignResponse, error) {
	view, err := h.Service.Get(ctx, userID, campaignID)
	if err != nil {
		return httptransport.GetDiscoveryCampaignResponse{}, err
	}
	return httptransport.GetDiscoveryCampaignResponse{Campaign: mapDiscoveryCampaign(view)}, nil
}

func mapDiscoveryCampaign(view ports.CampaignView) httptransport.DiscoveryCampaignDTO {
	item := view.Campaign
	result := httptransport.DiscoveryCampaignDTO{
		CampaignID:        item.CampaignID,
		BrandID:           item.BrandID,
		BrandName:         item.BrandName,
		Title:             item.Title,
		Description:       item.Description,
		Category:          item.Category,
		Budget:            item.Budget,
		RemunerationType:  item.RemunerationType,
		TargetStates:      append([]string(nil), item.TargetStates...),
		Featured:          item.Featured,
		IsFavorited:       view.IsFavorited,
		ApplicationsCount: item.ApplicationsCount,
		CreatedAt:         item.CreatedAt.UTC().Format(time.RFC3339),
	}
	if item.DeadlineAt != nil {
		result.Deadline = item.DeadlineAt.UTC().Format(time.RFC3339)
	}
	return result
}

func parseOptionalInt(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse int: %w", err)
	}
	return value, nil
}

func parseOptionalFloat(raw string) (*float64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, fmt.Errorf("parse float: %w", err)
	}
	return &value, nil
}

func parseOptionalTime(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	value, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parse time: %w", err)
	}
	utc := value.UTC()
	return &utc, nil
}
