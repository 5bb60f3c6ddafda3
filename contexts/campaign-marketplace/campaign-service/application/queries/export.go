package queries

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"vitrine/contexts/campaign-marketplace/campaign-service/domain/entities"
	"vitrine/contexts/campaign-marketplace/campaign-service/ports"
)

// ExportCampaignsUseCase renders the campaign list as a CSV document for the
// blob-download endpoint.
type ExportCampaignsUseCase struct {
	Campaigns ports.CampaignRepository
	Logger    *slog.Logger
}

func (uc ExportCampaignsUseCase) Execute(ctx context.Context, status string) ([]byte, error) {
	items, err := uc.Campaigns.ListCampaigns(ctx, ports.CampaignFilter{
		Status: entities.CampaignStatus(strings.ToLower(strings.TrimSpace(status))),
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	header := []string{
		"campaign_id", "brand_id", "brand_name", "title", "category",
		"budget", "remuneration_type", "status", "deadline",
		"applications_count", "created_at",
	}
	if err := writer.Write(header); err != nil {
		return nil, err
	}
	for _, item := range items {
		deadline := ""
		if item.DeadlineAt != nil {
			deadline = item.DeadlineAt.UTC().Format(time.RFC3339)
		}
		row := []string{
			item.CampaignID,
			item.BrandID,
			item.BrandName,
			item.Title,
			item.Category,
			strconv.FormatFloat(item.Budget, 'f', 2, 64),
			string(item.RemunerationType),
			string(item.Status),
			deadline,
			strconv.Itoa(item.ApplicationsCount),
			item.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Catalog queries back the static pickers in the client.

type CatalogUseCase struct{}

func (CatalogUseCase) Categories(_ context.Context) []string {
	return entities.SupportedCategories()
}

func (CatalogUseCase) RemunerationTypes(_ context.Context) []string {
	return entities.SupportedRemunerationTypes()
}
