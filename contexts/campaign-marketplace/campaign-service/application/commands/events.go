package commands

import (
	"context"
	"encoding/json"
	"time"

	"vitrine/contexts/campaign-marketplace/campaign-service/domain/entities"
	"vitrine/contexts/campaign-marketplace/campaign-service/ports"
)

func appendCampaignStatusOutbox(
	ctx context.Context,
	outbox ports.OutboxWriter,
	idGen ports.IDGenerator,
	campaign entities.Campaign,
	from entities.CampaignStatus,
	occurredAt time.Time,
) error {
	if outbox == nil {
		return nil
	}
	eventID, err := idGen.NewID(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(map[string]any{
		"campaign_id": campaign.CampaignID,
		"brand_id":    campaign.BrandID,
		"from_status": string(from),
		"to_status":   string(campaign.Status),
		"reviewed_by": campaign.ReviewedBy,
	})
	if err != nil {
		return err
	}
	return outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          eventID,
		EventType:        "campaign.status_changed",
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "campaign-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "campaign_id",
		PartitionKey:     campaign.CampaignID,
		Data:             data,
	})
}
