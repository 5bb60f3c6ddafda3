package commands

import (
	"context"
	"encoding/json"
	"time"

	"vitrine/contexts/campaign-marketplace/application-service/domain/entities"
	"vitrine/contexts/campaign-marketplace/application-service/ports"
)

func appendApplicationOutbox(
	ctx context.Context,
	outbox ports.OutboxWriter,
	idGen ports.IDGenerator,
	eventType string,
	item entities.Application,
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
		"application_id": item.ApplicationID,
		"campaign_id":    item.CampaignID,
		"creator_id":     item.CreatorID,
		"status":         string(item.Status),
	})
	if err != nil {
		return err
	}
	return outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "application-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "campaign_id",
		PartitionKey:     item.CampaignID,
		Data:             data,
	})
}
