package ports

import (
	"context"
	"time"

	"vitrine/contexts/campaign-marketplace/campaign-service/domain/entities"
	contractsv1 "vitrine/contracts/gen/events/v1"
)

type CampaignFilter struct {
	BrandID     string
	Status      entities.CampaignStatus
	FavoritedBy string
}

type CampaignRepository interface {
	CreateCampaign(ctx context.Context, campaign entities.Campaign) error
	UpdateCampaign(ctx context.Context, campaign entities.Campaign) error
	DeleteCampaign(ctx context.Context, campaignID string) error
	GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error)
	ListCampaigns(ctx context.Context, filter CampaignFilter) ([]entities.Campaign, error)
	IncrementApplications(ctx context.Context, campaignID string, delta int) error
}

type FavoriteRepository interface {
	IsFavorited(ctx context.Context, creatorID string, campaignID string) (bool, error)
	SetFavorite(ctx context.Context, creatorID string, campaignID string, favorited bool) error
	ListFavoriteIDs(ctx context.Context, creatorID string) ([]string, error)
}

type HistoryRepository interface {
	AppendState(ctx context.Context, item entities.StateHistory) error
	AppendBudget(ctx context.Context, item entities.BudgetLog) error
}

type IdempotencyRecord struct {
	Key             string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

type IdempotencyStore interface {
	GetRecord(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	PutRecord(ctx context.Context, record IdempotencyRecord) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = contractsv1.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// ApplicationStats is the cross-context view the analytics query needs from
// the application service.
type ApplicationStats struct {
	Total    int
	Pending  int
	Approved int
	Rejected int
}

type ApplicationStatsProvider interface {
	CountByCampaign(ctx context.Context, campaignID string) (ApplicationStats, error)
}

type DeadlineCompletionResult struct {
	CampaignID string
	BrandID    string
}

type DeadlineRepository interface {
	CompleteCampaignsPastDeadline(
		ctx context.Context,
		now time.Time,
		limit int,
	) ([]DeadlineCompletionResult, error)
}
