package ports

import (
	"context"
	"time"

	"vitrine/contexts/campaign-marketplace/application-service/domain/entities"
	contractsv1 "vitrine/contracts/gen/events/v1"
)

type ApplicationFilter struct {
	CampaignID string
	CreatorID  string
	Status     entities.ApplicationStatus
}

type ApplicationRepository interface {
	CreateApplication(ctx context.Context, application entities.Application) error
	UpdateApplication(ctx context.Context, application entities.Application) error
	DeleteApplication(ctx context.Context, applicationID string) error
	GetApplication(ctx context.Context, applicationID string) (entities.Application, error)
	ListApplications(ctx context.Context, filter ApplicationFilter) ([]entities.Application, error)
	// GetApplicationForCreator returns the creator's application on the
	// campaign, if any. Withdrawing deletes the row, so an existing row of
	// any status blocks a new submission.
	GetApplicationForCreator(ctx context.Context, campaignID string, creatorID string) (entities.Application, bool, error)
}

// CampaignSummary is the slice of campaign state this service needs to gate
// submissions and ownership checks.
type CampaignSummary struct {
	CampaignID string
	BrandID    string
	Title      string
	Status     string
}

type CampaignProjection interface {
	GetCampaignSummary(ctx context.Context, campaignID string) (CampaignSummary, error)
}

// ApplicationCounter keeps the campaign's applications_count in step with
// submissions and withdrawals.
type ApplicationCounter interface {
	IncrementApplications(ctx context.Context, campaignID string, delta int) error
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
