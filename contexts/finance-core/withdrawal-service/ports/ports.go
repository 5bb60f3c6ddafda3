package ports

import (
	"context"
	"time"

	"vitrine/contexts/finance-core/withdrawal-service/domain/entities"
	contractsv1 "vitrine/contracts/gen/events/v1"
)

type BalanceRepository interface {
	GetBalance(ctx context.Context, creatorID string) (entities.Balance, error)
	SaveBalance(ctx context.Context, balance entities.Balance) error
	// CreditAvailable adds settled campaign earnings to the wallet, creating
	// it on first credit.
	CreditAvailable(ctx context.Context, creatorID string, amount float64, at time.Time) error
}

type WithdrawalFilter struct {
	CreatorID string
	Status    entities.WithdrawalStatus
}

type WithdrawalRepository interface {
	CreateWithdrawal(ctx context.Context, withdrawal entities.Withdrawal) error
	UpdateWithdrawal(ctx context.Context, withdrawal entities.Withdrawal) error
	GetWithdrawal(ctx context.Context, withdrawalID string) (entities.Withdrawal, error)
	ListWithdrawals(ctx context.Context, filter WithdrawalFilter) ([]entities.Withdrawal, error)
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

// EventDedupStore remembers consumed event ids so settlement events can be
// redelivered safely.
type EventDedupStore interface {
	SeenEvent(ctx context.Context, eventID string, now time.Time) (bool, error)
	MarkEventSeen(ctx context.Context, eventID string, expiresAt time.Time) error
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
