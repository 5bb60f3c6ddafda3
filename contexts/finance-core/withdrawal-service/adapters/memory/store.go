package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"vitrine/contexts/finance-core/withdrawal-service/domain/entities"
	domainerrors "vitrine/contexts/finance-core/withdrawal-service/domain/errors"
	"vitrine/contexts/finance-core/withdrawal-service/ports"

	"github.com/google/uuid"
)

// Store keeps wallets and withdrawals for local runs and tests. A balance
// read for an unknown creator returns an empty wallet rather than an error.
type Store struct {
	mu sync.RWMutex

	balances    map[string]entities.Balance
	withdrawals map[string]entities.Withdrawal

	idempotency map[string]ports.IdempotencyRecord
	seenEvents  map[string]time.Time
	outbox      []outboxRow
}

type outboxRow struct {
	message   ports.OutboxMessage
	published bool
}

func NewStore(seed []entities.Balance) *Store {
	balances := make(map[string]entities.Balance, len(seed))
	for _, item := range seed {
		balances[item.CreatorID] = item
	}
	return &Store{
		balances:    balances,
		withdrawals: make(map[string]entities.Withdrawal),
		idempotency: make(map[string]ports.IdempotencyRecord),
		seenEvents:  make(map[string]time.Time),
	}
}

func (s *Store) GetBalance(_ context.Context, creatorID string) (entities.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	creatorID = strings.TrimSpace(creatorID)
	if balance, exists := s.balances[creatorID]; exists {
		return balance, nil
	}
	return entities.Balance{CreatorID: creatorID}, nil
}

func (s *Store) SaveBalance(_ context.Context, balance entities.Balance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[balance.CreatorID] = balance
	return nil
}

func (s *Store) CreditAvailable(_ context.Context, creatorID string, amount float64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creatorID = strings.TrimSpace(creatorID)
	balance := s.balances[creatorID]
	balance.CreatorID = creatorID
	balance.Available += amount
	balance.TotalEarned += amount
	balance.UpdatedAt = at.UTC()
	s.balances[creatorID] = balance
	return nil
}

func (s *Store) CreateWithdrawal(_ context.Context, withdrawal entities.Withdrawal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.withdrawals[withdrawal.WithdrawalID]; exists {
		return domainerrors.ErrIdempotencyKeyConflict
	}
	s.withdrawals[withdrawal.WithdrawalID] = withdrawal
	return nil
}

func (s *Store) UpdateWithdrawal(_ context.Context, withdrawal entities.Withdrawal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.withdrawals[withdrawal.WithdrawalID]; !exists {
		return domainerrors.ErrWithdrawalNotFound
	}
	s.withdrawals[withdrawal.WithdrawalID] = withdrawal
	return nil
}

func (s *Store) GetWithdrawal(_ context.Context, withdrawalID string) (entities.Withdrawal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	withdrawal, exists := s.withdrawals[strings.TrimSpace(withdrawalID)]
	if !exists {
		return entities.Withdrawal{}, domainerrors.ErrWithdrawalNotFound
	}
	return withdrawal, nil
}

func (s *Store) ListWithdrawals(_ context.Context, filter ports.WithdrawalFilter) ([]entities.Withdrawal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Withdrawal, 0, len(s.withdrawals))
	for _, item := range s.withdrawals {
		if strings.TrimSpace(filter.CreatorID) != "" && item.CreatorID != strings.TrimSpace(filter.CreatorID) {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].RequestedAt.Equal(items[j].RequestedAt) {
			return items[i].WithdrawalID < items[j].WithdrawalID
		}
		return items[i].RequestedAt.After(items[j].RequestedAt)
	})
	return items, nil
}

func (s *Store) GetRecord(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.idempotency[key]
	if !exists {
		return ports.IdempotencyRecord{}, false, nil
	}
	if !record.ExpiresAt.After(now) {
		delete(s.idempotency, key)
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) PutRecord(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.idempotency[record.Key]
	if exists {
		if existing.RequestHash != record.RequestHash {
			return domainerrors.ErrIdempotencyKeyConflict
		}
		if !bytes.Equal(existing.ResponsePayload, record.ResponsePayload) {
			return domainerrors.ErrIdempotencyKeyConflict
		}
	}
	s.idempotency[record.Key] = record
	return nil
}

func (s *Store) SeenEvent(_ context.Context, eventID string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, exists := s.seenEvents[eventID]
	if !exists {
		return false, nil
	}
	if !expiresAt.After(now) {
		delete(s.seenEvents, eventID)
		return false, nil
	}
	return true, nil
}

func (s *Store) MarkEventSeen(_ context.Context, eventID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seenEvents[eventID] = expiresAt
	return nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.outbox = append(s.outbox, outboxRow{message: ports.OutboxMessage{
		OutboxID:     envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
		if len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for idx := range s.outbox {
		if s.outbox[idx].message.OutboxID == outboxID {
			s.outbox[idx].published = true
			return nil
		}
	}
	return domainerrors.ErrWithdrawalNotFound
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
