package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"vitrine/contexts/campaign-marketplace/application-service/domain/entities"
	domainerrors "vitrine/contexts/campaign-marketplace/application-service/domain/errors"
	"vitrine/contexts/campaign-marketplace/application-service/ports"

	"github.com/google/uuid"
)

// Store keeps applications in one normalized map plus a seeded campaign
// projection for local runs and tests.
type Store struct {
	mu sync.RWMutex

	applications map[string]entities.Application
	campaigns    map[string]ports.CampaignSummary
	counters     map[string]int

	idempotency map[string]ports.IdempotencyRecord
	outbox      []outboxRow
}

type outboxRow struct {
	message   ports.OutboxMessage
	published bool
}

func NewStore(seedCampaigns []ports.CampaignSummary) *Store {
	campaigns := make(map[string]ports.CampaignSummary, len(seedCampaigns))
	for _, item := range seedCampaigns {
		campaigns[item.CampaignID] = item
	}
	return &Store{
		applications: make(map[string]entities.Application),
		campaigns:    campaigns,
		counters:     make(map[string]int),
		idempotency:  make(map[string]ports.IdempotencyRecord),
	}
}

// SeedCampaign registers or replaces a campaign summary in the projection.
func (s *Store) SeedCampaign(summary ports.CampaignSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[summary.CampaignID] = summary
}

// ApplicationsCount reports the tracked counter for a campaign.
func (s *Store) ApplicationsCount(campaignID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters[strings.TrimSpace(campaignID)]
}

func (s *Store) CreateApplication(_ context.Context, item entities.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.applications[item.ApplicationID]; exists {
		return domainerrors.ErrInvalidApplicationInput
	}
	s.applications[item.ApplicationID] = item
	return nil
}

func (s *Store) UpdateApplication(_ context.Context, item entities.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.applications[item.ApplicationID]; !exists {
		return domainerrors.ErrApplicationNotFound
	}
	s.applications[item.ApplicationID] = item
	return nil
}

func (s *Store) DeleteApplication(_ context.Context, applicationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	applicationID = strings.TrimSpace(applicationID)
	if _, exists := s.applications[applicationID]; !exists {
		return domainerrors.ErrApplicationNotFound
	}
	delete(s.applications, applicationID)
	return nil
}

func (s *Store) GetApplication(_ context.Context, applicationID string) (entities.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.applications[strings.TrimSpace(applicationID)]
	if !exists {
		return entities.Application{}, domainerrors.ErrApplicationNotFound
	}
	return item, nil
}

func (s *Store) ListApplications(_ context.Context, filter ports.ApplicationFilter) ([]entities.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Application, 0, len(s.applications))
	for _, item := range s.applications {
		if strings.TrimSpace(filter.CampaignID) != "" && item.CampaignID != strings.TrimSpace(filter.CampaignID) {
			continue
		}
		if strings.TrimSpace(filter.CreatorID) != "" && item.CreatorID != strings.TrimSpace(filter.CreatorID) {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ApplicationID < items[j].ApplicationID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) GetApplicationForCreator(_ context.Context, campaignID string, creatorID string) (entities.Application, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	campaignID = strings.TrimSpace(campaignID)
	creatorID = strings.TrimSpace(creatorID)
	for _, item := range s.applications {
		if item.CampaignID == campaignID && item.CreatorID == creatorID {
			return item, true, nil
		}
	}
	return entities.Application{}, false, nil
}

func (s *Store) GetCampaignSummary(_ context.Context, campaignID string) (ports.CampaignSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return ports.CampaignSummary{}, domainerrors.ErrCampaignNotFound
	}
	return summary, nil
}

func (s *Store) IncrementApplications(_ context.Context, campaignID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaignID = strings.TrimSpace(campaignID)
	s.counters[campaignID] += delta
	if s.counters[campaignID] < 0 {
		s.counters[campaignID] = 0
	}
	return nil
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
	return domainerrors.ErrInvalidApplicationInput
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
