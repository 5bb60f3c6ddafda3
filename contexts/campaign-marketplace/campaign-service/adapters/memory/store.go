package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"vitrine/contexts/campaign-marketplace/campaign-service/domain/entities"
	domainerrors "vitrine/contexts/campaign-marketplace/campaign-service/domain/errors"
	"vitrine/contexts/campaign-marketplace/campaign-service/ports"

	"github.com/google/uuid"
)

// Store holds one normalized campaign map; every list view (pending,
// by-brand, by-status, favorites) is derived from it, so a single update is
// visible in all views at once.
type Store struct {
	mu sync.RWMutex

	campaigns map[string]entities.Campaign
	favorites map[string]map[string]bool
	stateLog  []entities.StateHistory
	budgetLog []entities.BudgetLog

	idempotency map[string]ports.IdempotencyRecord
	outbox      []outboxRow
}

type outboxRow struct {
	message   ports.OutboxMessage
	published bool
}

func NewStore(seed []entities.Campaign) *Store {
	campaigns := make(map[string]entities.Campaign, len(seed))
	for _, item := range seed {
		campaigns[item.CampaignID] = item
	}
	return &Store{
		campaigns:   campaigns,
		favorites:   make(map[string]map[string]bool),
		stateLog:    make([]entities.StateHistory, 0),
		budgetLog:   make([]entities.BudgetLog, 0),
		idempotency: make(map[string]ports.IdempotencyRecord),
	}
}

func (s *Store) CreateCampaign(_ context.Context, campaign entities.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.campaigns[campaign.CampaignID]; exists {
		return domainerrors.ErrInvalidCampaignInput
	}
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) UpdateCampaign(_ context.Context, campaign entities.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.campaigns[campaign.CampaignID]; !exists {
		return domainerrors.ErrCampaignNotFound
	}
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) DeleteCampaign(_ context.Context, campaignID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaignID = strings.TrimSpace(campaignID)
	if _, exists := s.campaigns[campaignID]; !exists {
		return domainerrors.ErrCampaignNotFound
	}
	delete(s.campaigns, campaignID)
	for _, byCampaign := range s.favorites {
		delete(byCampaign, campaignID)
	}
	return nil
}

func (s *Store) GetCampaign(_ context.Context, campaignID string) (entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	return item, nil
}

func (s *Store) ListCampaigns(_ context.Context, filter ports.CampaignFilter) ([]entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	favoritedBy := strings.TrimSpace(filter.FavoritedBy)
	items := make([]entities.Campaign, 0, len(s.campaigns))
	for _, campaign := range s.campaigns {
		if strings.TrimSpace(filter.BrandID) != "" && campaign.BrandID != strings.TrimSpace(filter.BrandID) {
			continue
		}
		if filter.Status != "" && campaign.Status != filter.Status {
			continue
		}
		if favoritedBy != "" && !s.favorites[favoritedBy][campaign.CampaignID] {
			continue
		}
		items = append(items, campaign)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CampaignID < items[j].CampaignID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) IncrementApplications(_ context.Context, campaignID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return domainerrors.ErrCampaignNotFound
	}
	campaign.ApplicationsCount += delta
	if campaign.ApplicationsCount < 0 {
		campaign.ApplicationsCount = 0
	}
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) IsFavorited(_ context.Context, creatorID string, campaignID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.favorites[strings.TrimSpace(creatorID)][strings.TrimSpace(campaignID)], nil
}

func (s *Store) SetFavorite(_ context.Context, creatorID string, campaignID string, favorited bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creatorID = strings.TrimSpace(creatorID)
	campaignID = strings.TrimSpace(campaignID)
	if _, exists := s.campaigns[campaignID]; !exists {
		return domainerrors.ErrCampaignNotFound
	}
	if s.favorites[creatorID] == nil {
		s.favorites[creatorID] = make(map[string]bool)
	}
	if favorited {
		s.favorites[creatorID][campaignID] = true
	} else {
		delete(s.favorites[creatorID], campaignID)
	}
	return nil
}

func (s *Store) ListFavoriteIDs(_ context.Context, creatorID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.favorites[strings.TrimSpace(creatorID)]))
	for id := range s.favorites[strings.TrimSpace(creatorID)] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) AppendState(_ context.Context, item entities.StateHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stateLog = append(s.stateLog, item)
	return nil
}

func (s *Store) AppendBudget(_ context.Context, item entities.BudgetLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.budgetLog = append(s.budgetLog, item)
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

	payload, err := marshalEnvelope(envelope)
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
	return domainerrors.ErrInvalidCampaignInput
}

func (s *Store) CompleteCampaignsPastDeadline(
	_ context.Context,
	now time.Time,
	limit int,
) ([]ports.DeadlineCompletionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 100
	}
	results := make([]ports.DeadlineCompletionResult, 0)
	for id, campaign := range s.campaigns {
		if len(results) >= limit {
			break
		}
		if campaign.Status != entities.CampaignStatusApproved {
			continue
		}
		if campaign.DeadlineAt == nil || !campaign.DeadlineAt.UTC().Before(now.UTC()) {
			continue
		}
		campaign.Status = entities.CampaignStatusCompleted
		campaign.UpdatedAt = now.UTC()
		s.campaigns[id] = campaign
		s.stateLog = append(s.stateLog, entities.StateHistory{
			HistoryID:    uuid.NewString(),
			CampaignID:   id,
			FromState:    entities.CampaignStatusApproved,
			ToState:      entities.CampaignStatusCompleted,
			ChangedBy:    "system",
			ChangeReason: "deadline_reached",
			CreatedAt:    now.UTC(),
		})
		results = append(results, ports.DeadlineCompletionResult{
			CampaignID: id,
			BrandID:    campaign.BrandID,
		})
	}
	return results, nil
}

func marshalEnvelope(envelope ports.EventEnvelope) ([]byte, error) {
	return json.Marshal(envelope)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
