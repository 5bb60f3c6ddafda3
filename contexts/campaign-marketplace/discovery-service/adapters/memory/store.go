package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"vitrine/contexts/campaign-marketplace/discovery-service/ports"
)

// Store is a seeded read model for local runs and tests.
type Store struct {
	mu        sync.RWMutex
	campaigns []ports.Campaign
	favorites map[string]map[string]bool
}

func NewStore(seed []ports.Campaign) *Store {
	return &Store{
		campaigns: append([]ports.Campaign(nil), seed...),
		favorites: make(map[string]map[string]bool),
	}
}

func (s *Store) SeedCampaign(item ports.Campaign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx := range s.campaigns {
		if s.campaigns[idx].CampaignID == item.CampaignID {
			s.campaigns[idx] = item
			return
		}
	}
	s.campaigns = append(s.campaigns, item)
}

func (s *Store) SetFavorite(creatorID string, campaignID string, favorited bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	creatorID = strings.TrimSpace(creatorID)
	if s.favorites[creatorID] == nil {
		s.favorites[creatorID] = make(map[string]bool)
	}
	if favorited {
		s.favorites[creatorID][strings.TrimSpace(campaignID)] = true
	} else {
		delete(s.favorites[creatorID], strings.TrimSpace(campaignID))
	}
}

func (s *Store) ListOpenCampaigns(_ context.Context) ([]ports.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.Campaign, 0, len(s.campaigns))
	for _, item := range s.campaigns {
		if item.Status == "approved" {
			items = append(items, item)
		}
	}
	return items, nil
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
