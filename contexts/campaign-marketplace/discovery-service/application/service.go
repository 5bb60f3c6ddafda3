package application

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	domainerrors "vitrine/contexts/campaign-marketplace/discovery-service/domain/errors"
	"vitrine/contexts/campaign-marketplace/discovery-service/ports"
)

type Service struct {
	Campaigns ports.CampaignSource
	Favorites ports.FavoritesProvider
	Logger    *slog.Logger
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Browse applies the creator-facing filters and sort to the open campaign
// list. Filtering is conjunctive; the result is independent of the order
// filters were applied in. Favorited campaigns always sort before the rest,
// whatever the sort key.
func (s Service) Browse(ctx context.Context, query ports.BrowseQuery) (ports.BrowseResult, error) {
	viewerID := strings.TrimSpace(query.ViewerID)
	if viewerID == "" {
		return ports.BrowseResult{}, domainerrors.ErrInvalidQuery
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = defaultPageSize
	}
	if query.PageSize > maxPageSize {
		query.PageSize = maxPageSize
	}
	sortBy := strings.ToLower(strings.TrimSpace(query.SortBy))
	switch sortBy {
	case "", "newest", "oldest", "budget_high", "budget_low", "deadline_soonest", "deadline_latest":
	default:
		return ports.BrowseResult{}, domainerrors.ErrInvalidQuery
	}
	if sortBy == "" {
		sortBy = "newest"
	}
	if query.Filters.BudgetMin != nil && query.Filters.BudgetMax != nil && *query.Filters.BudgetMin > *query.Filters.BudgetMax {
		return ports.BrowseResult{}, domainerrors.ErrInvalidQuery
	}

	campaigns, err := s.Campaigns.ListOpenCampaigns(ctx)
	if err != nil {
		return ports.BrowseResult{}, domainerrors.ErrDependencyUnavailable
	}

	favorites := map[string]bool{}
	if s.Favorites != nil {
		ids, err := s.Favorites.ListFavoriteIDs(ctx, viewerID)
		if err != nil {
			return ports.BrowseResult{}, domainerrors.ErrDependencyUnavailable
		}
		for _, id := range ids {
			favorites[id] = true
		}
	}

	matched := make([]ports.CampaignView, 0, len(campaigns))
	for _, item := range campaigns {
		if !matchesFilters(item, query.Filters) {
			continue
		}
		matched = append(matched, ports.CampaignView{
			Campaign:    item,
			IsFavorited: favorites[item.CampaignID],
		})
	}
	sortViews(matched, sortBy)

	total := len(matched)
	start := (query.Page - 1) * query.PageSize
	if start > total {
		start = total
	}
	end := start + query.PageSize
	if end > total {
		end = total
	}

	return ports.BrowseResult{
		Items:    matched[start:end],
		Total:    total,
		Page:     query.Page,
		PageSize: query.PageSize,
	}, nil
}

// Get returns one open campaign with the viewer's favorite flag.
func (s Service) Get(ctx context.Context, viewerID string, campaignID string) (ports.CampaignView, error) {
	viewerID = strings.TrimSpace(viewerID)
	campaignID = strings.TrimSpace(campaignID)
	if viewerID == "" || campaignID == "" {
		return ports.CampaignView{}, domainerrors.ErrInvalidQuery
	}
	campaigns, err := s.Campaigns.ListOpenCampaigns(ctx)
	if err != nil {
		return ports.CampaignView{}, domainerrors.ErrDependencyUnavailable
	}
	for _, item := range campaigns {
		if item.CampaignID != campaignID {
			continue
		}
		view := ports.CampaignView{Campaign: item}
		if s.Favorites != nil {
			ids, err := s.Favorites.ListFavoriteIDs(ctx, viewerID)
			if err != nil {
				return ports.CampaignView{}, domainerrors.ErrDependencyUnavailable
			}
			for _, id := range ids {
				if id == campaignID {
					view.IsFavorited = true
					break
				}
			}
		}
		return view, nil
	}
	return ports.CampaignView{}, domainerrors.ErrCampaignNotFound
}

func matchesFilters(item ports.Campaign, filters ports.Filters) bool {
	if search := strings.ToLower(strings.TrimSpace(filters.Search)); search != "" {
		haystack := strings.ToLower(item.Title + " " + item.Description + " " + item.BrandName + " " + item.Category)
		if !strings.Contains(haystack, search) {
			return false
		}
	}
	if category := strings.ToLower(strings.TrimSpace(filters.Category)); category != "" {
		if !strings.Contains(strings.ToLower(item.Category), category) {
			return false
		}
	}
	if region := strings.ToUpper(strings.TrimSpace(filters.Region)); region != "" {
		// A campaign without target states is nationwide.
		if len(item.TargetStates) > 0 {
			found := false
			for _, state := range item.TargetStates {
				if strings.ToUpper(state) == region {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	if filters.BudgetMin != nil && item.Budget < *filters.BudgetMin {
		return false
	}
	if filters.BudgetMax != nil && item.Budget > *filters.BudgetMax {
		return false
	}
	if filters.DeadlineAfter != nil {
		if item.DeadlineAt == nil || item.DeadlineAt.UTC().Before(filters.DeadlineAfter.UTC()) {
			return false
		}
	}
	if filters.DeadlineBefore != nil {
		if item.DeadlineAt == nil || item.DeadlineAt.UTC().After(filters.DeadlineBefore.UTC()) {
			return false
		}
	}
	return true
}

// sortViews orders favorites before non-favorites, then by the sort key,
// with created-at and id tiebreaks so the order is the same whatever order
// the source returned rows in.
func sortViews(items []ports.CampaignView, sortBy string) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].IsFavorited != items[j].IsFavorited {
			return items[i].IsFavorited
		}
		a, b := items[i].Campaign, items[j].Campaign
		switch sortBy {
		case "oldest":
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		case "budget_high":
			if a.Budget != b.Budget {
				return a.Budget > b.Budget
			}
		case "budget_low":
			if a.Budget != b.Budget {
				return a.Budget < b.Budget
			}
		case "deadline_soonest", "deadline_latest":
			if (a.DeadlineAt == nil) != (b.DeadlineAt == nil) {
				return a.DeadlineAt != nil
			}
			if cmp := compareDeadlines(a, b); cmp != 0 {
				if sortBy == "deadline_latest" {
					return cmp > 0
				}
				return cmp < 0
			}
		default: // newest
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.CampaignID < b.CampaignID
	})
}

// compareDeadlines orders earlier deadlines first; campaigns without a
// deadline go last either way.
func compareDeadlines(a, b ports.Campaign) int {
	switch {
	case a.DeadlineAt == nil && b.DeadlineAt == nil:
		return 0
	case a.DeadlineAt == nil:
		return 1
	case b.DeadlineAt == nil:
		return -1
	case a.DeadlineAt.Equal(*b.DeadlineAt):
		return 0
	case a.DeadlineAt.Before(*b.DeadlineAt):
		return -1
	default:
		return 1
	}
}
