package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"vitrine/contexts/campaign-marketplace/discovery-service/adapters/memory"
	domainerrors "vitrine/contexts/campaign-marketplace/discovery-service/domain/errors"
	"vitrine/contexts/campaign-marketplace/discovery-service/ports"
)

func seedCampaigns() []ports.Campaign {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	deadline := func(days int) *time.Time {
		at := base.AddDate(0, 0, days)
		return &at
	}
	return []ports.Campaign{
		{
			CampaignID: "camp-1", BrandID: "brand-1", BrandName: "Loja Sol",
			Title: "Coleção verão", Description: "Looks de praia", Category: "moda",
			Budget: 1000, RemunerationType: "paga", TargetStates: []string{"SP", "RJ"},
			DeadlineAt: deadline(10), Status: "approved", CreatedAt: base,
		},
		{
			CampaignID: "camp-2", BrandID: "brand-2", BrandName: "Academia Forte",
			Title: "Desafio fitness", Description: "Treinos em casa", Category: "fitness",
			Budget: 500, RemunerationType: "paga", TargetStates: []string{"MG"},
			DeadlineAt: deadline(5), Status: "approved", CreatedAt: base.Add(time.Hour),
		},
		{
			CampaignID: "camp-3", BrandID: "brand-3", BrandName: "Sabor Caseiro",
			Title: "Receitas de verão", Description: "Pratos leves", Category: "gastronomia",
			Budget: 0, RemunerationType: "permuta", Status: "approved",
			CreatedAt: base.Add(2 * time.Hour),
		},
		{
			CampaignID: "camp-4", BrandID: "brand-4", BrandName: "Viagens Já",
			Title: "Roteiro nordeste", Description: "Praias do nordeste", Category: "viagem",
			Budget: 2000, RemunerationType: "paga", TargetStates: []string{"BA", "PE"},
			DeadlineAt: deadline(20), Status: "pending", CreatedAt: base.Add(3 * time.Hour),
		},
	}
}

func newService(t *testing.T) (Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore(seedCampaigns())
	return Service{Campaigns: store, Favorites: store}, store
}

func browseIDs(t *testing.T, svc Service, query ports.BrowseQuery) []string {
	t.Helper()
	result, err := svc.Browse(context.Background(), query)
	if err != nil {
		t.Fatalf("browse failed: %v", err)
	}
	ids := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		ids = append(ids, item.Campaign.CampaignID)
	}
	return ids
}

func TestBrowseShowsOnlyApprovedCampaigns(t *testing.T) {
	svc, _ := newService(t)
	ids := browseIDs(t, svc, ports.BrowseQuery{ViewerID: "creator-1"})
	for _, id := range ids {
		if id == "camp-4" {
			t.Fatal("pending campaign leaked into browse")
		}
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 approved campaigns, got %d", len(ids))
	}
}

func TestBrowseConjunctiveFilters(t *testing.T) {
	svc, _ := newService(t)
	min := 400.0
	query := ports.BrowseQuery{
		ViewerID: "creator-1",
		Filters: ports.Filters{
			Search:    "verão",
			BudgetMin: &min,
		},
	}
	ids := browseIDs(t, svc, query)
	// "verão" matches camp-1 and camp-3, but camp-3 fails the budget floor.
	if len(ids) != 1 || ids[0] != "camp-1" {
		t.Fatalf("expected [camp-1], got %v", ids)
	}
}

func TestBrowseSearchMatchesCategory(t *testing.T) {
	svc, _ := newService(t)
	// "moda" appears only in camp-1's category, not in its title,
	// description or brand name.
	ids := browseIDs(t, svc, ports.BrowseQuery{
		ViewerID: "creator-1",
		Filters:  ports.Filters{Search: "moda"},
	})
	if len(ids) != 1 || ids[0] != "camp-1" {
		t.Fatalf("expected [camp-1] for category search, got %v", ids)
	}
}

func TestBrowseCategoryFilterIsSubstring(t *testing.T) {
	svc, _ := newService(t)
	ids := browseIDs(t, svc, ports.BrowseQuery{
		ViewerID: "creator-1",
		Filters:  ports.Filters{Category: "GASTRO"},
	})
	if len(ids) != 1 || ids[0] != "camp-3" {
		t.Fatalf("expected [camp-3] for partial category, got %v", ids)
	}
}

func TestBrowseBudgetBoundsInclusive(t *testing.T) {
	svc, _ := newService(t)
	min, max := 500.0, 1000.0
	ids := browseIDs(t, svc, ports.BrowseQuery{
		ViewerID: "creator-1",
		Filters:  ports.Filters{BudgetMin: &min, BudgetMax: &max},
	})
	if len(ids) != 2 {
		t.Fatalf("expected both boundary campaigns, got %v", ids)
	}
}

func TestBrowseRegionFilterTreatsNoStatesAsNationwide(t *testing.T) {
	svc, _ := newService(t)
	ids := browseIDs(t, svc, ports.BrowseQuery{
		ViewerID: "creator-1",
		Filters:  ports.Filters{Region: "sp"},
	})
	// camp-1 targets SP; camp-3 has no states and therefore runs nationwide.
	if len(ids) != 2 {
		t.Fatalf("expected camp-1 and camp-3 for SP, got %v", ids)
	}
}

func TestBrowseFavoritesSortFirst(t *testing.T) {
	svc, store := newService(t)
	store.SetFavorite("creator-1", "camp-1", true)

	ids := browseIDs(t, svc, ports.BrowseQuery{ViewerID: "creator-1", SortBy: "newest"})
	if ids[0] != "camp-1" {
		t.Fatalf("expected favorited camp-1 first, got %v", ids)
	}
	// Non-favorites keep the sort key order behind it.
	if ids[1] != "camp-3" || ids[2] != "camp-2" {
		t.Fatalf("unexpected tail order %v", ids)
	}

	// Another viewer sees the plain newest order.
	other := browseIDs(t, svc, ports.BrowseQuery{ViewerID: "creator-2", SortBy: "newest"})
	if other[0] != "camp-3" {
		t.Fatalf("expected newest first for non-favoriting viewer, got %v", other)
	}
}

func TestBrowseSortKeys(t *testing.T) {
	svc, _ := newService(t)
	cases := map[string][]string{
		"newest":           {"camp-3", "camp-2", "camp-1"},
		"oldest":           {"camp-1", "camp-2", "camp-3"},
		"budget_high":      {"camp-1", "camp-2", "camp-3"},
		"budget_low":       {"camp-3", "camp-2", "camp-1"},
		"deadline_soonest": {"camp-2", "camp-1", "camp-3"},
		"deadline_latest":  {"camp-1", "camp-2", "camp-3"},
	}
	for sortBy, expected := range cases {
		ids := browseIDs(t, svc, ports.BrowseQuery{ViewerID: "creator-1", SortBy: sortBy})
		if len(ids) != len(expected) {
			t.Fatalf("%s: expected %v, got %v", sortBy, expected, ids)
		}
		for idx := range expected {
			if ids[idx] != expected[idx] {
				t.Fatalf("%s: expected %v, got %v", sortBy, expected, ids)
			}
		}
	}
}

func TestBrowsePagination(t *testing.T) {
	svc, _ := newService(t)
	result, err := svc.Browse(context.Background(), ports.BrowseQuery{
		ViewerID: "creator-1",
		SortBy:   "oldest",
		Page:     2,
		PageSize: 2,
	})
	if err != nil {
		t.Fatalf("browse failed: %v", err)
	}
	if result.Total != 3 {
		t.Fatalf("expected total 3, got %d", result.Total)
	}
	if len(result.Items) != 1 || result.Items[0].Campaign.CampaignID != "camp-3" {
		t.Fatalf("unexpected second page %+v", result.Items)
	}
}

func TestBrowseRejectsBadQueries(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.Browse(ctx, ports.BrowseQuery{ViewerID: ""}); !errors.Is(err, domainerrors.ErrInvalidQuery) {
		t.Fatalf("expected invalid query for missing viewer, got %v", err)
	}
	if _, err := svc.Browse(ctx, ports.BrowseQuery{ViewerID: "creator-1", SortBy: "alphabetical"}); !errors.Is(err, domainerrors.ErrInvalidQuery) {
		t.Fatalf("expected invalid query for unknown sort, got %v", err)
	}
	min, max := 100.0, 50.0
	if _, err := svc.Browse(ctx, ports.BrowseQuery{
		ViewerID: "creator-1",
		Filters:  ports.Filters{BudgetMin: &min, BudgetMax: &max},
	}); !errors.Is(err, domainerrors.ErrInvalidQuery) {
		t.Fatalf("expected invalid query for inverted budget bounds, got %v", err)
	}
}

func TestGetReturnsFavoriteFlag(t *testing.T) {
	svc, store := newService(t)
	store.SetFavorite("creator-1", "camp-2", true)

	view, err := svc.Get(context.Background(), "creator-1", "camp-2")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !view.IsFavorited {
		t.Fatal("expected favorite flag set")
	}

	if _, err := svc.Get(context.Background(), "creator-1", "camp-4"); !errors.Is(err, domainerrors.ErrCampaignNotFound) {
		t.Fatalf("expected not found for pending campaign, got %v", err)
	}
}
