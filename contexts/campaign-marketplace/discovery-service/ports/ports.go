package ports

import (
	"context"
	"time"
)

// Campaign is the read-model row discovery works on. It is projected from
// the campaign service and never written here.
type Campaign struct {
	CampaignID        string
	BrandID           string
	BrandName         string
	Title             string
	Description       string
	Category          string
	Budget            float64
	RemunerationType  string
	TargetStates      []string
	DeadlineAt        *time.Time
	Featured          bool
	ApplicationsCount int
	Status            string
	CreatedAt         time.Time
}

// CampaignSource lists campaigns open to creators, meaning approved ones.
type CampaignSource interface {
	ListOpenCampaigns(ctx context.Context) ([]Campaign, error)
}

type FavoritesProvider interface {
	ListFavoriteIDs(ctx context.Context, creatorID string) ([]string, error)
}

// Filters are conjunctive: a campaign must satisfy every set filter, and the
// outcome does not depend on the order they were set in.
type Filters struct {
	Search         string
	Category       string
	Region         string
	BudgetMin      *float64
	BudgetMax      *float64
	DeadlineAfter  *time.Time
	DeadlineBefore *time.Time
}

type BrowseQuery struct {
	ViewerID string
	Filters  Filters
	SortBy   string
	Page     int
	PageSize int
}

type CampaignView struct {
	Campaign    Campaign
	IsFavorited bool
}

type BrowseResult struct {
	Items    []CampaignView
	Total    int
	Page     int
	PageSize int
}
