package httptransport

type DiscoveryCampaignDTO struct {
	CampaignID        string   `json:"campaign_id"`
	BrandID           string   `json:"brand_id"`
	BrandName         string   `json:"brand_name"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Category          string   `json:"category"`
	Budget            float64  `json:"budget"`
	RemunerationType  string   `json:"remuneration_type"`
	TargetStates      []string `json:"target_states"`
	Deadline          string   `json:"deadline,omitempty"`
	Featured          bool     `json:"featured"`
	IsFavorited       bool     `json:"is_favorited"`
	ApplicationsCount int      `json:"applications_count"`
	CreatedAt         string   `json:"created_at"`
}

type BrowseResponse struct {
	Items    []DiscoveryCampaignDTO `json:"items"`
	Total    int                    `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
}

type GetDiscoveryCampaignResponse struct {
	Campaign DiscoveryCampaignDTO `json:"campaign"`
}
