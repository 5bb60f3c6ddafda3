package httptransport

// CreateCampaignRequest mirrors the campaign form. Budget travels as a
// string because the form posts "" for permuta campaigns.
type CreateCampaignRequest struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	BrandName        string   `json:"brand_name"`
	Category         string   `json:"category"`
	Budget           string   `json:"budget"`
	RemunerationType string   `json:"remuneration_type"`
	TargetStates     []string `json:"target_states"`
	Deadline         string   `json:"deadline"`
	LogoURL          string   `json:"logo_url"`
	AttachmentURLs   []string `json:"attachment_urls"`
}

type CreateCampaignResponse struct {
	Campaign CampaignDTO `json:"campaign"`
	Replayed bool        `json:"replayed"`
}

type UpdateCampaignRequest struct {
	Title            *string   `json:"title"`
	Description      *string   `json:"description"`
	Category         *string   `json:"category"`
	Budget           *float64  `json:"budget"`
	RemunerationType *string   `json:"remuneration_type"`
	TargetStates     *[]string `json:"target_states"`
	LogoURL          *string   `json:"logo_url"`
	AttachmentURLs   *[]string `json:"attachment_urls"`
}

type ReviewCampaignRequest struct {
	Reason string `json:"reason"`
}

type ExtendDeadlineRequest struct {
	Deadline string `json:"deadline"`
}

type UpdateBudgetRequest struct {
	Budget float64 `json:"budget"`
	Reason string  `json:"reason"`
}

type CampaignDTO struct {
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
	LogoURL           string   `json:"logo_url,omitempty"`
	AttachmentURLs    []string `json:"attachment_urls"`
	Featured          bool     `json:"featured"`
	IsFavorited       bool     `json:"is_favorited"`
	ApplicationsCount int      `json:"applications_count"`
	Status            string   `json:"status"`
	ReviewedBy        string   `json:"reviewed_by,omitempty"`
	ReviewedAt        string   `json:"reviewed_at,omitempty"`
	RejectionReason   string   `json:"rejection_reason,omitempty"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

type GetCampaignResponse struct {
	Campaign CampaignDTO `json:"campaign"`
}

type ListCampaignsResponse struct {
	Items []CampaignDTO `json:"items"`
}

type ToggleFavoriteResponse struct {
	CampaignID  string `json:"campaign_id"`
	IsFavorited bool   `json:"is_favorited"`
}

type CampaignStatsResponse struct {
	Total          int     `json:"total"`
	Pending        int     `json:"pending"`
	Approved       int     `json:"approved"`
	Rejected       int     `json:"rejected"`
	Archived       int     `json:"archived"`
	Completed      int     `json:"completed"`
	Cancelled      int     `json:"cancelled"`
	ApprovedBudget float64 `json:"approved_budget"`
}

type CampaignAnalyticsResponse struct {
	CampaignID           string `json:"campaign_id"`
	Status               string `json:"status"`
	ApplicationsTotal    int    `json:"applications_total"`
	ApplicationsPending  int    `json:"applications_pending"`
	ApplicationsApproved int    `json:"applications_approved"`
	ApplicationsRejected int    `json:"applications_rejected"`
	DaysToDeadline       *int   `json:"days_to_deadline,omitempty"`
}

type CatalogResponse struct {
	Categories        []string `json:"categories"`
	RemunerationTypes []string `json:"remuneration_types"`
}
