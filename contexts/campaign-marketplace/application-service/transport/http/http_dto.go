package httptransport

type SubmitApplicationRequest struct {
	CampaignID     string   `json:"campaign_id"`
	CreatorName    string   `json:"creator_name"`
	Proposal       string   `json:"proposal"`
	PortfolioLinks []string `json:"portfolio_links"`
	DeliveryDays   int      `json:"delivery_days"`
	ProposedBudget float64  `json:"proposed_budget"`
}

type SubmitApplicationResponse struct {
	Application ApplicationDTO `json:"application"`
	Replayed    bool           `json:"replayed"`
}

type ReviewApplicationRequest struct {
	Reason string `json:"reason"`
}

type ApplicationDTO struct {
	ApplicationID   string   `json:"application_id"`
	CampaignID      string   `json:"campaign_id"`
	CreatorID       string   `json:"creator_id"`
	CreatorName     string   `json:"creator_name"`
	Proposal        string   `json:"proposal"`
	PortfolioLinks  []string `json:"portfolio_links"`
	DeliveryDays    int      `json:"delivery_days"`
	ProposedBudget  float64  `json:"proposed_budget"`
	Status          string   `json:"status"`
	ReviewedBy      string   `json:"reviewed_by,omitempty"`
	ReviewedAt      string   `json:"reviewed_at,omitempty"`
	RejectionReason string   `json:"rejection_reason,omitempty"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

type GetApplicationResponse struct {
	Application ApplicationDTO `json:"application"`
}

type ListApplicationsResponse struct {
	Items []ApplicationDTO `json:"items"`
}

type ApplicationCountsResponse struct {
	CampaignID   string  `json:"campaign_id"`
	Total        int     `json:"total"`
	Pending      int     `json:"pending"`
	Approved     int     `json:"approved"`
	Rejected     int     `json:"rejected"`
	ApprovalRate float64 `json:"approval_rate"`
}
