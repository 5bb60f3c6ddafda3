package entities

import (
	"net/url"
	"strings"
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

const (
	MinProposalLength = 10
	MaxProposalLength = 2000
	MaxPortfolioLinks = 10
	MinDeliveryDays   = 1
	MaxDeliveryDays   = 365
)

// Application is a creator's bid on a campaign. A creator holds at most one
// application per campaign whatever its status; withdrawing deletes the row
// and is the only way to apply again.
type Application struct {
	ApplicationID   string            `json:"application_id"`
	CampaignID      string            `json:"campaign_id"`
	CreatorID       string            `json:"creator_id"`
	CreatorName     string            `json:"creator_name"`
	Proposal        string            `json:"proposal"`
	PortfolioLinks  []string          `json:"portfolio_links"`
	DeliveryDays    int               `json:"delivery_days"`
	ProposedBudget  float64           `json:"proposed_budget"`
	Status          ApplicationStatus `json:"status"`
	ReviewedBy      string            `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time        `json:"reviewed_at,omitempty"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func (a Application) ValidateBasics() bool {
	proposal := strings.TrimSpace(a.Proposal)
	if len(proposal) < MinProposalLength || len(proposal) > MaxProposalLength {
		return false
	}
	if a.DeliveryDays < MinDeliveryDays || a.DeliveryDays > MaxDeliveryDays {
		return false
	}
	if a.ProposedBudget < 0 {
		return false
	}
	if len(a.PortfolioLinks) > MaxPortfolioLinks {
		return false
	}
	for _, link := range a.PortfolioLinks {
		if !IsValidPortfolioLink(link) {
			return false
		}
	}
	return true
}

// IsValidPortfolioLink accepts absolute http(s) URLs only.
func IsValidPortfolioLink(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}
