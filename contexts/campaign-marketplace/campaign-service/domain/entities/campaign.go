package entities

import (
	"strings"
	"time"
)

type CampaignStatus string
type RemunerationType string

const (
	CampaignStatusPending   CampaignStatus = "pending"
	CampaignStatusApproved  CampaignStatus = "approved"
	CampaignStatusRejected  CampaignStatus = "rejected"
	CampaignStatusArchived  CampaignStatus = "archived"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusCancelled CampaignStatus = "cancelled"

	RemunerationPaga    RemunerationType = "paga"
	RemunerationPermuta RemunerationType = "permuta"
)

type Campaign struct {
	CampaignID        string
	BrandID           string
	BrandName         string
	Title             string
	Description       string
	Category          string
	Budget            float64
	RemunerationType  RemunerationType
	TargetStates      []string
	DeadlineAt        *time.Time
	LogoURL           string
	AttachmentURLs    []string
	Featured          bool
	ApplicationsCount int
	Status            CampaignStatus
	ReviewedBy        string
	ReviewedAt        *time.Time
	RejectionReason   string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (c Campaign) ValidateBasics() bool {
	title := strings.TrimSpace(c.Title)
	description := strings.TrimSpace(c.Description)

	return title != "" &&
		len(title) >= 3 &&
		len(title) <= 100 &&
		description != "" &&
		len(description) >= 10 &&
		len(description) <= 2000 &&
		IsSupportedCategory(c.Category) &&
		IsSupportedRemunerationType(c.RemunerationType) &&
		c.Budget >= 0 &&
		AllSupportedStates(c.TargetStates)
}

// NormalizeBudget applies the remuneration rule: barter campaigns always
// carry a zero budget, whatever the client submitted.
func NormalizeBudget(budget float64, remuneration RemunerationType) float64 {
	if remuneration == RemunerationPermuta {
		return 0
	}
	if budget < 0 {
		return 0
	}
	return budget
}

func IsSupportedRemunerationType(value RemunerationType) bool {
	switch value {
	case RemunerationPaga, RemunerationPermuta:
		return true
	default:
		return false
	}
}

func IsSupportedCategory(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "moda", "beleza", "fitness", "gastronomia", "tecnologia", "viagem", "lifestyle", "games":
		return true
	default:
		return false
	}
}

// SupportedCategories returns the catalog in display order.
func SupportedCategories() []string {
	return []string{"moda", "beleza", "fitness", "gastronomia", "tecnologia", "viagem", "lifestyle", "games"}
}

func SupportedRemunerationTypes() []string {
	return []string{string(RemunerationPaga), string(RemunerationPermuta)}
}

func AllSupportedStates(states []string) bool {
	for _, item := range states {
		if !IsSupportedState(item) {
			return false
		}
	}
	return true
}

// IsSupportedState checks Brazilian federation unit codes.
func IsSupportedState(value string) bool {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO",
		"MA", "MT", "MS", "MG", "PA", "PB", "PR", "PE", "PI",
		"RJ", "RN", "RS", "RO", "RR", "SC", "SP", "SE", "TO":
		return true
	default:
		return false
	}
}

type StateHistory struct {
	HistoryID    string
	CampaignID   string
	FromState    CampaignStatus
	ToState      CampaignStatus
	ChangedBy    string
	ChangeReason string
	CreatedAt    time.Time
}

type BudgetLog struct {
	LogID       string
	CampaignID  string
	AmountDelta float64
	Reason      string
	CreatedAt   time.Time
}
