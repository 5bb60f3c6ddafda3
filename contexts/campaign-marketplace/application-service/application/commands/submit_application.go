package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "vitrine/contexts/campaign-marketplace/application-service/application"
	"vitrine/contexts/campaign-marketplace/application-service/domain/entities"
	domainerrors "vitrine/contexts/campaign-marketplace/application-service/domain/errors"
	"vitrine/contexts/campaign-marketplace/application-service/ports"
)

type SubmitApplicationCommand struct {
	CampaignID     string
	CreatorID      string
	CreatorName    string
	IdempotencyKey string
	Proposal       string
	PortfolioLinks []string
	DeliveryDays   int
	ProposedBudget float64
}

type SubmitApplicationUseCase struct {
	Applications   ports.ApplicationRepository
	Campaigns      ports.CampaignProjection
	Counter        ports.ApplicationCounter
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxWriter
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

type SubmitApplicationResult struct {
	Application entities.Application
	Replayed    bool
}

func (uc SubmitApplicationUseCase) Execute(ctx context.Context, cmd SubmitApplicationCommand) (SubmitApplicationResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return SubmitApplicationResult{}, domainerrors.ErrIdempotencyKeyRequired
	}
	creatorID := strings.TrimSpace(cmd.CreatorID)
	if creatorID == "" {
		return SubmitApplicationResult{}, domainerrors.ErrInvalidApplicationInput
	}

	now := uc.Clock.Now().UTC()
	requestHash := hashCommandPayload(map[string]any{
		"campaign_id":     strings.TrimSpace(cmd.CampaignID),
		"creator_id":      creatorID,
		"proposal":        strings.TrimSpace(cmd.Proposal),
		"links":           cmd.PortfolioLinks,
		"delivery_days":   cmd.DeliveryDays,
		"proposed_budget": cmd.ProposedBudget,
	})
	if record, found, err := uc.Idempotency.GetRecord(ctx, strings.TrimSpace(cmd.IdempotencyKey), now); err != nil {
		return SubmitApplicationResult{}, err
	} else if found {
		if record.RequestHash != requestHash {
			return SubmitApplicationResult{}, domainerrors.ErrIdempotencyKeyConflict
		}
		var replayed entities.Application
		if err := json.Unmarshal(record.ResponsePayload, &replayed); err != nil {
			return SubmitApplicationResult{}, err
		}
		return SubmitApplicationResult{Application: replayed, Replayed: true}, nil
	}

	campaign, err := uc.Campaigns.GetCampaignSummary(ctx, strings.TrimSpace(cmd.CampaignID))
	if err != nil {
		return SubmitApplicationResult{}, err
	}
	if campaign.Status != "approved" {
		return SubmitApplicationResult{}, domainerrors.ErrCampaignNotOpen
	}
	if campaign.BrandID == creatorID {
		return SubmitApplicationResult{}, domainerrors.ErrInvalidApplicationInput
	}

	if _, exists, err := uc.Applications.GetApplicationForCreator(ctx, campaign.CampaignID, creatorID); err != nil {
		return SubmitApplicationResult{}, err
	} else if exists {
		return SubmitApplicationResult{}, domainerrors.ErrDuplicateApplication
	}

	item := entities.Application{
		CampaignID:     campaign.CampaignID,
		CreatorID:      creatorID,
		CreatorName:    strings.TrimSpace(cmd.CreatorName),
		Proposal:       strings.TrimSpace(cmd.Proposal),
		PortfolioLinks: normalizeLinks(cmd.PortfolioLinks),
		DeliveryDays:   cmd.DeliveryDays,
		ProposedBudget: cmd.ProposedBudget,
		Status:         entities.ApplicationStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if !item.ValidateBasics() {
		return SubmitApplicationResult{}, domainerrors.ErrInvalidApplicationInput
	}

	applicationID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return SubmitApplicationResult{}, err
	}
	item.ApplicationID = strings.TrimSpace(applicationID)
	if err := uc.Applications.CreateApplication(ctx, item); err != nil {
		return SubmitApplicationResult{}, err
	}
	if err := uc.Counter.IncrementApplications(ctx, campaign.CampaignID, 1); err != nil {
		return SubmitApplicationResult{}, err
	}
	if err := appendApplicationOutbox(ctx, uc.Outbox, uc.IDGenerator, "application.submitted", item, now); err != nil {
		return SubmitApplicationResult{}, err
	}

	payload, err := json.Marshal(item)
	if err != nil {
		return SubmitApplicationResult{}, err
	}
	if err := uc.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
		Key:             strings.TrimSpace(cmd.IdempotencyKey),
		RequestHash:     requestHash,
		ResponsePayload: payload,
		ExpiresAt:       now.Add(resolveIdempotencyTTL(uc.IdempotencyTTL)),
	}); err != nil {
		return SubmitApplicationResult{}, err
	}

	logger.Info("application submitted",
		"event", "application_submitted",
		"module", "campaign-marketplace/application-service",
		"layer", "application",
		"application_id", item.ApplicationID,
		"campaign_id", item.CampaignID,
		"creator_id", item.CreatorID,
	)
	return SubmitApplicationResult{Application: item}, nil
}

func resolveIdempotencyTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 7 * 24 * time.Hour
	}
	return ttl
}

func normalizeLinks(links []string) []string {
	out := make([]string, 0, len(links))
	for _, link := range links {
		if value := strings.TrimSpace(link); value != "" {
			out = append(out, value)
		}
	}
	return out
}

func hashCommandPayload(payload map[string]any) string {
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
