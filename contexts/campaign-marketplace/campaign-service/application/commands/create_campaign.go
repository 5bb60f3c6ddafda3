package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "vitrine/contexts/campaign-marketplace/campaign-service/application"
	"vitrine/contexts/campaign-marketplace/campaign-service/domain/entities"
	domainerrors "vitrine/contexts/campaign-marketplace/campaign-service/domain/errors"
	"vitrine/contexts/campaign-marketplace/campaign-service/ports"
)

type CreateCampaignCommand struct {
	BrandID          string
	BrandName        string
	IdempotencyKey   string
	Title            string
	Description      string
	Category         string
	Budget           float64
	RemunerationType string
	TargetStates     []string
	DeadlineAt       *time.Time
	LogoURL          string
	AttachmentURLs   []string
}

type CreateCampaignUseCase struct {
	Campaigns      ports.CampaignRepository
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

type CreateCampaignResult struct {
	Campaign entities.Campaign
	Replayed bool
}

func (uc CreateCampaignUseCase) Execute(ctx context.Context, cmd CreateCampaignCommand) (CreateCampaignResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return CreateCampaignResult{}, domainerrors.ErrIdempotencyKeyRequired
	}
	if strings.TrimSpace(cmd.BrandID) == "" {
		return CreateCampaignResult{}, domainerrors.ErrInvalidCampaignInput
	}

	now := uc.Clock.Now().UTC()
	requestHash := hashCommandPayload(map[string]any{
		"brand_id":          strings.TrimSpace(cmd.BrandID),
		"title":             strings.TrimSpace(cmd.Title),
		"description":       strings.TrimSpace(cmd.Description),
		"category":          strings.TrimSpace(cmd.Category),
		"budget":            cmd.Budget,
		"remuneration_type": strings.TrimSpace(cmd.RemunerationType),
		"target_states":     cmd.TargetStates,
		"deadline":          cmd.DeadlineAt,
	})
	if record, found, err := uc.Idempotency.GetRecord(ctx, strings.TrimSpace(cmd.IdempotencyKey), now); err != nil {
		return CreateCampaignResult{}, err
	} else if found {
		if record.RequestHash != requestHash {
			return CreateCampaignResult{}, domainerrors.ErrIdempotencyKeyConflict
		}
		var replayed entities.Campaign
		if err := json.Unmarshal(record.ResponsePayload, &replayed); err != nil {
			return CreateCampaignResult{}, err
		}
		return CreateCampaignResult{Campaign: replayed, Replayed: true}, nil
	}

	remuneration := entities.RemunerationType(strings.ToLower(strings.TrimSpace(cmd.RemunerationType)))
	campaign := entities.Campaign{
		BrandID:          strings.TrimSpace(cmd.BrandID),
		BrandName:        strings.TrimSpace(cmd.BrandName),
		Title:            strings.TrimSpace(cmd.Title),
		Description:      strings.TrimSpace(cmd.Description),
		Category:         strings.ToLower(strings.TrimSpace(cmd.Category)),
		Budget:           entities.NormalizeBudget(cmd.Budget, remuneration),
		RemunerationType: remuneration,
		TargetStates:     normalizeStates(cmd.TargetStates),
		DeadlineAt:       normalizeOptionalTime(cmd.DeadlineAt),
		LogoURL:          strings.TrimSpace(cmd.LogoURL),
		AttachmentURLs:   append([]string(nil), cmd.AttachmentURLs...),
		Status:           entities.CampaignStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if !campaign.ValidateBasics() {
		return CreateCampaignResult{}, domainerrors.ErrInvalidCampaignInput
	}

	campaignID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return CreateCampaignResult{}, err
	}
	campaign.CampaignID = strings.TrimSpace(campaignID)
	if err := uc.Campaigns.CreateCampaign(ctx, campaign); err != nil {
		return CreateCampaignResult{}, err
	}

	payload, err := json.Marshal(campaign)
	if err != nil {
		return CreateCampaignResult{}, err
	}
	if err := uc.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
		Key:             strings.TrimSpace(cmd.IdempotencyKey),
		RequestHash:     requestHash,
		ResponsePayload: payload,
		ExpiresAt:       now.Add(resolveIdempotencyTTL(uc.IdempotencyTTL)),
	}); err != nil {
		return CreateCampaignResult{}, err
	}

	logger.Info("campaign created",
		"event", "campaign_created",
		"module", "campaign-marketplace/campaign-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"brand_id", campaign.BrandID,
		"remuneration_type", string(campaign.RemunerationType),
	)
	return CreateCampaignResult{Campaign: campaign}, nil
}

func resolveIdempotencyTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 7 * 24 * time.Hour
	}
	return ttl
}

func normalizeStates(states []string) []string {
	out := make([]string, 0, len(states))
	for _, item := range states {
		value := strings.ToUpper(strings.TrimSpace(item))
		if value != "" {
			out = append(out, value)
		}
	}
	return out
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func hashCommandPayload(payload map[string]any) string {
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
