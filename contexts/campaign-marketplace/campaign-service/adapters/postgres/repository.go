package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"vitrine/contexts/campaign-marketplace/campaign-service/domain/entities"
	domainerrors "vitrine/contexts/campaign-marketplace/campaign-service/domain/errors"
	"vitrine/contexts/campaign-marketplace/campaign-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateCampaign(ctx context.Context, campaign entities.Campaign) error {
	row := campaignModelFromEntity(campaign)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidCampaignInput
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateCampaign(ctx context.Context, campaign entities.Campaign) error {
	result := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Where("campaign_id = ?", strings.TrimSpace(campaign.CampaignID)).
		Updates(campaignUpdatesFromEntity(campaign))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCampaignNotFound
	}
	return nil
}

func (r *Repository) DeleteCampaign(ctx context.Context, campaignID string) error {
	campaignID = strings.TrimSpace(campaignID)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("campaign_id = ?", campaignID).Delete(&campaignModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrCampaignNotFound
		}
		return tx.Where("campaign_id = ?", campaignID).Delete(&favoriteModel{}).Error
	})
}

func (r *Repository) GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error) {
	var row campaignModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Campaign{}, domainerrors.ErrCampaignNotFound
		}
		return entities.Campaign{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCampaigns(ctx context.Context, filter ports.CampaignFilter) ([]entities.Campaign, error) {
	tx := r.db.WithContext(ctx).Model(&campaignModel{})
	if strings.TrimSpace(filter.BrandID) != "" {
		tx = tx.Where("brand_id = ?", strings.TrimSpace(filter.BrandID))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	if strings.TrimSpace(filter.FavoritedBy) != "" {
		tx = tx.Where(
			"campaign_id IN (?)",
			r.db.Model(&favoriteModel{}).
				Select("campaign_id").
				Where("creator_id = ?", strings.TrimSpace(filter.FavoritedBy)),
		)
	}

	var rows []campaignModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Campaign, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) IncrementApplications(ctx context.Context, campaignID string, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		Update("applications_count", gorm.Expr("GREATEST(applications_count + ?, 0)", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCampaignNotFound
	}
	return nil
}

func (r *Repository) IsFavorited(ctx context.Context, creatorID string, campaignID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&favoriteModel{}).
		Where("creator_id = ? AND campaign_id = ?", strings.TrimSpace(creatorID), strings.TrimSpace(campaignID)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) SetFavorite(ctx context.Context, creatorID string, campaignID string, favorited bool) error {
	creatorID = strings.TrimSpace(creatorID)
	campaignID = strings.TrimSpace(campaignID)
	if !favorited {
		return r.db.WithContext(ctx).
			Where("creator_id = ? AND campaign_id = ?", creatorID, campaignID).
			Delete(&favoriteModel{}).
			Error
	}
	row := favoriteModel{
		CreatorID:  creatorID,
		CampaignID: campaignID,
		CreatedAt:  time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "creator_id"}, {Name: "campaign_id"}},
			DoNothing: true,
		}).
		Create(&row).
		Error
}

func (r *Repository) ListFavoriteIDs(ctx context.Context, creatorID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&favoriteModel{}).
		Where("creator_id = ?", strings.TrimSpace(creatorID)).
		Order("campaign_id ASC").
		Pluck("campaign_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Repository) AppendState(ctx context.Context, item entities.StateHistory) error {
	row := stateHistoryModel{
		HistoryID:    strings.TrimSpace(item.HistoryID),
		CampaignID:   strings.TrimSpace(item.CampaignID),
		FromState:    string(item.FromState),
		ToState:      string(item.ToState),
		ChangedBy:    strings.TrimSpace(item.ChangedBy),
		ChangeReason: strings.TrimSpace(item.ChangeReason),
		CreatedAt:    item.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidCampaignInput
		}
		return err
	}
	return nil
}

func (r *Repository) AppendBudget(ctx context.Context, item entities.BudgetLog) error {
	row := budgetLogModel{
		LogID:       strings.TrimSpace(item.LogID),
		CampaignID:  strings.TrimSpace(item.CampaignID),
		AmountDelta: item.AmountDelta,
		Reason:      strings.TrimSpace(item.Reason),
		CreatedAt:   item.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidCampaignInput
		}
		return err
	}
	return nil
}

func (r *Repository) GetRecord(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", strings.TrimSpace(key)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}

	if !row.ExpiresAt.IsZero() && now.UTC().After(row.ExpiresAt.UTC()) {
		if err := r.db.WithContext(ctx).
			Where("key = ?", strings.TrimSpace(key)).
			Delete(&idempotencyModel{}).
			Error; err != nil {
			return ports.IdempotencyRecord{}, false, err
		}
		return ports.IdempotencyRecord{}, false, nil
	}

	return ports.IdempotencyRecord{
		Key:             row.Key,
		RequestHash:     row.RequestHash,
		ResponsePayload: append([]byte(nil), row.ResponsePayload...),
		ExpiresAt:       row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *Repository) PutRecord(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:             strings.TrimSpace(record.Key),
		RequestHash:     record.RequestHash,
		ResponsePayload: append([]byte(nil), record.ResponsePayload...),
		ExpiresAt:       record.ExpiresAt.UTC(),
	}
	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing idempotencyModel
	if err := r.db.WithContext(ctx).
		Where("key = ?", row.Key).
		First(&existing).
		Error; err != nil {
		return err
	}
	if existing.RequestHash != row.RequestHash || !bytes.Equal(existing.ResponsePayload, row.ResponsePayload) {
		return domainerrors.ErrIdempotencyKeyConflict
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing outboxModel
	if err := r.db.WithContext(ctx).
		Select("payload").
		Where("outbox_id = ?", row.OutboxID).
		First(&existing).
		Error; err != nil {
		return err
	}
	if !bytes.Equal(existing.Payload, row.Payload) {
		return domainerrors.ErrIdempotencyKeyConflict
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidCampaignInput
	}
	return nil
}

func (r *Repository) CompleteCampaignsPastDeadline(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]ports.DeadlineCompletionResult, error) {
	if limit <= 0 {
		limit = 100
	}
	timestamp := now.UTC()
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	results := make([]ports.DeadlineCompletionResult, 0)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []campaignModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("status = ? AND deadline IS NOT NULL AND deadline < ?", string(entities.CampaignStatusApproved), timestamp).
			Order("deadline ASC").
			Limit(limit).
			Find(&rows).
			Error; err != nil {
			return err
		}

		for _, row := range rows {
			campaign := row.toEntity()
			campaign.Status = entities.CampaignStatusCompleted
			campaign.UpdatedAt = timestamp

			if err := tx.Model(&campaignModel{}).
				Where("campaign_id = ?", campaign.CampaignID).
				Updates(campaignUpdatesFromEntity(campaign)).
				Error; err != nil {
				return err
			}

			stateRow := stateHistoryModel{
				HistoryID:    uuid.NewString(),
				CampaignID:   campaign.CampaignID,
				FromState:    string(entities.CampaignStatusApproved),
				ToState:      string(entities.CampaignStatusCompleted),
				ChangedBy:    "system",
				ChangeReason: "deadline_reached",
				CreatedAt:    timestamp,
			}
			if err := tx.Create(&stateRow).Error; err != nil {
				return err
			}

			data, err := json.Marshal(map[string]any{
				"campaign_id": campaign.CampaignID,
				"brand_id":    campaign.BrandID,
				"from_status": string(entities.CampaignStatusApproved),
				"to_status":   string(campaign.Status),
				"reason":      "deadline_reached",
			})
			if err != nil {
				return err
			}
			eventID := uuid.NewString()
			if err := insertOutboxEnvelopeTx(tx, ports.EventEnvelope{
				EventID:          eventID,
				EventType:        "campaign.status_changed",
				OccurredAt:       timestamp,
				SourceService:    "campaign-service",
				TraceID:          eventID,
				SchemaVersion:    1,
				PartitionKeyPath: "campaign_id",
				PartitionKey:     campaign.CampaignID,
				Data:             data,
			}); err != nil {
				return err
			}

			results = append(results, ports.DeadlineCompletionResult{
				CampaignID: campaign.CampaignID,
				BrandID:    campaign.BrandID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func insertOutboxEnvelopeTx(tx *gorm.DB, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	createResult := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected == 0 {
		var existing outboxModel
		if err := tx.Select("payload").Where("outbox_id = ?", row.OutboxID).First(&existing).Error; err != nil {
			return err
		}
		if !bytes.Equal(existing.Payload, row.Payload) {
			return domainerrors.ErrIdempotencyKeyConflict
		}
	}
	return nil
}

type campaignModel struct {
	CampaignID        string     `gorm:"column:campaign_id;primaryKey"`
	BrandID           string     `gorm:"column:brand_id"`
	BrandName         string     `gorm:"column:brand_name"`
	Title             string     `gorm:"column:title"`
	Description       string     `gorm:"column:description"`
	Category          string     `gorm:"column:category"`
	Budget            float64    `gorm:"column:budget"`
	RemunerationType  string     `gorm:"column:remuneration_type"`
	TargetStates      string     `gorm:"column:target_states"`
	DeadlineAt        *time.Time `gorm:"column:deadline"`
	LogoURL           string     `gorm:"column:logo_url"`
	AttachmentURLs    string     `gorm:"column:attachment_urls"`
	Featured          bool       `gorm:"column:featured"`
	ApplicationsCount int        `gorm:"column:applications_count"`
	Status            string     `gorm:"column:status"`
	ReviewedBy        string     `gorm:"column:reviewed_by"`
	ReviewedAt        *time.Time `gorm:"column:reviewed_at"`
	RejectionReason   string     `gorm:"column:rejection_reason"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (campaignModel) TableName() string {
	return "campaigns"
}

func campaignModelFromEntity(item entities.Campaign) campaignModel {
	return campaignModel{
		CampaignID:        strings.TrimSpace(item.CampaignID),
		BrandID:           strings.TrimSpace(item.BrandID),
		BrandName:         strings.TrimSpace(item.BrandName),
		Title:             strings.TrimSpace(item.Title),
		Description:       strings.TrimSpace(item.Description),
		Category:          strings.TrimSpace(item.Category),
		Budget:            item.Budget,
		RemunerationType:  string(item.RemunerationType),
		TargetStates:      joinList(item.TargetStates),
		DeadlineAt:        normalizeOptionalTime(item.DeadlineAt),
		LogoURL:           strings.TrimSpace(item.LogoURL),
		AttachmentURLs:    joinList(item.AttachmentURLs),
		Featured:          item.Featured,
		ApplicationsCount: item.ApplicationsCount,
		Status:            string(item.Status),
		ReviewedBy:        strings.TrimSpace(item.ReviewedBy),
		ReviewedAt:        normalizeOptionalTime(item.ReviewedAt),
		RejectionReason:   strings.TrimSpace(item.RejectionReason),
		CreatedAt:         item.CreatedAt.UTC(),
		UpdatedAt:         item.UpdatedAt.UTC(),
	}
}

func campaignUpdatesFromEntity(item entities.Campaign) map[string]any {
	row := campaignModelFromEntity(item)
	return map[string]any{
		"brand_id":           row.BrandID,
		"brand_name":         row.BrandName,
		"title":              row.Title,
		"description":        row.Description,
		"category":           row.Category,
		"budget":             row.Budget,
		"remuneration_type":  row.RemunerationType,
		"target_states":      row.TargetStates,
		"deadline":           row.DeadlineAt,
		"logo_url":           row.LogoURL,
		"attachment_urls":    row.AttachmentURLs,
		"featured":           row.Featured,
		"applications_count": row.ApplicationsCount,
		"status":             row.Status,
		"reviewed_by":        row.ReviewedBy,
		"reviewed_at":        row.ReviewedAt,
		"rejection_reason":   row.RejectionReason,
		"updated_at":         row.UpdatedAt,
	}
}

func (m campaignModel) toEntity() entities.Campaign {
	return entities.Campaign{
		CampaignID:        m.CampaignID,
		BrandID:           m.BrandID,
		BrandName:         m.BrandName,
		Title:             m.Title,
		Description:       m.Description,
		Category:          m.Category,
		Budget:            m.Budget,
		RemunerationType:  entities.RemunerationType(m.RemunerationType),
		TargetStates:      splitList(m.TargetStates),
		DeadlineAt:        normalizeOptionalTime(m.DeadlineAt),
		LogoURL:           m.LogoURL,
		AttachmentURLs:    splitList(m.AttachmentURLs),
		Featured:          m.Featured,
		ApplicationsCount: m.ApplicationsCount,
		Status:            entities.CampaignStatus(m.Status),
		ReviewedBy:        m.ReviewedBy,
		ReviewedAt:        normalizeOptionalTime(m.ReviewedAt),
		RejectionReason:   m.RejectionReason,
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
}

type favoriteModel struct {
	CreatorID  string    `gorm:"column:creator_id;primaryKey"`
	CampaignID string    `gorm:"column:campaign_id;primaryKey"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (favoriteModel) TableName() string {
	return "campaign_favorites"
}

type stateHistoryModel struct {
	HistoryID    string    `gorm:"column:history_id;primaryKey"`
	CampaignID   string    `gorm:"column:campaign_id"`
	FromState    string    `gorm:"column:from_state"`
	ToState      string    `gorm:"column:to_state"`
	ChangedBy    string    `gorm:"column:changed_by"`
	ChangeReason string    `gorm:"column:change_reason"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (stateHistoryModel) TableName() string {
	return "campaign_state_history"
}

type budgetLogModel struct {
	LogID       string    `gorm:"column:log_id;primaryKey"`
	CampaignID  string    `gorm:"column:campaign_id"`
	AmountDelta float64   `gorm:"column:amount_delta"`
	Reason      string    `gorm:"column:reason"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (budgetLogModel) TableName() string {
	return "campaign_budget_log"
}

type idempotencyModel struct {
	Key             string    `gorm:"column:key;primaryKey"`
	RequestHash     string    `gorm:"column:request_hash"`
	ResponsePayload []byte    `gorm:"column:response_payload"`
	ExpiresAt       time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "campaign_idempotency"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "campaign_outbox"
}

// target_states and attachment_urls are stored comma-joined; the client
// historically sent both shapes.
func joinList(items []string) string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if value := strings.TrimSpace(item); value != "" {
			cleaned = append(cleaned, value)
		}
	}
	return strings.Join(cleaned, ",")
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if value := strings.TrimSpace(part); value != "" {
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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
