package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"vitrine/contexts/campaign-marketplace/application-service/domain/entities"
	domainerrors "vitrine/contexts/campaign-marketplace/application-service/domain/errors"
	"vitrine/contexts/campaign-marketplace/application-service/ports"

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

func (r *Repository) CreateApplication(ctx context.Context, item entities.Application) error {
	row := applicationModelFromEntity(item)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateApplication
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateApplication(ctx context.Context, item entities.Application) error {
	row := applicationModelFromEntity(item)
	result := r.db.WithContext(ctx).
		Model(&applicationModel{}).
		Where("application_id = ?", row.ApplicationID).
		Updates(map[string]any{
			"proposal":         row.Proposal,
			"portfolio_links":  row.PortfolioLinks,
			"delivery_days":    row.DeliveryDays,
			"proposed_budget":  row.ProposedBudget,
			"status":           row.Status,
			"reviewed_by":      row.ReviewedBy,
			"reviewed_at":      row.ReviewedAt,
			"rejection_reason": row.RejectionReason,
			"updated_at":       row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrApplicationNotFound
	}
	return nil
}

func (r *Repository) DeleteApplication(ctx context.Context, applicationID string) error {
	result := r.db.WithContext(ctx).
		Where("application_id = ?", strings.TrimSpace(applicationID)).
		Delete(&applicationModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrApplicationNotFound
	}
	return nil
}

func (r *Repository) GetApplication(ctx context.Context, applicationID string) (entities.Application, error) {
	var row applicationModel
	err := r.db.WithContext(ctx).
		Where("application_id = ?", strings.TrimSpace(applicationID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Application{}, domainerrors.ErrApplicationNotFound
		}
		return entities.Application{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListApplications(ctx context.Context, filter ports.ApplicationFilter) ([]entities.Application, error) {
	tx := r.db.WithContext(ctx).Model(&applicationModel{})
	if strings.TrimSpace(filter.CampaignID) != "" {
		tx = tx.Where("campaign_id = ?", strings.TrimSpace(filter.CampaignID))
	}
	if strings.TrimSpace(filter.CreatorID) != "" {
		tx = tx.Where("creator_id = ?", strings.TrimSpace(filter.CreatorID))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}

	var rows []applicationModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Application, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetApplicationForCreator(ctx context.Context, campaignID string, creatorID string) (entities.Application, bool, error) {
	var row applicationModel
	err := r.db.WithContext(ctx).
		Where(
			"campaign_id = ? AND creator_id = ?",
			strings.TrimSpace(campaignID),
			strings.TrimSpace(creatorID),
		).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Application{}, false, nil
		}
		return entities.Application{}, false, err
	}
	return row.toEntity(), true, nil
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
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).
		Create(&row).
		Error
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
		return domainerrors.ErrInvalidApplicationInput
	}
	return nil
}

type applicationModel struct {
	ApplicationID   string     `gorm:"column:application_id;primaryKey"`
	CampaignID      string     `gorm:"column:campaign_id"`
	CreatorID       string     `gorm:"column:creator_id"`
	CreatorName     string     `gorm:"column:creator_name"`
	Proposal        string     `gorm:"column:proposal"`
	PortfolioLinks  string     `gorm:"column:portfolio_links"`
	DeliveryDays    int        `gorm:"column:delivery_days"`
	ProposedBudget  float64    `gorm:"column:proposed_budget"`
	Status          string     `gorm:"column:status"`
	ReviewedBy      string     `gorm:"column:reviewed_by"`
	ReviewedAt      *time.Time `gorm:"column:reviewed_at"`
	RejectionReason string     `gorm:"column:rejection_reason"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (applicationModel) TableName() string {
	return "campaign_applications"
}

func applicationModelFromEntity(item entities.Application) applicationModel {
	return applicationModel{
		ApplicationID:   strings.TrimSpace(item.ApplicationID),
		CampaignID:      strings.TrimSpace(item.CampaignID),
		CreatorID:       strings.TrimSpace(item.CreatorID),
		CreatorName:     strings.TrimSpace(item.CreatorName),
		Proposal:        strings.TrimSpace(item.Proposal),
		PortfolioLinks:  joinList(item.PortfolioLinks),
		DeliveryDays:    item.DeliveryDays,
		ProposedBudget:  item.ProposedBudget,
		Status:          string(item.Status),
		ReviewedBy:      strings.TrimSpace(item.ReviewedBy),
		ReviewedAt:      normalizeOptionalTime(item.ReviewedAt),
		RejectionReason: strings.TrimSpace(item.RejectionReason),
		CreatedAt:       item.CreatedAt.UTC(),
		UpdatedAt:       item.UpdatedAt.UTC(),
	}
}

func (m applicationModel) toEntity() entities.Application {
	return entities.Application{
		ApplicationID:   m.ApplicationID,
		CampaignID:      m.CampaignID,
		CreatorID:       m.CreatorID,
		CreatorName:     m.CreatorName,
		Proposal:        m.Proposal,
		PortfolioLinks:  splitList(m.PortfolioLinks),
		DeliveryDays:    m.DeliveryDays,
		ProposedBudget:  m.ProposedBudget,
		Status:          entities.ApplicationStatus(m.Status),
		ReviewedBy:      m.ReviewedBy,
		ReviewedAt:      normalizeOptionalTime(m.ReviewedAt),
		RejectionReason: m.RejectionReason,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

type idempotencyModel struct {
	Key             string    `gorm:"column:key;primaryKey"`
	RequestHash     string    `gorm:"column:request_hash"`
	ResponsePayload []byte    `gorm:"column:response_payload"`
	ExpiresAt       time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "application_idempotency"
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
	return "application_outbox"
}

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
