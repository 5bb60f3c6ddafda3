package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"vitrine/contexts/finance-core/withdrawal-service/domain/entities"
	domainerrors "vitrine/contexts/finance-core/withdrawal-service/domain/errors"
	"vitrine/contexts/finance-core/withdrawal-service/ports"

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

func (r *Repository) GetBalance(ctx context.Context, creatorID string) (entities.Balance, error) {
	var row balanceModel
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", strings.TrimSpace(creatorID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Balance{CreatorID: strings.TrimSpace(creatorID)}, nil
		}
		return entities.Balance{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) SaveBalance(ctx context.Context, balance entities.Balance) error {
	row := balanceModel{
		CreatorID:      strings.TrimSpace(balance.CreatorID),
		Available:      balance.Available,
		Pending:        balance.Pending,
		TotalEarned:    balance.TotalEarned,
		TotalWithdrawn: balance.TotalWithdrawn,
		UpdatedAt:      balance.UpdatedAt.UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "creator_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"available", "pending", "total_earned", "total_withdrawn", "updated_at",
			}),
		}).
		Create(&row).
		Error
}

func (r *Repository) CreditAvailable(ctx context.Context, creatorID string, amount float64, at time.Time) error {
	creatorID = strings.TrimSpace(creatorID)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row balanceModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("creator_id = ?", creatorID).
			First(&row).
			Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			row = balanceModel{CreatorID: creatorID}
		}
		row.Available += amount
		row.TotalEarned += amount
		row.UpdatedAt = at.UTC()
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "creator_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"available", "pending", "total_earned", "total_withdrawn", "updated_at",
			}),
		}).Create(&row).Error
	})
}

func (r *Repository) CreateWithdrawal(ctx context.Context, withdrawal entities.Withdrawal) error {
	row, err := withdrawalModelFromEntity(withdrawal)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrIdempotencyKeyConflict
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateWithdrawal(ctx context.Context, withdrawal entities.Withdrawal) error {
	row, err := withdrawalModelFromEntity(withdrawal)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&withdrawalModel{}).
		Where("withdrawal_id = ?", row.WithdrawalID).
		Updates(map[string]any{
			"status":      row.Status,
			"fail_reason": row.FailReason,
			"settled_at":  row.SettledAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrWithdrawalNotFound
	}
	return nil
}

func (r *Repository) GetWithdrawal(ctx context.Context, withdrawalID string) (entities.Withdrawal, error) {
	var row withdrawalModel
	err := r.db.WithContext(ctx).
		Where("withdrawal_id = ?", strings.TrimSpace(withdrawalID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Withdrawal{}, domainerrors.ErrWithdrawalNotFound
		}
		return entities.Withdrawal{}, err
	}
	return row.toEntity()
}

func (r *Repository) ListWithdrawals(ctx context.Context, filter ports.WithdrawalFilter) ([]entities.Withdrawal, error) {
	tx := r.db.WithContext(ctx).Model(&withdrawalModel{})
	if strings.TrimSpace(filter.CreatorID) != "" {
		tx = tx.Where("creator_id = ?", strings.TrimSpace(filter.CreatorID))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}

	var rows []withdrawalModel
	if err := tx.Order("requested_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Withdrawal, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
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

func (r *Repository) SeenEvent(ctx context.Context, eventID string, now time.Time) (bool, error) {
	var row seenEventModel
	err := r.db.WithContext(ctx).
		Where("event_id = ?", strings.TrimSpace(eventID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if !row.ExpiresAt.After(now.UTC()) {
		if err := r.db.WithContext(ctx).
			Where("event_id = ?", strings.TrimSpace(eventID)).
			Delete(&seenEventModel{}).
			Error; err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

func (r *Repository) MarkEventSeen(ctx context.Context, eventID string, expiresAt time.Time) error {
	row := seenEventModel{
		EventID:   strings.TrimSpace(eventID),
		ExpiresAt: expiresAt.UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(&row).
		Error
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
		return domainerrors.ErrWithdrawalNotFound
	}
	return nil
}

type balanceModel struct {
	CreatorID      string    `gorm:"column:creator_id;primaryKey"`
	Available      float64   `gorm:"column:available"`
	Pending        float64   `gorm:"column:pending"`
	TotalEarned    float64   `gorm:"column:total_earned"`
	TotalWithdrawn float64   `gorm:"column:total_withdrawn"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (balanceModel) TableName() string {
	return "creator_balances"
}

func (m balanceModel) toEntity() entities.Balance {
	return entities.Balance{
		CreatorID:      m.CreatorID,
		Available:      m.Available,
		Pending:        m.Pending,
		TotalEarned:    m.TotalEarned,
		TotalWithdrawn: m.TotalWithdrawn,
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

type withdrawalModel struct {
	WithdrawalID string     `gorm:"column:withdrawal_id;primaryKey"`
	CreatorID    string     `gorm:"column:creator_id"`
	MethodID     string     `gorm:"column:method_id"`
	Amount       float64    `gorm:"column:amount"`
	MethodFee    float64    `gorm:"column:method_fee"`
	PlatformFee  float64    `gorm:"column:platform_fee"`
	NetAmount    float64    `gorm:"column:net_amount"`
	Details      []byte     `gorm:"column:details"`
	Status       string     `gorm:"column:status"`
	FailReason   string     `gorm:"column:fail_reason"`
	RequestedAt  time.Time  `gorm:"column:requested_at"`
	SettledAt    *time.Time `gorm:"column:settled_at"`
}

func (withdrawalModel) TableName() string {
	return "withdrawals"
}

func withdrawalModelFromEntity(item entities.Withdrawal) (withdrawalModel, error) {
	var details []byte
	if len(item.Details) > 0 {
		raw, err := json.Marshal(item.Details)
		if err != nil {
			return withdrawalModel{}, err
		}
		details = raw
	}
	return withdrawalModel{
		WithdrawalID: strings.TrimSpace(item.WithdrawalID),
		CreatorID:    strings.TrimSpace(item.CreatorID),
		MethodID:     strings.TrimSpace(item.MethodID),
		Amount:       item.Amount,
		MethodFee:    item.MethodFee,
		PlatformFee:  item.PlatformFee,
		NetAmount:    item.NetAmount,
		Details:      details,
		Status:       string(item.Status),
		FailReason:   strings.TrimSpace(item.FailReason),
		RequestedAt:  item.RequestedAt.UTC(),
		SettledAt:    normalizeOptionalTime(item.SettledAt),
	}, nil
}

func (m withdrawalModel) toEntity() (entities.Withdrawal, error) {
	var details map[string]string
	if len(m.Details) > 0 {
		if err := json.Unmarshal(m.Details, &details); err != nil {
			return entities.Withdrawal{}, err
		}
	}
	return entities.Withdrawal{
		WithdrawalID: m.WithdrawalID,
		CreatorID:    m.CreatorID,
		MethodID:     m.MethodID,
		Amount:       m.Amount,
		MethodFee:    m.MethodFee,
		PlatformFee:  m.PlatformFee,
		NetAmount:    m.NetAmount,
		Details:      details,
		Status:       entities.WithdrawalStatus(m.Status),
		FailReason:   m.FailReason,
		RequestedAt:  m.RequestedAt.UTC(),
		SettledAt:    normalizeOptionalTime(m.SettledAt),
	}, nil
}

type idempotencyModel struct {
	Key             string    `gorm:"column:key;primaryKey"`
	RequestHash     string    `gorm:"column:request_hash"`
	ResponsePayload []byte    `gorm:"column:response_payload"`
	ExpiresAt       time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "withdrawal_idempotency"
}

type seenEventModel struct {
	EventID   string    `gorm:"column:event_id;primaryKey"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
}

func (seenEventModel) TableName() string {
	return "withdrawal_seen_events"
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
	return "withdrawal_outbox"
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
