package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"math"
	"strings"
	"time"

	"vitrine/contexts/finance-core/withdrawal-service/domain/entities"
	domainerrors "vitrine/contexts/finance-core/withdrawal-service/domain/errors"
	"vitrine/contexts/finance-core/withdrawal-service/ports"
)

type Service struct {
	Balances       ports.BalanceRepository
	Withdrawals    ports.WithdrawalRepository
	Idempotency    ports.IdempotencyStore
	EventDedup     ports.EventDedupStore
	Outbox         ports.OutboxWriter
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	EventDedupTTL  time.Duration
	Logger         *slog.Logger
}

func (s Service) ListMethods(_ context.Context) []entities.WithdrawalMethod {
	return entities.SupportedMethods()
}

// QuoteFee previews the cost of withdrawing an amount: the method's own fee
// plus the flat platform fee.
func (s Service) QuoteFee(_ context.Context, methodID string, amount float64) (entities.FeeQuote, error) {
	method, ok := entities.MethodByID(methodID)
	if !ok || amount <= 0 {
		return entities.FeeQuote{}, domainerrors.ErrInvalidMethodOrAmount
	}
	methodFee := round2(method.MethodFee(amount))
	net := round2(amount - methodFee - entities.PlatformFeeFixed)
	return entities.FeeQuote{
		MethodID:    method.MethodID,
		Amount:      round2(amount),
		MethodFee:   methodFee,
		PlatformFee: entities.PlatformFeeFixed,
		NetAmount:   net,
	}, nil
}

func (s Service) GetBalance(ctx context.Context, creatorID string) (entities.Balance, error) {
	creatorID = strings.TrimSpace(creatorID)
	if creatorID == "" {
		return entities.Balance{}, domainerrors.ErrBalanceNotFound
	}
	return s.Balances.GetBalance(ctx, creatorID)
}

type RequestWithdrawalInput struct {
	CreatorID string
	MethodID  string
	Amount    float64
	Details   map[string]string
}

// RequestWithdrawal validates the request in a fixed order so the client
// always sees the same first failure: method and amount, then available
// balance, then the method's minimum, then its maximum. On success the
// amount moves from available to pending until settlement.
func (s Service) RequestWithdrawal(
	ctx context.Context,
	idempotencyKey string,
	input RequestWithdrawalInput,
) (entities.Withdrawal, bool, error) {
	if strings.TrimSpace(idempotencyKey) == "" {
		return entities.Withdrawal{}, false, domainerrors.ErrIdempotencyKeyRequired
	}
	creatorID := strings.TrimSpace(input.CreatorID)
	if creatorID == "" {
		return entities.Withdrawal{}, false, domainerrors.ErrInvalidMethodOrAmount
	}

	method, ok := entities.MethodByID(input.MethodID)
	if !ok || input.Amount <= 0 {
		return entities.Withdrawal{}, false, domainerrors.ErrInvalidMethodOrAmount
	}

	now := s.now()
	requestHash := hashPayload(map[string]any{
		"creator_id": creatorID,
		"method_id":  method.MethodID,
		"amount":     round2(input.Amount),
		"details":    input.Details,
	})
	record, found, err := s.Idempotency.GetRecord(ctx, strings.TrimSpace(idempotencyKey), now)
	if err != nil {
		return entities.Withdrawal{}, false, err
	}
	if found {
		if record.RequestHash != requestHash {
			return entities.Withdrawal{}, false, domainerrors.ErrIdempotencyKeyConflict
		}
		var replayed entities.Withdrawal
		if err := json.Unmarshal(record.ResponsePayload, &replayed); err != nil {
			return entities.Withdrawal{}, false, err
		}
		return replayed, true, nil
	}

	balance, err := s.Balances.GetBalance(ctx, creatorID)
	if err != nil {
		return entities.Withdrawal{}, false, err
	}
	amount := round2(input.Amount)
	if amount > balance.Available {
		return entities.Withdrawal{}, false, domainerrors.ErrInsufficientBalance
	}
	if amount < method.MinAmount {
		return entities.Withdrawal{}, false, domainerrors.ErrBelowMethodMinimum
	}
	if amount > method.MaxAmount {
		return entities.Withdrawal{}, false, domainerrors.ErrAboveMethodMaximum
	}
	for _, field := range method.Fields {
		if field.Required && strings.TrimSpace(input.Details[field.Name]) == "" {
			return entities.Withdrawal{}, false, domainerrors.ErrMissingMethodFields
		}
	}

	methodFee := round2(method.MethodFee(amount))
	net := round2(amount - methodFee - entities.PlatformFeeFixed)

	withdrawalID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Withdrawal{}, false, err
	}
	withdrawal := entities.Withdrawal{
		WithdrawalID: strings.TrimSpace(withdrawalID),
		CreatorID:    creatorID,
		MethodID:     method.MethodID,
		Amount:       amount,
		MethodFee:    methodFee,
		PlatformFee:  entities.PlatformFeeFixed,
		NetAmount:    net,
		Details:      copyDetails(input.Details),
		Status:       entities.WithdrawalStatusRequested,
		RequestedAt:  now,
	}
	if err := s.Withdrawals.CreateWithdrawal(ctx, withdrawal); err != nil {
		return entities.Withdrawal{}, false, err
	}

	balance.Available = round2(balance.Available - amount)
	balance.Pending = round2(balance.Pending + amount)
	balance.UpdatedAt = now
	if err := s.Balances.SaveBalance(ctx, balance); err != nil {
		return entities.Withdrawal{}, false, err
	}

	if err := s.appendWithdrawalOutbox(ctx, "withdrawal.requested", withdrawal, now); err != nil {
		return entities.Withdrawal{}, false, err
	}

	payload, err := json.Marshal(withdrawal)
	if err != nil {
		return entities.Withdrawal{}, false, err
	}
	if err := s.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
		Key:             strings.TrimSpace(idempotencyKey),
		RequestHash:     requestHash,
		ResponsePayload: payload,
		ExpiresAt:       now.Add(s.idempotencyTTL()),
	}); err != nil {
		return entities.Withdrawal{}, false, err
	}

	resolveLogger(s.Logger).Info("withdrawal requested",
		"event", "withdrawal_requested",
		"module", "finance-core/withdrawal-service",
		"layer", "application",
		"withdrawal_id", withdrawal.WithdrawalID,
		"creator_id", withdrawal.CreatorID,
		"method_id", withdrawal.MethodID,
		"amount", withdrawal.Amount,
		"net_amount", withdrawal.NetAmount,
	)
	return withdrawal, false, nil
}

func (s Service) ListWithdrawals(ctx context.Context, creatorID string) ([]entities.Withdrawal, error) {
	creatorID = strings.TrimSpace(creatorID)
	if creatorID == "" {
		return nil, domainerrors.ErrInvalidMethodOrAmount
	}
	return s.Withdrawals.ListWithdrawals(ctx, ports.WithdrawalFilter{CreatorID: creatorID})
}

// WithdrawalSettledEvent is the payment rail's terminal outcome for a
// requested withdrawal.
type WithdrawalSettledEvent struct {
	WithdrawalID string `json:"withdrawal_id"`
	Success      bool   `json:"success"`
	Reason       string `json:"reason"`
}

// ConsumeWithdrawalSettledEvent applies a settlement outcome exactly once.
// Success moves the pending amount into total withdrawn; failure returns it
// to available.
func (s Service) ConsumeWithdrawalSettledEvent(
	ctx context.Context,
	eventID string,
	event WithdrawalSettledEvent,
) (entities.Withdrawal, bool, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" || strings.TrimSpace(event.WithdrawalID) == "" {
		return entities.Withdrawal{}, false, domainerrors.ErrWithdrawalNotFound
	}

	now := s.now()
	if seen, err := s.EventDedup.SeenEvent(ctx, eventID, now); err != nil {
		return entities.Withdrawal{}, false, err
	} else if seen {
		withdrawal, err := s.Withdrawals.GetWithdrawal(ctx, strings.TrimSpace(event.WithdrawalID))
		if err != nil {
			return entities.Withdrawal{}, false, err
		}
		return withdrawal, true, nil
	}

	withdrawal, err := s.Withdrawals.GetWithdrawal(ctx, strings.TrimSpace(event.WithdrawalID))
	if err != nil {
		return entities.Withdrawal{}, false, err
	}
	if withdrawal.Status != entities.WithdrawalStatusRequested {
		if err := s.EventDedup.MarkEventSeen(ctx, eventID, now.Add(s.eventDedupTTL())); err != nil {
			return entities.Withdrawal{}, false, err
		}
		return withdrawal, true, nil
	}

	balance, err := s.Balances.GetBalance(ctx, withdrawal.CreatorID)
	if err != nil {
		return entities.Withdrawal{}, false, err
	}
	balance.Pending = round2(balance.Pending - withdrawal.Amount)
	if balance.Pending < 0 {
		balance.Pending = 0
	}
	eventType := "withdrawal.settled"
	if event.Success {
		withdrawal.Status = entities.WithdrawalStatusSettled
		balance.TotalWithdrawn = round2(balance.TotalWithdrawn + withdrawal.Amount)
	} else {
		withdrawal.Status = entities.WithdrawalStatusFailed
		withdrawal.FailReason = strings.TrimSpace(event.Reason)
		balance.Available = round2(balance.Available + withdrawal.Amount)
		eventType = "withdrawal.failed"
	}
	withdrawal.SettledAt = &now
	balance.UpdatedAt = now

	if err := s.Withdrawals.UpdateWithdrawal(ctx, withdrawal); err != nil {
		return entities.Withdrawal{}, false, err
	}
	if err := s.Balances.SaveBalance(ctx, balance); err != nil {
		return entities.Withdrawal{}, false, err
	}
	if err := s.appendWithdrawalOutbox(ctx, eventType, withdrawal, now); err != nil {
		return entities.Withdrawal{}, false, err
	}
	if err := s.EventDedup.MarkEventSeen(ctx, eventID, now.Add(s.eventDedupTTL())); err != nil {
		return entities.Withdrawal{}, false, err
	}

	resolveLogger(s.Logger).Info("withdrawal settled",
		"event", "withdrawal_settled",
		"module", "finance-core/withdrawal-service",
		"layer", "application",
		"withdrawal_id", withdrawal.WithdrawalID,
		"status", string(withdrawal.Status),
	)
	return withdrawal, false, nil
}

// EarningsSettledEvent credits campaign earnings into a creator's available
// balance.
type EarningsSettledEvent struct {
	CreatorID string  `json:"creator_id"`
	Amount    float64 `json:"amount"`
}

func (s Service) ConsumeEarningsSettledEvent(ctx context.Context, eventID string, event EarningsSettledEvent) (bool, error) {
	eventID = strings.TrimSpace(eventID)
	creatorID := strings.TrimSpace(event.CreatorID)
	if eventID == "" || creatorID == "" || event.Amount <= 0 {
		return false, domainerrors.ErrInvalidMethodOrAmount
	}

	now := s.now()
	if seen, err := s.EventDedup.SeenEvent(ctx, eventID, now); err != nil {
		return false, err
	} else if seen {
		return true, nil
	}
	if err := s.Balances.CreditAvailable(ctx, creatorID, round2(event.Amount), now); err != nil {
		return false, err
	}
	if err := s.EventDedup.MarkEventSeen(ctx, eventID, now.Add(s.eventDedupTTL())); err != nil {
		return false, err
	}

	resolveLogger(s.Logger).Info("earnings credited",
		"event", "withdrawal_earnings_credited",
		"module", "finance-core/withdrawal-service",
		"layer", "application",
		"creator_id", creatorID,
		"amount", round2(event.Amount),
	)
	return false, nil
}

func (s Service) appendWithdrawalOutbox(
	ctx context.Context,
	eventType string,
	withdrawal entities.Withdrawal,
	occurredAt time.Time,
) error {
	if s.Outbox == nil {
		return nil
	}
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(map[string]any{
		"withdrawal_id": withdrawal.WithdrawalID,
		"creator_id":    withdrawal.CreatorID,
		"method_id":     withdrawal.MethodID,
		"amount":        withdrawal.Amount,
		"net_amount":    withdrawal.NetAmount,
		"status":        string(withdrawal.Status),
	})
	if err != nil {
		return err
	}
	return s.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "withdrawal-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "creator_id",
		PartitionKey:     withdrawal.CreatorID,
		Data:             data,
	})
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) idempotencyTTL() time.Duration {
	if s.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.IdempotencyTTL
}

func (s Service) eventDedupTTL() time.Duration {
	if s.EventDedupTTL <= 0 {
		return 30 * 24 * time.Hour
	}
	return s.EventDedupTTL
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func copyDetails(details map[string]string) map[string]string {
	if len(details) == 0 {
		return nil
	}
	out := make(map[string]string, len(details))
	for key, value := range details {
		out[key] = value
	}
	return out
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func hashPayload(payload map[string]any) string {
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
