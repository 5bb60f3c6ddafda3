package httpadapter

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"vitrine/contexts/finance-core/withdrawal-service/application"
	"vitrine/contexts/finance-core/withdrawal-service/domain/entities"
	domainerrors "vitrine/contexts/finance-core/withdrawal-service/domain/errors"
	transporthttp "vitrine/contexts/finance-core/withdrawal-service/transport/http"
)

// Handler adapts transport payloads onto the withdrawal service.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) ListMethodsHandler(ctx context.Context) transporthttp.ListMethodsResponse {
	methods := h.Service.ListMethods(ctx)
	items := make([]transporthttp.WithdrawalMethodDTO, 0, len(methods))
	for _, method := range methods {
		fields := make([]transporthttp.MethodFieldDTO, 0, len(method.Fields))
		for _, field := range method.Fields {
			fields = append(fields, transporthttp.MethodFieldDTO{
				Name:     field.Name,
				Label:    field.Label,
				Type:     field.Type,
				Required: field.Required,
				Options:  append([]string(nil), field.Options...),
			})
		}
		items = append(items, transporthttp.WithdrawalMethodDTO{
			MethodID:  method.MethodID,
			Label:     method.Label,
			FeeMode:   string(method.FeeMode),
			FeeValue:  method.FeeValue,
			MinAmount: method.MinAmount,
			MaxAmount: method.MaxAmount,
			Fields:    fields,
		})
	}
	return transporthttp.ListMethodsResponse{Methods: items}
}

func (h Handler) QuoteFeeHandler(ctx context.Context, methodID string, amountRaw string) (transporthttp.FeeQuoteResponse, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(amountRaw), 64)
	if err != nil {
		return transporthttp.FeeQuoteResponse{}, domainerrors.ErrInvalidMethodOrAmount
	}
	quote, err := h.Service.QuoteFee(ctx, methodID, amount)
	if err != nil {
		return transporthttp.FeeQuoteResponse{}, err
	}
	return transporthttp.FeeQuoteResponse{
		MethodID:    quote.MethodID,
		Amount:      quote.Amount,
		MethodFee:   quote.MethodFee,
		PlatformFee: quote.PlatformFee,
		NetAmount:   quote.NetAmount,
	}, nil
}

func (h Handler) GetBalanceHandler(ctx context.Context, userID string) (transporthttp.BalanceResponse, error) {
	balance, err := h.Service.GetBalance(ctx, userID)
	if err != nil {
		return transporthttp.BalanceResponse{}, err
	}
	updatedAt := ""
	if !balance.UpdatedAt.IsZero() {
		updatedAt = balance.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return transporthttp.BalanceResponse{
		CreatorID:      balance.CreatorID,
		Available:      balance.Available,
		Pending:        balance.Pending,
		TotalEarned:    balance.TotalEarned,
		TotalWithdrawn: balance.TotalWithdrawn,
		UpdatedAt:      updatedAt,
	}, nil
}

func (h Handler) RequestWithdrawalHandler(
	ctx context.Context,
	userID string,
	idempotencyKey string,
	req transporthttp.RequestWithdrawalRequest,
) (transporthttp.RequestWithdrawalResponse, error) {
	withdrawal, replayed, err := h.Service.RequestWithdrawal(ctx, idempotencyKey, application.RequestWithdrawalInput{
		CreatorID: userID,
		MethodID:  req.MethodID,
		Amount:    req.Amount,
		Details:   req.Details,
	})
	if err != nil {
		return transporthttp.RequestWithdrawalResponse{}, err
	}
	return transporthttp.RequestWithdrawalResponse{
		Withdrawal: mapWithdrawal(withdrawal),
		Replayed:   replayed,
	}, nil
}

func (h Handler) ListWithdrawalsHandler(ctx context.Context, userID string) (transporthttp.ListWithdrawalsResponse, error) {
	items, err := h.Service.ListWithdrawals(ctx, userID)
	if err != nil {
		return transporthttp.ListWithdrawalsResponse{}, err
	}
	dtos := make([]transporthttp.WithdrawalDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, mapWithdrawal(item))
	}
	return transporthttp.ListWithdrawalsResponse{
		Withdrawals: dtos,
		Total:       len(dtos),
	}, nil
}

func mapWithdrawal(item entities.Withdrawal) transporthttp.WithdrawalDTO {
	settledAt := ""
	if item.SettledAt != nil {
		settledAt = item.SettledAt.UTC().Format(time.RFC3339)
	}
	return transporthttp.WithdrawalDTO{
		WithdrawalID: item.WithdrawalID,
		CreatorID:    item.CreatorID,
		MethodID:     item.MethodID,
		Amount:       item.Amount,
		MethodFee:    item.MethodFee,
		PlatformFee:  item.PlatformFee,
		NetAmount:    item.NetAmount,
		Details:      item.Details,
		Status:       string(item.Status),
		FailReason:   item.FailReason,
		RequestedAt:  item.RequestedAt.UTC().Format(time.RFC3339),
		SettledAt:    settledAt,
	}
}
