package httpadapter

import (
	"context"
	"log/slog"

	"vitrine/contexts/finance-core/pagarme-gateway/application"
	transporthttp "vitrine/contexts/finance-core/pagarme-gateway/transport/http"
)

// Handler adapts transport payloads onto the processor gateway.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) AuthenticateHandler(ctx context.Context, req transporthttp.AuthenticateRequest) (transporthttp.AuthenticateResponse, error) {
	result, err := h.Service.Authenticate(ctx, application.AuthenticateInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return transporthttp.AuthenticateResponse{}, err
	}
	return transporthttp.AuthenticateResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	}, nil
}

func (h Handler) LinkAccountHandler(ctx context.Context, req transporthttp.LinkAccountRequest) (transporthttp.AccountInfoResponse, error) {
	info, err := h.Service.LinkAccount(ctx, application.LinkAccountInput{
		BankCode:       req.BankCode,
		Agency:         req.Agency,
		AccountNumber:  req.AccountNumber,
		AccountDigit:   req.AccountDigit,
		HolderName:     req.HolderName,
		HolderDocument: req.HolderDocument,
	})
	if err != nil {
		return transporthttp.AccountInfoResponse{}, err
	}
	return mapAccountInfo(info), nil
}

func (h Handler) UnlinkAccountHandler(ctx context.Context) error {
	return h.Service.UnlinkAccount(ctx)
}

func (h Handler) AccountInfoHandler(ctx context.Context) (transporthttp.AccountInfoResponse, error) {
	info, err := h.Service.GetAccountInfo(ctx)
	if err != nil {
		return transporthttp.AccountInfoResponse{}, err
	}
	return mapAccountInfo(info), nil
}

func mapAccountInfo(info application.AccountInfo) transporthttp.AccountInfoResponse {
	return transporthttp.AccountInfoResponse{
		AccountID:      info.AccountID,
		Status:         info.Status,
		BankCode:       info.BankCode,
		Agency:         info.Agency,
		AccountNumber:  info.AccountNumber,
		HolderName:     info.HolderName,
		HolderDocument: info.HolderDocument,
		Linked:         info.Linked,
	}
}
