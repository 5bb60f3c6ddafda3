package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	withdrawalerrors "vitrine/contexts/finance-core/withdrawal-service/domain/errors"
	withdrawalhttp "vitrine/contexts/finance-core/withdrawal-service/transport/http"
)

type quoteWithdrawalRequest struct {
	MethodID string  `json:"method_id"`
	Amount   float64 `json:"amount"`
}

func (s *Server) handleWithdrawalMethods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.withdrawals.Handler.ListMethodsHandler(r.Context()))
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeWithdrawalError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.withdrawals.Handler.GetBalanceHandler(r.Context(), userID)
	if err != nil {
		writeWithdrawalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListWithdrawals(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeWithdrawalError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.withdrawals.Handler.ListWithdrawalsHandler(r.Context(), userID)
	if err != nil {
		writeWithdrawalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeWithdrawalError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req withdrawalhttp.RequestWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWithdrawalError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.withdrawals.Handler.RequestWithdrawalHandler(
		r.Context(),
		userID,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeWithdrawalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleQuoteWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req quoteWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWithdrawalError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.withdrawals.Handler.QuoteFeeHandler(
		r.Context(),
		req.MethodID,
		strconv.FormatFloat(req.Amount, 'f', -1, 64),
	)
	if err != nil {
		writeWithdrawalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeWithdrawalDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, withdrawalerrors.ErrInvalidMethodOrAmount):
		writeWithdrawalError(w, http.StatusBadRequest, "invalid_method_or_amount", err.Error())
	case errors.Is(err, withdrawalerrors.ErrInsufficientBalance):
		writeWithdrawalError(w, http.StatusUnprocessableEntity, "insufficient_balance", err.Error())
	case errors.Is(err, withdrawalerrors.ErrBelowMethodMinimum):
		writeWithdrawalError(w, http.StatusUnprocessableEntity, "below_method_minimum", err.Error())
	case errors.Is(err, withdrawalerrors.ErrAboveMethodMaximum):
		writeWithdrawalError(w, http.StatusUnprocessableEntity, "above_method_maximum", err.Error())
	case errors.Is(err, withdrawalerrors.ErrMissingMethodFields):
		writeWithdrawalError(w, http.StatusUnprocessableEntity, "missing_method_fields", err.Error())
	case errors.Is(err, withdrawalerrors.ErrWithdrawalNotFound),
		errors.Is(err, withdrawalerrors.ErrBalanceNotFound):
		writeWithdrawalError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, withdrawalerrors.ErrIdempotencyKeyRequired):
		writeWithdrawalError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, withdrawalerrors.ErrIdempotencyKeyConflict):
		writeWithdrawalError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	default:
		writeWithdrawalError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeWithdrawalError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, withdrawalhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
