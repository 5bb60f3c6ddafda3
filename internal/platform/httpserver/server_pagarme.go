package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	pagarmeerrors "vitrine/contexts/finance-core/pagarme-gateway/domain/errors"
	pagarmehttp "vitrine/contexts/finance-core/pagarme-gateway/transport/http"
)

func (s *Server) handlePagarmeAuthenticate(w http.ResponseWriter, r *http.Request) {
	var req pagarmehttp.AuthenticateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePagarmeError(w, http.StatusBadRequest, string(pagarmeerrors.CodeBadRequest), "request body must be valid JSON", 0)
		return
	}
	resp, err := s.pagarme.Handler.AuthenticateHandler(r.Context(), req)
	if err != nil {
		writePagarmeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePagarmeLinkAccount(w http.ResponseWriter, r *http.Request) {
	var req pagarmehttp.LinkAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePagarmeError(w, http.StatusBadRequest, string(pagarmeerrors.CodeBadRequest), "request body must be valid JSON", 0)
		return
	}
	resp, err := s.pagarme.Handler.LinkAccountHandler(r.Context(), req)
	if err != nil {
		writePagarmeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePagarmeUnlinkAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.pagarme.Handler.UnlinkAccountHandler(r.Context()); err != nil {
		writePagarmeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePagarmeAccountInfo(w http.ResponseWriter, r *http.Request) {
	resp, err := s.pagarme.Handler.AccountInfoHandler(r.Context())
	if err != nil {
		writePagarmeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writePagarmeDomainError(w http.ResponseWriter, err error) {
	var gatewayErr *pagarmeerrors.GatewayError
	if !errors.As(err, &gatewayErr) {
		writePagarmeError(w, http.StatusInternalServerError, string(pagarmeerrors.CodeUnknownError), "internal server error", 0)
		return
	}

	status := http.StatusBadGateway
	switch gatewayErr.Code {
	case pagarmeerrors.CodeBadRequest:
		status = http.StatusBadRequest
	case pagarmeerrors.CodeUnauthorized:
		status = http.StatusUnauthorized
	case pagarmeerrors.CodeForbidden:
		status = http.StatusForbidden
	case pagarmeerrors.CodeNotFound:
		status = http.StatusNotFound
	case pagarmeerrors.CodeValidationError:
		status = http.StatusUnprocessableEntity
	case pagarmeerrors.CodeRateLimited:
		status = http.StatusTooManyRequests
	case pagarmeerrors.CodeServerError, pagarmeerrors.CodeNetworkError:
		status = http.StatusBadGateway
	}
	writePagarmeError(w, status, string(gatewayErr.Code), gatewayErr.Message, gatewayErr.RetryAfterSeconds)
}

func writePagarmeError(w http.ResponseWriter, status int, code string, message string, retryAfter int) {
	writeJSON(w, status, pagarmehttp.ErrorResponse{
		Code:              code,
		Message:           message,
		RetryAfterSeconds: retryAfter,
	})
}
