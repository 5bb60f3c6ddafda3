package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	applicationerrors "vitrine/contexts/campaign-marketplace/application-service/domain/errors"
	applicationhttp "vitrine/contexts/campaign-marketplace/application-service/transport/http"
)

func (s *Server) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeApplicationError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req applicationhttp.SubmitApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeApplicationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	req.CampaignID = r.PathValue("campaign_id")

	resp, err := s.applications.Handler.SubmitApplicationHandler(
		r.Context(),
		userID,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeApplicationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCampaignApplications(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeApplicationError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.applications.Handler.ListByCampaignHandler(r.Context(), userID, r.PathValue("campaign_id"))
	if err != nil {
		writeApplicationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListMyApplications(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeApplicationError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.applications.Handler.ListByCreatorHandler(r.Context(), userID)
	if err != nil {
		writeApplicationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApplicationStatistics(w http.ResponseWriter, r *http.Request) {
	resp, err := s.applications.Handler.CountByCampaignHandler(r.Context(), r.URL.Query().Get("campaign_id"))
	if err != nil {
		writeApplicationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeApplicationError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.applications.Handler.GetApplicationHandler(r.Context(), userID, r.PathValue("application_id"))
	if err != nil {
		writeApplicationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewApplication(decision string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-Id")
		if userID == "" {
			writeApplicationError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
			return
		}
		var req applicationhttp.ReviewApplicationRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}
		resp, err := s.applications.Handler.ReviewApplicationHandler(
			r.Context(),
			userID,
			r.PathValue("application_id"),
			decision,
			req,
		)
		if err != nil {
			writeApplicationDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleWithdrawApplication(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeApplicationError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	if err := s.applications.Handler.WithdrawApplicationHandler(r.Context(), userID, r.PathValue("application_id")); err != nil {
		writeApplicationDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeApplicationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, applicationerrors.ErrApplicationNotFound):
		writeApplicationError(w, http.StatusNotFound, "application_not_found", err.Error())
	case errors.Is(err, applicationerrors.ErrCampaignNotFound):
		writeApplicationError(w, http.StatusNotFound, "campaign_not_found", err.Error())
	case errors.Is(err, applicationerrors.ErrInvalidApplicationInput):
		writeApplicationError(w, http.StatusBadRequest, "invalid_application_input", err.Error())
	case errors.Is(err, applicationerrors.ErrDuplicateApplication):
		writeApplicationError(w, http.StatusConflict, "duplicate_application", err.Error())
	case errors.Is(err, applicationerrors.ErrNotApplicationOwner),
		errors.Is(err, applicationerrors.ErrNotCampaignOwner):
		writeApplicationError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, applicationerrors.ErrCampaignNotOpen):
		writeApplicationError(w, http.StatusConflict, "campaign_not_open", err.Error())
	case errors.Is(err, applicationerrors.ErrInvalidStateTransition):
		writeApplicationError(w, http.StatusConflict, "invalid_state_transition", err.Error())
	case errors.Is(err, applicationerrors.ErrIdempotencyKeyRequired):
		writeApplicationError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, applicationerrors.ErrIdempotencyKeyConflict):
		writeApplicationError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	default:
		writeApplicationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeApplicationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, applicationhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
