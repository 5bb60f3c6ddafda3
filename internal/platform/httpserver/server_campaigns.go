package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	campaignerrors "vitrine/contexts/campaign-marketplace/campaign-service/domain/errors"
	campaignhttp "vitrine/contexts/campaign-marketplace/campaign-service/transport/http"
)

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeCampaignError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req campaignhttp.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.campaigns.Handler.CreateCampaignHandler(
		r.Context(),
		userID,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListAllCampaigns(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaigns.Handler.ListCampaignsHandler(r.Context(), r.Header.Get("X-User-Id"), "", "")
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListPendingCampaigns(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaigns.Handler.ListCampaignsHandler(r.Context(), r.Header.Get("X-User-Id"), "", "pending")
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListBrandCampaigns(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaigns.Handler.ListCampaignsHandler(
		r.Context(),
		r.Header.Get("X-User-Id"),
		r.PathValue("brand_id"),
		r.URL.Query().Get("status"),
	)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListCampaignsByStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaigns.Handler.ListCampaignsHandler(
		r.Context(),
		r.Header.Get("X-User-Id"),
		"",
		r.PathValue("status"),
	)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCampaignStats(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaigns.Handler.GetStatsHandler(r.Context())
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeCampaignError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.campaigns.Handler.ListFavoritesHandler(r.Context(), userID)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	catalog := s.campaigns.Handler.CatalogHandler(r.Context())
	writeJSON(w, http.StatusOK, map[string][]string{"categories": catalog.Categories})
}

func (s *Server) handleListRemunerationTypes(w http.ResponseWriter, r *http.Request) {
	catalog := s.campaigns.Handler.CatalogHandler(r.Context())
	writeJSON(w, http.StatusOK, map[string][]string{"types": catalog.RemunerationTypes})
}

func (s *Server) handleExportCampaigns(w http.ResponseWriter, r *http.Request) {
	csv, err := s.campaigns.Handler.ExportCampaignsHandler(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="campaigns.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(csv)
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaigns.Handler.GetCampaignHandler(
		r.Context(),
		r.Header.Get("X-User-Id"),
		r.PathValue("campaign_id"),
	)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCampaignAnalytics(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaigns.Handler.GetAnalyticsHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateCampaign(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeCampaignError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req campaignhttp.UpdateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.campaigns.Handler.UpdateCampaignHandler(r.Context(), userID, r.PathValue("campaign_id"), req)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewCampaign(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req campaignhttp.ReviewCampaignRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}
		resp, err := s.campaigns.Handler.ReviewCampaignHandler(
			r.Context(),
			r.Header.Get("X-User-Id"),
			r.Header.Get("X-User-Role"),
			r.PathValue("campaign_id"),
			action,
			req.Reason,
		)
		if err != nil {
			writeCampaignDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleToggleFeatured(w http.ResponseWriter, r *http.Request) {
	resp, err := s.campaigns.Handler.ToggleFeaturedHandler(
		r.Context(),
		r.Header.Get("X-User-Role"),
		r.PathValue("campaign_id"),
	)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExtendDeadline(w http.ResponseWriter, r *http.Request) {
	var req campaignhttp.ExtendDeadlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.campaigns.Handler.ExtendDeadlineHandler(
		r.Context(),
		r.Header.Get("X-User-Id"),
		r.PathValue("campaign_id"),
		req,
	)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req campaignhttp.UpdateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCampaignError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.campaigns.Handler.UpdateBudgetHandler(
		r.Context(),
		r.Header.Get("X-User-Id"),
		r.PathValue("campaign_id"),
		req,
	)
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeCampaignError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.campaigns.Handler.ToggleFavoriteHandler(r.Context(), userID, r.PathValue("campaign_id"))
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDuplicateCampaign(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeCampaignError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.campaigns.Handler.DuplicateCampaignHandler(r.Context(), userID, r.PathValue("campaign_id"))
	if err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeCampaignError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	if err := s.campaigns.Handler.DeleteCampaignHandler(r.Context(), userID, r.PathValue("campaign_id")); err != nil {
		writeCampaignDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeCampaignDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, campaignerrors.ErrCampaignNotFound):
		writeCampaignError(w, http.StatusNotFound, "campaign_not_found", err.Error())
	case errors.Is(err, campaignerrors.ErrInvalidCampaignInput):
		writeCampaignError(w, http.StatusBadRequest, "invalid_campaign_input", err.Error())
	case errors.Is(err, campaignerrors.ErrInvalidStateTransition):
		writeCampaignError(w, http.StatusConflict, "invalid_state_transition", err.Error())
	case errors.Is(err, campaignerrors.ErrNotCampaignOwner):
		writeCampaignError(w, http.StatusForbidden, "not_campaign_owner", err.Error())
	case errors.Is(err, campaignerrors.ErrAdminRequired):
		writeCampaignError(w, http.StatusForbidden, "admin_required", err.Error())
	case errors.Is(err, campaignerrors.ErrInvalidDeadline):
		writeCampaignError(w, http.StatusUnprocessableEntity, "invalid_deadline", err.Error())
	case errors.Is(err, campaignerrors.ErrCampaignNotDeletable):
		writeCampaignError(w, http.StatusConflict, "campaign_not_deletable", err.Error())
	case errors.Is(err, campaignerrors.ErrIdempotencyKeyRequired):
		writeCampaignError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, campaignerrors.ErrIdempotencyKeyConflict):
		writeCampaignError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	default:
		writeCampaignError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCampaignError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, campaignhttp.ErrorResponse{
		Code:    code,
		Message: strings.TrimSpace(message),
	})
}
