package httpserver

import (
	"errors"
	"net/http"

	discoveryerrors "vitrine/contexts/campaign-marketplace/discovery-service/domain/errors"
	discoveryhttp "vitrine/contexts/campaign-marketplace/discovery-service/transport/http"
)

func (s *Server) handleBrowseCampaigns(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeDiscoveryError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.discovery.Handler.BrowseHandler(r.Context(), userID, r.URL.Query())
	if err != nil {
		writeDiscoveryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAvailableCampaign(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeDiscoveryError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.discovery.Handler.GetHandler(r.Context(), userID, r.PathValue("campaign_id"))
	if err != nil {
		writeDiscoveryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeDiscoveryDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, discoveryerrors.ErrInvalidQuery):
		writeDiscoveryError(w, http.StatusBadRequest, "invalid_query", err.Error())
	case errors.Is(err, discoveryerrors.ErrCampaignNotFound):
		writeDiscoveryError(w, http.StatusNotFound, "campaign_not_found", err.Error())
	case errors.Is(err, discoveryerrors.ErrDependencyUnavailable):
		writeDiscoveryError(w, http.StatusServiceUnavailable, "dependency_unavailable", err.Error())
	default:
		writeDiscoveryError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeDiscoveryError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, discoveryhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
