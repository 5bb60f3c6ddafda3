package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	applicationservice "vitrine/contexts/campaign-marketplace/application-service"
	campaignservice "vitrine/contexts/campaign-marketplace/campaign-service"
	discoveryservice "vitrine/contexts/campaign-marketplace/discovery-service"
	pagarmegateway "vitrine/contexts/finance-core/pagarme-gateway"
	withdrawalservice "vitrine/contexts/finance-core/withdrawal-service"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "vitrine/internal/platform/httpserver/docs"
)

type Server struct {
	mux          *http.ServeMux
	logger       *slog.Logger
	addr         string
	campaigns    campaignservice.Module
	applications applicationservice.Module
	discovery    discoveryservice.Module
	withdrawals  withdrawalservice.Module
	pagarme      pagarmegateway.Module
}

type Modules struct {
	Campaigns    campaignservice.Module
	Applications applicationservice.Module
	Discovery    discoveryservice.Module
	Withdrawals  withdrawalservice.Module
	Pagarme      pagarmegateway.Module
}

func New(modules Modules, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:          http.NewServeMux(),
		logger:       logger,
		addr:         addr,
		campaigns:    modules.Campaigns,
		applications: modules.Applications,
		discovery:    modules.Discovery,
		withdrawals:  modules.Withdrawals,
		pagarme:      modules.Pagarme,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Static campaign segments must be registered next to the {campaign_id}
	// pattern; the Go 1.22 mux prefers the literal match.
	s.mux.HandleFunc("POST /api/campaigns", s.handleCreateCampaign)
	s.mux.HandleFunc("GET /api/campaigns/get-all-campaigns", s.handleListAllCampaigns)
	s.mux.HandleFunc("GET /api/campaigns/pending", s.handleListPendingCampaigns)
	s.mux.HandleFunc("GET /api/campaigns/user/{brand_id}", s.handleListBrandCampaigns)
	s.mux.HandleFunc("GET /api/campaigns/status/{status}", s.handleListCampaignsByStatus)
	s.mux.HandleFunc("GET /api/campaigns/available", s.handleBrowseCampaigns)
	s.mux.HandleFunc("GET /api/campaigns/available/{campaign_id}", s.handleGetAvailableCampaign)
	s.mux.HandleFunc("GET /api/campaigns/search", s.handleBrowseCampaigns)
	s.mux.HandleFunc("GET /api/campaigns/stats", s.handleCampaignStats)
	s.mux.HandleFunc("GET /api/campaigns/favorites", s.handleListFavorites)
	s.mux.HandleFunc("GET /api/campaigns/categories", s.handleListCategories)
	s.mux.HandleFunc("GET /api/campaigns/types", s.handleListRemunerationTypes)
	s.mux.HandleFunc("GET /api/campaigns/export", s.handleExportCampaigns)
	s.mux.HandleFunc("GET /api/campaigns/{campaign_id}", s.handleGetCampaign)
	s.mux.HandleFunc("GET /api/campaigns/{campaign_id}/analytics", s.handleCampaignAnalytics)
	s.mux.HandleFunc("PATCH /api/campaigns/{campaign_id}", s.handleUpdateCampaign)
	s.mux.HandleFunc("PATCH /api/campaigns/{campaign_id}/approve", s.handleReviewCampaign("approve"))
	s.mux.HandleFunc("PATCH /api/campaigns/{campaign_id}/reject", s.handleReviewCampaign("reject"))
	s.mux.HandleFunc("PATCH /api/campaigns/{campaign_id}/archive", s.handleReviewCampaign("archive"))
	s.mux.HandleFunc("PATCH /api/campaigns/{campaign_id}/toggle-featured", s.handleToggleFeatured)
	s.mux.HandleFunc("PATCH /api/campaigns/{campaign_id}/extend-deadline", s.handleExtendDeadline)
	s.mux.HandleFunc("PATCH /api/campaigns/{campaign_id}/update-budget", s.handleUpdateBudget)
	s.mux.HandleFunc("POST /api/campaigns/{campaign_id}/toggle-favorite", s.handleToggleFavorite)
	s.mux.HandleFunc("POST /api/campaigns/{campaign_id}/duplicate", s.handleDuplicateCampaign)
	s.mux.HandleFunc("DELETE /api/campaigns/{campaign_id}", s.handleDeleteCampaign)

	s.mux.HandleFunc("POST /api/campaigns/{campaign_id}/applications", s.handleSubmitApplication)
	s.mux.HandleFunc("GET /api/campaigns/{campaign_id}/applications", s.handleListCampaignApplications)
	s.mux.HandleFunc("GET /api/applications", s.handleListMyApplications)
	s.mux.HandleFunc("GET /api/applications/statistics", s.handleApplicationStatistics)
	s.mux.HandleFunc("GET /api/applications/{application_id}", s.handleGetApplication)
	s.mux.HandleFunc("POST /api/applications/{application_id}/approve", s.handleReviewApplication("approve"))
	s.mux.HandleFunc("POST /api/applications/{application_id}/reject", s.handleReviewApplication("reject"))
	s.mux.HandleFunc("DELETE /api/applications/{application_id}/withdraw", s.handleWithdrawApplication)

	s.mux.HandleFunc("GET /freelancer/withdrawal-methods", s.handleWithdrawalMethods)
	s.mux.HandleFunc("GET /freelancer/balance", s.handleBalance)
	s.mux.HandleFunc("GET /freelancer/withdrawals", s.handleListWithdrawals)
	s.mux.HandleFunc("POST /freelancer/withdrawals", s.handleRequestWithdrawal)
	s.mux.HandleFunc("POST /freelancer/withdrawals/quote", s.handleQuoteWithdrawal)

	s.mux.HandleFunc("POST /api/pagarme/authenticate", s.handlePagarmeAuthenticate)
	s.mux.HandleFunc("POST /api/pagarme/link-account", s.handlePagarmeLinkAccount)
	s.mux.HandleFunc("POST /api/pagarme/unlink-account", s.handlePagarmeUnlinkAccount)
	s.mux.HandleFunc("GET /api/pagarme/account-info", s.handlePagarmeAccountInfo)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
