package campaignservice

import (
	"log/slog"
	"time"

	httpadapter "vitrine/contexts/campaign-marketplace/campaign-service/adapters/http"
	"vitrine/contexts/campaign-marketplace/campaign-service/adapters/memory"
	"vitrine/contexts/campaign-marketplace/campaign-service/application/commands"
	"vitrine/contexts/campaign-marketplace/campaign-service/application/queries"
	"vitrine/contexts/campaign-marketplace/campaign-service/application/workers"
	"vitrine/contexts/campaign-marketplace/campaign-service/domain/entities"
	"vitrine/contexts/campaign-marketplace/campaign-service/ports"
)

type Module struct {
	Handler           httpadapter.Handler
	OutboxRelay       workers.OutboxRelay
	DeadlineCompleter workers.DeadlineCompleter
	Store             *memory.Store
}

type Dependencies struct {
	Campaigns      ports.CampaignRepository
	Favorites      ports.FavoriteRepository
	History        ports.HistoryRepository
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxWriter
	OutboxRepo     ports.OutboxRepository
	Deadlines      ports.DeadlineRepository
	Applications   ports.ApplicationStatsProvider
	Publisher      ports.EventPublisher
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	createCampaign := commands.CreateCampaignUseCase{
		Campaigns:      deps.Campaigns,
		Idempotency:    deps.Idempotency,
		Clock:          deps.Clock,
		IDGenerator:    deps.IDGenerator,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	updateCampaign := commands.UpdateCampaignUseCase{
		Campaigns: deps.Campaigns,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	reviewCampaign := commands.ReviewCampaignUseCase{
		Campaigns: deps.Campaigns,
		History:   deps.History,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		Logger:    deps.Logger,
	}
	duplicateCampaign := commands.DuplicateCampaignUseCase{
		Campaigns: deps.Campaigns,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		Logger:    deps.Logger,
	}
	extendDeadline := commands.ExtendDeadlineUseCase{
		Campaigns: deps.Campaigns,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	updateBudget := commands.UpdateBudgetUseCase{
		Campaigns: deps.Campaigns,
		History:   deps.History,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		Logger:    deps.Logger,
	}
	deleteCampaign := commands.DeleteCampaignUseCase{
		Campaigns: deps.Campaigns,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	toggleFeatured := commands.ToggleFeaturedUseCase{
		Campaigns: deps.Campaigns,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	toggleFavorite := commands.ToggleFavoriteUseCase{
		Campaigns: deps.Campaigns,
		Favorites: deps.Favorites,
		Logger:    deps.Logger,
	}

	listCampaigns := queries.ListCampaignsUseCase{
		Campaigns: deps.Campaigns,
		Favorites: deps.Favorites,
		Logger:    deps.Logger,
	}
	listFavorites := queries.ListFavoritesUseCase{
		Campaigns: deps.Campaigns,
		Favorites: deps.Favorites,
		Logger:    deps.Logger,
	}
	getCampaign := queries.GetCampaignUseCase{
		Campaigns: deps.Campaigns,
		Favorites: deps.Favorites,
		Logger:    deps.Logger,
	}
	getStats := queries.GetStatsUseCase{
		Campaigns: deps.Campaigns,
		Logger:    deps.Logger,
	}
	getAnalytics := queries.GetAnalyticsUseCase{
		Campaigns:    deps.Campaigns,
		Applications: deps.Applications,
		Clock:        deps.Clock,
		Logger:       deps.Logger,
	}
	exportCampaigns := queries.ExportCampaignsUseCase{
		Campaigns: deps.Campaigns,
		Logger:    deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateCampaign:    createCampaign,
			UpdateCampaign:    updateCampaign,
			ReviewCampaign:    reviewCampaign,
			DuplicateCampaign: duplicateCampaign,
			ExtendDeadline:    extendDeadline,
			UpdateBudget:      updateBudget,
			DeleteCampaign:    deleteCampaign,
			ToggleFeatured:    toggleFeatured,
			ToggleFavorite:    toggleFavorite,
			ListCampaigns:     listCampaigns,
			ListFavorites:     listFavorites,
			GetCampaign:       getCampaign,
			GetStats:          getStats,
			GetAnalytics:      getAnalytics,
			ExportCampaigns:   exportCampaigns,
			Catalog:           queries.CatalogUseCase{},
			Logger:            deps.Logger,
		},
		OutboxRelay: workers.OutboxRelay{
			Outbox:    deps.OutboxRepo,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
		DeadlineCompleter: workers.DeadlineCompleter{
			Deadlines: deps.Deadlines,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Campaign, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Campaigns:      store,
		Favorites:      store,
		History:        store,
		Idempotency:    store,
		Outbox:         store,
		OutboxRepo:     store,
		Deadlines:      store,
		Clock:          store,
		IDGenerator:    store,
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
