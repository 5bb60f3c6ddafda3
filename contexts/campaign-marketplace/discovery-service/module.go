package discoveryservice

import (
	"log/slog"

	httpadapter "vitrine/contexts/campaign-marketplace/discovery-service/adapters/http"
	"vitrine/contexts/campaign-marketplace/discovery-service/adapters/memory"
	"vitrine/contexts/campaign-marketplace/discovery-service/application"
	"vitrine/contexts/campaign-marketplace/discovery-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Campaigns ports.CampaignSource
	Favorites ports.FavoritesProvider
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Service: application.Service{
				Campaigns: deps.Campaigns,
				Favorites: deps.Favorites,
				Logger:    deps.Logger,
			},
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []ports.Campaign, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Campaigns: store,
		Favorites: store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
