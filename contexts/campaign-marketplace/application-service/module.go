package applicationservice

import (
	"log/slog"
	"time"

	httpadapter "vitrine/contexts/campaign-marketplace/application-service/adapters/http"
	"vitrine/contexts/campaign-marketplace/application-service/adapters/memory"
	"vitrine/contexts/campaign-marketplace/application-service/application/commands"
	"vitrine/contexts/campaign-marketplace/application-service/application/queries"
	"vitrine/contexts/campaign-marketplace/application-service/application/workers"
	"vitrine/contexts/campaign-marketplace/application-service/ports"
)

type Module struct {
	Handler     httpadapter.Handler
	OutboxRelay workers.OutboxRelay
	Store       *memory.Store
}

type Dependencies struct {
	Applications   ports.ApplicationRepository
	Campaigns      ports.CampaignProjection
	Counter        ports.ApplicationCounter
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxWriter
	OutboxRepo     ports.OutboxRepository
	Publisher      ports.EventPublisher
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	submit := commands.SubmitApplicationUseCase{
		Applications:   deps.Applications,
		Campaigns:      deps.Campaigns,
		Counter:        deps.Counter,
		Idempotency:    deps.Idempotency,
		Outbox:         deps.Outbox,
		Clock:          deps.Clock,
		IDGenerator:    deps.IDGenerator,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	review := commands.ReviewApplicationUseCase{
		Applications: deps.Applications,
		Campaigns:    deps.Campaigns,
		Outbox:       deps.Outbox,
		Clock:        deps.Clock,
		IDGen:        deps.IDGenerator,
		Logger:       deps.Logger,
	}
	withdraw := commands.WithdrawApplicationUseCase{
		Applications: deps.Applications,
		Counter:      deps.Counter,
		Outbox:       deps.Outbox,
		Clock:        deps.Clock,
		IDGen:        deps.IDGenerator,
		Logger:       deps.Logger,
	}

	listByCampaign := queries.ListByCampaignUseCase{
		Applications: deps.Applications,
		Campaigns:    deps.Campaigns,
		Logger:       deps.Logger,
	}
	listByCreator := queries.ListByCreatorUseCase{
		Applications: deps.Applications,
		Logger:       deps.Logger,
	}
	getApplication := queries.GetApplicationUseCase{
		Applications: deps.Applications,
		Campaigns:    deps.Campaigns,
		Logger:       deps.Logger,
	}
	countByCampaign := queries.CountByCampaignUseCase{
		Applications: deps.Applications,
		Logger:       deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			SubmitApplication:   submit,
			ReviewApplication:   review,
			WithdrawApplication: withdraw,
			ListByCampaign:      listByCampaign,
			ListByCreator:       listByCreator,
			GetApplication:      getApplication,
			CountByCampaign:     countByCampaign,
			Logger:              deps.Logger,
		},
		OutboxRelay: workers.OutboxRelay{
			Outbox:    deps.OutboxRepo,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(seedCampaigns []ports.CampaignSummary, logger *slog.Logger) Module {
	store := memory.NewStore(seedCampaigns)
	module := NewModule(Dependencies{
		Applications:   store,
		Campaigns:      store,
		Counter:        store,
		Idempotency:    store,
		Outbox:         store,
		OutboxRepo:     store,
		Clock:          store,
		IDGenerator:    store,
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
