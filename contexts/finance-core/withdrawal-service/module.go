package withdrawalservice

import (
	"log/slog"
	"time"

	httpadapter "vitrine/contexts/finance-core/withdrawal-service/adapters/http"
	"vitrine/contexts/finance-core/withdrawal-service/adapters/memory"
	"vitrine/contexts/finance-core/withdrawal-service/application"
	"vitrine/contexts/finance-core/withdrawal-service/application/workers"
	"vitrine/contexts/finance-core/withdrawal-service/domain/entities"
	"vitrine/contexts/finance-core/withdrawal-service/ports"
)

type Module struct {
	Handler     httpadapter.Handler
	Service     application.Service
	OutboxRelay workers.OutboxRelay
	Store       *memory.Store
}

type Dependencies struct {
	Balances       ports.BalanceRepository
	Withdrawals    ports.WithdrawalRepository
	Idempotency    ports.IdempotencyStore
	EventDedup     ports.EventDedupStore
	Outbox         ports.OutboxWriter
	OutboxRepo     ports.OutboxRepository
	Publisher      ports.EventPublisher
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	EventDedupTTL  time.Duration
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Balances:       deps.Balances,
		Withdrawals:    deps.Withdrawals,
		Idempotency:    deps.Idempotency,
		EventDedup:     deps.EventDedup,
		Outbox:         deps.Outbox,
		Clock:          deps.Clock,
		IDGen:          deps.IDGenerator,
		IdempotencyTTL: deps.IdempotencyTTL,
		EventDedupTTL:  deps.EventDedupTTL,
		Logger:         deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
		OutboxRelay: workers.OutboxRelay{
			Outbox:    deps.OutboxRepo,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Balance, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Balances:       store,
		Withdrawals:    store,
		Idempotency:    store,
		EventDedup:     store,
		Outbox:         store,
		OutboxRepo:     store,
		Clock:          store,
		IDGenerator:    store,
		IdempotencyTTL: 7 * 24 * time.Hour,
		EventDedupTTL:  30 * 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
