package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	applicationservice "vitrine/contexts/campaign-marketplace/application-service"
	applicationpostgres "vitrine/contexts/campaign-marketplace/application-service/adapters/postgres"
	campaignservice "vitrine/contexts/campaign-marketplace/campaign-service"
	campaignpostgres "vitrine/contexts/campaign-marketplace/campaign-service/adapters/postgres"
	discoveryservice "vitrine/contexts/campaign-marketplace/discovery-service"
	pagarmegateway "vitrine/contexts/finance-core/pagarme-gateway"
	pagarmememory "vitrine/contexts/finance-core/pagarme-gateway/adapters/memory"
	withdrawalservice "vitrine/contexts/finance-core/withdrawal-service"
	withdrawalapp "vitrine/contexts/finance-core/withdrawal-service/adapters/postgres"
	withdrawalapplication "vitrine/contexts/finance-core/withdrawal-service/application"
	contractsv1 "vitrine/contracts/gen/events/v1"
	"vitrine/internal/platform/config"
	"vitrine/internal/platform/db"
	"vitrine/internal/platform/httpserver"
	"vitrine/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const (
	topicWithdrawalSettled = "payments.withdrawal_settled"
	topicEarningsSettled   = "payments.earnings_settled"
)

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	campaigns    campaignservice.Module
	applications applicationservice.Module
	withdrawals  withdrawalservice.Module
	bus          *messaging.Kafka
	cfg          config.Config
	pollInterval time.Duration
	logger       *slog.Logger
}

func buildModules(pg *db.Postgres, cfg config.Config, logger *slog.Logger) (
	campaignservice.Module,
	applicationservice.Module,
	discoveryservice.Module,
	withdrawalservice.Module,
	pagarmegateway.Module,
) {
	campaignRepo := campaignpostgres.NewRepository(pg.DB, logger)
	applicationRepo := applicationpostgres.NewRepository(pg.DB, logger)
	withdrawalRepo := withdrawalapp.NewRepository(pg.DB, logger)

	campaigns := campaignservice.NewModule(campaignservice.Dependencies{
		Campaigns:      campaignRepo,
		Favorites:      campaignRepo,
		History:        campaignRepo,
		Idempotency:    campaignRepo,
		Outbox:         campaignRepo,
		OutboxRepo:     campaignRepo,
		Deadlines:      campaignRepo,
		Applications:   applicationStatsGlue{Applications: applicationRepo},
		Clock:          campaignpostgres.SystemClock{},
		IDGenerator:    campaignpostgres.UUIDGenerator{},
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})

	applications := applicationservice.NewModule(applicationservice.Dependencies{
		Applications:   applicationRepo,
		Campaigns:      campaignProjectionGlue{Campaigns: campaignRepo},
		Counter:        campaignProjectionGlue{Campaigns: campaignRepo},
		Idempotency:    applicationRepo,
		Outbox:         applicationRepo,
		OutboxRepo:     applicationRepo,
		Clock:          campaignpostgres.SystemClock{},
		IDGenerator:    campaignpostgres.UUIDGenerator{},
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})

	discovery := discoveryservice.NewModule(discoveryservice.Dependencies{
		Campaigns: discoverySourceGlue{Campaigns: campaignRepo},
		Favorites: discoveryFavoritesGlue{Favorites: campaignRepo},
		Logger:    logger,
	})

	withdrawals := withdrawalservice.NewModule(withdrawalservice.Dependencies{
		Balances:       withdrawalRepo,
		Withdrawals:    withdrawalRepo,
		Idempotency:    withdrawalRepo,
		EventDedup:     withdrawalRepo,
		Outbox:         withdrawalRepo,
		OutboxRepo:     withdrawalRepo,
		Clock:          campaignpostgres.SystemClock{},
		IDGenerator:    campaignpostgres.UUIDGenerator{},
		IdempotencyTTL: 7 * 24 * time.Hour,
		EventDedupTTL:  30 * 24 * time.Hour,
		Logger:         logger,
	})

	pagarme := pagarmegateway.NewModule(pagarmegateway.Dependencies{
		BaseURL: cfg.PagarmeBaseURL,
		Tokens:  pagarmememory.NewTokenStore(),
		Logger:  logger,
	})

	return campaigns, applications, discovery, withdrawals, pagarme
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	campaigns, applications, discovery, withdrawals, pagarme := buildModules(pg, cfg, logger)
	server := httpserver.New(httpserver.Modules{
		Campaigns:    campaigns,
		Applications: applications,
		Discovery:    discovery,
		Withdrawals:  withdrawals,
		Pagarme:      pagarme,
	}, logger, normalizeAddr(cfg.HTTPPort))

	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	campaigns, applications, _, withdrawals, _ := buildModules(pg, cfg, logger)
	campaigns.OutboxRelay.Publisher = bus
	applications.OutboxRelay.Publisher = bus
	withdrawals.OutboxRelay.Publisher = bus

	return &WorkerApp{
		postgres:     pg,
		campaigns:    campaigns,
		applications: applications,
		withdrawals:  withdrawals,
		bus:          bus,
		cfg:          cfg,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w.cfg.EnableSettlementConsumer {
		if err := w.bus.Subscribe(ctx, topicWithdrawalSettled, "withdrawal-settlement-cg", w.consumeWithdrawalSettled); err != nil {
			return err
		}
	}
	if w.cfg.EnableEarningsConsumer {
		if err := w.bus.Subscribe(ctx, topicEarningsSettled, "withdrawal-earnings-cg", w.consumeEarningsSettled); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if w.cfg.EnableDeadlineCompletion {
			if err := w.campaigns.DeadlineCompleter.RunOnce(ctx); err != nil {
				return err
			}
		}
		if err := w.campaigns.OutboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		if err := w.applications.OutboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		if err := w.withdrawals.OutboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) consumeWithdrawalSettled(ctx context.Context, envelope contractsv1.Envelope) error {
	var event withdrawalapplication.WithdrawalSettledEvent
	if err := json.Unmarshal(envelope.Data, &event); err != nil {
		return err
	}
	_, _, err := w.withdrawals.Service.ConsumeWithdrawalSettledEvent(ctx, envelope.EventID, event)
	return err
}

func (w *WorkerApp) consumeEarningsSettled(ctx context.Context, envelope contractsv1.Envelope) error {
	var event withdrawalapplication.EarningsSettledEvent
	if err := json.Unmarshal(envelope.Data, &event); err != nil {
		return err
	}
	_, err := w.withdrawals.Service.ConsumeEarningsSettledEvent(ctx, envelope.EventID, event)
	return err
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
