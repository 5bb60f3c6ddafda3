package pagarmegateway

import (
	"log/slog"
	"net/http"
	"time"

	httpadapter "vitrine/contexts/finance-core/pagarme-gateway/adapters/http"
	"vitrine/contexts/finance-core/pagarme-gateway/adapters/memory"
	"vitrine/contexts/finance-core/pagarme-gateway/application"
	"vitrine/contexts/finance-core/pagarme-gateway/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Tokens  *memory.TokenStore
}

type Dependencies struct {
	BaseURL string
	HTTP    ports.Doer
	Tokens  ports.TokenStore
	Logger  *slog.Logger
}

func NewModule(deps Dependencies) Module {
	client := deps.HTTP
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	service := application.Service{
		BaseURL: deps.BaseURL,
		HTTP:    client,
		Tokens:  deps.Tokens,
		Logger:  deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(baseURL string, httpClient ports.Doer, logger *slog.Logger) Module {
	tokens := memory.NewTokenStore()
	module := NewModule(Dependencies{
		BaseURL: baseURL,
		HTTP:    httpClient,
		Tokens:  tokens,
		Logger:  logger,
	})
	module.Tokens = tokens
	return module
}
