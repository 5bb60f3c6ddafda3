package application

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vitrine/contexts/finance-core/pagarme-gateway/adapters/memory"
	domainerrors "vitrine/contexts/finance-core/pagarme-gateway/domain/errors"
)

func newTestService(t *testing.T, handler http.HandlerFunc) (Service, *memory.TokenStore, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	tokens := memory.NewTokenStore()
	service := Service{
		BaseURL: server.URL,
		HTTP:    server.Client(),
		Tokens:  tokens,
	}
	return service, tokens, server.Close
}

func TestAuthenticateSavesToken(t *testing.T) {
	service, tokens, closeServer := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/core/v1/authenticate" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"tok-123"}`))
	})
	defer closeServer()

	result, err := service.Authenticate(context.Background(), AuthenticateInput{Email: "brand@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if result.Token != "tok-123" {
		t.Fatalf("expected token tok-123, got %q", result.Token)
	}
	stored, _ := tokens.Token(context.Background())
	if stored != "tok-123" {
		t.Fatalf("token must be saved in the store, got %q", stored)
	}
}

func TestAccountInfoSendsBearerToken(t *testing.T) {
	var gotAuth string
	service, tokens, closeServer := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"account_id":"acc-1","status":"active","linked":true}`))
	})
	defer closeServer()
	_ = tokens.SaveToken(context.Background(), "tok-123")

	info, err := service.GetAccountInfo(context.Background())
	if err != nil {
		t.Fatalf("account info: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if info.AccountID != "acc-1" || !info.Linked {
		t.Fatalf("unexpected account info: %+v", info)
	}
}

func TestUnauthorizedClearsAuthState(t *testing.T) {
	service, tokens, closeServer := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer closeServer()
	_ = tokens.SaveToken(context.Background(), "tok-stale")
	tokens.SetUser("creator-1")

	_, err := service.GetAccountInfo(context.Background())
	var gatewayErr *domainerrors.GatewayError
	if !errors.As(err, &gatewayErr) || gatewayErr.Code != domainerrors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
	if token, _ := tokens.Token(context.Background()); token != "" {
		t.Fatalf("401 must clear the stored token, got %q", token)
	}
	if tokens.User() != "" {
		t.Fatalf("401 must clear persisted user state")
	}
}

func TestValidationErrorSurfacesFirstFieldMessage(t *testing.T) {
	service, _, closeServer := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":{"holder_document":["documento do titular inválido"],"agency":["agência obrigatória"]}}`))
	})
	defer closeServer()

	_, err := service.LinkAccount(context.Background(), LinkAccountInput{})
	var gatewayErr *domainerrors.GatewayError
	if !errors.As(err, &gatewayErr) || gatewayErr.Code != domainerrors.CodeValidationError {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if gatewayErr.Message != "agência obrigatória" {
		t.Fatalf("expected the first field message, got %q", gatewayErr.Message)
	}
}

func TestRateLimitedParsesRetryAfter(t *testing.T) {
	service, _, closeServer := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	})
	defer closeServer()

	err := service.UnlinkAccount(context.Background())
	var gatewayErr *domainerrors.GatewayError
	if !errors.As(err, &gatewayErr) || gatewayErr.Code != domainerrors.CodeRateLimited {
		t.Fatalf("expected RATE_LIMITED, got %v", err)
	}
	if gatewayErr.RetryAfterSeconds != 30 {
		t.Fatalf("expected retry-after 30s, got %d", gatewayErr.RetryAfterSeconds)
	}
}

func TestServerErrorAndNetworkError(t *testing.T) {
	service, _, closeServer := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := service.GetAccountInfo(context.Background())
	var gatewayErr *domainerrors.GatewayError
	if !errors.As(err, &gatewayErr) || gatewayErr.Code != domainerrors.CodeServerError {
		t.Fatalf("expected SERVER_ERROR, got %v", err)
	}

	// Closing the server turns the next call into a transport failure.
	closeServer()
	_, err = service.GetAccountInfo(context.Background())
	if !errors.As(err, &gatewayErr) || gatewayErr.Code != domainerrors.CodeNetworkError {
		t.Fatalf("expected NETWORK_ERROR, got %v", err)
	}
}
