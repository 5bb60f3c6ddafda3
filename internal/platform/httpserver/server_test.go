package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	applicationservice "vitrine/contexts/campaign-marketplace/application-service"
	applicationports "vitrine/contexts/campaign-marketplace/application-service/ports"
	campaignservice "vitrine/contexts/campaign-marketplace/campaign-service"
	campaignentities "vitrine/contexts/campaign-marketplace/campaign-service/domain/entities"
	discoveryservice "vitrine/contexts/campaign-marketplace/discovery-service"
	discoveryports "vitrine/contexts/campaign-marketplace/discovery-service/ports"
	pagarmegateway "vitrine/contexts/finance-core/pagarme-gateway"
	withdrawalservice "vitrine/contexts/finance-core/withdrawal-service"
	withdrawalentities "vitrine/contexts/finance-core/withdrawal-service/domain/entities"
)

type testFixture struct {
	server  *Server
	pagarme *httptest.Server
}

func newTestServer(t *testing.T) testFixture {
	t.Helper()

	pagarmeBackend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/core/v1/authenticate":
			_, _ = w.Write([]byte(`{"token":"tok-test"}`))
		case "/core/v1/recipients/me":
			_, _ = w.Write([]byte(`{"account_id":"acc-1","status":"active","linked":true}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"rota desconhecida"}`))
		}
	}))
	t.Cleanup(pagarmeBackend.Close)

	deadline := time.Now().UTC().Add(30 * 24 * time.Hour)
	campaigns := campaignservice.NewInMemoryModule([]campaignentities.Campaign{
		{
			CampaignID:       "camp-1",
			BrandID:          "brand-1",
			BrandName:        "Aurora",
			Title:            "Campanha de verão",
			Description:      "Conteúdo para a nova coleção de verão.",
			Category:         "moda",
			Budget:           1500,
			RemunerationType: campaignentities.RemunerationPaga,
			DeadlineAt:       &deadline,
			Status:           campaignentities.CampaignStatusApproved,
			CreatedAt:        time.Now().UTC(),
		},
	}, nil)

	applications := applicationservice.NewInMemoryModule([]applicationports.CampaignSummary{
		{CampaignID: "camp-1", BrandID: "brand-1", Title: "Campanha de verão", Status: "approved"},
	}, nil)

	discovery := discoveryservice.NewInMemoryModule([]discoveryports.Campaign{
		{
			CampaignID: "camp-1",
			BrandID:    "brand-1",
			BrandName:  "Aurora",
			Title:      "Campanha de verão",
			Category:   "moda",
			Budget:     1500,
			Status:     "approved",
			CreatedAt:  time.Now().UTC(),
		},
	}, nil)

	withdrawals := withdrawalservice.NewInMemoryModule([]withdrawalentities.Balance{
		{CreatorID: "creator-1", Available: 500},
	}, nil)

	pagarme := pagarmegateway.NewInMemoryModule(pagarmeBackend.URL, pagarmeBackend.Client(), nil)

	server := New(Modules{
		Campaigns:    campaigns,
		Applications: applications,
		Discovery:    discovery,
		Withdrawals:  withdrawals,
		Pagarme:      pagarme,
	}, nil, ":0")

	return testFixture{server: server, pagarme: pagarmeBackend}
}

func doJSON(t *testing.T, server *Server, method, target string, headers map[string]string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, target, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, req)
	return recorder
}

func TestCreateCampaignRoute(t *testing.T) {
	fixture := newTestServer(t)
	payload := map[string]any{
		"title":             "Lançamento gastronômico",
		"description":       "Divulgação do novo cardápio da casa.",
		"brand_name":        "Sabor & Cia",
		"category":          "gastronomia",
		"budget":            "800",
		"remuneration_type": "paga",
	}

	resp := doJSON(t, fixture.server, http.MethodPost, "/api/campaigns", nil, payload)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without X-User-Id, got %d", resp.Code)
	}

	resp = doJSON(t, fixture.server, http.MethodPost, "/api/campaigns", map[string]string{
		"X-User-Id": "brand-2",
	}, payload)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Idempotency-Key, got %d", resp.Code)
	}

	resp = doJSON(t, fixture.server, http.MethodPost, "/api/campaigns", map[string]string{
		"X-User-Id":       "brand-2",
		"Idempotency-Key": "key-1",
	}, payload)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCampaignReviewRouteRequiresAdmin(t *testing.T) {
	fixture := newTestServer(t)

	payload := map[string]any{
		"title":             "Campanha tech",
		"description":       "Review de gadgets da marca.",
		"brand_name":        "TechBr",
		"category":          "tecnologia",
		"budget":            "1000",
		"remuneration_type": "paga",
	}
	created := doJSON(t, fixture.server, http.MethodPost, "/api/campaigns", map[string]string{
		"X-User-Id":       "brand-2",
		"Idempotency-Key": "key-review",
	}, payload)
	if created.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", created.Code, created.Body.String())
	}
	var createdBody struct {
		Campaign struct {
			CampaignID string `json:"campaign_id"`
		} `json:"campaign"`
	}
	if err := json.Unmarshal(created.Body.Bytes(), &createdBody); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	campaignID := createdBody.Campaign.CampaignID

	resp := doJSON(t, fixture.server, http.MethodPatch, "/api/campaigns/"+campaignID+"/approve", map[string]string{
		"X-User-Id":   "user-3",
		"X-User-Role": "creator",
	}, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin review, got %d", resp.Code)
	}

	resp = doJSON(t, fixture.server, http.MethodPatch, "/api/campaigns/"+campaignID+"/approve", map[string]string{
		"X-User-Id":   "admin-1",
		"X-User-Role": "admin",
	}, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin approve, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestBrowseRoute(t *testing.T) {
	fixture := newTestServer(t)

	resp := doJSON(t, fixture.server, http.MethodGet, "/api/campaigns/available?category=moda", nil, nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without viewer, got %d", resp.Code)
	}

	resp = doJSON(t, fixture.server, http.MethodGet, "/api/campaigns/available?category=moda", map[string]string{
		"X-User-Id": "creator-1",
	}, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var body struct {
		Items []struct {
			CampaignID string `json:"campaign_id"`
		} `json:"items"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode browse response: %v", err)
	}
	if body.Total != 1 || body.Items[0].CampaignID != "camp-1" {
		t.Fatalf("unexpected browse result: %+v", body)
	}
}

func TestApplicationRoutes(t *testing.T) {
	fixture := newTestServer(t)

	resp := doJSON(t, fixture.server, http.MethodPost, "/api/campaigns/camp-1/applications", map[string]string{
		"X-User-Id":       "creator-1",
		"Idempotency-Key": "key-1",
	}, map[string]any{
		"creator_name":  "Lia",
		"proposal":      "Posso produzir três vídeos curtos sobre a coleção.",
		"delivery_days": 10,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, fixture.server, http.MethodGet, "/api/applications/statistics?campaign_id=camp-1", nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("statistics: %d %s", resp.Code, resp.Body.String())
	}
	var stats struct {
		Total   int `json:"total"`
		Pending int `json:"pending"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode statistics: %v", err)
	}
	if stats.Total != 1 || stats.Pending != 1 {
		t.Fatalf("unexpected statistics: %+v", stats)
	}
}

func TestWithdrawalRoutes(t *testing.T) {
	fixture := newTestServer(t)

	resp := doJSON(t, fixture.server, http.MethodPost, "/freelancer/withdrawals/quote", nil, map[string]any{
		"method_id": "pix",
		"amount":    200,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("quote: %d %s", resp.Code, resp.Body.String())
	}
	var quote struct {
		NetAmount float64 `json:"net_amount"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &quote); err != nil {
		t.Fatalf("decode quote: %v", err)
	}
	if quote.NetAmount != 191.50 {
		t.Fatalf("expected net 191.50, got %v", quote.NetAmount)
	}

	resp = doJSON(t, fixture.server, http.MethodPost, "/freelancer/withdrawals", map[string]string{
		"X-User-Id":       "creator-1",
		"Idempotency-Key": "key-1",
	}, map[string]any{
		"method_id": "pix",
		"amount":    200,
		"details":   map[string]string{"pix_key_type": "email", "pix_key": "lia@example.com"},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("request withdrawal: %d %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, fixture.server, http.MethodGet, "/freelancer/balance", map[string]string{
		"X-User-Id": "creator-1",
	}, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("balance: %d %s", resp.Code, resp.Body.String())
	}
	var balance struct {
		Available float64 `json:"available"`
		Pending   float64 `json:"pending"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &balance); err != nil {
		t.Fatalf("decode balance: %v", err)
	}
	if balance.Available != 300 || balance.Pending != 200 {
		t.Fatalf("unexpected balance: %+v", balance)
	}

	resp = doJSON(t, fixture.server, http.MethodPost, "/freelancer/withdrawals", map[string]string{
		"X-User-Id":       "creator-1",
		"Idempotency-Key": "key-2",
	}, map[string]any{
		"method_id": "pix",
		"amount":    9000,
		"details":   map[string]string{"pix_key_type": "email", "pix_key": "lia@example.com"},
	})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for insufficient balance, got %d", resp.Code)
	}
}

func TestPagarmeRoutes(t *testing.T) {
	fixture := newTestServer(t)

	resp := doJSON(t, fixture.server, http.MethodPost, "/api/pagarme/authenticate", nil, map[string]any{
		"email":    "brand@example.com",
		"password": "secret",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("authenticate: %d %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, fixture.server, http.MethodGet, "/api/pagarme/account-info", nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("account info: %d %s", resp.Code, resp.Body.String())
	}
	var info struct {
		AccountID string `json:"account_id"`
		Linked    bool   `json:"linked"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode account info: %v", err)
	}
	if info.AccountID != "acc-1" || !info.Linked {
		t.Fatalf("unexpected account info: %+v", info)
	}
}
