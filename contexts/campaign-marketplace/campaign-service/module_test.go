package campaignservice_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	campaignservice "vitrine/contexts/campaign-marketplace/campaign-service"
	domainerrors "vitrine/contexts/campaign-marketplace/campaign-service/domain/errors"
	httptransport "vitrine/contexts/campaign-marketplace/campaign-service/transport/http"
)

func createCampaignRequest() httptransport.CreateCampaignRequest {
	return httptransport.CreateCampaignRequest{
		Title:            "Lançamento coleção verão",
		Description:      "Conteúdo para o lançamento da coleção de verão.",
		BrandName:        "Loja Sol",
		Category:         "moda",
		Budget:           "1500",
		RemunerationType: "paga",
		TargetStates:     []string{"SP", "RJ"},
	}
}

func TestCreateCampaignIdempotentReplay(t *testing.T) {
	module := campaignservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	first, err := module.Handler.CreateCampaignHandler(ctx, "brand-1", "idem-1", createCampaignRequest())
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if first.Campaign.Status != "pending" {
		t.Fatalf("expected pending status, got %s", first.Campaign.Status)
	}

	second, err := module.Handler.CreateCampaignHandler(ctx, "brand-1", "idem-1", createCampaignRequest())
	if err != nil {
		t.Fatalf("replayed create failed: %v", err)
	}
	if !second.Replayed {
		t.Fatal("expected replayed result for repeated idempotency key")
	}
	if first.Campaign.CampaignID != second.Campaign.CampaignID {
		t.Fatalf("expected same campaign id, got %s and %s", first.Campaign.CampaignID, second.Campaign.CampaignID)
	}

	changed := createCampaignRequest()
	changed.Budget = "9000"
	if _, err := module.Handler.CreateCampaignHandler(ctx, "brand-1", "idem-1", changed); !errors.Is(err, domainerrors.ErrIdempotencyKeyConflict) {
		t.Fatalf("expected idempotency conflict, got %v", err)
	}
}

func TestCreateCampaignRequiresIdempotencyKey(t *testing.T) {
	module := campaignservice.NewInMemoryModule(nil, nil)
	_, err := module.Handler.CreateCampaignHandler(context.Background(), "brand-1", "", createCampaignRequest())
	if !errors.Is(err, domainerrors.ErrIdempotencyKeyRequired) {
		t.Fatalf("expected idempotency key required, got %v", err)
	}
}

func TestCreatePermutaCampaignZeroesBudget(t *testing.T) {
	module := campaignservice.NewInMemoryModule(nil, nil)
	req := createCampaignRequest()
	req.RemunerationType = "permuta"
	req.Budget = ""

	result, err := module.Handler.CreateCampaignHandler(context.Background(), "brand-1", "idem-permuta", req)
	if err != nil {
		t.Fatalf("create permuta failed: %v", err)
	}
	if result.Campaign.Budget != 0 {
		t.Fatalf("expected zero budget for permuta, got %.2f", result.Campaign.Budget)
	}

	// A permuta campaign keeps budget zero even when the form posts a value.
	req2 := createCampaignRequest()
	req2.RemunerationType = "permuta"
	req2.Budget = "800"
	result2, err := module.Handler.CreateCampaignHandler(context.Background(), "brand-1", "idem-permuta-2", req2)
	if err != nil {
		t.Fatalf("create permuta with budget failed: %v", err)
	}
	if result2.Campaign.Budget != 0 {
		t.Fatalf("expected zero budget for permuta, got %.2f", result2.Campaign.Budget)
	}
}

func TestReviewCampaignTransitions(t *testing.T) {
	module := campaignservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	created, err := module.Handler.CreateCampaignHandler(ctx, "brand-1", "idem-review", createCampaignRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	campaignID := created.Campaign.CampaignID

	if _, err := module.Handler.ReviewCampaignHandler(ctx, "creator-1", "creator", campaignID, "approve", ""); !errors.Is(err, domainerrors.ErrAdminRequired) {
		t.Fatalf("expected admin required for non-admin approve, got %v", err)
	}

	approved, err := module.Handler.ReviewCampaignHandler(ctx, "admin-1", "admin", campaignID, "approve", "")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Campaign.Status != "approved" {
		t.Fatalf("expected approved, got %s", approved.Campaign.Status)
	}
	if approved.Campaign.ReviewedBy != "admin-1" {
		t.Fatalf("expected reviewer admin-1, got %s", approved.Campaign.ReviewedBy)
	}

	if _, err := module.Handler.ReviewCampaignHandler(ctx, "admin-1", "admin", campaignID, "approve", ""); !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected invalid transition for double approve, got %v", err)
	}

	archived, err := module.Handler.ReviewCampaignHandler(ctx, "admin-1", "admin", campaignID, "archive", "fim da temporada")
	if err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	if archived.Campaign.Status != "archived" {
		t.Fatalf("expected archived, got %s", archived.Campaign.Status)
	}
}

func TestRejectCampaignKeepsReason(t *testing.T) {
	module := campaignservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	created, err := module.Handler.CreateCampaignHandler(ctx, "brand-1", "idem-reject", createCampaignRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	rejected, err := module.Handler.ReviewCampaignHandler(ctx, "admin-1", "admin", created.Campaign.CampaignID, "reject", "orçamento fora da política")
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Campaign.Status != "rejected" {
		t.Fatalf("expected rejected, got %s", rejected.Campaign.Status)
	}
	if rejected.Campaign.RejectionReason != "orçamento fora da política" {
		t.Fatalf("unexpected rejection reason %q", rejected.Campaign.RejectionReason)
	}
}

func TestCancelCampaignOwnerOnly(t *testing.T) {
	module := campaignservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	created, err := module.Handler.CreateCampaignHandler(ctx, "brand-1", "idem-cancel", createCampaignRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := module.Handler.ReviewCampaignHandler(ctx, "brand-2", "brand", created.Campaign.CampaignID, "cancel", ""); !errors.Is(err, domainerrors.ErrNotCampaignOwner) {
		t.Fatalf("expected owner check on cancel, got %v", err)
	}

	cancelled, err := module.Handler.ReviewCampaignHandler(ctx, "brand-1", "brand", created.Campaign.CampaignID, "cancel", "mudança de planos")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Campaign.Status != "cancelled" {
		t.Fatalf("expected cancelled, got %s", cancelled.Campaign.Status)
	}
}

// A status change must be visible in every list that can contain the
// campaign: the brand's own list, the status-filtered list and the
// favorites list all read the same store row.
func TestStatusChangeVisibleInAllViews(t *testing.T) {
	module := campaignservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	created, err := module.Handler.CreateCampaignHandler(ctx, "brand-1", "idem-views", createCampaignRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	campaignID := created.Campaign.CampaignID

	if _, err := module.Handler.ToggleFavoriteHandler(ctx, "creator-9", campaignID); err != nil {
		t.Fatalf("favorite failed: %v", err)
	}
	if _, err := module.Handler.ReviewCampaignHandler(ctx, "admin-1", "admin", campaignID, "approve", ""); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	byBrand, err := module.Handler.ListCampaignsHandler(ctx, "", "brand-1", "")
	if err != nil {
		t.Fatalf("list by brand failed: %v", err)
	}
	byStatus, err := module.Handler.ListCampaignsHandler(ctx, "", "", "approved")
	if err != nil {
		t.Fatalf("list by status failed: %v", err)
	}
	favorites, err := module.Handler.ListFavoritesHandler(ctx, "creator-9")
	if err != nil {
		t.Fatalf("list favorites failed: %v", err)
	}

	for name, list := range map[string]httptransport.ListCampaignsResponse{
		"brand":     byBrand,
		"status":    byStatus,
		"favorites": favorites,
	} {
		found := false
		for _, item := range list.Items {
			if item.CampaignID == campaignID {
				found = true
				if item.Status != "approved" {
					t.Fatalf("%s view shows stale status %s", name, item.Status)
				}
			}
		}
		if !found {
			t.Fatalf("%s view is missing campaign %s", name, campaignID)
		}
	}
}

func TestDuplicateCampaignResetsState(t *testing.T) {
	module := campaignservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	created, err := module.Handler.CreateCampaignHandler(ctx, "brand-1", "idem-dup", createCampaignRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := module.Handler.ReviewCampaignHandler(ctx, "admin-1", "admin", created.Campaign.CampaignID, "approve", ""); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	duplicated, err := module.Handler.DuplicateCampaignHandler(ctx, "brand-1", created.Campaign.CampaignID)
	if err != nil {
		t.Fatalf("duplicate failed: %v", err)
	}
	if duplicated.Campaign.CampaignID == created.Campaign.CampaignID {
		t.Fatal("expected a fresh campaign id for the copy")
	}
	if !strings.HasSuffix(duplicated.Campaign.Title, " (cópia)") {
		t.Fatalf("expected title suffix, got %q", duplicated.Campaign.Title)
	}
	if duplicated.Campaign.Status != "pending" {
		t.Fatalf("expected copy to start pending, got %s", duplicated.Campaign.Status)
	}
	if duplicated.Campaign.ApplicationsCount != 0 {
		t.Fatalf("expected zero applications on copy, got %d", duplicated.Campaign.ApplicationsCount)
	}

	if _, err := module.Handler.DuplicateCampaignHandler(ctx, "brand-2", created.Campaign.CampaignID); !errors.Is(err, domainerrors.ErrNotCampaignOwner) {
		t.Fatalf("expected owner check on duplicate, got %v", err)
	}
}

func TestExtendDeadlineMustMoveForward(t *testing.T) {
	module := campaignservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	req := createCampaignRequest()
	req.Deadline = time.Now().UTC().Add(48 * time.Hour).Format(time.RFC3339)
	created, err := module.Handler.CreateCampaignHandler(ctx, "brand-1", "idem-deadline", req)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	earlier := time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339)
	if _, err := module.Handler.ExtendDeadlineHandler(ctx, "brand-1", created.Campaign.CampaignID, httptransport.ExtendDeadlineRequest{Deadline: earlier}); !errors.Is(err, domainerrors.ErrInvalidDeadline) {
		t.Fatalf("expected invalid deadline for earlier date, got %v", err)
	}

	later := time.Now().UTC().Add(96 * time.Hour).Format(time.RFC3339)
	updated, err := module.Handler.ExtendDeadlineHandler(ctx, "brand-1", created.Campaign.CampaignID, httptransport.ExtendDeadlineRequest{Deadline: later})
	if err != nil {
		t.Fatalf("extend deadline failed: %v", err)
	}
	if updated.Campaign.Deadline != later {
		t.Fatalf("expected deadline %s, got %s", later, updated.Campaign.Deadline)
	}
}

func TestDeleteApprovedCampaignBlocked(t *testing.T) {
	module := campaignservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	created, err := module.Handler.CreateCampaignHandler(ctx, "brand-1", "idem-delete", createCampaignRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := module.Handler.ReviewCampaignHandler(ctx, "admin-1", "admin", created.Campaign.CampaignID, "approve", ""); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	if err := module.Handler.DeleteCampaignHandler(ctx, "brand-1", created.Campaign.CampaignID); !errors.Is(err, domainerrors.ErrCampaignNotDeletable) {
		t.Fatalf("expected approved campaign to be undeletable, got %v", err)
	}

	if _, err := module.Handler.ReviewCampaignHandler(ctx, "brand-1", "brand", created.Campaign.CampaignID, "cancel", ""); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if err := module.Handler.DeleteCampaignHandler(ctx, "brand-1", created.Campaign.CampaignID); err != nil {
		t.Fatalf("delete after cancel failed: %v", err)
	}
	if _, err := module.Handler.GetCampaignHandler(ctx, "", created.Campaign.CampaignID); !errors.Is(err, domainerrors.ErrCampaignNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestToggleFavoriteRoundTrip(t *testing.T) {
	module := campaignservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	created, err := module.Handler.CreateCampaignHandler(ctx, "brand-1", "idem-fav", createCampaignRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	on, err := module.Handler.ToggleFavoriteHandler(ctx, "creator-1", created.Campaign.CampaignID)
	if err != nil {
		t.Fatalf("toggle on failed: %v", err)
	}
	if !on.IsFavorited {
		t.Fatal("expected favorite on after first toggle")
	}

	view, err := module.Handler.GetCampaignHandler(ctx, "creator-1", created.Campaign.CampaignID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !view.Campaign.IsFavorited {
		t.Fatal("expected favorite flag in campaign view")
	}

	off, err := module.Handler.ToggleFavoriteHandler(ctx, "creator-1", created.Campaign.CampaignID)
	if err != nil {
		t.Fatalf("toggle off failed: %v", err)
	}
	if off.IsFavorited {
		t.Fatal("expected favorite off after second toggle")
	}
}

func TestDeadlineCompleterCompletesApprovedCampaigns(t *testing.T) {
	module := campaignservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	req := createCampaignRequest()
	req.Deadline = time.Now().UTC().Add(time.Minute).Format(time.RFC3339)
	created, err := module.Handler.CreateCampaignHandler(ctx, "brand-1", "idem-worker", req)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := module.Handler.ReviewCampaignHandler(ctx, "admin-1", "admin", created.Campaign.CampaignID, "approve", ""); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	completer := module.DeadlineCompleter
	completer.Clock = fixedClock{at: time.Now().UTC().Add(time.Hour)}
	if err := completer.RunOnce(ctx); err != nil {
		t.Fatalf("deadline completer failed: %v", err)
	}

	view, err := module.Handler.GetCampaignHandler(ctx, "", created.Campaign.CampaignID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if view.Campaign.Status != "completed" {
		t.Fatalf("expected completed after deadline, got %s", view.Campaign.Status)
	}
}

func TestGetStatsCountsByStatus(t *testing.T) {
	module := campaignservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	first, err := module.Handler.CreateCampaignHandler(ctx, "brand-1", "idem-stats-1", createCampaignRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := module.Handler.CreateCampaignHandler(ctx, "brand-1", "idem-stats-2", createCampaignRequest()); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := module.Handler.ReviewCampaignHandler(ctx, "admin-1", "admin", first.Campaign.CampaignID, "approve", ""); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	stats, err := module.Handler.GetStatsHandler(ctx)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Total != 2 || stats.Pending != 1 || stats.Approved != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.ApprovedBudget != 1500 {
		t.Fatalf("expected approved budget 1500, got %.2f", stats.ApprovedBudget)
	}
}

func TestExportCampaignsCSVHeader(t *testing.T) {
	module := campaignservice.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	if _, err := module.Handler.CreateCampaignHandler(ctx, "brand-1", "idem-export", createCampaignRequest()); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	data, err := module.Handler.ExportCampaignsHandler(ctx, "")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "campaign_id,brand_id,brand_name,title,category,budget") {
		t.Fatalf("unexpected csv header %q", lines[0])
	}
}

type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time {
	return c.at
}
