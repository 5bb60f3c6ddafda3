package applicationservice_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	applicationservice "vitrine/contexts/campaign-marketplace/application-service"
	domainerrors "vitrine/contexts/campaign-marketplace/application-service/domain/errors"
	"vitrine/contexts/campaign-marketplace/application-service/ports"
	httptransport "vitrine/contexts/campaign-marketplace/application-service/transport/http"
)

func seedCampaigns() []ports.CampaignSummary {
	return []ports.CampaignSummary{
		{CampaignID: "camp-1", BrandID: "brand-1", Title: "Coleção verão", Status: "approved"},
		{CampaignID: "camp-2", BrandID: "brand-1", Title: "Rascunho", Status: "pending"},
	}
}

func submitRequest() httptransport.SubmitApplicationRequest {
	return httptransport.SubmitApplicationRequest{
		CampaignID:     "camp-1",
		CreatorName:    "Ana Criadora",
		Proposal:       "Três reels mostrando a coleção em looks de praia.",
		PortfolioLinks: []string{"https://instagram.com/ana", "https://tiktok.com/@ana"},
		DeliveryDays:   14,
	}
}

func TestSubmitApplicationIdempotentReplay(t *testing.T) {
	module := applicationservice.NewInMemoryModule(seedCampaigns(), nil)
	ctx := context.Background()

	first, err := module.Handler.SubmitApplicationHandler(ctx, "creator-1", "idem-1", submitRequest())
	if err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if first.Application.Status != "pending" {
		t.Fatalf("expected pending, got %s", first.Application.Status)
	}

	second, err := module.Handler.SubmitApplicationHandler(ctx, "creator-1", "idem-1", submitRequest())
	if err != nil {
		t.Fatalf("replayed submit failed: %v", err)
	}
	if !second.Replayed {
		t.Fatal("expected replay for repeated idempotency key")
	}
	if first.Application.ApplicationID != second.Application.ApplicationID {
		t.Fatalf("expected same application id, got %s and %s", first.Application.ApplicationID, second.Application.ApplicationID)
	}
	if module.Store.ApplicationsCount("camp-1") != 1 {
		t.Fatalf("expected one counted application, got %d", module.Store.ApplicationsCount("camp-1"))
	}
}

func TestSubmitApplicationOnePerCampaignCreator(t *testing.T) {
	module := applicationservice.NewInMemoryModule(seedCampaigns(), nil)
	ctx := context.Background()

	if _, err := module.Handler.SubmitApplicationHandler(ctx, "creator-1", "idem-a", submitRequest()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := module.Handler.SubmitApplicationHandler(ctx, "creator-1", "idem-b", submitRequest()); !errors.Is(err, domainerrors.ErrDuplicateApplication) {
		t.Fatalf("expected duplicate application, got %v", err)
	}

	// A second creator is unaffected.
	if _, err := module.Handler.SubmitApplicationHandler(ctx, "creator-2", "idem-c", submitRequest()); err != nil {
		t.Fatalf("second creator submit failed: %v", err)
	}
}

func TestSubmitApplicationUnknownCampaign(t *testing.T) {
	module := applicationservice.NewInMemoryModule(seedCampaigns(), nil)
	req := submitRequest()
	req.CampaignID = "camp-missing"
	_, err := module.Handler.SubmitApplicationHandler(context.Background(), "creator-1", "idem-missing", req)
	if !errors.Is(err, domainerrors.ErrCampaignNotFound) {
		t.Fatalf("expected campaign not found, got %v", err)
	}
}

func TestSubmitApplicationRequiresOpenCampaign(t *testing.T) {
	module := applicationservice.NewInMemoryModule(seedCampaigns(), nil)
	req := submitRequest()
	req.CampaignID = "camp-2"
	_, err := module.Handler.SubmitApplicationHandler(context.Background(), "creator-1", "idem-closed", req)
	if !errors.Is(err, domainerrors.ErrCampaignNotOpen) {
		t.Fatalf("expected campaign not open, got %v", err)
	}
}

func TestSubmitApplicationValidation(t *testing.T) {
	module := applicationservice.NewInMemoryModule(seedCampaigns(), nil)
	ctx := context.Background()

	short := submitRequest()
	short.Proposal = "curta"
	if _, err := module.Handler.SubmitApplicationHandler(ctx, "creator-1", "idem-short", short); !errors.Is(err, domainerrors.ErrInvalidApplicationInput) {
		t.Fatalf("expected invalid input for short proposal, got %v", err)
	}

	long := submitRequest()
	long.Proposal = strings.Repeat("a", 2001)
	if _, err := module.Handler.SubmitApplicationHandler(ctx, "creator-1", "idem-long", long); !errors.Is(err, domainerrors.ErrInvalidApplicationInput) {
		t.Fatalf("expected invalid input for long proposal, got %v", err)
	}

	badLink := submitRequest()
	badLink.PortfolioLinks = []string{"instagram.com/ana"}
	if _, err := module.Handler.SubmitApplicationHandler(ctx, "creator-1", "idem-link", badLink); !errors.Is(err, domainerrors.ErrInvalidApplicationInput) {
		t.Fatalf("expected invalid input for relative link, got %v", err)
	}

	manyLinks := submitRequest()
	manyLinks.PortfolioLinks = nil
	for i := 0; i < 11; i++ {
		manyLinks.PortfolioLinks = append(manyLinks.PortfolioLinks, "https://example.com/p")
	}
	if _, err := module.Handler.SubmitApplicationHandler(ctx, "creator-1", "idem-many", manyLinks); !errors.Is(err, domainerrors.ErrInvalidApplicationInput) {
		t.Fatalf("expected invalid input for too many links, got %v", err)
	}

	badDays := submitRequest()
	badDays.DeliveryDays = 0
	if _, err := module.Handler.SubmitApplicationHandler(ctx, "creator-1", "idem-days", badDays); !errors.Is(err, domainerrors.ErrInvalidApplicationInput) {
		t.Fatalf("expected invalid input for zero delivery days, got %v", err)
	}
}

func TestReviewApplicationByCampaignOwner(t *testing.T) {
	module := applicationservice.NewInMemoryModule(seedCampaigns(), nil)
	ctx := context.Background()

	submitted, err := module.Handler.SubmitApplicationHandler(ctx, "creator-1", "idem-review", submitRequest())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	applicationID := submitted.Application.ApplicationID

	if _, err := module.Handler.ReviewApplicationHandler(ctx, "brand-2", applicationID, "approve", httptransport.ReviewApplicationRequest{}); !errors.Is(err, domainerrors.ErrNotCampaignOwner) {
		t.Fatalf("expected owner check, got %v", err)
	}

	approved, err := module.Handler.ReviewApplicationHandler(ctx, "brand-1", applicationID, "approve", httptransport.ReviewApplicationRequest{})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Application.Status != "approved" {
		t.Fatalf("expected approved, got %s", approved.Application.Status)
	}

	if _, err := module.Handler.ReviewApplicationHandler(ctx, "brand-1", applicationID, "reject", httptransport.ReviewApplicationRequest{}); !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected invalid transition after approve, got %v", err)
	}
}

func TestRejectedApplicationStillBlocksReapply(t *testing.T) {
	module := applicationservice.NewInMemoryModule(seedCampaigns(), nil)
	ctx := context.Background()

	submitted, err := module.Handler.SubmitApplicationHandler(ctx, "creator-1", "idem-reject", submitRequest())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	rejected, err := module.Handler.ReviewApplicationHandler(
		ctx,
		"brand-1",
		submitted.Application.ApplicationID,
		"reject",
		httptransport.ReviewApplicationRequest{Reason: "perfil fora do público-alvo"},
	)
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Application.RejectionReason != "perfil fora do público-alvo" {
		t.Fatalf("unexpected rejection reason %q", rejected.Application.RejectionReason)
	}

	// The rejected row still occupies the (campaign, creator) slot;
	// withdrawing is the only way to apply again.
	if _, err := module.Handler.SubmitApplicationHandler(ctx, "creator-1", "idem-reject-2", submitRequest()); !errors.Is(err, domainerrors.ErrDuplicateApplication) {
		t.Fatalf("expected duplicate application after rejection, got %v", err)
	}
}

func TestWithdrawApplicationDeletesRow(t *testing.T) {
	module := applicationservice.NewInMemoryModule(seedCampaigns(), nil)
	ctx := context.Background()

	submitted, err := module.Handler.SubmitApplicationHandler(ctx, "creator-1", "idem-withdraw", submitRequest())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	applicationID := submitted.Application.ApplicationID

	if err := module.Handler.WithdrawApplicationHandler(ctx, "creator-2", applicationID); !errors.Is(err, domainerrors.ErrNotApplicationOwner) {
		t.Fatalf("expected owner check on withdraw, got %v", err)
	}
	if err := module.Handler.WithdrawApplicationHandler(ctx, "creator-1", applicationID); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}

	if _, err := module.Handler.GetApplicationHandler(ctx, "creator-1", applicationID); !errors.Is(err, domainerrors.ErrApplicationNotFound) {
		t.Fatalf("expected not found after withdraw, got %v", err)
	}
	if module.Store.ApplicationsCount("camp-1") != 0 {
		t.Fatalf("expected counter back to zero, got %d", module.Store.ApplicationsCount("camp-1"))
	}

	// The slot is free again.
	if _, err := module.Handler.SubmitApplicationHandler(ctx, "creator-1", "idem-withdraw-2", submitRequest()); err != nil {
		t.Fatalf("resubmit after withdraw failed: %v", err)
	}
}

func TestCountByCampaign(t *testing.T) {
	module := applicationservice.NewInMemoryModule(seedCampaigns(), nil)
	ctx := context.Background()

	first, err := module.Handler.SubmitApplicationHandler(ctx, "creator-1", "idem-count-1", submitRequest())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := module.Handler.SubmitApplicationHandler(ctx, "creator-2", "idem-count-2", submitRequest()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := module.Handler.ReviewApplicationHandler(ctx, "brand-1", first.Application.ApplicationID, "approve", httptransport.ReviewApplicationRequest{}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	counts, err := module.Handler.CountByCampaignHandler(ctx, "camp-1")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if counts.Total != 2 || counts.Pending != 1 || counts.Approved != 1 {
		t.Fatalf("unexpected counts %+v", counts)
	}
}
