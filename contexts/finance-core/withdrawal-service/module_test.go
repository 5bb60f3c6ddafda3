package withdrawalservice

import (
	"context"
	"errors"
	"testing"

	"vitrine/contexts/finance-core/withdrawal-service/application"
	"vitrine/contexts/finance-core/withdrawal-service/domain/entities"
	domainerrors "vitrine/contexts/finance-core/withdrawal-service/domain/errors"
	transporthttp "vitrine/contexts/finance-core/withdrawal-service/transport/http"
)

func newTestModule(t *testing.T, seed []entities.Balance) Module {
	t.Helper()
	return NewInMemoryModule(seed, nil)
}

func TestQuoteFeeFixedAndPercent(t *testing.T) {
	module := newTestModule(t, nil)
	ctx := context.Background()

	quote, err := module.Handler.QuoteFeeHandler(ctx, "pix", "200")
	if err != nil {
		t.Fatalf("quote pix: %v", err)
	}
	if quote.MethodFee != 3.50 || quote.PlatformFee != 5.00 || quote.NetAmount != 191.50 {
		t.Fatalf("unexpected pix quote: %+v", quote)
	}

	quote, err = module.Handler.QuoteFeeHandler(ctx, "bank_transfer", "1000")
	if err != nil {
		t.Fatalf("quote bank_transfer: %v", err)
	}
	if quote.MethodFee != 20.00 || quote.NetAmount != 975.00 {
		t.Fatalf("unexpected bank_transfer quote: %+v", quote)
	}
}

func TestQuoteFeeRejectsBadInput(t *testing.T) {
	module := newTestModule(t, nil)
	ctx := context.Background()

	if _, err := module.Handler.QuoteFeeHandler(ctx, "carrier_pigeon", "100"); !errors.Is(err, domainerrors.ErrInvalidMethodOrAmount) {
		t.Fatalf("expected ErrInvalidMethodOrAmount for unknown method, got %v", err)
	}
	if _, err := module.Handler.QuoteFeeHandler(ctx, "pix", "0"); !errors.Is(err, domainerrors.ErrInvalidMethodOrAmount) {
		t.Fatalf("expected ErrInvalidMethodOrAmount for zero amount, got %v", err)
	}
	if _, err := module.Handler.QuoteFeeHandler(ctx, "pix", "abc"); !errors.Is(err, domainerrors.ErrInvalidMethodOrAmount) {
		t.Fatalf("expected ErrInvalidMethodOrAmount for non-numeric amount, got %v", err)
	}
	if _, err := module.Handler.QuoteFeeHandler(ctx, "pagarme_wallet", "100"); !errors.Is(err, domainerrors.ErrInvalidMethodOrAmount) {
		t.Fatalf("expected ErrInvalidMethodOrAmount for id outside the method set, got %v", err)
	}
}

func TestQuoteFeeBelowFeesGoesNegative(t *testing.T) {
	module := newTestModule(t, nil)

	// The quote is a display-only preview: 5.00 - 3.50 - 5.00 stays -3.50
	// instead of being clamped.
	quote, err := module.Handler.QuoteFeeHandler(context.Background(), "pix", "5")
	if err != nil {
		t.Fatalf("quote pix: %v", err)
	}
	if quote.NetAmount != -3.50 {
		t.Fatalf("expected net -3.50, got %v", quote.NetAmount)
	}
}

func TestRequestWithdrawalHappyPathMovesBalance(t *testing.T) {
	module := newTestModule(t, []entities.Balance{{CreatorID: "creator-1", Available: 500}})
	ctx := context.Background()

	resp, err := module.Handler.RequestWithdrawalHandler(ctx, "creator-1", "key-1", transporthttp.RequestWithdrawalRequest{
		MethodID: "pix",
		Amount:   200,
		Details:  map[string]string{"pix_key_type": "email", "pix_key": "creator@example.com"},
	})
	if err != nil {
		t.Fatalf("request withdrawal: %v", err)
	}
	if resp.Replayed {
		t.Fatalf("first request must not be a replay")
	}
	if resp.Withdrawal.Status != "requested" {
		t.Fatalf("expected requested status, got %q", resp.Withdrawal.Status)
	}
	if resp.Withdrawal.NetAmount != 191.50 {
		t.Fatalf("expected net 191.50, got %v", resp.Withdrawal.NetAmount)
	}

	balance, err := module.Handler.GetBalanceHandler(ctx, "creator-1")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance.Available != 300 || balance.Pending != 200 {
		t.Fatalf("expected 300 available / 200 pending, got %+v", balance)
	}
}

func TestRequestWithdrawalIdempotency(t *testing.T) {
	module := newTestModule(t, []entities.Balance{{CreatorID: "creator-1", Available: 500}})
	ctx := context.Background()
	req := transporthttp.RequestWithdrawalRequest{
		MethodID: "pix",
		Amount:   100,
		Details:  map[string]string{"pix_key_type": "phone", "pix_key": "+5511999999999"},
	}

	if _, err := module.Handler.RequestWithdrawalHandler(ctx, "creator-1", "", req); !errors.Is(err, domainerrors.ErrIdempotencyKeyRequired) {
		t.Fatalf("expected ErrIdempotencyKeyRequired, got %v", err)
	}

	first, err := module.Handler.RequestWithdrawalHandler(ctx, "creator-1", "key-1", req)
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	second, err := module.Handler.RequestWithdrawalHandler(ctx, "creator-1", "key-1", req)
	if err != nil {
		t.Fatalf("replay request: %v", err)
	}
	if !second.Replayed {
		t.Fatalf("expected replay on same key and payload")
	}
	if second.Withdrawal.WithdrawalID != first.Withdrawal.WithdrawalID {
		t.Fatalf("replay must return the original withdrawal")
	}

	balance, err := module.Handler.GetBalanceHandler(ctx, "creator-1")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance.Pending != 100 {
		t.Fatalf("replay must not move money again, pending %v", balance.Pending)
	}

	req.Amount = 150
	if _, err := module.Handler.RequestWithdrawalHandler(ctx, "creator-1", "key-1", req); !errors.Is(err, domainerrors.ErrIdempotencyKeyConflict) {
		t.Fatalf("expected ErrIdempotencyKeyConflict on reused key, got %v", err)
	}
}

func TestRequestWithdrawalValidationOrder(t *testing.T) {
	module := newTestModule(t, []entities.Balance{{CreatorID: "creator-1", Available: 10}})
	ctx := context.Background()

	_, err := module.Handler.RequestWithdrawalHandler(ctx, "creator-1", "key-a", transporthttp.RequestWithdrawalRequest{
		MethodID: "pix",
		Amount:   0,
	})
	if !errors.Is(err, domainerrors.ErrInvalidMethodOrAmount) {
		t.Fatalf("amount zero must fail the first rule, got %v", err)
	}

	// 15 is below pix's minimum of 20, but the balance check runs first.
	_, err = module.Handler.RequestWithdrawalHandler(ctx, "creator-1", "key-b", transporthttp.RequestWithdrawalRequest{
		MethodID: "pix",
		Amount:   15,
	})
	if !errors.Is(err, domainerrors.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance before the minimum check, got %v", err)
	}

	rich := newTestModule(t, []entities.Balance{{CreatorID: "creator-2", Available: 50000}})
	_, err = rich.Handler.RequestWithdrawalHandler(ctx, "creator-2", "key-c", transporthttp.RequestWithdrawalRequest{
		MethodID: "pix",
		Amount:   15,
	})
	if !errors.Is(err, domainerrors.ErrBelowMethodMinimum) {
		t.Fatalf("expected ErrBelowMethodMinimum, got %v", err)
	}
	_, err = rich.Handler.RequestWithdrawalHandler(ctx, "creator-2", "key-d", transporthttp.RequestWithdrawalRequest{
		MethodID: "pix",
		Amount:   15000,
	})
	if !errors.Is(err, domainerrors.ErrAboveMethodMaximum) {
		t.Fatalf("expected ErrAboveMethodMaximum, got %v", err)
	}
	_, err = rich.Handler.RequestWithdrawalHandler(ctx, "creator-2", "key-e", transporthttp.RequestWithdrawalRequest{
		MethodID: "pix",
		Amount:   100,
		Details:  map[string]string{"pix_key_type": "email"},
	})
	if !errors.Is(err, domainerrors.ErrMissingMethodFields) {
		t.Fatalf("expected ErrMissingMethodFields, got %v", err)
	}
}

func TestPagarmeBankTransferNeedsNoFields(t *testing.T) {
	module := newTestModule(t, []entities.Balance{{CreatorID: "creator-1", Available: 1000}})
	ctx := context.Background()

	resp, err := module.Handler.RequestWithdrawalHandler(ctx, "creator-1", "key-1", transporthttp.RequestWithdrawalRequest{
		MethodID: "pagarme_bank_transfer",
		Amount:   500,
	})
	if err != nil {
		t.Fatalf("pagarme_bank_transfer without details must succeed: %v", err)
	}
	// 2% of 500 plus the flat platform fee.
	if resp.Withdrawal.NetAmount != 485.00 {
		t.Fatalf("expected net 485.00, got %v", resp.Withdrawal.NetAmount)
	}
}

func TestSettlementSuccessAndFailure(t *testing.T) {
	module := newTestModule(t, []entities.Balance{{CreatorID: "creator-1", Available: 1000}})
	ctx := context.Background()

	first, err := module.Handler.RequestWithdrawalHandler(ctx, "creator-1", "key-1", transporthttp.RequestWithdrawalRequest{
		MethodID: "pagarme_account",
		Amount:   300,
	})
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	second, err := module.Handler.RequestWithdrawalHandler(ctx, "creator-1", "key-2", transporthttp.RequestWithdrawalRequest{
		MethodID: "pagarme_account",
		Amount:   200,
	})
	if err != nil {
		t.Fatalf("second request: %v", err)
	}

	settled, replayed, err := module.Service.ConsumeWithdrawalSettledEvent(ctx, "evt-1", application.WithdrawalSettledEvent{
		WithdrawalID: first.Withdrawal.WithdrawalID,
		Success:      true,
	})
	if err != nil {
		t.Fatalf("settle success: %v", err)
	}
	if replayed || settled.Status != entities.WithdrawalStatusSettled {
		t.Fatalf("expected fresh settled outcome, got replayed=%v status=%s", replayed, settled.Status)
	}

	failed, _, err := module.Service.ConsumeWithdrawalSettledEvent(ctx, "evt-2", application.WithdrawalSettledEvent{
		WithdrawalID: second.Withdrawal.WithdrawalID,
		Success:      false,
		Reason:       "conta bancária inválida",
	})
	if err != nil {
		t.Fatalf("settle failure: %v", err)
	}
	if failed.Status != entities.WithdrawalStatusFailed || failed.FailReason != "conta bancária inválida" {
		t.Fatalf("unexpected failed withdrawal: %+v", failed)
	}

	balance, err := module.Handler.GetBalanceHandler(ctx, "creator-1")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	// 1000 - 300 - 200 requested, then 200 returned by the failure.
	if balance.Available != 700 || balance.Pending != 0 || balance.TotalWithdrawn != 300 {
		t.Fatalf("unexpected balance after settlement: %+v", balance)
	}
}

func TestSettlementEventDedup(t *testing.T) {
	module := newTestModule(t, []entities.Balance{{CreatorID: "creator-1", Available: 1000}})
	ctx := context.Background()

	resp, err := module.Handler.RequestWithdrawalHandler(ctx, "creator-1", "key-1", transporthttp.RequestWithdrawalRequest{
		MethodID: "pagarme_account",
		Amount:   400,
	})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	event := application.WithdrawalSettledEvent{WithdrawalID: resp.Withdrawal.WithdrawalID, Success: true}

	if _, _, err := module.Service.ConsumeWithdrawalSettledEvent(ctx, "evt-1", event); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	_, replayed, err := module.Service.ConsumeWithdrawalSettledEvent(ctx, "evt-1", event)
	if err != nil {
		t.Fatalf("redelivery: %v", err)
	}
	if !replayed {
		t.Fatalf("redelivered event must be deduplicated")
	}

	balance, err := module.Handler.GetBalanceHandler(ctx, "creator-1")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance.TotalWithdrawn != 400 {
		t.Fatalf("redelivery must not double-apply, total withdrawn %v", balance.TotalWithdrawn)
	}
}

func TestEarningsSettledCreatesWallet(t *testing.T) {
	module := newTestModule(t, nil)
	ctx := context.Background()

	replayed, err := module.Service.ConsumeEarningsSettledEvent(ctx, "evt-1", application.EarningsSettledEvent{
		CreatorID: "creator-new",
		Amount:    250.5,
	})
	if err != nil {
		t.Fatalf("consume earnings: %v", err)
	}
	if replayed {
		t.Fatalf("first delivery must not be a replay")
	}

	replayed, err = module.Service.ConsumeEarningsSettledEvent(ctx, "evt-1", application.EarningsSettledEvent{
		CreatorID: "creator-new",
		Amount:    250.5,
	})
	if err != nil {
		t.Fatalf("redelivery: %v", err)
	}
	if !replayed {
		t.Fatalf("redelivered earnings event must be deduplicated")
	}

	balance, err := module.Handler.GetBalanceHandler(ctx, "creator-new")
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance.Available != 250.5 {
		t.Fatalf("expected available 250.5, got %v", balance.Available)
	}
	if balance.TotalEarned != 250.5 {
		t.Fatalf("expected total earned 250.5, got %v", balance.TotalEarned)
	}
}

func TestListWithdrawalsScopedToCreator(t *testing.T) {
	module := newTestModule(t, []entities.Balance{
		{CreatorID: "creator-1", Available: 1000},
		{CreatorID: "creator-2", Available: 1000},
	})
	ctx := context.Background()

	if _, err := module.Handler.RequestWithdrawalHandler(ctx, "creator-1", "key-1", transporthttp.RequestWithdrawalRequest{
		MethodID: "pagarme_account",
		Amount:   100,
	}); err != nil {
		t.Fatalf("creator-1 request: %v", err)
	}
	if _, err := module.Handler.RequestWithdrawalHandler(ctx, "creator-2", "key-2", transporthttp.RequestWithdrawalRequest{
		MethodID: "pagarme_account",
		Amount:   200,
	}); err != nil {
		t.Fatalf("creator-2 request: %v", err)
	}

	list, err := module.Handler.ListWithdrawalsHandler(ctx, "creator-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Total != 1 || list.Withdrawals[0].CreatorID != "creator-1" {
		t.Fatalf("expected only creator-1 withdrawals, got %+v", list)
	}
}

func TestListMethodsIncludesPagarmeRails(t *testing.T) {
	module := newTestModule(t, nil)
	resp := module.Handler.ListMethodsHandler(context.Background())

	byID := make(map[string]bool, len(resp.Methods))
	for _, method := range resp.Methods {
		byID[method.MethodID] = true
		if method.MethodID == "pagarme_bank_transfer" && len(method.Fields) != 0 {
			t.Fatalf("pagarme_bank_transfer must not require extra fields: %+v", method)
		}
	}
	for _, want := range []string{"pix", "bank_transfer", "pagarme_bank_transfer", "pagarme_account"} {
		if !byID[want] {
			t.Fatalf("missing method %q", want)
		}
	}
}

func TestListMethodsCarriesFieldConfig(t *testing.T) {
	module := newTestModule(t, nil)
	resp := module.Handler.ListMethodsHandler(context.Background())

	var pix transporthttp.WithdrawalMethodDTO
	for _, method := range resp.Methods {
		if method.MethodID == "pix" {
			pix = method
		}
	}
	if len(pix.Fields) != 2 {
		t.Fatalf("expected 2 pix fields, got %+v", pix.Fields)
	}
	keyType := pix.Fields[0]
	if keyType.Name != "pix_key_type" || keyType.Type != "select" || !keyType.Required {
		t.Fatalf("unexpected pix_key_type config: %+v", keyType)
	}
	if len(keyType.Options) == 0 {
		t.Fatalf("select field must carry its options: %+v", keyType)
	}
	if keyType.Label == "" || pix.Fields[1].Label == "" {
		t.Fatalf("fields must carry display labels: %+v", pix.Fields)
	}
}

func TestUnknownPagarmeMethodRejected(t *testing.T) {
	module := newTestModule(t, []entities.Balance{{CreatorID: "creator-1", Available: 1000}})

	_, err := module.Handler.RequestWithdrawalHandler(context.Background(), "creator-1", "key-1", transporthttp.RequestWithdrawalRequest{
		MethodID: "pagarme_wallet",
		Amount:   100,
	})
	if !errors.Is(err, domainerrors.ErrInvalidMethodOrAmount) {
		t.Fatalf("expected ErrInvalidMethodOrAmount for id outside the method set, got %v", err)
	}
}
