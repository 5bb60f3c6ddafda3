package entities

import (
	"strings"
	"time"
)

// PlatformFeeFixed is the flat platform fee charged on every withdrawal, in
// reais, on top of the method fee.
const PlatformFeeFixed = 5.00

type FeeMode string

const (
	FeeModeFixed   FeeMode = "fixed"
	FeeModePercent FeeMode = "percent"
)

// MethodField is one form field a payout method collects, with enough
// shape for a client to render the input without hard-coding the method.
type MethodField struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

// WithdrawalMethod describes one payout rail: its fee, its amount limits and
// the extra form fields it needs.
type WithdrawalMethod struct {
	MethodID  string        `json:"method_id"`
	Label     string        `json:"label"`
	FeeMode   FeeMode       `json:"fee_mode"`
	FeeValue  float64       `json:"fee_value"`
	MinAmount float64       `json:"min_amount"`
	MaxAmount float64       `json:"max_amount"`
	Fields    []MethodField `json:"fields"`
}

// MethodFee computes the method's own fee for an amount: a flat value for
// fixed-fee methods (pix), a percentage of the amount otherwise.
func (m WithdrawalMethod) MethodFee(amount float64) float64 {
	if m.FeeMode == FeeModeFixed {
		return m.FeeValue
	}
	return amount * m.FeeValue / 100
}

var defaultMethods = []WithdrawalMethod{
	{
		MethodID:  "pix",
		Label:     "Pix",
		FeeMode:   FeeModeFixed,
		FeeValue:  3.50,
		MinAmount: 20,
		MaxAmount: 10000,
		Fields: []MethodField{
			{
				Name:     "pix_key_type",
				Label:    "Tipo da chave",
				Type:     "select",
				Required: true,
				Options:  []string{"cpf", "cnpj", "email", "telefone", "aleatoria"},
			},
			{Name: "pix_key", Label: "Chave Pix", Type: "text", Required: true},
		},
	},
	{
		MethodID:  "bank_transfer",
		Label:     "Transferência bancária",
		FeeMode:   FeeModePercent,
		FeeValue:  2.0,
		MinAmount: 50,
		MaxAmount: 10000,
		Fields: []MethodField{
			{Name: "bank_code", Label: "Código do banco", Type: "text", Required: true},
			{Name: "agency", Label: "Agência", Type: "text", Required: true},
			{Name: "account_number", Label: "Número da conta", Type: "text", Required: true},
			{Name: "account_digit", Label: "Dígito da conta", Type: "text", Required: true},
			{Name: "holder_name", Label: "Nome do titular", Type: "text", Required: true},
			{Name: "holder_document", Label: "CPF/CNPJ do titular", Type: "text", Required: true},
		},
	},
	{
		// The Pagar.me transfer runs against the creator's linked account,
		// so no extra form fields are collected.
		MethodID:  "pagarme_bank_transfer",
		Label:     "Transferência via Pagar.me",
		FeeMode:   FeeModePercent,
		FeeValue:  2.0,
		MinAmount: 50,
		MaxAmount: 20000,
		Fields:    []MethodField{},
	},
	{
		MethodID:  "pagarme_account",
		Label:     "Saldo Pagar.me",
		FeeMode:   FeeModePercent,
		FeeValue:  1.5,
		MinAmount: 20,
		MaxAmount: 20000,
		Fields:    []MethodField{},
	},
}

func SupportedMethods() []WithdrawalMethod {
	out := make([]WithdrawalMethod, len(defaultMethods))
	copy(out, defaultMethods)
	return out
}

// MethodByID resolves a payout method from the closed set above; any other
// id is unsupported.
func MethodByID(methodID string) (WithdrawalMethod, bool) {
	methodID = strings.ToLower(strings.TrimSpace(methodID))
	for _, method := range defaultMethods {
		if method.MethodID == methodID {
			return method, true
		}
	}
	return WithdrawalMethod{}, false
}

// Balance is a creator's earnings wallet. Requested withdrawals move money
// from available to pending; settlement moves pending into total withdrawn
// or back to available on failure.
type Balance struct {
	CreatorID      string    `json:"creator_id"`
	Available      float64   `json:"available"`
	Pending        float64   `json:"pending"`
	TotalEarned    float64   `json:"total_earned"`
	TotalWithdrawn float64   `json:"total_withdrawn"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FeeQuote is the cost preview for a withdrawal amount on a method.
type FeeQuote struct {
	MethodID    string  `json:"method_id"`
	Amount      float64 `json:"amount"`
	MethodFee   float64 `json:"method_fee"`
	PlatformFee float64 `json:"platform_fee"`
	NetAmount   float64 `json:"net_amount"`
}

type WithdrawalStatus string

const (
	WithdrawalStatusRequested WithdrawalStatus = "requested"
	WithdrawalStatusSettled   WithdrawalStatus = "settled"
	WithdrawalStatusFailed    WithdrawalStatus = "failed"
)

type Withdrawal struct {
	WithdrawalID string            `json:"withdrawal_id"`
	CreatorID    string            `json:"creator_id"`
	MethodID     string            `json:"method_id"`
	Amount       float64           `json:"amount"`
	MethodFee    float64           `json:"method_fee"`
	PlatformFee  float64           `json:"platform_fee"`
	NetAmount    float64           `json:"net_amount"`
	Details      map[string]string `json:"details,omitempty"`
	Status       WithdrawalStatus  `json:"status"`
	FailReason   string            `json:"fail_reason,omitempty"`
	RequestedAt  time.Time         `json:"requested_at"`
	SettledAt    *time.Time        `json:"settled_at,omitempty"`
}
