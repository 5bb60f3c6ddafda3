package httptransport

// MethodFieldDTO is one input the withdrawal form renders for a method.
type MethodFieldDTO struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

// WithdrawalMethodDTO describes one payout method for the withdrawal form.
type WithdrawalMethodDTO struct {
	MethodID  string           `json:"method_id"`
	Label     string           `json:"label"`
	FeeMode   string           `json:"fee_mode"`
	FeeValue  float64          `json:"fee_value"`
	MinAmount float64          `json:"min_amount"`
	MaxAmount float64          `json:"max_amount"`
	Fields    []MethodFieldDTO `json:"fields"`
}

type ListMethodsResponse struct {
	Methods []WithdrawalMethodDTO `json:"methods"`
}

type FeeQuoteResponse struct {
	MethodID    string  `json:"method_id"`
	Amount      float64 `json:"amount"`
	MethodFee   float64 `json:"method_fee"`
	PlatformFee float64 `json:"platform_fee"`
	NetAmount   float64 `json:"net_amount"`
}

type BalanceResponse struct {
	CreatorID      string  `json:"creator_id"`
	Available      float64 `json:"available"`
	Pending        float64 `json:"pending"`
	TotalEarned    float64 `json:"total_earned"`
	TotalWithdrawn float64 `json:"total_withdrawn"`
	UpdatedAt      string  `json:"updated_at"`
}

type RequestWithdrawalRequest struct {
	MethodID string            `json:"method_id"`
	Amount   float64           `json:"amount"`
	Details  map[string]string `json:"details"`
}

type WithdrawalDTO struct {
	WithdrawalID string            `json:"withdrawal_id"`
	CreatorID    string            `json:"creator_id"`
	MethodID     string            `json:"method_id"`
	Amount       float64           `json:"amount"`
	MethodFee    float64           `json:"method_fee"`
	PlatformFee  float64           `json:"platform_fee"`
	NetAmount    float64           `json:"net_amount"`
	Details      map[string]string `json:"details,omitempty"`
	Status       string            `json:"status"`
	FailReason   string            `json:"fail_reason,omitempty"`
	RequestedAt  string            `json:"requested_at"`
	SettledAt    string            `json:"settled_at,omitempty"`
}

type RequestWithdrawalResponse struct {
	Withdrawal WithdrawalDTO `json:"withdrawal"`
	Replayed   bool          `json:"replayed"`
}

type ListWithdrawalsResponse struct {
	Withdrawals []WithdrawalDTO `json:"withdrawals"`
	Total       int             `json:"total"`
}
