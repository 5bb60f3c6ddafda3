package httptransport

type AuthenticateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthenticateResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

type LinkAccountRequest struct {
	BankCode       string `json:"bank_code"`
	Agency         string `json:"agency"`
	AccountNumber  string `json:"account_number"`
	AccountDigit   string `json:"account_digit"`
	HolderName     string `json:"holder_name"`
	HolderDocument string `json:"holder_document"`
}

type AccountInfoResponse struct {
	AccountID      string `json:"account_id"`
	Status         string `json:"status"`
	BankCode       string `json:"bank_code,omitempty"`
	Agency         string `json:"agency,omitempty"`
	AccountNumber  string `json:"account_number,omitempty"`
	HolderName     string `json:"holder_name,omitempty"`
	HolderDocument string `json:"holder_document,omitempty"`
	Linked         bool   `json:"linked"`
}

// ErrorResponse carries the classified processor error. RetryAfterSeconds is
// only set on rate-limit errors.
type ErrorResponse struct {
	Code              string `json:"code"`
	Message           string `json:"message"`
	RetryAfterSeconds int    `json:"retry_after_seconds,omitempty"`
}
