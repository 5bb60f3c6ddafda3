package application

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	domainerrors "vitrine/contexts/finance-core/pagarme-gateway/domain/errors"
	"vitrine/contexts/finance-core/pagarme-gateway/ports"
)

const maxErrorBodyBytes = 64 * 1024

// Service is the outbound client for the payment processor. It never
// retries; callers decide what a classified failure means for them.
type Service struct {
	BaseURL string
	HTTP    ports.Doer
	Tokens  ports.TokenStore
	Logger  *slog.Logger
}

type AuthenticateInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResult struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// Authenticate exchanges credentials for a processor bearer token and saves
// it in the token store.
func (s Service) Authenticate(ctx context.Context, input AuthenticateInput) (AuthResult, error) {
	var result AuthResult
	if err := s.call(ctx, http.MethodPost, "/core/v1/authenticate", input, &result, false); err != nil {
		return AuthResult{}, err
	}
	if strings.TrimSpace(result.Token) != "" {
		if err := s.Tokens.SaveToken(ctx, result.Token); err != nil {
			return AuthResult{}, err
		}
	}
	resolveLogger(s.Logger).Info("processor authenticated",
		"event", "pagarme_authenticated",
		"module", "finance-core/pagarme-gateway",
		"layer", "application",
	)
	return result, nil
}

type LinkAccountInput struct {
	BankCode       string `json:"bank_code"`
	Agency         string `json:"agency"`
	AccountNumber  string `json:"account_number"`
	AccountDigit   string `json:"account_digit"`
	HolderName     string `json:"holder_name"`
	HolderDocument string `json:"holder_document"`
}

type AccountInfo struct {
	AccountID      string `json:"account_id"`
	Status         string `json:"status"`
	BankCode       string `json:"bank_code,omitempty"`
	Agency         string `json:"agency,omitempty"`
	AccountNumber  string `json:"account_number,omitempty"`
	HolderName     string `json:"holder_name,omitempty"`
	HolderDocument string `json:"holder_document,omitempty"`
	Linked         bool   `json:"linked"`
}

func (s Service) LinkAccount(ctx context.Context, input LinkAccountInput) (AccountInfo, error) {
	var info AccountInfo
	if err := s.call(ctx, http.MethodPost, "/core/v1/recipients/link", input, &info, true); err != nil {
		return AccountInfo{}, err
	}
	resolveLogger(s.Logger).Info("processor account linked",
		"event", "pagarme_account_linked",
		"module", "finance-core/pagarme-gateway",
		"layer", "application",
		"account_id", info.AccountID,
	)
	return info, nil
}

func (s Service) UnlinkAccount(ctx context.Context) error {
	if err := s.call(ctx, http.MethodPost, "/core/v1/recipients/unlink", struct{}{}, nil, true); err != nil {
		return err
	}
	resolveLogger(s.Logger).Info("processor account unlinked",
		"event", "pagarme_account_unlinked",
		"module", "finance-core/pagarme-gateway",
		"layer", "application",
	)
	return nil
}

func (s Service) GetAccountInfo(ctx context.Context) (AccountInfo, error) {
	var info AccountInfo
	if err := s.call(ctx, http.MethodGet, "/core/v1/recipients/me", nil, &info, true); err != nil {
		return AccountInfo{}, err
	}
	return info, nil
}

func (s Service) call(
	ctx context.Context,
	method string,
	path string,
	payload any,
	out any,
	authenticated bool,
) error {
	var body io.Reader
	if payload != nil && method != http.MethodGet {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(s.BaseURL, "/")+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		token, err := s.Tokens.Token(ctx)
		if err != nil {
			return err
		}
		if strings.TrimSpace(token) != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := s.httpClient().Do(req)
	if err != nil {
		resolveLogger(s.Logger).Error("processor call failed",
			"event", "pagarme_network_error",
			"module", "finance-core/pagarme-gateway",
			"layer", "application",
			"path", path,
			"error", err.Error(),
		)
		return &domainerrors.GatewayError{
			Code:    domainerrors.CodeNetworkError,
			Message: "falha de conexão com o processador de pagamentos, tente novamente",
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Stale or revoked token: drop the whole auth state so the caller
		// re-authenticates. No redirect handling here.
		if clearErr := s.Tokens.ClearAuth(ctx); clearErr != nil {
			resolveLogger(s.Logger).Error("auth state clear failed",
				"event", "pagarme_auth_clear_failed",
				"module", "finance-core/pagarme-gateway",
				"layer", "application",
				"error", clearErr.Error(),
			)
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyResponse(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domainerrors.GatewayError{
			Code:       domainerrors.CodeUnknownError,
			Message:    "resposta inesperada do processador de pagamentos",
			StatusCode: resp.StatusCode,
		}
	}
	return nil
}

func (s Service) httpClient() ports.Doer {
	if s.HTTP != nil {
		return s.HTTP
	}
	return http.DefaultClient
}

type processorErrorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// classifyResponse folds a non-2xx processor response into a coarse code
// with a user-facing Portuguese message. 422 surfaces the first field error;
// 429 carries the Retry-After hint.
func classifyResponse(resp *http.Response) *domainerrors.GatewayError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	var parsed processorErrorBody
	_ = json.Unmarshal(raw, &parsed)

	gatewayErr := &domainerrors.GatewayError{StatusCode: resp.StatusCode}
	switch resp.StatusCode {
	case http.StatusBadRequest:
		gatewayErr.Code = domainerrors.CodeBadRequest
		gatewayErr.Message = "requisição inválida para o processador de pagamentos"
	case http.StatusUnauthorized:
		gatewayErr.Code = domainerrors.CodeUnauthorized
		gatewayErr.Message = "sessão expirada, autentique-se novamente"
	case http.StatusForbidden:
		gatewayErr.Code = domainerrors.CodeForbidden
		gatewayErr.Message = "você não tem permissão para esta operação"
	case http.StatusNotFound:
		gatewayErr.Code = domainerrors.CodeNotFound
		gatewayErr.Message = "recurso não encontrado no processador de pagamentos"
	case http.StatusUnprocessableEntity:
		gatewayErr.Code = domainerrors.CodeValidationError
		gatewayErr.Message = firstFieldError(parsed.Errors)
		if gatewayErr.Message == "" {
			gatewayErr.Message = "dados inválidos para o processador de pagamentos"
		}
	case http.StatusTooManyRequests:
		gatewayErr.Code = domainerrors.CodeRateLimited
		gatewayErr.Message = "muitas requisições, aguarde um momento e tente novamente"
		if seconds, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get("Retry-After"))); err == nil && seconds > 0 {
			gatewayErr.RetryAfterSeconds = seconds
		}
	default:
		if resp.StatusCode >= 500 {
			gatewayErr.Code = domainerrors.CodeServerError
			gatewayErr.Message = "o processador de pagamentos está indisponível no momento"
		} else {
			gatewayErr.Code = domainerrors.CodeUnknownError
			gatewayErr.Message = "erro inesperado no processador de pagamentos"
		}
	}
	if gatewayErr.Code != domainerrors.CodeValidationError && strings.TrimSpace(parsed.Message) != "" {
		gatewayErr.Message = parsed.Message
	}
	return gatewayErr
}

func firstFieldError(fields map[string][]string) string {
	first := ""
	firstKey := ""
	for key, messages := range fields {
		if len(messages) == 0 {
			continue
		}
		if firstKey == "" || key < firstKey {
			firstKey = key
			first = messages[0]
		}
	}
	return first
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
