package errors

import "errors"

// User-facing withdrawal errors carry Portuguese messages because the
// client surfaces them verbatim.
var (
	ErrInvalidMethodOrAmount  = errors.New("informe um método de saque válido e um valor maior que zero")
	ErrInsufficientBalance    = errors.New("saldo disponível insuficiente")
	ErrBelowMethodMinimum     = errors.New("valor abaixo do mínimo para este método")
	ErrAboveMethodMaximum     = errors.New("valor acima do máximo para este método")
	ErrMissingMethodFields    = errors.New("preencha todos os dados do método de saque")
	ErrWithdrawalNotFound     = errors.New("saque não encontrado")
	ErrBalanceNotFound        = errors.New("saldo não encontrado")
	ErrIdempotencyKeyRequired = errors.New("chave de idempotência obrigatória")
	ErrIdempotencyKeyConflict = errors.New("chave de idempotência reutilizada com dados diferentes")
)
