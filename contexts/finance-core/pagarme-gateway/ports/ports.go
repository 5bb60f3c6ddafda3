package ports

import (
	"context"
	"net/http"
)

// TokenStore holds the bearer token and related auth state used on processor
// calls. A 401 from the processor clears the whole auth state.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	ClearAuth(ctx context.Context) error
}

// Doer is the outbound HTTP transport, satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}
