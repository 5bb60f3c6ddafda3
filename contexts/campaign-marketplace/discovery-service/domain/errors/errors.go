package errors

import "errors"

var (
	ErrInvalidQuery          = errors.New("invalid discovery query")
	ErrCampaignNotFound      = errors.New("campaign not found")
	ErrDependencyUnavailable = errors.New("discovery dependency unavailable")
)
