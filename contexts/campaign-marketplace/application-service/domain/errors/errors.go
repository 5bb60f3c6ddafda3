package errors

import "errors"

var (
	ErrApplicationNotFound     = errors.New("application not found")
	ErrCampaignNotFound        = errors.New("campaign not found")
	ErrInvalidApplicationInput = errors.New("invalid application input")
	ErrDuplicateApplication    = errors.New("creator already has an application for this campaign")
	ErrNotApplicationOwner     = errors.New("actor does not own this application")
	ErrNotCampaignOwner        = errors.New("actor does not own the campaign")
	ErrCampaignNotOpen         = errors.New("campaign is not open for applications")
	ErrInvalidStateTransition  = errors.New("invalid application state transition")
	ErrIdempotencyKeyRequired  = errors.New("idempotency key required")
	ErrIdempotencyKeyConflict  = errors.New("idempotency key reused with different payload")
)
