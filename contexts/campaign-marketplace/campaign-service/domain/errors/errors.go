package errors

import "errors"

var (
	ErrCampaignNotFound       = errors.New("campaign not found")
	ErrInvalidCampaignInput   = errors.New("invalid campaign input")
	ErrInvalidStateTransition = errors.New("invalid campaign state transition")
	ErrNotCampaignOwner       = errors.New("actor does not own this campaign")
	ErrAdminRequired          = errors.New("action requires an admin actor")
	ErrInvalidDeadline        = errors.New("new deadline must be later than the current one")
	ErrCampaignNotDeletable   = errors.New("approved campaigns must be cancelled before deletion")
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	ErrIdempotencyKeyConflict = errors.New("idempotency key conflict")
)
