package errs

import "errors"

// Domain-specific sentinel errors for the sync pipeline
var (
	// Calendly API errors
	ErrCalendlyTransport  = errors.New("calendly transport error")
	ErrCalendlyUnexpected = errors.New("unexpected calendly response")
	ErrCurrentUserResolve = errors.New("failed to resolve current user")

	// Matching errors
	ErrLeadMatchFailed = errors.New("all match strategies failed")

	// Persistence errors
	ErrLeadUpdateFailed   = errors.New("lead update failed")
	ErrRecordUpsertFailed = errors.New("booking record upsert failed")
)
