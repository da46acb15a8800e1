package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidTransition is returned when Resume is called on a session that
// is not paused at the interrupt point (still running, or already terminal).
var ErrInvalidTransition = errors.New("invalid state transition")

// ErrFeedbackRequired is returned when Resume is called without feedback.
// The session stays paused; the interrupt point never auto-routes.
var ErrFeedbackRequired = errors.New("feedback required to resume")

// ErrRevisionsExhausted is returned when the configured revision cap is hit.
var ErrRevisionsExhausted = errors.New("maximum revisions exceeded")

// ErrProfileExtraction is returned when the model cannot produce a valid
// profile from the user's free text. There is no safe default, so the run halts.
var ErrProfileExtraction = errors.New("profile extraction failed")

// ErrSchemaValidation is returned when a structured completion does not
// match the expected shape even after a corrective retry.
var ErrSchemaValidation = errors.New("schema validation failed")

// ErrSearchProvider is returned by search adapters on network or provider
// failure. Resource processing absorbs it and degrades to an empty list.
var ErrSearchProvider = errors.New("search provider failure")

// ErrPersistence is returned when the plan artifact cannot be written.
var ErrPersistence = errors.New("failed to persist plan")
