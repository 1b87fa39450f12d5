package domain

import "errors"

var (
	// ErrNotFound is returned when a requested record doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is returned when the requested action has no edge
	// from the entity's current status.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrPermissionDenied is returned when the actor lacks the right for an operation.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrValidationFailed is returned when a submit is attempted on an invalid plan.
	ErrValidationFailed = errors.New("validation failed")

	// ErrCommentRequired is returned when a transition needs a comment and none was given.
	ErrCommentRequired = errors.New("comment required")

	// ErrLinesFrozen is returned when a line mutation targets a locked or completed entity.
	ErrLinesFrozen = errors.New("line items are frozen")

	// ErrConcurrentModify is returned when optimistic locking fails.
	ErrConcurrentModify = errors.New("concurrent modification")

	// ErrInvalidArgument is returned when an argument is invalid.
	ErrInvalidArgument = errors.New("invalid argument")
)
