package policy

import "errors"

// Policy-related errors
var (
	// ErrUnknownStatus indicates the policy has no column for the status.
	ErrUnknownStatus = errors.New("policy has no column for status")

	// ErrLimitOutOfBounds indicates a WIP limit outside the allowed range.
	ErrLimitOutOfBounds = errors.New("WIP limit out of bounds")

	// ErrDuplicateColumn indicates a policy file declared two columns for
	// the same status.
	ErrDuplicateColumn = errors.New("duplicate column for status")

	// ErrNoColumns indicates a policy file declared no columns at all.
	ErrNoColumns = errors.New("policy declares no columns")
)
