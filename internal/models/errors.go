package models

import "errors"

// Domain-specific errors shared across board operations
var (
	// ErrStoryNotFound indicates the referenced story does not exist.
	ErrStoryNotFound = errors.New("story not found")

	// ErrColumnNotFound indicates the board has no column for the status.
	ErrColumnNotFound = errors.New("column not found")

	// ErrStoryNotInColumn indicates the story was not in the column it was
	// expected to be in. This guards against double-move races.
	ErrStoryNotInColumn = errors.New("story not found in expected column")

	// ErrInvalidStatus indicates an unknown workflow status.
	ErrInvalidStatus = errors.New("invalid status")
)
