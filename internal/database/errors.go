package database

import "errors"

// Sentinel errors returned by the move path. The service layer maps these
// onto its own error vocabulary.
var (
	// ErrStoryMoved means the story's status no longer matches what the
	// caller validated against.
	ErrStoryMoved = errors.New("story status changed")
	// ErrColumnOverLimit means the destination column has no WIP headroom.
	ErrColumnOverLimit = errors.New("column at WIP limit")
)
