package story

import "errors"

// Story-related errors
var (
	// Validation errors
	ErrEmptyTitle       = errors.New("story title cannot be empty")
	ErrTitleTooLong     = errors.New("story title cannot exceed 255 characters")
	ErrInvalidProjectID = errors.New("invalid project ID")
	ErrInvalidStoryID   = errors.New("invalid story ID")
	ErrInvalidEstimate  = errors.New("invalid estimate: must be > 0")

	// Business logic errors
	ErrStoryNotFound   = errors.New("story not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrColumnNotFound  = errors.New("column not found")

	// Move rejections. StaleMove means the story is already in the
	// requested column, usually because another client moved it first.
	ErrStaleMove                   = errors.New("story is already in the requested column")
	ErrIllegalTransition           = errors.New("transition is not allowed by the workflow")
	ErrWIPLimitExceeded            = errors.New("destination column is at its WIP limit")
	ErrCompletionRequirementsUnmet = errors.New("story does not meet the completion requirements")
)
