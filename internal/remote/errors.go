package remote

import (
	"errors"
	"fmt"
)

// ErrDaemonUnavailable wraps connection failures so callers can tell a
// dead daemon apart from a rejected request
var ErrDaemonUnavailable = errors.New("daemon is not reachable")

// Rejection codes the daemon returns for refused moves
const (
	CodeStaleMove                   = "stale_move"
	CodeIllegalTransition           = "illegal_transition"
	CodeWIPLimitExceeded            = "wip_limit_exceeded"
	CodeCompletionRequirementsUnmet = "completion_requirements_unmet"
	CodeStoryNotFound               = "story_not_found"
)

// APIError is a structured error response from the daemon
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("daemon returned %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// IsRejection reports whether err is the daemon refusing a request, as
// opposed to a transport or server failure
func IsRejection(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500
}
