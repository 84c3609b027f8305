package errors

import "errors"

// Sentinel errors for common failure modes.
var (
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrGenerationFailed   = errors.New("workflow generation failed")
	ErrSnapshotNotFound   = errors.New("snapshot not found")
	ErrUserCancelled      = errors.New("user cancelled operation")
	ErrTimeout            = errors.New("operation timed out")
)

// ValidationError represents a credential field validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}
