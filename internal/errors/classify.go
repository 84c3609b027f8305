package errors

import (
	"context"
	"errors"
)

// ErrorSeverity indicates the severity of an error for UI presentation.
type ErrorSeverity int

const (
	SeverityInfo    ErrorSeverity = iota // User should know, not blocking
	SeverityWarning                      // Degraded functionality
	SeverityError                        // Operation failed, can retry
	SeverityFatal                        // Application must exit
)

// ErrorAction represents a user action that can be taken in response to an error.
type ErrorAction struct {
	Label   string
	Handler func()
}

// UIError wraps an error with UI-friendly presentation metadata.
type UIError struct {
	Err      error
	Severity ErrorSeverity
	Title    string        // Short user-facing title
	Message  string        // Detailed user-facing message
	Recovery []string      // Suggested actions (bullet points)
	Actions  []ErrorAction // Buttons for user actions
	Details  string        // Technical details (collapsed by default)
}

func (e UIError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Title
}

// Unwrap returns the underlying error.
func (e UIError) Unwrap() error {
	return e.Err
}

// ClassifyError converts a standard error into a UIError with appropriate
// severity, title, message, and recovery suggestions.
func ClassifyError(err error) *UIError {
	if err == nil {
		return nil
	}

	// Check if already a UIError
	var uiErr *UIError
	if errors.As(err, &uiErr) {
		return uiErr
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrTimeout):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Generation Timeout",
			Message:  "The Cue backend took too long to respond.",
			Recovery: []string{"Try again", "Increase the timeout setting"},
			Actions:  []ErrorAction{{Label: "Retry"}, {Label: "Settings"}},
		}

	case errors.Is(err, context.Canceled), errors.Is(err, ErrUserCancelled):
		return &UIError{
			Err:      err,
			Severity: SeverityInfo,
			Title:    "Cancelled",
			Message:  "The operation was cancelled.",
			Recovery: []string{},
		}

	case errors.Is(err, ErrBackendUnavailable):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Backend Unavailable",
			Message:  "Unable to reach the Cue backend.",
			Recovery: []string{
				"Check your network connection",
				"Verify the backend address",
				"Try again in a moment",
			},
			Actions: []ErrorAction{{Label: "Retry"}},
		}

	case errors.Is(err, ErrGenerationFailed):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Generation Failed",
			Message:  "The backend could not build a workflow from your description.",
			Recovery: []string{
				"Rephrase the description",
				"Mention the services involved (e.g. Stripe, SendGrid)",
			},
			Actions: []ErrorAction{{Label: "Retry"}},
			Details: err.Error(),
		}

	case errors.Is(err, ErrSnapshotNotFound):
		return &UIError{
			Err:      err,
			Severity: SeverityInfo,
			Title:    "No Saved Workspace",
			Message:  "There is no saved workspace for this account yet.",
			Recovery: []string{},
		}
	}

	// Validation errors
	var validationErr ValidationError
	if errors.As(err, &validationErr) {
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Validation Error",
			Message:  validationErr.Message,
			Recovery: []string{"Correct the field value and try again"},
			Details:  validationErr.Error(),
		}
	}

	// Default fallback for unknown errors
	return &UIError{
		Err:      err,
		Severity: SeverityError,
		Title:    "Unexpected Error",
		Message:  "An unexpected error occurred.",
		Recovery: []string{"Try again"},
		Details:  err.Error(),
	}
}
