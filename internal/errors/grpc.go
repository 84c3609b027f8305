package errors

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ClassifyGRPCError converts a gRPC error from the Cue backend into a
// UIError with user-friendly messages and recovery suggestions.
func ClassifyGRPCError(err error) *UIError {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		// Not a gRPC error, fall back to standard classification
		return ClassifyError(err)
	}

	details := fmt.Sprintf("gRPC: %s - %s", st.Code(), st.Message())

	switch st.Code() {
	case codes.Unavailable:
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Cannot Reach Backend",
			Message:  "The Cue backend is not responding.",
			Recovery: []string{
				"Check your network connection",
				"Verify the backend address",
			},
			Actions: []ErrorAction{{Label: "Retry"}},
			Details: details,
		}

	case codes.DeadlineExceeded:
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Request Timeout",
			Message:  "The backend took too long to respond.",
			Recovery: []string{"Try again", "Increase timeout setting"},
			Actions:  []ErrorAction{{Label: "Retry"}, {Label: "Settings"}},
			Details:  details,
		}

	case codes.InvalidArgument:
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Invalid Description",
			Message:  "The backend rejected the workflow description.",
			Recovery: []string{"Rephrase the description", "See details for specifics"},
			Details:  st.Message(),
		}

	case codes.Unauthenticated:
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Sign-In Required",
			Message:  "Your session has expired or is missing.",
			Recovery: []string{"Sign in again"},
			Details:  details,
		}

	case codes.ResourceExhausted:
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Rate Limited",
			Message:  "Too many generation requests. Wait a moment before retrying.",
			Recovery: []string{"Try again later"},
			Actions:  []ErrorAction{{Label: "Retry"}},
			Details:  details,
		}

	case codes.Unimplemented:
		return &UIError{
			Err:      err,
			Severity: SeverityWarning,
			Title:    "Service Not Available",
			Message:  "The backend does not expose this service.",
			Recovery: []string{"Verify the backend version"},
			Details:  details,
		}

	case codes.Internal:
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Backend Error",
			Message:  "The backend encountered an unexpected error.",
			Recovery: []string{"Try again later"},
			Actions:  []ErrorAction{{Label: "Retry"}},
			Details:  details,
		}

	case codes.Canceled:
		return &UIError{
			Err:      err,
			Severity: SeverityInfo,
			Title:    "Request Cancelled",
			Message:  "The operation was cancelled.",
			Recovery: []string{},
			Details:  details,
		}

	default:
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Request Failed",
			Message:  st.Message(),
			Recovery: []string{"Try again"},
			Details:  details,
		}
	}
}
