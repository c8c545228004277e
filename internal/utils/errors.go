package utils

import (
	"errors"
	"net/http"
	"time"
)

// Domain-level errors used by the service layer to provide
// fine-grained failure reasons. Controllers match with errors.Is
// and translate to the JSON envelope.
var (
	ErrNotFound         = errors.New("not_found")
	ErrInvalidState     = errors.New("invalid_state")
	ErrConflict         = errors.New("conflict")
	ErrDuplicatePending = errors.New("duplicate_pending_application")
	ErrForbidden        = errors.New("forbidden")
	ErrRateLimited      = errors.New("rate_limit_exceeded")

	ErrInvalidNationalID = errors.New("invalid_national_id")
	ErrInvalidPhone      = errors.New("invalid_phone")
	ErrInvalidEmail      = errors.New("invalid_email")

	ErrNationalIDExists   = errors.New("national_id_exists")
	ErrEmailExists        = errors.New("email_exists")
	ErrPhoneExists        = errors.New("phone_exists")
	ErrGovernmentIDExists = errors.New("government_id_exists")

	ErrFutureDate       = errors.New("attendance_future_date")
	ErrDuplicateForDate = errors.New("attendance_duplicate_for_date")

	ErrInvalidOrExpiredOTP = errors.New("invalid_or_expired_otp")
	ErrOTPNotVerified      = errors.New("otp_not_verified")

	ErrInvalidCredentials = errors.New("invalid_credentials")

	// Returned by repositories when a compare-and-set update matched
	// no rows (someone else won the transition race).
	ErrNoRowsUpdated = errors.New("no_rows_updated")

	// External delivery/provider failures (SendGrid, Twilio).
	ErrExternalServiceFailure = errors.New("external_service_failure")
)

// ActiveAssignmentError is returned when a worker already holds an
// approved assignment on an unfinished project. It carries the blocking
// project's end date so the caller can surface it to the user.
type ActiveAssignmentError struct {
	ProjectEndDate time.Time
}

func (e *ActiveAssignmentError) Error() string {
	return "worker_already_assigned"
}

func (e *ActiveAssignmentError) Unwrap() error {
	return ErrConflict
}

// AppError carries a ready-to-render failure from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, nil, appErr.Err)
	} else {
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}
