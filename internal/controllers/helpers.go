package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/gramsetu/employment-service/internal/utils"
)

const dateLayout = "2006-01-02"

// respondServiceError translates a service-layer failure into the
// uniform error envelope. Sentinel errors map to their HTTP status;
// anything unrecognized is a 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var assignErr *utils.ActiveAssignmentError
	if errors.As(err, &assignErr) {
		utils.RespondErrorWithCode(
			w, http.StatusConflict, utils.ErrCodeConflict,
			"Worker already holds an active assignment",
			map[string]any{"project_end_date": assignErr.ProjectEndDate.Format(dateLayout)},
		)
		return
	}

	switch {
	case errors.Is(err, utils.ErrNotFound):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Resource not found", nil)
	case errors.Is(err, utils.ErrDuplicatePending):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeDuplicatePending, "A pending application already exists for this national ID", nil)
	case errors.Is(err, utils.ErrInvalidState):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidState, "Operation not allowed from the current state", nil)
	case errors.Is(err, utils.ErrConflict):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeConflict, "Conflicting record already exists", nil)
	case errors.Is(err, utils.ErrForbidden):
		utils.RespondErrorWithCode(w, http.StatusForbidden, utils.ErrCodeForbidden, "Not permitted", nil)
	case errors.Is(err, utils.ErrRateLimited):
		utils.RespondErrorWithCode(w, http.StatusTooManyRequests, utils.ErrCodeRateLimitExceeded, "Too many attempts; try again later", nil)
	case errors.Is(err, utils.ErrFutureDate):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeFutureDate, "Date may not be in the future", nil)
	case errors.Is(err, utils.ErrDuplicateForDate):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeDuplicateForDate, "Attendance already marked for this date", nil)
	case errors.Is(err, utils.ErrInvalidOrExpiredOTP):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidOTP, "Invalid or expired code", nil)
	case errors.Is(err, utils.ErrOTPNotVerified):
		utils.RespondErrorWithCode(w, http.StatusForbidden, utils.ErrCodeOTPNotVerified, "Email has not been verified", nil)
	case errors.Is(err, utils.ErrInvalidCredentials):
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeInvalidCredentials, "Invalid email or password", nil)
	case errors.Is(err, utils.ErrInvalidNationalID),
		errors.Is(err, utils.ErrInvalidPhone),
		errors.Is(err, utils.ErrInvalidEmail):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, err.Error(), nil)
	case errors.Is(err, utils.ErrNationalIDExists),
		errors.Is(err, utils.ErrEmailExists),
		errors.Is(err, utils.ErrPhoneExists),
		errors.Is(err, utils.ErrGovernmentIDExists):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeConflict, err.Error(), nil)
	default:
		utils.HandleAppError(w, err)
	}
}

// pathUUID extracts and parses a UUID path variable.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)[name])
}

// parsePagination reads limit/offset query params with sane defaults.
func parsePagination(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

// parseDateRange reads optional from/to query params as YYYY-MM-DD.
func parseDateRange(r *http.Request) (from, to *time.Time, err error) {
	if v := r.URL.Query().Get("from"); v != "" {
		t, pErr := time.Parse(dateLayout, v)
		if pErr != nil {
			return nil, nil, pErr
		}
		from = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, pErr := time.Parse(dateLayout, v)
		if pErr != nil {
			return nil, nil, pErr
		}
		to = &t
	}
	return from, to, nil
}

// contextUserID pulls the authenticated subject out of the request
// context, set by the auth middleware.
func contextUserID(r *http.Request, key any) (uuid.UUID, bool) {
	raw, _ := r.Context().Value(key).(string)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
