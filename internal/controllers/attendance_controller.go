package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gramsetu/employment-service/internal/dtos"
	"github.com/gramsetu/employment-service/internal/middleware"
	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/services"
	"github.com/gramsetu/employment-service/internal/utils"
)

var attendanceValidate = validator.New()

type AttendanceController struct {
	attendanceService services.AttendanceService
}

func NewAttendanceController(as services.AttendanceService) *AttendanceController {
	return &AttendanceController{attendanceService: as}
}

// ----------------------------------------------------------------
// POST /api/v1/attendance
// ----------------------------------------------------------------
func (c *AttendanceController) MarkHandler(w http.ResponseWriter, r *http.Request) {
	markedBy, ok := contextUserID(r, middleware.ContextKeyUserID)
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No userID in context", nil,
		)
		return
	}

	var body dtos.MarkAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid attendance payload", nil, err,
		)
		return
	}
	if err := attendanceValidate.Struct(body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Attendance failed validation", err.Error(),
		)
		return
	}

	date, err := time.Parse(dateLayout, body.Date)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Date must be YYYY-MM-DD", nil, err,
		)
		return
	}

	rec, svcErr := c.attendanceService.Mark(r.Context(), services.MarkAttendanceInput{
		WorkerID:  body.WorkerID,
		ProjectID: body.ProjectID,
		Date:      date,
		Status:    models.AttendanceStatusType(body.Status),
		MarkedBy:  markedBy,
	})
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, rec)
}

// ----------------------------------------------------------------
// PATCH /api/v1/attendance/{id}
// ----------------------------------------------------------------
func (c *AttendanceController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid attendance ID", nil, err,
		)
		return
	}

	var body dtos.UpdateAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid attendance payload", nil, err,
		)
		return
	}
	if err := attendanceValidate.Struct(body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Attendance failed validation", err.Error(),
		)
		return
	}

	rec, svcErr := c.attendanceService.UpdateStatus(r.Context(), id, models.AttendanceStatusType(body.Status))
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rec)
}

// ----------------------------------------------------------------
// DELETE /api/v1/attendance/{id}   (admin)
// ----------------------------------------------------------------
func (c *AttendanceController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid attendance ID", nil, err,
		)
		return
	}

	if svcErr := c.attendanceService.Delete(r.Context(), id); svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ----------------------------------------------------------------
// GET /api/v1/attendance/project/{id}
// ----------------------------------------------------------------
func (c *AttendanceController) ListByProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid project ID", nil, err,
		)
		return
	}

	from, to, err := parseDateRange(r)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Dates must be YYYY-MM-DD", nil, err,
		)
		return
	}
	limit, offset := parsePagination(r)

	records, svcErr := c.attendanceService.ListByProject(r.Context(), id, from, to, limit, offset)
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, records)
}

// ----------------------------------------------------------------
// GET /api/v1/attendance/worker/{id}
// ----------------------------------------------------------------
func (c *AttendanceController) ListByWorkerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid worker ID", nil, err,
		)
		return
	}

	from, to, err := parseDateRange(r)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Dates must be YYYY-MM-DD", nil, err,
		)
		return
	}
	limit, offset := parsePagination(r)

	records, svcErr := c.attendanceService.ListByWorker(r.Context(), id, from, to, limit, offset)
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, records)
}
