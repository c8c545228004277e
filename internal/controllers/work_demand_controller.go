package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/gramsetu/employment-service/internal/dtos"
	"github.com/gramsetu/employment-service/internal/middleware"
	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/services"
	"github.com/gramsetu/employment-service/internal/utils"
)

var workDemandValidate = validator.New()

type WorkDemandController struct {
	workDemandService services.WorkDemandService
}

func NewWorkDemandController(wds services.WorkDemandService) *WorkDemandController {
	return &WorkDemandController{workDemandService: wds}
}

// ----------------------------------------------------------------
// POST /api/v1/work-demands
// The worker ID comes from the authenticated subject, not the body.
// ----------------------------------------------------------------
func (c *WorkDemandController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	workerID, ok := contextUserID(r, middleware.ContextKeyUserID)
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No userID in context", nil,
		)
		return
	}

	req, err := c.workDemandService.Create(r.Context(), workerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, req)
}

// ----------------------------------------------------------------
// POST /api/v1/work-demands/{id}/approve   (admin)
// ----------------------------------------------------------------
func (c *WorkDemandController) ApproveHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request ID", nil, err,
		)
		return
	}

	var body dtos.ApproveWorkDemandRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	req, svcErr := c.workDemandService.Approve(r.Context(), id, body.ProjectID, body.AllocatedAt)
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, req)
}

// ----------------------------------------------------------------
// POST /api/v1/work-demands/{id}/reject   (admin)
// ----------------------------------------------------------------
func (c *WorkDemandController) RejectHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request ID", nil, err,
		)
		return
	}

	req, svcErr := c.workDemandService.Reject(r.Context(), id)
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, req)
}

// ----------------------------------------------------------------
// POST /api/v1/work-demands/assign   (admin)
// ----------------------------------------------------------------
func (c *WorkDemandController) AssignWorkersHandler(w http.ResponseWriter, r *http.Request) {
	var body dtos.AssignWorkersRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid assign-workers payload", nil, err,
		)
		return
	}
	if err := workDemandValidate.Struct(body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Assign-workers failed validation", err.Error(),
		)
		return
	}

	created, svcErr := c.workDemandService.AssignWorkers(r.Context(), body.ProjectID, body.WorkerIDs)
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

// ----------------------------------------------------------------
// GET /api/v1/work-demands/{id}
// ----------------------------------------------------------------
func (c *WorkDemandController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request ID", nil, err,
		)
		return
	}

	req, svcErr := c.workDemandService.GetByID(r.Context(), id)
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, req)
}

// ----------------------------------------------------------------
// GET /api/v1/work-demands/my
// ----------------------------------------------------------------
func (c *WorkDemandController) ListMyHandler(w http.ResponseWriter, r *http.Request) {
	workerID, ok := contextUserID(r, middleware.ContextKeyUserID)
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No userID in context", nil,
		)
		return
	}

	reqs, err := c.workDemandService.ListByWorker(r.Context(), workerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, reqs)
}

// ----------------------------------------------------------------
// GET /api/v1/work-demands   (admin)
// ----------------------------------------------------------------
func (c *WorkDemandController) ListHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	var status *models.WorkDemandStatusType
	if v := r.URL.Query().Get("status"); v != "" {
		st := models.WorkDemandStatusType(strings.ToUpper(v))
		status = &st
	}

	reqs, err := c.workDemandService.List(r.Context(), status, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, reqs)
}
