package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gramsetu/employment-service/internal/dtos"
	"github.com/gramsetu/employment-service/internal/middleware"
	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/services"
	"github.com/gramsetu/employment-service/internal/utils"
)

var projectValidate = validator.New()

type ProjectController struct {
	projectService services.ProjectService
}

func NewProjectController(ps services.ProjectService) *ProjectController {
	return &ProjectController{projectService: ps}
}

// ----------------------------------------------------------------
// POST /api/v1/projects   (admin)
// ----------------------------------------------------------------
func (c *ProjectController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := contextUserID(r, middleware.ContextKeyUserID)
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No userID in context", nil,
		)
		return
	}

	var body dtos.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid project payload", nil, err,
		)
		return
	}
	if err := projectValidate.Struct(body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Project failed validation", err.Error(),
		)
		return
	}

	startDate, err := time.Parse(dateLayout, body.StartDate)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Start date must be YYYY-MM-DD", nil, err,
		)
		return
	}
	endDate, err := time.Parse(dateLayout, body.EndDate)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "End date must be YYYY-MM-DD", nil, err,
		)
		return
	}

	p, svcErr := c.projectService.Create(r.Context(), services.CreateProjectInput{
		Name:          body.Name,
		Description:   body.Description,
		Location:      body.Location,
		WorkerNeed:    body.WorkerNeed,
		WagePerWorker: body.WagePerWorker,
		StartDate:     startDate,
		EndDate:       endDate,
		OwnerID:       ownerID,
	})
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, p)
}

// ----------------------------------------------------------------
// PATCH /api/v1/projects/{id}   (admin)
// ----------------------------------------------------------------
func (c *ProjectController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid project ID", nil, err,
		)
		return
	}

	var body dtos.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid project payload", nil, err,
		)
		return
	}
	if err := projectValidate.Struct(body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Project failed validation", err.Error(),
		)
		return
	}

	in := services.UpdateProjectInput{
		Name:        body.Name,
		Description: body.Description,
		Location:    body.Location,
		WorkerNeed:  body.WorkerNeed,
	}
	if body.Status != nil {
		st := models.ProjectStatusType(*body.Status)
		in.Status = &st
	}

	p, svcErr := c.projectService.Update(r.Context(), id, in)
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// ----------------------------------------------------------------
// GET /api/v1/projects/{id}
// ----------------------------------------------------------------
func (c *ProjectController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid project ID", nil, err,
		)
		return
	}

	p, svcErr := c.projectService.GetByID(r.Context(), id)
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// ----------------------------------------------------------------
// GET /api/v1/projects
// ----------------------------------------------------------------
func (c *ProjectController) ListHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	var status *models.ProjectStatusType
	if v := r.URL.Query().Get("status"); v != "" {
		st := models.ProjectStatusType(strings.ToUpper(v))
		status = &st
	}

	projects, err := c.projectService.List(r.Context(), status, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, projects)
}
