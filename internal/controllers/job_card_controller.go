package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gramsetu/employment-service/internal/services"
	"github.com/gramsetu/employment-service/internal/utils"
)

type JobCardController struct {
	applicationService services.ApplicationService
}

func NewJobCardController(as services.ApplicationService) *JobCardController {
	return &JobCardController{applicationService: as}
}

// ----------------------------------------------------------------
// GET /api/v1/job-cards/{id}
// ----------------------------------------------------------------
func (c *JobCardController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid job card ID", nil, err,
		)
		return
	}

	card, svcErr := c.applicationService.GetJobCard(r.Context(), id)
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, card)
}

// ----------------------------------------------------------------
// GET /api/v1/job-cards/national-id/{nationalId}
// ----------------------------------------------------------------
func (c *JobCardController) GetByNationalIDHandler(w http.ResponseWriter, r *http.Request) {
	nationalID := mux.Vars(r)["nationalId"]

	card, svcErr := c.applicationService.GetJobCardByNationalID(r.Context(), nationalID)
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, card)
}

// ----------------------------------------------------------------
// GET /api/v1/job-cards   (admin)
// ----------------------------------------------------------------
func (c *JobCardController) ListHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	cards, err := c.applicationService.ListJobCards(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cards)
}
