package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/gramsetu/employment-service/internal/dtos"
	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/services"
	"github.com/gramsetu/employment-service/internal/utils"
)

var applicationValidate = validator.New()

const maxProofImageBytes = 5 << 20

type ApplicationController struct {
	applicationService services.ApplicationService
	uploader           utils.FileUploader
}

func NewApplicationController(as services.ApplicationService, uploader utils.FileUploader) *ApplicationController {
	return &ApplicationController{applicationService: as, uploader: uploader}
}

// ----------------------------------------------------------------
// POST /api/v1/applications
// Accepts either a direct JSON body or a multipart form whose `data`
// field carries the same JSON plus an optional `proof_image` file.
// ----------------------------------------------------------------
func (c *ApplicationController) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	req, proofImage, err := decodeSubmitRequest(r)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid application payload", nil, err,
		)
		return
	}
	if err := applicationValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Application failed validation", err.Error(),
		)
		return
	}

	in := services.SubmitApplicationInput{
		NationalID: req.NationalID,
		Phone:      req.Phone,
		Address:    req.Address,
		Village:    req.Village,
		District:   req.District,
		State:      req.State,
		Pincode:    req.Pincode,
		Applicants: toModelApplicants(req.Applicants),
	}

	if len(proofImage) > 0 && c.uploader != nil {
		// Upload failure is non-fatal; the application proceeds
		// without the image.
		url, upErr := c.uploader.Upload(r.Context(), proofImage, req.NationalID, "proofs")
		if upErr != nil {
			utils.Logger.WithError(upErr).Warn("Proof image upload failed")
		} else {
			in.ProofImageURL = &url
		}
	}

	app, svcErr := c.applicationService.Submit(r.Context(), in)
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toApplicationResponse(app))
}

// decodeSubmitRequest resolves the two accepted body shapes into one
// canonical request struct.
func decodeSubmitRequest(r *http.Request) (dtos.SubmitApplicationRequest, []byte, error) {
	var req dtos.SubmitApplicationRequest

	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "multipart/form-data") {
		err := json.NewDecoder(r.Body).Decode(&req)
		return req, nil, err
	}

	if err := r.ParseMultipartForm(maxProofImageBytes); err != nil {
		return req, nil, err
	}
	if err := json.Unmarshal([]byte(r.FormValue("data")), &req); err != nil {
		return req, nil, err
	}

	var proofImage []byte
	if file, _, err := r.FormFile("proof_image"); err == nil {
		defer file.Close()
		proofImage, err = io.ReadAll(io.LimitReader(file, maxProofImageBytes))
		if err != nil {
			return req, nil, err
		}
	}
	return req, proofImage, nil
}

// ----------------------------------------------------------------
// POST /api/v1/applications/{trackingId}/approve   (admin)
// ----------------------------------------------------------------
func (c *ApplicationController) ApproveHandler(w http.ResponseWriter, r *http.Request) {
	trackingID := mux.Vars(r)["trackingId"]

	app, err := c.applicationService.Approve(r.Context(), trackingID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toApplicationResponse(app))
}

// ----------------------------------------------------------------
// POST /api/v1/applications/{trackingId}/reject   (admin)
// ----------------------------------------------------------------
func (c *ApplicationController) RejectHandler(w http.ResponseWriter, r *http.Request) {
	trackingID := mux.Vars(r)["trackingId"]

	var body dtos.RejectApplicationRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	app, err := c.applicationService.Reject(r.Context(), trackingID, body.Reason)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toApplicationResponse(app))
}

// ----------------------------------------------------------------
// GET /api/v1/applications/{trackingId}
// ----------------------------------------------------------------
func (c *ApplicationController) GetHandler(w http.ResponseWriter, r *http.Request) {
	trackingID := mux.Vars(r)["trackingId"]

	app, err := c.applicationService.GetByTrackingID(r.Context(), trackingID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toApplicationResponse(app))
}

// ----------------------------------------------------------------
// GET /api/v1/applications   (admin)
// ----------------------------------------------------------------
func (c *ApplicationController) ListHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	var status *models.ApplicationStatusType
	if v := r.URL.Query().Get("status"); v != "" {
		st := models.ApplicationStatusType(strings.ToUpper(v))
		status = &st
	}

	apps, err := c.applicationService.List(r.Context(), status, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	out := make([]dtos.ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, toApplicationResponse(app))
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

func toModelApplicants(in []dtos.ApplicantDTO) []models.Applicant {
	out := make([]models.Applicant, 0, len(in))
	for _, a := range in {
		out = append(out, models.Applicant{
			Name:        a.Name,
			Age:         a.Age,
			Gender:      a.Gender,
			BankDetails: a.BankDetails,
		})
	}
	return out
}

func toApplicationResponse(app *models.JobCardApplication) dtos.ApplicationResponse {
	return dtos.ApplicationResponse{
		TrackingID:      app.TrackingID,
		NationalID:      app.NationalID,
		Status:          string(app.Status),
		LinkedJobCardID: app.LinkedJobCardID,
		RejectionReason: app.RejectionReason,
		SubmittedAt:     app.CreatedAt,
	}
}
