package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gramsetu/employment-service/internal/dtos"
	"github.com/gramsetu/employment-service/internal/services"
	"github.com/gramsetu/employment-service/internal/utils"
)

var otpValidate = validator.New()

type OtpController struct {
	otpService services.OtpService

	// exposeCodes echoes the generated code in the response. Only for
	// non-production environments where delivery channels are stubbed.
	exposeCodes bool
}

func NewOtpController(os services.OtpService, exposeCodes bool) *OtpController {
	return &OtpController{otpService: os, exposeCodes: exposeCodes}
}

// ----------------------------------------------------------------
// POST /api/v1/otp/issue
// ----------------------------------------------------------------
func (c *OtpController) IssueHandler(w http.ResponseWriter, r *http.Request) {
	var body dtos.IssueOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid OTP payload", nil, err,
		)
		return
	}
	if err := otpValidate.Struct(body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "OTP request failed validation", err.Error(),
		)
		return
	}

	rec, svcErr := c.otpService.Issue(r.Context(), body.Email, body.Phone)
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}

	resp := dtos.IssueOtpResponse{
		Email:     rec.Email,
		ExpiresAt: rec.ExpiresAt.Format(time.RFC3339),
	}
	if c.exposeCodes {
		resp.Code = rec.Code
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// POST /api/v1/otp/verify
// ----------------------------------------------------------------
func (c *OtpController) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	var body dtos.VerifyOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid OTP payload", nil, err,
		)
		return
	}
	if err := otpValidate.Struct(body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "OTP verify failed validation", err.Error(),
		)
		return
	}

	if svcErr := c.otpService.Verify(r.Context(), body.Email, body.Code); svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}
