package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/gramsetu/employment-service/internal/dtos"
	"github.com/gramsetu/employment-service/internal/middleware"
	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/services"
	"github.com/gramsetu/employment-service/internal/utils"
)

var authValidate = validator.New()

const maxProfileImageBytes = 5 << 20

type AuthController struct {
	authService services.AuthService
}

func NewAuthController(as services.AuthService) *AuthController {
	return &AuthController{authService: as}
}

// ----------------------------------------------------------------
// POST /api/v1/auth/register
// ----------------------------------------------------------------
func (c *AuthController) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var body dtos.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid register payload", nil, err,
		)
		return
	}
	if err := authValidate.Struct(body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Register failed validation", err.Error(),
		)
		return
	}

	identity, svcErr := c.authService.Register(r.Context(), services.RegisterInput{
		Name:         body.Name,
		Email:        body.Email,
		Phone:        body.Phone,
		NationalID:   body.NationalID,
		GovernmentID: body.GovernmentID,
		Password:     body.Password,
		Role:         models.RoleType(body.Role),
	})
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, identity)
}

// ----------------------------------------------------------------
// POST /api/v1/auth/login
// ----------------------------------------------------------------
func (c *AuthController) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var body dtos.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid login payload", nil, err,
		)
		return
	}
	if err := authValidate.Struct(body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Login failed validation", err.Error(),
		)
		return
	}

	result, svcErr := c.authService.Login(r.Context(), body.Email, body.Password)
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"identity":      result.Identity,
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
	})
}

// ----------------------------------------------------------------
// POST /api/v1/auth/refresh
// ----------------------------------------------------------------
func (c *AuthController) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var body dtos.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid refresh payload", nil, err,
		)
		return
	}

	access, refresh, svcErr := c.authService.Refresh(r.Context(), body.RefreshToken)
	if svcErr != nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Could not refresh session", nil, svcErr,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

// ----------------------------------------------------------------
// POST /api/v1/auth/logout
// ----------------------------------------------------------------
func (c *AuthController) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var body dtos.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid logout payload", nil, err,
		)
		return
	}

	if svcErr := c.authService.Logout(r.Context(), body.RefreshToken); svcErr != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal, "Logout failed", nil, svcErr,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// ----------------------------------------------------------------
// GET /api/v1/auth/me
// ----------------------------------------------------------------
func (c *AuthController) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := contextUserID(r, middleware.ContextKeyUserID)
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No userID in context", nil,
		)
		return
	}

	identity, svcErr := c.authService.GetProfile(r.Context(), userID)
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, identity)
}

// ----------------------------------------------------------------
// PATCH /api/v1/auth/me
// Accepts direct JSON or multipart with an optional profile image.
// ----------------------------------------------------------------
func (c *AuthController) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := contextUserID(r, middleware.ContextKeyUserID)
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No userID in context", nil,
		)
		return
	}

	var body dtos.UpdateProfileRequest
	var image []byte

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxProfileImageBytes); err != nil {
			utils.RespondErrorWithCode(
				w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid multipart body", nil, err,
			)
			return
		}
		if data := r.FormValue("data"); data != "" {
			if err := json.Unmarshal([]byte(data), &body); err != nil {
				utils.RespondErrorWithCode(
					w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid profile payload", nil, err,
				)
				return
			}
		}
		if file, _, err := r.FormFile("image"); err == nil {
			defer file.Close()
			image, _ = io.ReadAll(io.LimitReader(file, maxProfileImageBytes))
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			utils.RespondErrorWithCode(
				w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid profile payload", nil, err,
			)
			return
		}
	}
	if err := authValidate.Struct(body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Profile failed validation", err.Error(),
		)
		return
	}

	identity, svcErr := c.authService.UpdateProfile(r.Context(), userID, services.UpdateProfileInput{
		Name:  body.Name,
		Phone: body.Phone,
		Image: image,
	})
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, identity)
}

// ----------------------------------------------------------------
// DELETE /api/v1/auth/me
// ----------------------------------------------------------------
func (c *AuthController) DeactivateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := contextUserID(r, middleware.ContextKeyUserID)
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No userID in context", nil,
		)
		return
	}

	if svcErr := c.authService.Deactivate(r.Context(), userID); svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
