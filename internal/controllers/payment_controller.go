package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/gramsetu/employment-service/internal/dtos"
	"github.com/gramsetu/employment-service/internal/middleware"
	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/services"
	"github.com/gramsetu/employment-service/internal/utils"
)

var paymentValidate = validator.New()

type PaymentController struct {
	paymentService services.PaymentService
}

func NewPaymentController(ps services.PaymentService) *PaymentController {
	return &PaymentController{paymentService: ps}
}

// ----------------------------------------------------------------
// POST /api/v1/payments/generate   (admin)
// ----------------------------------------------------------------
func (c *PaymentController) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	var body dtos.GeneratePaymentsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid generate payload", nil, err,
		)
		return
	}
	if err := paymentValidate.Struct(body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Generate failed validation", err.Error(),
		)
		return
	}

	from, to, err := parseOptionalDates(body.From, body.To)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Dates must be YYYY-MM-DD", nil, err,
		)
		return
	}

	created, svcErr := c.paymentService.GeneratePayments(r.Context(), body.ProjectID, from, to)
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func parseOptionalDates(fromStr, toStr *string) (from, to *time.Time, err error) {
	if fromStr != nil && *fromStr != "" {
		t, pErr := time.Parse(dateLayout, *fromStr)
		if pErr != nil {
			return nil, nil, pErr
		}
		from = &t
	}
	if toStr != nil && *toStr != "" {
		t, pErr := time.Parse(dateLayout, *toStr)
		if pErr != nil {
			return nil, nil, pErr
		}
		to = &t
	}
	return from, to, nil
}

// ----------------------------------------------------------------
// POST /api/v1/payments   (admin)
// ----------------------------------------------------------------
func (c *PaymentController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var body dtos.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payment payload", nil, err,
		)
		return
	}
	if err := paymentValidate.Struct(body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Payment failed validation", err.Error(),
		)
		return
	}

	p, svcErr := c.paymentService.Create(r.Context(), body.WorkerID, body.ProjectID, body.AmountPaise, body.DaysWorked)
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, p)
}

// ----------------------------------------------------------------
// POST /api/v1/payments/{id}/approve   (admin)
// ----------------------------------------------------------------
func (c *PaymentController) ApproveHandler(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, func(ctx *http.Request, id uuid.UUID, adminID *uuid.UUID) (*models.Payment, error) {
		return c.paymentService.Approve(ctx.Context(), id, adminID)
	})
}

// ----------------------------------------------------------------
// POST /api/v1/payments/{id}/reject   (admin)
// ----------------------------------------------------------------
func (c *PaymentController) RejectHandler(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, func(ctx *http.Request, id uuid.UUID, adminID *uuid.UUID) (*models.Payment, error) {
		return c.paymentService.Reject(ctx.Context(), id, adminID)
	})
}

func (c *PaymentController) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(*http.Request, uuid.UUID, *uuid.UUID) (*models.Payment, error),
) {
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payment ID", nil, err,
		)
		return
	}

	var adminID *uuid.UUID
	if uid, ok := contextUserID(r, middleware.ContextKeyUserID); ok {
		adminID = &uid
	}

	p, svcErr := op(r, id, adminID)
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// ----------------------------------------------------------------
// POST /api/v1/payments/{id}/pay   (admin)
// ----------------------------------------------------------------
func (c *PaymentController) MarkAsPaidHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payment ID", nil, err,
		)
		return
	}

	p, svcErr := c.paymentService.MarkAsPaid(r.Context(), id)
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// ----------------------------------------------------------------
// DELETE /api/v1/payments/{id}   (admin)
// ----------------------------------------------------------------
func (c *PaymentController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payment ID", nil, err,
		)
		return
	}

	if svcErr := c.paymentService.Delete(r.Context(), id); svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ----------------------------------------------------------------
// GET /api/v1/payments/{id}
// ----------------------------------------------------------------
func (c *PaymentController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payment ID", nil, err,
		)
		return
	}

	p, svcErr := c.paymentService.GetByID(r.Context(), id)
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// ----------------------------------------------------------------
// GET /api/v1/payments/project/{id}
// ----------------------------------------------------------------
func (c *PaymentController) ListByProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid project ID", nil, err,
		)
		return
	}

	payments, svcErr := c.paymentService.ListByProject(r.Context(), id)
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, payments)
}

// ----------------------------------------------------------------
// GET /api/v1/payments/worker/{id}
// ----------------------------------------------------------------
func (c *PaymentController) ListByWorkerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid worker ID", nil, err,
		)
		return
	}

	payments, svcErr := c.paymentService.ListByWorker(r.Context(), id)
	if svcErr != nil {
		respondServiceError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, payments)
}

// ----------------------------------------------------------------
// GET /api/v1/payments   (admin)
// ----------------------------------------------------------------
func (c *PaymentController) ListHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	var status *models.PaymentStatusType
	if v := r.URL.Query().Get("status"); v != "" {
		st := models.PaymentStatusType(strings.ToUpper(v))
		status = &st
	}

	payments, err := c.paymentService.List(r.Context(), status, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, payments)
}
