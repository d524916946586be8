package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dkravchenko/schoolfood/internal/app/models/dto"
	"github.com/dkravchenko/schoolfood/internal/app/services"
	"github.com/dkravchenko/schoolfood/internal/middleware"
	"github.com/dkravchenko/schoolfood/internal/pkg/apperrors"
)

// PaymentController handles payment creation
type PaymentController struct {
	paymentService services.PaymentService
	logger         zerolog.Logger
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(paymentService services.PaymentService, logger zerolog.Logger) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		logger:         logger,
	}
}

// CreatePayment appends a payment to a student's ledger
// @Summary Record a payment
// @Description Appends a signed payment to the student's ledger. Administrator only. Positive amounts top up, negative amounts deduct.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePaymentRequest true "Payment to record"
// @Success 201 {object} dto.APIResponse{data=dto.PaymentResponse} "Payment recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid payment data"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /payments [post]
func (c *PaymentController) CreatePayment(ctx *gin.Context) {
	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthorized)
		return
	}

	var req dto.CreatePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid payment request payload")
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails("student_id, payment_date, amount and description are required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	payment, err := c.paymentService.AddPayment(ctx.Request.Context(), &req, identity.SubjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.NewPaymentResponse(payment),
		Timestamp: time.Now(),
	})
}
