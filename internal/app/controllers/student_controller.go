package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appauth "github.com/dkravchenko/schoolfood/internal/app/auth"
	"github.com/dkravchenko/schoolfood/internal/app/models/dto"
	"github.com/dkravchenko/schoolfood/internal/app/services"
	"github.com/dkravchenko/schoolfood/internal/middleware"
	"github.com/dkravchenko/schoolfood/internal/pkg/apperrors"
)

// StudentController handles student listing, payment history and balances
type StudentController struct {
	ledgerService services.LedgerService
	authzService  *appauth.AuthorizationService
	logger        zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(ledgerService services.LedgerService, authzService *appauth.AuthorizationService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		ledgerService: ledgerService,
		authzService:  authzService,
		logger:        logger,
	}
}

// studentIDParam parses the :id path parameter.
func studentIDParam(ctx *gin.Context) (int64, bool) {
	studentID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || studentID <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student ID")
		errorDetail = errorDetail.WithDetails("Student ID must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return studentID, true
}

// ListStudents returns every student with guardian name and balance
// @Summary List all students
// @Description Returns all students with guardian names and current balances. Administrator only.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse} "Students retrieved"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	accounts, err := c.ledgerService.ListStudents(ctx.Request.Context())
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list students")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewStudentResponses(accounts),
		Timestamp: time.Now(),
	})
}

// ListGuardianStudents returns the calling guardian's own students
// @Summary List own students
// @Description Returns the calling guardian's students with current balances.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse} "Students retrieved"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /parent/students [get]
func (c *StudentController) ListGuardianStudents(ctx *gin.Context) {
	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthorized)
		return
	}

	accounts, err := c.ledgerService.ListStudentsByGuardian(ctx.Request.Context(), identity.SubjectID)
	if err != nil {
		c.logger.Error().Err(err).Int64("guardianID", identity.SubjectID).Msg("Failed to list guardian students")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewStudentResponses(accounts),
		Timestamp: time.Now(),
	})
}

// GetStudentPayments returns a student's payment history
// @Summary Get payment history
// @Description Returns the student's payments, newest first. Admins see any student; guardians only their own; students only themselves.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.PaymentResponse} "Payments retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/payments [get]
func (c *StudentController) GetStudentPayments(ctx *gin.Context) {
	studentID, ok := studentIDParam(ctx)
	if !ok {
		return
	}

	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthorized)
		return
	}

	if err := c.authzService.CanAccessStudent(ctx.Request.Context(), identity, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	payments, err := c.ledgerService.ListPayments(ctx.Request.Context(), studentID)
	if err != nil {
		c.logger.Error().Err(err).Int64("studentID", studentID).Msg("Failed to list payments")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewPaymentResponses(payments),
		Timestamp: time.Now(),
	})
}

// GetStudentBalance returns a student's derived balance
// @Summary Get student balance
// @Description Returns the balance derived from the payment ledger, optionally as of a given date.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param as_of query string false "Balance cut-off date (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=dto.BalanceResponse} "Balance retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID or date"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/balance [get]
func (c *StudentController) GetStudentBalance(ctx *gin.Context) {
	studentID, ok := studentIDParam(ctx)
	if !ok {
		return
	}

	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthorized)
		return
	}

	if err := c.authzService.CanAccessStudent(ctx.Request.Context(), identity, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	asOf := time.Time{}
	asOfParam := ctx.Query("as_of")
	if asOfParam != "" {
		parsed, err := time.Parse(dto.DateLayout, asOfParam)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid as_of date")
			errorDetail = errorDetail.WithDetails("as_of must be a date in YYYY-MM-DD format")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		// Include every payment dated on the cut-off day itself.
		asOf = parsed.Add(24*time.Hour - time.Nanosecond)
	}

	balance, err := c.ledgerService.GetBalance(ctx.Request.Context(), studentID, asOf)
	if err != nil {
		c.logger.Error().Err(err).Int64("studentID", studentID).Msg("Failed to compute balance")
		middleware.HandleAPIError(ctx, err)
		return
	}

	asOfValue := asOfParam
	if asOfValue == "" {
		asOfValue = time.Now().Format(dto.DateLayout)
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.BalanceResponse{
			Balance: balance,
			AsOf:    asOfValue,
		},
		Timestamp: time.Now(),
	})
}
