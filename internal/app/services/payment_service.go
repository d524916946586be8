package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dkravchenko/schoolfood/internal/app/models"
	"github.com/dkravchenko/schoolfood/internal/app/models/dto"
	"github.com/dkravchenko/schoolfood/internal/pkg/apperrors"
)

// PaymentAppender is the write side of the payments table.
type PaymentAppender interface {
	Create(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	StudentExists(ctx context.Context, studentID int64) (bool, error)
}

// PaymentService appends rows to the ledger. There is no update or delete:
// a reversal is a new payment with the negated amount and an explanatory
// description.
type PaymentService interface {
	AddPayment(ctx context.Context, req *dto.CreatePaymentRequest, createdBy int64) (*models.Payment, error)
}

// paymentServiceImpl implements the PaymentService interface
type paymentServiceImpl struct {
	payments PaymentAppender
	logger   zerolog.Logger
}

// NewPaymentService creates a new payment service instance
func NewPaymentService(payments PaymentAppender, logger zerolog.Logger) PaymentService {
	return &paymentServiceImpl{
		payments: payments,
		logger:   logger,
	}
}

// validatePayment checks the request fields before touching storage
func validatePayment(req *dto.CreatePaymentRequest) (time.Time, error) {
	if req == nil {
		return time.Time{}, apperrors.NewValidationError("request is nil")
	}

	if req.StudentID <= 0 {
		return time.Time{}, apperrors.NewValidationError("invalid student ID")
	}

	paymentDate, err := time.Parse(dto.DateLayout, req.PaymentDate)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("payment_date must be a valid date in YYYY-MM-DD format")
	}

	if req.Amount.IsZero() {
		return time.Time{}, apperrors.NewValidationError("amount must be non-zero")
	}

	// Currency has two fraction digits; finer amounts would be silently
	// rounded by the NUMERIC(10,2) column, so reject them here.
	if req.Amount.Exponent() < -2 {
		return time.Time{}, apperrors.NewValidationError("amount cannot have more than two decimal places")
	}

	if strings.TrimSpace(req.Description) == "" {
		return time.Time{}, apperrors.NewValidationError("description cannot be empty")
	}

	return paymentDate, nil
}

// AddPayment validates and appends one immutable ledger row, returning it
// with the server-assigned id and creation timestamp.
func (s *paymentServiceImpl) AddPayment(ctx context.Context, req *dto.CreatePaymentRequest, createdBy int64) (*models.Payment, error) {
	paymentDate, err := validatePayment(req)
	if err != nil {
		return nil, err
	}

	exists, err := s.payments.StudentExists(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("error checking student existence: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrStudentNotFound
	}

	payment := &models.Payment{
		StudentID:   req.StudentID,
		PaymentDate: paymentDate,
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   createdBy,
	}

	created, err := s.payments.Create(ctx, payment)
	if err != nil {
		return nil, fmt.Errorf("error creating payment: %w", err)
	}

	s.logger.Info().
		Int64("paymentID", created.ID).
		Int64("studentID", created.StudentID).
		Str("amount", created.Amount.String()).
		Int64("createdBy", createdBy).
		Msg("Payment appended to ledger")

	return created, nil
}
