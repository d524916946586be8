package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkravchenko/schoolfood/internal/app/models"
	"github.com/dkravchenko/schoolfood/internal/pkg/apperrors"
)

// PaymentLedger is the read side of the payments table.
type PaymentLedger interface {
	ListByStudent(ctx context.Context, studentID int64) ([]*models.Payment, error)
	SumAmountByStudent(ctx context.Context, studentID int64, asOf time.Time) (decimal.Decimal, error)
}

// StudentLister lists student accounts with computed balances.
type StudentLister interface {
	ListAccounts(ctx context.Context) ([]*models.StudentAccount, error)
	ListAccountsByGuardian(ctx context.Context, guardianID int64) ([]*models.StudentAccount, error)
}

// LedgerService computes balances and payment history from the append-only
// ledger. Balance is always derived at read time, never stored.
type LedgerService interface {
	GetBalance(ctx context.Context, studentID int64, asOf time.Time) (decimal.Decimal, error)
	ListPayments(ctx context.Context, studentID int64) ([]*models.Payment, error)
	ListStudents(ctx context.Context) ([]*models.StudentAccount, error)
	ListStudentsByGuardian(ctx context.Context, guardianID int64) ([]*models.StudentAccount, error)
}

// ledgerServiceImpl implements the LedgerService interface
type ledgerServiceImpl struct {
	payments PaymentLedger
	students StudentLister
}

// NewLedgerService creates a new ledger service instance
func NewLedgerService(payments PaymentLedger, students StudentLister) LedgerService {
	return &ledgerServiceImpl{
		payments: payments,
		students: students,
	}
}

// GetBalance returns the signed sum of the student's payments dated at or
// before asOf. A zero asOf means "now". A student with no payments has
// balance zero, never an error.
func (s *ledgerServiceImpl) GetBalance(ctx context.Context, studentID int64, asOf time.Time) (decimal.Decimal, error) {
	if studentID <= 0 {
		return decimal.Zero, apperrors.NewValidationError("invalid student ID")
	}

	if asOf.IsZero() {
		asOf = time.Now()
	}

	balance, err := s.payments.SumAmountByStudent(ctx, studentID, asOf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error computing balance: %w", err)
	}
	return balance, nil
}

// ListPayments returns the student's full payment history, newest first.
func (s *ledgerServiceImpl) ListPayments(ctx context.Context, studentID int64) ([]*models.Payment, error) {
	if studentID <= 0 {
		return nil, apperrors.NewValidationError("invalid student ID")
	}

	payments, err := s.payments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving payments: %w", err)
	}
	return payments, nil
}

// ListStudents returns all students with guardian names and balances.
// Admin scope; the access gate enforces that before this is called.
func (s *ledgerServiceImpl) ListStudents(ctx context.Context) ([]*models.StudentAccount, error) {
	accounts, err := s.students.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}
	return accounts, nil
}

// ListStudentsByGuardian returns the guardian's own students with balances.
func (s *ledgerServiceImpl) ListStudentsByGuardian(ctx context.Context, guardianID int64) ([]*models.StudentAccount, error) {
	if guardianID <= 0 {
		return nil, apperrors.NewValidationError("invalid guardian ID")
	}

	accounts, err := s.students.ListAccountsByGuardian(ctx, guardianID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving guardian students: %w", err)
	}
	return accounts, nil
}
