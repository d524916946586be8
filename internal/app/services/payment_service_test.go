package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dkravchenko/schoolfood/internal/app/models"
	"github.com/dkravchenko/schoolfood/internal/app/models/dto"
	"github.com/dkravchenko/schoolfood/internal/pkg/apperrors"
)

// fakeAppender records created payments and knows which students exist.
type fakeAppender struct {
	students map[int64]bool
	created  []*models.Payment
	err      error
}

func (f *fakeAppender) Create(_ context.Context, payment *models.Payment) (*models.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	stored := *payment
	stored.ID = int64(len(f.created) + 1)
	f.created = append(f.created, &stored)
	return &stored, nil
}

func (f *fakeAppender) StudentExists(_ context.Context, studentID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.students[studentID], nil
}

func validRequest() *dto.CreatePaymentRequest {
	return &dto.CreatePaymentRequest{
		StudentID:   1,
		PaymentDate: "2024-01-15",
		Amount:      decimal.RequireFromString("500.00"),
		Description: "January top-up",
	}
}

func TestAddPayment(t *testing.T) {
	appender := &fakeAppender{students: map[int64]bool{1: true}}
	svc := NewPaymentService(appender, zerolog.Nop())

	payment, err := svc.AddPayment(context.Background(), validRequest(), 42)
	if err != nil {
		t.Fatalf("AddPayment returned error: %v", err)
	}
	if payment.ID == 0 {
		t.Error("expected server-assigned payment id")
	}
	if payment.CreatedBy != 42 {
		t.Errorf("expected CreatedBy 42, got %d", payment.CreatedBy)
	}
	if !payment.Amount.Equal(decimal.RequireFromString("500.00")) {
		t.Errorf("amount changed during create: %s", payment.Amount)
	}
	if got := payment.PaymentDate.Format(dto.DateLayout); got != "2024-01-15" {
		t.Errorf("expected payment date 2024-01-15, got %s", got)
	}
}

func TestAddPaymentNegativeAmount(t *testing.T) {
	appender := &fakeAppender{students: map[int64]bool{1: true}}
	svc := NewPaymentService(appender, zerolog.Nop())

	req := validRequest()
	req.Amount = decimal.RequireFromString("-120.50")
	req.Description = "Cafeteria purchases"

	payment, err := svc.AddPayment(context.Background(), req, 42)
	if err != nil {
		t.Fatalf("AddPayment rejected a negative amount: %v", err)
	}
	if !payment.Amount.IsNegative() {
		t.Error("negative amount not preserved")
	}
}

func TestAddPaymentValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.CreatePaymentRequest)
	}{
		{"zero student id", func(r *dto.CreatePaymentRequest) { r.StudentID = 0 }},
		{"negative student id", func(r *dto.CreatePaymentRequest) { r.StudentID = -3 }},
		{"empty date", func(r *dto.CreatePaymentRequest) { r.PaymentDate = "" }},
		{"malformed date", func(r *dto.CreatePaymentRequest) { r.PaymentDate = "15.01.2024" }},
		{"zero amount", func(r *dto.CreatePaymentRequest) { r.Amount = decimal.Zero }},
		{"three decimal places", func(r *dto.CreatePaymentRequest) { r.Amount = decimal.RequireFromString("10.555") }},
		{"empty description", func(r *dto.CreatePaymentRequest) { r.Description = "" }},
		{"whitespace description", func(r *dto.CreatePaymentRequest) { r.Description = "   " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appender := &fakeAppender{students: map[int64]bool{1: true}}
			svc := NewPaymentService(appender, zerolog.Nop())

			req := validRequest()
			tt.mutate(req)

			_, err := svc.AddPayment(context.Background(), req, 42)
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Fatalf("AddPayment() = %v, want validation error", err)
			}
			if len(appender.created) != 0 {
				t.Fatal("invalid request must not reach storage")
			}
		})
	}
}

func TestAddPaymentNilRequest(t *testing.T) {
	svc := NewPaymentService(&fakeAppender{}, zerolog.Nop())

	if _, err := svc.AddPayment(context.Background(), nil, 42); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("AddPayment(nil) = %v, want validation error", err)
	}
}

func TestAddPaymentUnknownStudent(t *testing.T) {
	appender := &fakeAppender{students: map[int64]bool{}}
	svc := NewPaymentService(appender, zerolog.Nop())

	_, err := svc.AddPayment(context.Background(), validRequest(), 42)
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Fatalf("AddPayment for unknown student = %v, want ErrStudentNotFound", err)
	}
	if len(appender.created) != 0 {
		t.Fatal("payment for unknown student must not be stored")
	}
}

func TestAddPaymentTrimsDescription(t *testing.T) {
	appender := &fakeAppender{students: map[int64]bool{1: true}}
	svc := NewPaymentService(appender, zerolog.Nop())

	req := validRequest()
	req.Description = "  January top-up  "

	payment, err := svc.AddPayment(context.Background(), req, 42)
	if err != nil {
		t.Fatalf("AddPayment returned error: %v", err)
	}
	if payment.Description != "January top-up" {
		t.Errorf("expected trimmed description, got %q", payment.Description)
	}
}

// fakeStore backs both the append and read sides so a created payment can be
// observed through the ledger service.
type fakeStore struct {
	fakeAppender
}

func (f *fakeStore) ListByStudent(_ context.Context, studentID int64) ([]*models.Payment, error) {
	var out []*models.Payment
	for i := len(f.created) - 1; i >= 0; i-- {
		if f.created[i].StudentID == studentID {
			out = append(out, f.created[i])
		}
	}
	return out, nil
}

func (f *fakeStore) SumAmountByStudent(_ context.Context, studentID int64, _ time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range f.created {
		if p.StudentID == studentID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

func TestAddPaymentThenListRoundTrip(t *testing.T) {
	store := &fakeStore{fakeAppender: fakeAppender{students: map[int64]bool{1: true}}}
	paymentSvc := NewPaymentService(store, zerolog.Nop())
	ledgerSvc := NewLedgerService(store, &fakeStudentLister{})

	if _, err := paymentSvc.AddPayment(context.Background(), validRequest(), 42); err != nil {
		t.Fatalf("AddPayment returned error: %v", err)
	}
	deduction := validRequest()
	deduction.Amount = decimal.RequireFromString("-120.50")
	deduction.Description = "Cafeteria purchases"
	if _, err := paymentSvc.AddPayment(context.Background(), deduction, 42); err != nil {
		t.Fatalf("AddPayment returned error: %v", err)
	}

	payments, err := ledgerSvc.ListPayments(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListPayments returned error: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("expected 2 payments after two appends, got %d", len(payments))
	}

	balance, err := ledgerSvc.GetBalance(context.Background(), 1, time.Time{})
	if err != nil {
		t.Fatalf("GetBalance returned error: %v", err)
	}
	if want := decimal.RequireFromString("379.50"); !balance.Equal(want) {
		t.Fatalf("balance after round trip = %s, want %s", balance, want)
	}
}

func TestAddPaymentStorageError(t *testing.T) {
	appender := &fakeAppender{err: apperrors.ErrServiceUnavailable}
	svc := NewPaymentService(appender, zerolog.Nop())

	_, err := svc.AddPayment(context.Background(), validRequest(), 42)
	if !errors.Is(err, apperrors.ErrServiceUnavailable) {
		t.Fatalf("expected ServiceUnavailable to propagate, got %v", err)
	}
}
