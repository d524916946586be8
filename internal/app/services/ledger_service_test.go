package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkravchenko/schoolfood/internal/app/models"
	"github.com/dkravchenko/schoolfood/internal/pkg/apperrors"
)

// fakeLedger serves payments from memory the way the repository would:
// newest first, sums filtered by date.
type fakeLedger struct {
	payments map[int64][]*models.Payment
	err      error
}

func (f *fakeLedger) ListByStudent(_ context.Context, studentID int64) ([]*models.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.payments[studentID], nil
}

func (f *fakeLedger) SumAmountByStudent(_ context.Context, studentID int64, asOf time.Time) (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Zero, f.err
	}
	sum := decimal.Zero
	for _, p := range f.payments[studentID] {
		if !p.PaymentDate.After(asOf) {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

type fakeStudentLister struct {
	accounts map[int64][]*models.StudentAccount
	all      []*models.StudentAccount
}

func (f *fakeStudentLister) ListAccounts(_ context.Context) ([]*models.StudentAccount, error) {
	return f.all, nil
}

func (f *fakeStudentLister) ListAccountsByGuardian(_ context.Context, guardianID int64) ([]*models.StudentAccount, error) {
	return f.accounts[guardianID], nil
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad date literal %q: %v", s, err)
	}
	return d
}

func TestGetBalanceNoPayments(t *testing.T) {
	svc := NewLedgerService(&fakeLedger{payments: map[int64][]*models.Payment{}}, &fakeStudentLister{})

	balance, err := svc.GetBalance(context.Background(), 1, time.Time{})
	if err != nil {
		t.Fatalf("GetBalance returned error: %v", err)
	}
	if !balance.IsZero() {
		t.Fatalf("expected zero balance for empty ledger, got %s", balance)
	}
}

func TestGetBalanceSignedSum(t *testing.T) {
	ledger := &fakeLedger{payments: map[int64][]*models.Payment{
		1: {
			{StudentID: 1, PaymentDate: date(t, "2024-01-10"), Amount: mustDecimal(t, "500.00")},
			{StudentID: 1, PaymentDate: date(t, "2024-01-15"), Amount: mustDecimal(t, "-120.50")},
			{StudentID: 1, PaymentDate: date(t, "2024-02-01"), Amount: mustDecimal(t, "300.00")},
		},
	}}
	svc := NewLedgerService(ledger, &fakeStudentLister{})

	balance, err := svc.GetBalance(context.Background(), 1, time.Time{})
	if err != nil {
		t.Fatalf("GetBalance returned error: %v", err)
	}
	if want := mustDecimal(t, "679.50"); !balance.Equal(want) {
		t.Fatalf("expected balance %s, got %s", want, balance)
	}
}

func TestGetBalanceAsOfCutoff(t *testing.T) {
	ledger := &fakeLedger{payments: map[int64][]*models.Payment{
		1: {
			{StudentID: 1, PaymentDate: date(t, "2024-01-10"), Amount: mustDecimal(t, "500.00")},
			{StudentID: 1, PaymentDate: date(t, "2024-01-15"), Amount: mustDecimal(t, "-120.50")},
			{StudentID: 1, PaymentDate: date(t, "2024-02-01"), Amount: mustDecimal(t, "300.00")},
		},
	}}
	svc := NewLedgerService(ledger, &fakeStudentLister{})

	balance, err := svc.GetBalance(context.Background(), 1, date(t, "2024-01-20"))
	if err != nil {
		t.Fatalf("GetBalance returned error: %v", err)
	}
	if want := mustDecimal(t, "379.50"); !balance.Equal(want) {
		t.Fatalf("expected as-of balance %s, got %s", want, balance)
	}
}

func TestGetBalanceExactDecimalSum(t *testing.T) {
	// Many small amounts that would accumulate float error; the decimal sum
	// must stay exact.
	var payments []*models.Payment
	day := date(t, "2024-01-01")
	for i := 0; i < 10000; i++ {
		payments = append(payments, &models.Payment{
			StudentID:   1,
			PaymentDate: day,
			Amount:      mustDecimal(t, "0.10"),
		})
	}
	ledger := &fakeLedger{payments: map[int64][]*models.Payment{1: payments}}
	svc := NewLedgerService(ledger, &fakeStudentLister{})

	balance, err := svc.GetBalance(context.Background(), 1, time.Time{})
	if err != nil {
		t.Fatalf("GetBalance returned error: %v", err)
	}
	if want := mustDecimal(t, "1000.00"); !balance.Equal(want) {
		t.Fatalf("expected exact sum %s, got %s", want, balance)
	}
}

func TestGetBalanceInvalidStudentID(t *testing.T) {
	svc := NewLedgerService(&fakeLedger{}, &fakeStudentLister{})

	for _, id := range []int64{0, -5} {
		if _, err := svc.GetBalance(context.Background(), id, time.Time{}); !errors.Is(err, apperrors.ErrValidationFailed) {
			t.Errorf("GetBalance(%d) = %v, want validation error", id, err)
		}
	}
}

func TestGetBalanceStorageError(t *testing.T) {
	svc := NewLedgerService(&fakeLedger{err: apperrors.ErrServiceUnavailable}, &fakeStudentLister{})

	_, err := svc.GetBalance(context.Background(), 1, time.Time{})
	if !errors.Is(err, apperrors.ErrServiceUnavailable) {
		t.Fatalf("expected ServiceUnavailable to propagate, got %v", err)
	}
}

func TestListPaymentsPreservesOrder(t *testing.T) {
	ledger := &fakeLedger{payments: map[int64][]*models.Payment{
		1: {
			{ID: 3, StudentID: 1, PaymentDate: date(t, "2024-02-01"), Amount: mustDecimal(t, "300.00")},
			{ID: 2, StudentID: 1, PaymentDate: date(t, "2024-01-15"), Amount: mustDecimal(t, "-120.50")},
			{ID: 1, StudentID: 1, PaymentDate: date(t, "2024-01-10"), Amount: mustDecimal(t, "500.00")},
		},
	}}
	svc := NewLedgerService(ledger, &fakeStudentLister{})

	payments, err := svc.ListPayments(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListPayments returned error: %v", err)
	}
	if len(payments) != 3 {
		t.Fatalf("expected 3 payments, got %d", len(payments))
	}
	for i, wantID := range []int64{3, 2, 1} {
		if payments[i].ID != wantID {
			t.Errorf("position %d: expected payment %d, got %d", i, wantID, payments[i].ID)
		}
	}
}

func TestListStudentsByGuardian(t *testing.T) {
	guardianName := "Olga Petrova"
	lister := &fakeStudentLister{
		accounts: map[int64][]*models.StudentAccount{
			10: {
				{Student: models.Student{ID: 1, DisplayName: "Anna Petrova", StudentCode: 1002}, GuardianName: &guardianName, Balance: mustDecimal(t, "300.00")},
				{Student: models.Student{ID: 2, DisplayName: "Ivan Petrov", StudentCode: 1001}, GuardianName: &guardianName, Balance: mustDecimal(t, "379.50")},
			},
		},
	}
	svc := NewLedgerService(&fakeLedger{}, lister)

	accounts, err := svc.ListStudentsByGuardian(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListStudentsByGuardian returned error: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 students, got %d", len(accounts))
	}

	other, err := svc.ListStudentsByGuardian(context.Background(), 99)
	if err != nil {
		t.Fatalf("ListStudentsByGuardian returned error: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no students for unrelated guardian, got %d", len(other))
	}

	if _, err := svc.ListStudentsByGuardian(context.Background(), 0); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error for guardian id 0, got %v", err)
	}
}

func TestGetBalanceIdempotent(t *testing.T) {
	ledger := &fakeLedger{payments: map[int64][]*models.Payment{
		1: {
			{StudentID: 1, PaymentDate: date(t, "2024-01-10"), Amount: mustDecimal(t, "500.00")},
			{StudentID: 1, PaymentDate: date(t, "2024-01-15"), Amount: mustDecimal(t, "-120.50")},
		},
	}}
	svc := NewLedgerService(ledger, &fakeStudentLister{})

	asOf := date(t, "2024-01-31")
	first, err := svc.GetBalance(context.Background(), 1, asOf)
	if err != nil {
		t.Fatalf("GetBalance returned error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := svc.GetBalance(context.Background(), 1, asOf)
		if err != nil {
			t.Fatalf("GetBalance run %d returned error: %v", i, err)
		}
		if !again.Equal(first) {
			t.Fatalf("balance changed between reads: %s then %s", first, again)
		}
	}
}
