package repositories

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestBalanceColumnExcludesFutureDates(t *testing.T) {
	// The list/login balance and the balance endpoint must derive from the
	// same ledger window. The endpoint defaults to payment_date <= now, so
	// the embedded subquery has to carry the same cutoff or a future-dated
	// payment would show in one balance and not the other.
	if !strings.Contains(balanceColumn, "p.payment_date <= CURRENT_DATE") {
		t.Fatalf("balance subquery missing the as-of-today cutoff: %s", balanceColumn)
	}
}

// fakeRow feeds canned column values into a Scan call.
type fakeRow struct {
	values []interface{}
}

func (r fakeRow) Scan(dest ...interface{}) error {
	for i, d := range dest {
		switch v := d.(type) {
		case *int64:
			*v = r.values[i].(int64)
		case *string:
			*v = r.values[i].(string)
		case **int64:
			if r.values[i] != nil {
				id := r.values[i].(int64)
				*v = &id
			}
		case **string:
			if r.values[i] != nil {
				s := r.values[i].(string)
				*v = &s
			}
		}
	}
	return nil
}

func TestScanStudentAccount(t *testing.T) {
	account, err := scanStudentAccount(fakeRow{values: []interface{}{
		int64(5), "Ivan Petrov", int64(1001), int64(10), "Olga Petrova", "379.50",
	}})
	if err != nil {
		t.Fatalf("scanStudentAccount returned error: %v", err)
	}
	if account.ID != 5 || account.StudentCode != 1001 {
		t.Errorf("identity fields mismatch: %+v", account)
	}
	if account.GuardianName == nil || *account.GuardianName != "Olga Petrova" {
		t.Error("guardian name not scanned")
	}
	if !account.Balance.Equal(decimal.RequireFromString("379.50")) {
		t.Errorf("balance = %s, want 379.50", account.Balance)
	}
}

func TestScanStudentAccountBadBalance(t *testing.T) {
	_, err := scanStudentAccount(fakeRow{values: []interface{}{
		int64(5), "Ivan Petrov", int64(1001), nil, nil, "not-a-number",
	}})
	if err == nil {
		t.Fatal("expected error for unparseable balance")
	}
}
