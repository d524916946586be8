package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoleType identifies the kind of account behind a session token.
type RoleType string

const (
	RoleAdmin    RoleType = "ADMIN"
	RoleGuardian RoleType = "GUARDIAN"
	RoleStudent  RoleType = "STUDENT"
)

// Valid reports whether the role is one of the known role values.
func (r RoleType) Valid() bool {
	switch r {
	case RoleAdmin, RoleGuardian, RoleStudent:
		return true
	}
	return false
}

// Administrator defines the admin model based on the 'administrators' table
type Administrator struct {
	ID        int64     `json:"id" db:"id"`
	FullName  string    `json:"fullName" db:"full_name"`
	Password  string    `json:"-" db:"password_hash"` // bcrypt hash, excluded from JSON
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Guardian defines the parent-role model based on the 'guardians' table
type Guardian struct {
	ID        int64     `json:"id" db:"id"`
	FullName  string    `json:"fullName" db:"full_name"`
	Password  string    `json:"-" db:"password_hash"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Student defines the student model based on the 'students' table.
// StudentCode is the human-facing numeric identifier used for passwordless
// login; it is distinct from the internal row id. Balance is never stored,
// it is derived from the payments ledger.
type Student struct {
	ID          int64  `json:"id" db:"id"`
	DisplayName string `json:"displayName" db:"display_name"`
	StudentCode int64  `json:"studentCode" db:"student_code"`
	GuardianID  *int64 `json:"guardianId,omitempty" db:"guardian_id"`
}

// StudentAccount is a student joined with its guardian name and the balance
// computed from the payments ledger at query time.
type StudentAccount struct {
	Student
	GuardianName *string         `json:"guardianName,omitempty" db:"guardian_name"`
	Balance      decimal.Decimal `json:"balance" db:"balance"`
}

// Payment is one immutable row of the ledger. Positive amounts are credits
// (top-ups), negative amounts are debits. Rows are never updated or deleted;
// a reversal is a new payment with the negated amount.
type Payment struct {
	ID          int64           `json:"id" db:"id"`
	StudentID   int64           `json:"studentId" db:"student_id"`
	PaymentDate time.Time       `json:"paymentDate" db:"payment_date"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Description string          `json:"description" db:"description"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	CreatedBy   int64           `json:"createdBy" db:"created_by"`
}
