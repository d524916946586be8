package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkravchenko/schoolfood/internal/app/models"
)

// DateLayout is the wire format for ledger dates.
const DateLayout = "2006-01-02"

// CreatePaymentRequest is the body of POST /api/payments. Amount is signed:
// positive tops up the account, negative deducts from it.
type CreatePaymentRequest struct {
	StudentID   int64           `json:"student_id" binding:"required" example:"1"`
	PaymentDate string          `json:"payment_date" binding:"required" example:"2024-01-15"`
	Amount      decimal.Decimal `json:"amount" example:"500.00"`
	Description string          `json:"description" binding:"required" example:"January top-up"`
}

// PaymentResponse is one ledger row as returned to clients.
type PaymentResponse struct {
	ID          int64           `json:"id"`
	StudentID   int64           `json:"student_id"`
	PaymentDate string          `json:"payment_date" example:"2024-01-15"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	CreatedBy   int64           `json:"created_by"`
}

// NewPaymentResponse converts a ledger row into its wire form.
func NewPaymentResponse(p *models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		StudentID:   p.StudentID,
		PaymentDate: p.PaymentDate.Format(DateLayout),
		Amount:      p.Amount,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		CreatedBy:   p.CreatedBy,
	}
}

// NewPaymentResponses converts a payment list preserving order.
func NewPaymentResponses(payments []*models.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, NewPaymentResponse(p))
	}
	return out
}

// BalanceResponse is the body of GET /api/students/:id/balance.
type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
	AsOf    string          `json:"as_of" example:"2024-02-01"`
}
