package dto

import (
	"github.com/shopspring/decimal"

	"github.com/dkravchenko/schoolfood/internal/app/models"
)

// StudentResponse is one student row with the guardian display name and the
// balance computed from the ledger.
type StudentResponse struct {
	ID           int64           `json:"id"`
	DisplayName  string          `json:"display_name"`
	StudentCode  int64           `json:"student_code" example:"1001"`
	GuardianID   *int64          `json:"guardian_id,omitempty"`
	GuardianName *string         `json:"guardian_name,omitempty"`
	Balance      decimal.Decimal `json:"balance"`
}

// NewStudentResponse converts a computed student account into its wire form.
func NewStudentResponse(a *models.StudentAccount) StudentResponse {
	return StudentResponse{
		ID:           a.ID,
		DisplayName:  a.DisplayName,
		StudentCode:  a.StudentCode,
		GuardianID:   a.GuardianID,
		GuardianName: a.GuardianName,
		Balance:      a.Balance,
	}
}

// NewStudentResponses converts a student account list preserving order.
func NewStudentResponses(accounts []*models.StudentAccount) []StudentResponse {
	out := make([]StudentResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, NewStudentResponse(a))
	}
	return out
}
