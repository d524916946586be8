package dto

import "github.com/shopspring/decimal"

// LoginRequest carries name/password credentials for admin and guardian login.
// Field names follow the original public API of the service.
type LoginRequest struct {
	FullName string `json:"full_name" binding:"required" example:"Maria Ivanova"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// UserData describes the authenticated account in login responses.
// Student logins additionally carry the public code, the computed balance
// and the guardian's display name.
type UserData struct {
	ID           int64            `json:"id" example:"1"`
	FullName     string           `json:"full_name" example:"Maria Ivanova"`
	Role         string           `json:"role" example:"ADMIN" enums:"ADMIN,GUARDIAN,STUDENT"`
	StudentCode  *int64           `json:"student_code,omitempty" example:"1001"`
	Balance      *decimal.Decimal `json:"balance,omitempty"`
	GuardianName *string          `json:"guardian_name,omitempty"`
}

// LoginResponse is returned by all three login flows.
type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresIn int      `json:"expires_in" example:"43200"`
	User      UserData `json:"user"`
}
