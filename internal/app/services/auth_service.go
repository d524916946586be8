package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dkravchenko/schoolfood/internal/app/models"
	"github.com/dkravchenko/schoolfood/internal/app/models/dto"
	"github.com/dkravchenko/schoolfood/internal/pkg/apperrors"
	"github.com/dkravchenko/schoolfood/internal/pkg/auth"
)

// AdministratorStore is the credential lookup needed for admin login.
type AdministratorStore interface {
	GetByFullName(ctx context.Context, fullName string) (*models.Administrator, error)
}

// GuardianStore is the credential lookup needed for guardian login.
type GuardianStore interface {
	GetByFullName(ctx context.Context, fullName string) (*models.Guardian, error)
}

// StudentDirectory is the code lookup needed for passwordless student login.
type StudentDirectory interface {
	GetAccountByCode(ctx context.Context, studentCode int64) (*models.StudentAccount, error)
}

// AuthService resolves a login request to a role-tagged token and profile.
type AuthService interface {
	LoginAdmin(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	LoginGuardian(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	LoginStudent(ctx context.Context, studentCode int64) (*dto.LoginResponse, error)
}

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	admins     AdministratorStore
	guardians  GuardianStore
	students   StudentDirectory
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new auth service instance
func NewAuthService(
	admins AdministratorStore,
	guardians GuardianStore,
	students StudentDirectory,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		admins:     admins,
		guardians:  guardians,
		students:   students,
		jwtService: jwtService,
		logger:     logger,
	}
}

// validateCredentials checks the login request shape before any lookup
func validateCredentials(req *dto.LoginRequest) error {
	if req == nil {
		return apperrors.NewValidationError("request is nil")
	}
	if strings.TrimSpace(req.FullName) == "" {
		return apperrors.NewValidationError("full_name cannot be empty")
	}
	if req.Password == "" {
		return apperrors.NewValidationError("password cannot be empty")
	}
	return nil
}

// LoginAdmin authenticates an administrator by name and password.
// Unknown name and wrong password produce the same InvalidCredentials result;
// only the server log records which branch failed.
func (s *authServiceImpl) LoginAdmin(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := validateCredentials(req); err != nil {
		return nil, err
	}

	admin, err := s.admins.GetByFullName(ctx, req.FullName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Info().Str("fullName", req.FullName).Msg("Admin login failed: unknown administrator")
			return nil, apperrors.ErrInvalidCredentials
		}
		if errors.Is(err, apperrors.ErrServiceUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("error looking up administrator: %w", err)
	}

	if !auth.CheckPassword(admin.Password, req.Password) {
		s.logger.Info().Int64("administratorID", admin.ID).Msg("Admin login failed: wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(admin.ID, models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("error issuing admin token: %w", err)
	}

	s.logger.Info().Int64("administratorID", admin.ID).Msg("Administrator logged in")
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: expiresIn,
		User: dto.UserData{
			ID:       admin.ID,
			FullName: admin.FullName,
			Role:     string(models.RoleAdmin),
		},
	}, nil
}

// LoginGuardian authenticates a guardian by name and password with the same
// policy as administrator login.
func (s *authServiceImpl) LoginGuardian(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := validateCredentials(req); err != nil {
		return nil, err
	}

	guardian, err := s.guardians.GetByFullName(ctx, req.FullName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Info().Str("fullName", req.FullName).Msg("Guardian login failed: unknown guardian")
			return nil, apperrors.ErrInvalidCredentials
		}
		if errors.Is(err, apperrors.ErrServiceUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("error looking up guardian: %w", err)
	}

	if !auth.CheckPassword(guardian.Password, req.Password) {
		s.logger.Info().Int64("guardianID", guardian.ID).Msg("Guardian login failed: wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(guardian.ID, models.RoleGuardian)
	if err != nil {
		return nil, fmt.Errorf("error issuing guardian token: %w", err)
	}

	s.logger.Info().Int64("guardianID", guardian.ID).Msg("Guardian logged in")
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: expiresIn,
		User: dto.UserData{
			ID:       guardian.ID,
			FullName: guardian.FullName,
			Role:     string(models.RoleGuardian),
		},
	}, nil
}

// LoginStudent resolves a public student code to a student session. There is
// no password: this is identification, not authentication, and the guarantee
// is weaker by design. The profile carries the current balance and the
// guardian's name.
func (s *authServiceImpl) LoginStudent(ctx context.Context, studentCode int64) (*dto.LoginResponse, error) {
	if studentCode <= 0 {
		return nil, apperrors.NewValidationError("student code must be a positive number")
	}

	account, err := s.students.GetAccountByCode(ctx, studentCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Info().Int64("studentCode", studentCode).Msg("Student login failed: unknown code")
			return nil, apperrors.ErrStudentNotFound
		}
		if errors.Is(err, apperrors.ErrServiceUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("error looking up student: %w", err)
	}

	token, expiresIn, err := s.jwtService.GenerateToken(account.ID, models.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("error issuing student token: %w", err)
	}

	balance := account.Balance
	code := account.StudentCode
	s.logger.Info().Int64("studentID", account.ID).Msg("Student logged in by code")
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: expiresIn,
		User: dto.UserData{
			ID:           account.ID,
			FullName:     account.DisplayName,
			Role:         string(models.RoleStudent),
			StudentCode:  &code,
			Balance:      &balance,
			GuardianName: account.GuardianName,
		},
	}, nil
}
