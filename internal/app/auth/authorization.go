package auth

import (
	"context"
	"fmt"

	"github.com/dkravchenko/schoolfood/internal/app/models"
	"github.com/dkravchenko/schoolfood/internal/pkg/apperrors"
	"github.com/dkravchenko/schoolfood/internal/pkg/logger"
)

// Identity is the verified caller identity extracted from token claims.
// It is produced only by the claim decoder, never from raw request text.
type Identity struct {
	SubjectID int64
	Role      models.RoleType
}

// StudentOwnership answers whether a student belongs to a guardian.
type StudentOwnership interface {
	OwnedByGuardian(ctx context.Context, studentID, guardianID int64) (bool, error)
}

// AuthorizationService implements the per-request access policy:
// admins see every student, a guardian sees only owned students, a student
// sees only itself.
type AuthorizationService struct {
	students StudentOwnership
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(students StudentOwnership) *AuthorizationService {
	return &AuthorizationService{students: students}
}

// CanAccessStudent permits or rejects access to one student's records.
// A guardian probing a student it does not own gets Forbidden whether or not
// the student exists, so the response does not leak existence.
func (s *AuthorizationService) CanAccessStudent(ctx context.Context, identity Identity, studentID int64) error {
	switch identity.Role {
	case models.RoleAdmin:
		return nil

	case models.RoleStudent:
		if identity.SubjectID == studentID {
			return nil
		}
		return apperrors.NewForbiddenError("students may only access their own records")

	case models.RoleGuardian:
		owned, err := s.students.OwnedByGuardian(ctx, studentID, identity.SubjectID)
		if err != nil {
			logger.Error().Err(err).Int64("studentID", studentID).Int64("guardianID", identity.SubjectID).Msg("Error checking student ownership")
			return fmt.Errorf("failed to check student ownership: %w", err)
		}
		if !owned {
			return apperrors.NewForbiddenError("student is not linked to this guardian")
		}
		return nil
	}

	return apperrors.ErrForbidden
}
