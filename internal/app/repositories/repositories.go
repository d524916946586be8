package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkravchenko/schoolfood/internal/pkg/apperrors"
)

// Repositories holds all repository instances
type Repositories struct {
	AdministratorRepository *AdministratorRepository
	GuardianRepository      *GuardianRepository
	StudentRepository       *StudentRepository
	PaymentRepository       *PaymentRepository
}

// NewRepositories creates all repositories sharing one pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		AdministratorRepository: NewAdministratorRepository(db),
		GuardianRepository:      NewGuardianRepository(db),
		StudentRepository:       NewStudentRepository(db),
		PaymentRepository:       NewPaymentRepository(db),
	}
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique violation error.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" // 23505 is unique_violation
}

// mapStorageErr converts transport-level failures into the retryable
// ServiceUnavailable kind. Raw driver errors never reach clients; callers log
// them and surface only the taxonomy error.
func mapStorageErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperrors.ErrServiceUnavailable
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08 covers connection exceptions, 57 operator intervention
		// (shutdown, crash recovery).
		if len(pgErr.Code) >= 2 && (pgErr.Code[:2] == "08" || pgErr.Code[:2] == "57") {
			return apperrors.ErrServiceUnavailable
		}
	}
	return err
}
