package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkravchenko/schoolfood/internal/app/models"
	"github.com/dkravchenko/schoolfood/internal/pkg/apperrors"
	"github.com/dkravchenko/schoolfood/internal/pkg/logger"
)

// GuardianRepository handles guardian database operations
type GuardianRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewGuardianRepository creates a new GuardianRepository
func NewGuardianRepository(db *pgxpool.Pool) *GuardianRepository {
	return &GuardianRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByFullName retrieves a guardian by exact name match
func (r *GuardianRepository) GetByFullName(ctx context.Context, fullName string) (*models.Guardian, error) {
	sql, args, err := r.sb.Select("id", "full_name", "password_hash", "created_at").
		From("guardians").
		Where(squirrel.Eq{"full_name": fullName}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get guardian SQL")
		return nil, fmt.Errorf("failed to build get guardian query: %w", err)
	}

	guardian := &models.Guardian{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&guardian.ID, &guardian.FullName, &guardian.Password, &guardian.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		logger.Error().Err(err).Msg("Error scanning guardian row")
		return nil, mapStorageErr(err)
	}

	return guardian, nil
}

// Create inserts a guardian row. Used by seeding only.
func (r *GuardianRepository) Create(ctx context.Context, guardian *models.Guardian) (int64, error) {
	sql, args, err := r.sb.Insert("guardians").
		Columns("full_name", "password_hash").
		Values(guardian.FullName, guardian.Password).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create guardian SQL")
		return 0, fmt.Errorf("failed to build create guardian query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if isDuplicateKeyError(err) {
			return 0, apperrors.ErrAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create guardian query")
		return 0, mapStorageErr(err)
	}

	return id, nil
}
