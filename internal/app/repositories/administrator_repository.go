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

// AdministratorRepository handles administrator database operations
type AdministratorRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAdministratorRepository creates a new AdministratorRepository
func NewAdministratorRepository(db *pgxpool.Pool) *AdministratorRepository {
	return &AdministratorRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByFullName retrieves an administrator by exact name match
func (r *AdministratorRepository) GetByFullName(ctx context.Context, fullName string) (*models.Administrator, error) {
	sql, args, err := r.sb.Select("id", "full_name", "password_hash", "created_at").
		From("administrators").
		Where(squirrel.Eq{"full_name": fullName}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get administrator SQL")
		return nil, fmt.Errorf("failed to build get administrator query: %w", err)
	}

	admin := &models.Administrator{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&admin.ID, &admin.FullName, &admin.Password, &admin.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		logger.Error().Err(err).Msg("Error scanning administrator row")
		return nil, mapStorageErr(err)
	}

	return admin, nil
}

// Create inserts an administrator row. Used by seeding only; administrators
// are provisioned out-of-band and immutable afterwards.
func (r *AdministratorRepository) Create(ctx context.Context, admin *models.Administrator) (int64, error) {
	sql, args, err := r.sb.Insert("administrators").
		Columns("full_name", "password_hash").
		Values(admin.FullName, admin.Password).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create administrator SQL")
		return 0, fmt.Errorf("failed to build create administrator query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if isDuplicateKeyError(err) {
			return 0, apperrors.ErrAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create administrator query")
		return 0, mapStorageErr(err)
	}

	return id, nil
}
