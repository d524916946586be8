package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dkravchenko/schoolfood/internal/app/models"
	"github.com/dkravchenko/schoolfood/internal/pkg/apperrors"
	"github.com/dkravchenko/schoolfood/internal/pkg/logger"
)

// balanceColumn computes the ledger sum for a student row as of today,
// matching the default cutoff of the balance endpoint so future-dated
// payments never appear in one derived balance but not the other. NUMERIC
// stays exact end to end: Postgres sums it exactly and the text cast feeds
// decimal.NewFromString on scan.
const balanceColumn = "(SELECT COALESCE(SUM(p.amount), 0) FROM payments p WHERE p.student_id = s.id AND p.payment_date <= CURRENT_DATE)::text AS balance"

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetAccountByCode retrieves a student by the public student code, joined
// with the guardian name and the computed balance. This backs the
// passwordless login flow; student_code is unique.
func (r *StudentRepository) GetAccountByCode(ctx context.Context, studentCode int64) (*models.StudentAccount, error) {
	sql, args, err := r.sb.Select(
		"s.id", "s.display_name", "s.student_code", "s.guardian_id",
		"g.full_name AS guardian_name",
		balanceColumn,
	).
		From("students s").
		LeftJoin("guardians g ON s.guardian_id = g.id").
		Where(squirrel.Eq{"s.student_code": studentCode}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get student by code SQL")
		return nil, fmt.Errorf("failed to build get student by code query: %w", err)
	}

	account, err := scanStudentAccount(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentCode", studentCode).Msg("Error scanning student account row")
		return nil, mapStorageErr(err)
	}

	return account, nil
}

// ListAccounts retrieves all students with guardian names and computed
// balances, ordered by display name. Admin scope only.
func (r *StudentRepository) ListAccounts(ctx context.Context) ([]*models.StudentAccount, error) {
	sql, args, err := r.sb.Select(
		"s.id", "s.display_name", "s.student_code", "s.guardian_id",
		"g.full_name AS guardian_name",
		balanceColumn,
	).
		From("students s").
		LeftJoin("guardians g ON s.guardian_id = g.id").
		OrderBy("s.display_name ASC").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	return r.queryAccounts(ctx, sql, args)
}

// ListAccountsByGuardian retrieves the students owned by one guardian with
// computed balances, ordered by display name.
func (r *StudentRepository) ListAccountsByGuardian(ctx context.Context, guardianID int64) ([]*models.StudentAccount, error) {
	sql, args, err := r.sb.Select(
		"s.id", "s.display_name", "s.student_code", "s.guardian_id",
		"g.full_name AS guardian_name",
		balanceColumn,
	).
		From("students s").
		LeftJoin("guardians g ON s.guardian_id = g.id").
		Where(squirrel.Eq{"s.guardian_id": guardianID}).
		OrderBy("s.display_name ASC").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building list students by guardian SQL")
		return nil, fmt.Errorf("failed to build list students by guardian query: %w", err)
	}

	return r.queryAccounts(ctx, sql, args)
}

// OwnedByGuardian reports whether the student exists and belongs to the
// guardian. A missing student reads as not owned.
func (r *StudentRepository) OwnedByGuardian(ctx context.Context, studentID, guardianID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("students").
		Where(squirrel.Eq{"id": studentID, "guardian_id": guardianID}).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building student ownership SQL")
		return false, fmt.Errorf("failed to build student ownership query: %w", err)
	}

	var owned bool
	err = r.db.QueryRow(ctx, sql, args...).Scan(&owned)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		logger.Error().Err(err).Int64("studentID", studentID).Int64("guardianID", guardianID).Msg("Error checking student ownership")
		return false, mapStorageErr(err)
	}

	return owned, nil
}

// Create inserts a student row. Used by seeding and admin provisioning.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) (int64, error) {
	sql, args, err := r.sb.Insert("students").
		Columns("display_name", "student_code", "guardian_id").
		Values(student.DisplayName, student.StudentCode, student.GuardianID).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return 0, fmt.Errorf("failed to build create student query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if isDuplicateKeyError(err) {
			// student_code is the public lookup key, it must stay unique
			return 0, apperrors.ErrAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create student query")
		return 0, mapStorageErr(err)
	}

	return id, nil
}

func (r *StudentRepository) queryAccounts(ctx context.Context, sql string, args []interface{}) ([]*models.StudentAccount, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, mapStorageErr(err)
	}
	defer rows.Close()

	accounts := []*models.StudentAccount{}
	for rows.Next() {
		account, err := scanStudentAccount(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student account row")
			return nil, fmt.Errorf("error scanning student account row: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating student account rows")
		return nil, mapStorageErr(err)
	}

	return accounts, nil
}

// scanStudentAccount scans one joined row; balance arrives as text and is
// parsed into an exact decimal.
func scanStudentAccount(row pgx.Row) (*models.StudentAccount, error) {
	account := &models.StudentAccount{}
	var balanceText string
	err := row.Scan(
		&account.ID, &account.DisplayName, &account.StudentCode, &account.GuardianID,
		&account.GuardianName, &balanceText,
	)
	if err != nil {
		return nil, err
	}

	account.Balance, err = decimal.NewFromString(balanceText)
	if err != nil {
		return nil, fmt.Errorf("invalid balance value %q: %w", balanceText, err)
	}

	return account, nil
}
