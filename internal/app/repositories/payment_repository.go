package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dkravchenko/schoolfood/internal/app/models"
	"github.com/dkravchenko/schoolfood/internal/pkg/logger"
)

// PaymentRepository handles ledger database operations. The payments table is
// append-only: this repository exposes no update or delete.
type PaymentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create appends one payment row and returns it with the server-assigned id
// and creation timestamp. Single INSERT, so concurrent balance readers see
// either the full pre-insert or full post-insert ledger.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	sql, args, err := r.sb.Insert("payments").
		Columns("student_id", "payment_date", "amount", "description", "created_by").
		Values(payment.StudentID, payment.PaymentDate, payment.Amount.String(), payment.Description, payment.CreatedBy).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create payment SQL")
		return nil, fmt.Errorf("failed to build create payment query: %w", err)
	}

	created := *payment
	err = r.db.QueryRow(ctx, sql, args...).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", payment.StudentID).Msg("Error executing create payment query")
		return nil, mapStorageErr(err)
	}

	return &created, nil
}

// ListByStudent retrieves all payments of a student ordered by payment date
// descending, tie-broken by creation timestamp and id descending. Each call
// is a fresh query; no cursor state.
func (r *PaymentRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.Payment, error) {
	sql, args, err := r.sb.Select("id", "student_id", "payment_date", "amount::text", "description", "created_at", "created_by").
		From("payments").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("payment_date DESC", "created_at DESC", "id DESC").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building list payments SQL")
		return nil, fmt.Errorf("failed to build list payments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing list payments query")
		return nil, mapStorageErr(err)
	}
	defer rows.Close()

	payments := []*models.Payment{}
	for rows.Next() {
		payment := &models.Payment{}
		var amountText string
		if err := rows.Scan(&payment.ID, &payment.StudentID, &payment.PaymentDate, &amountText,
			&payment.Description, &payment.CreatedAt, &payment.CreatedBy); err != nil {
			logger.Error().Err(err).Msg("Error scanning payment row")
			return nil, fmt.Errorf("error scanning payment row: %w", err)
		}
		payment.Amount, err = decimal.NewFromString(amountText)
		if err != nil {
			return nil, fmt.Errorf("invalid amount value %q: %w", amountText, err)
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating payment rows")
		return nil, mapStorageErr(err)
	}

	return payments, nil
}

// SumAmountByStudent returns the exact signed sum of all payments of a
// student with payment_date <= asOf. Zero (not an error) when there are no
// rows; the summation happens in NUMERIC, so no precision is lost.
func (r *PaymentRepository) SumAmountByStudent(ctx context.Context, studentID int64, asOf time.Time) (decimal.Decimal, error) {
	sql, args, err := r.sb.Select("COALESCE(SUM(amount), 0)::text").
		From("payments").
		Where(squirrel.Eq{"student_id": studentID}).
		Where(squirrel.LtOrEq{"payment_date": asOf}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building sum payments SQL")
		return decimal.Zero, fmt.Errorf("failed to build sum payments query: %w", err)
	}

	var sumText string
	err = r.db.QueryRow(ctx, sql, args...).Scan(&sumText)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing sum payments query")
		return decimal.Zero, mapStorageErr(err)
	}

	sum, err := decimal.NewFromString(sumText)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid balance value %q: %w", sumText, err)
	}

	return sum, nil
}

// StudentExists reports whether a student row exists; payment creation
// validates the foreign key up front to return a clean NotFound.
func (r *PaymentRepository) StudentExists(ctx context.Context, studentID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("students").
		Where(squirrel.Eq{"id": studentID}).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building student exists SQL")
		return false, fmt.Errorf("failed to build student existence query: %w", err)
	}

	var exists bool
	err = r.db.QueryRow(ctx, sql, args...).Scan(&exists)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error checking student existence")
		return false, mapStorageErr(err)
	}

	return exists, nil
}
