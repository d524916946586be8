// Package seed creates the default demo accounts on first start.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	appModels "github.com/dkravchenko/schoolfood/internal/app/models"
	"github.com/dkravchenko/schoolfood/internal/app/models/dto"
	appRepos "github.com/dkravchenko/schoolfood/internal/app/repositories"
	"github.com/dkravchenko/schoolfood/internal/pkg/apperrors"
	"github.com/dkravchenko/schoolfood/internal/pkg/auth"
)

// CreateDefaultData creates the default administrator, guardian, students and
// a few sample payments if they don't exist. Re-running against a seeded
// database is a no-op: every insert tolerates AlreadyExists.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	repos := appRepos.NewRepositories(dbPool)

	lgr.Info().Msg("Checking/Creating default data (accounts/students)...")
	var finalErr error

	// --- Administrator --- //
	adminID, err := seedAdministrator(ctx, repos.AdministratorRepository, "Maria Ivanova", "admin123")
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating default administrator")
		finalErr = errors.Join(finalErr, err)
	}

	// --- Guardian --- //
	guardianID, err := seedGuardian(ctx, repos.GuardianRepository, "Olga Petrova", "parent123")
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating default guardian")
		finalErr = errors.Join(finalErr, err)
	}

	// --- Students --- //
	type studentSeed struct {
		name     string
		code     int64
		guardian *int64
	}
	var owned *int64
	if guardianID > 0 {
		owned = &guardianID
	}
	studentSeeds := []studentSeed{
		{name: "Ivan Petrov", code: 1001, guardian: owned},
		{name: "Anna Petrova", code: 1002, guardian: owned},
		{name: "Dmitry Sidorov", code: 1003, guardian: nil},
	}

	studentIDs := make(map[int64]int64, len(studentSeeds))
	for _, s := range studentSeeds {
		id, err := seedStudent(ctx, repos.StudentRepository, s.name, s.code, s.guardian)
		if err != nil {
			lgr.Error().Err(err).Str("student", s.name).Msg("Error creating default student")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		studentIDs[s.code] = id
	}

	// --- Sample payments --- //
	// Only on a fresh database: if the first student already has ledger rows,
	// skip so repeated starts don't inflate balances.
	if adminID > 0 && len(studentIDs) > 0 {
		if err := seedPayments(ctx, repos.PaymentRepository, studentIDs, adminID); err != nil {
			lgr.Error().Err(err).Msg("Error creating sample payments")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data check complete")
	}
	return finalErr
}

func seedAdministrator(ctx context.Context, repo *appRepos.AdministratorRepository, fullName, password string) (int64, error) {
	existing, err := repo.GetByFullName(ctx, fullName)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return 0, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, err
	}

	id, err := repo.Create(ctx, &appModels.Administrator{FullName: fullName, Password: hash})
	if errors.Is(err, apperrors.ErrAlreadyExists) {
		existing, errGet := repo.GetByFullName(ctx, fullName)
		if errGet != nil {
			return 0, errGet
		}
		return existing.ID, nil
	}
	return id, err
}

func seedGuardian(ctx context.Context, repo *appRepos.GuardianRepository, fullName, password string) (int64, error) {
	existing, err := repo.GetByFullName(ctx, fullName)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return 0, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, err
	}

	id, err := repo.Create(ctx, &appModels.Guardian{FullName: fullName, Password: hash})
	if errors.Is(err, apperrors.ErrAlreadyExists) {
		existing, errGet := repo.GetByFullName(ctx, fullName)
		if errGet != nil {
			return 0, errGet
		}
		return existing.ID, nil
	}
	return id, err
}

func seedStudent(ctx context.Context, repo *appRepos.StudentRepository, displayName string, studentCode int64, guardianID *int64) (int64, error) {
	existing, err := repo.GetAccountByCode(ctx, studentCode)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, apperrors.ErrStudentNotFound) && !errors.Is(err, apperrors.ErrNotFound) {
		return 0, err
	}

	id, err := repo.Create(ctx, &appModels.Student{
		DisplayName: displayName,
		StudentCode: studentCode,
		GuardianID:  guardianID,
	})
	if errors.Is(err, apperrors.ErrAlreadyExists) {
		existing, errGet := repo.GetAccountByCode(ctx, studentCode)
		if errGet != nil {
			return 0, errGet
		}
		return existing.ID, nil
	}
	return id, err
}

func seedPayments(ctx context.Context, repo *appRepos.PaymentRepository, studentIDs map[int64]int64, adminID int64) error {
	firstID, ok := studentIDs[1001]
	if !ok {
		return nil
	}
	existing, err := repo.ListByStudent(ctx, firstID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	type paymentSeed struct {
		code        int64
		date        string
		amount      string
		description string
	}
	paymentSeeds := []paymentSeed{
		{code: 1001, date: "2024-01-10", amount: "500.00", description: "January top-up"},
		{code: 1001, date: "2024-01-15", amount: "-120.50", description: "Cafeteria purchases, week 2"},
		{code: 1002, date: "2024-01-10", amount: "300.00", description: "January top-up"},
		{code: 1003, date: "2024-01-12", amount: "450.00", description: "January top-up"},
	}

	for _, p := range paymentSeeds {
		studentID, ok := studentIDs[p.code]
		if !ok {
			continue
		}
		date, err := time.Parse(dto.DateLayout, p.date)
		if err != nil {
			return err
		}
		amount, err := decimal.NewFromString(p.amount)
		if err != nil {
			return err
		}
		_, err = repo.Create(ctx, &appModels.Payment{
			StudentID:   studentID,
			PaymentDate: date,
			Amount:      amount,
			Description: p.description,
			CreatedBy:   adminID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
