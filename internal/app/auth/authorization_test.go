package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/dkravchenko/schoolfood/internal/app/models"
	"github.com/dkravchenko/schoolfood/internal/pkg/apperrors"
)

// fakeOwnership maps guardian id -> owned student ids.
type fakeOwnership struct {
	owned map[int64][]int64
	err   error
}

func (f *fakeOwnership) OwnedByGuardian(_ context.Context, studentID, guardianID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, id := range f.owned[guardianID] {
		if id == studentID {
			return true, nil
		}
	}
	return false, nil
}

func TestCanAccessStudent(t *testing.T) {
	ownership := &fakeOwnership{owned: map[int64][]int64{
		10: {1, 2},
	}}
	svc := NewAuthorizationService(ownership)

	tests := []struct {
		name      string
		identity  Identity
		studentID int64
		wantErr   error
	}{
		{"admin sees any student", Identity{SubjectID: 99, Role: models.RoleAdmin}, 3, nil},
		{"student sees itself", Identity{SubjectID: 1, Role: models.RoleStudent}, 1, nil},
		{"student cannot see others", Identity{SubjectID: 1, Role: models.RoleStudent}, 2, apperrors.ErrForbidden},
		{"guardian sees owned student", Identity{SubjectID: 10, Role: models.RoleGuardian}, 1, nil},
		{"guardian cannot see unowned student", Identity{SubjectID: 10, Role: models.RoleGuardian}, 3, apperrors.ErrForbidden},
		{"guardian probing nonexistent student gets forbidden", Identity{SubjectID: 10, Role: models.RoleGuardian}, 9999, apperrors.ErrForbidden},
		{"unknown role rejected", Identity{SubjectID: 1, Role: models.RoleType("HACKER")}, 1, apperrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CanAccessStudent(context.Background(), tt.identity, tt.studentID)
			if !errors.Is(err, tt.wantErr) && !(err == nil && tt.wantErr == nil) {
				t.Fatalf("CanAccessStudent() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCanAccessStudentOwnershipError(t *testing.T) {
	ownership := &fakeOwnership{err: errors.New("connection refused")}
	svc := NewAuthorizationService(ownership)

	err := svc.CanAccessStudent(context.Background(), Identity{SubjectID: 10, Role: models.RoleGuardian}, 1)
	if err == nil {
		t.Fatal("expected error when ownership lookup fails")
	}
	if errors.Is(err, apperrors.ErrForbidden) {
		t.Fatal("lookup failure must not masquerade as a policy decision")
	}
}
