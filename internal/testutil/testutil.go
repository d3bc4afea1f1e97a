package testutil

import (
	"context"
	"testing"

	"github.com/collegefest/champboard/internal/departments"
	"github.com/collegefest/champboard/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// SeedDepartments inserts departments parsed from an "ID[:Label],..." list.
// Departments that already exist are left alone.
func SeedDepartments(t *testing.T, repo repository.DepartmentRepository, list string) {
	t.Helper()

	for _, d := range departments.ParseSeed(list) {
		if _, err := repo.InsertDepartmentIfMissing(context.Background(), d); err != nil {
			t.Fatalf("failed to seed department %s: %v", d.ID, err)
		}
	}
}
