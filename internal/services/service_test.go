package services

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kpappas/go-consult-backend/internal/domain"
	"github.com/kpappas/go-consult-backend/internal/repo"
)

// newServiceDB opens an isolated in-memory SQLite database with foreign
// keys enabled and the full schema migrated.
func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedAccount(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), db, &domain.User{
		Email:          email,
		HashedPassword: "x",
		IsActive:       true,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedPatientRow(t *testing.T, db *gorm.DB, createdBy string, name string) *domain.Patient {
	t.Helper()
	p, err := repo.CreatePatient(context.Background(), db, createdBy, domain.PatientCreate{Name: name})
	if err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	return p
}

func strptr(s string) *string { return &s }
