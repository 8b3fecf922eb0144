// Package services – PatientService
//
// This file implements the PatientService, which manages the patient
// registry. It coordinates repository operations for creating, listing
// (with pagination and a pagination-independent total), partial updates,
// and physical deletion. Authorization is a transport concern: handlers
// reject unprivileged principals before any of these methods run.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kpappas/go-consult-backend/internal/domain"
	"github.com/kpappas/go-consult-backend/internal/repo"
)

// PatientService provides patient registry operations.
type PatientService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// List returns one page of patients plus the total row count. The count
// reflects all matching rows, not the page size.
func (s *PatientService) List(ctx context.Context, skip, limit int) ([]domain.Patient, int64, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 100
	}
	total, err := repo.CountPatients(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	items, err := repo.ListPatientsPage(ctx, s.DB, skip, limit)
	return items, total, err
}

// Get fetches a patient by id, or ErrPatientNotFound.
func (s *PatientService) Get(ctx context.Context, id string) (*domain.Patient, error) {
	p, err := repo.GetPatient(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return p, nil
}

// Create registers a new patient owned by createdByID.
func (s *PatientService) Create(ctx context.Context, createdByID string, in domain.PatientCreate) (*domain.Patient, error) {
	return repo.CreatePatient(ctx, s.DB, createdByID, in)
}

// Update applies a partial update: only the fields present in the payload
// change, and updated_at is refreshed unconditionally on success. Fields
// absent from the payload are never touched, so an omitted nullable field
// is not conflated with an explicit clear.
func (s *PatientService) Update(ctx context.Context, id string, in domain.PatientUpdate) (*domain.Patient, error) {
	cols := map[string]any{}
	if in.Name != nil {
		cols["name"] = *in.Name
	}
	if in.MedicalHistory != nil {
		cols["medical_history"] = *in.MedicalHistory
	}
	cols["updated_at"] = time.Now().UTC()

	if err := repo.UpdatePatient(ctx, s.DB, id, cols); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete physically removes a patient. Dependent sessions, their logs and
// feedback are purged by the database cascade in the same transaction.
func (s *PatientService) Delete(ctx context.Context, id string) error {
	if err := repo.DeletePatient(ctx, s.DB, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPatientNotFound
		}
		return err
	}
	return nil
}
