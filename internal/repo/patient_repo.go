// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Patient
// model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kpappas/go-consult-backend/internal/domain"
)

// CreatePatient inserts a new patient row created by the given user.
func CreatePatient(ctx context.Context, db *gorm.DB, createdByID string, in domain.PatientCreate) (*domain.Patient, error) {
	now := time.Now().UTC()
	p := &domain.Patient{
		ID:             uuid.NewString(),
		Name:           in.Name,
		MedicalHistory: in.MedicalHistory,
		CreatedByID:    createdByID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// GetPatient fetches a patient by id, or ErrNotFound.
func GetPatient(ctx context.Context, db *gorm.DB, id string) (*domain.Patient, error) {
	var p domain.Patient
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// CountPatients returns the total number of patient rows, independent of
// any pagination window.
func CountPatients(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Patient{}).Count(&total).Error
	return total, err
}

// ListPatientsPage returns a slice of patients ordered deterministically
// (CreatedAt ASC, ID ASC). The caller computes offset and limit.
func ListPatientsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Patient, error) {
	var out []domain.Patient
	q := db.WithContext(ctx).Order("created_at ASC, id ASC").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// UpdatePatient persists the given column map for a patient and returns
// ErrNotFound when no row matched. Callers are responsible for including
// the refreshed updated_at value.
func UpdatePatient(ctx context.Context, db *gorm.DB, id string, cols map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.Patient{}).
		Where("id = ?", id).
		Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeletePatient physically removes a patient row; dependent sessions (and
// transitively their logs and feedback) go with it via cascade.
func DeletePatient(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Patient{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
