package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kpappas/go-consult-backend/internal/domain"
)

func TestPatientService_PartialUpdateLeavesOtherFields(t *testing.T) {
	db := newServiceDB(t)
	svc := &PatientService{DB: db}
	owner := seedAccount(t, db, "doc@example.com")

	p, err := svc.Create(context.Background(), owner.ID, domain.PatientCreate{
		Name:           "Jane Roe",
		MedicalHistory: strptr("penicillin allergy"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	before := p.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	got, err := svc.Update(context.Background(), p.ID, domain.PatientUpdate{Name: strptr("Jane Doe")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Name != "Jane Doe" {
		t.Errorf("Name = %q, want %q", got.Name, "Jane Doe")
	}
	if got.MedicalHistory == nil || *got.MedicalHistory != "penicillin allergy" {
		t.Errorf("MedicalHistory changed by unrelated update: %v", got.MedicalHistory)
	}
	if !got.UpdatedAt.After(before) {
		t.Errorf("UpdatedAt %v not after %v", got.UpdatedAt, before)
	}
}

func TestPatientService_UpdateUnknown(t *testing.T) {
	db := newServiceDB(t)
	svc := &PatientService{DB: db}

	if _, err := svc.Update(context.Background(), "no-such-id", domain.PatientUpdate{Name: strptr("X")}); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("Update unknown = %v, want ErrPatientNotFound", err)
	}
	if _, err := svc.Get(context.Background(), "no-such-id"); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("Get unknown = %v, want ErrPatientNotFound", err)
	}
	if err := svc.Delete(context.Background(), "no-such-id"); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("Delete unknown = %v, want ErrPatientNotFound", err)
	}
}

func TestPatientService_ListCountIndependentOfPage(t *testing.T) {
	db := newServiceDB(t)
	svc := &PatientService{DB: db}
	owner := seedAccount(t, db, "doc@example.com")

	for i := 0; i < 5; i++ {
		seedPatientRow(t, db, owner.ID, "Patient "+string(rune('A'+i)))
	}

	items, total, err := svc.List(context.Background(), 0, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("page size = %d, want 2", len(items))
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}

	items, total, err = svc.List(context.Background(), 4, 2)
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(items) != 1 || total != 5 {
		t.Errorf("last page = %d rows, total %d; want 1 and 5", len(items), total)
	}
}

func TestPatientService_DeleteRemovesRow(t *testing.T) {
	db := newServiceDB(t)
	svc := &PatientService{DB: db}
	owner := seedAccount(t, db, "doc@example.com")
	p := seedPatientRow(t, db, owner.ID, "Temp")

	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), p.ID); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("Get after delete = %v, want ErrPatientNotFound", err)
	}
}
