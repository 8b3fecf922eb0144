// Patient HTTP handlers.
//
// This file exposes REST endpoints for the patient registry:
//   - GET    /patients          (list, paginated)
//   - POST   /patients          (create)
//   - GET    /patients/{id}     (read)
//   - PUT    /patients/{id}     (partial update)
//   - PATCH  /patients/{id}     (partial update)
//   - DELETE /patients/{id}     (delete, cascades)
//
// All patient routes are privilege-gated: non-superusers receive 403 before
// any lookup happens, so they cannot probe which patient ids exist.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kpappas/go-consult-backend/internal/domain"
	"github.com/kpappas/go-consult-backend/internal/http/middleware"
	"github.com/kpappas/go-consult-backend/internal/services"
	"github.com/kpappas/go-consult-backend/internal/utils"
)

// PatientService defines patient registry operations consumed by HTTP
// handlers. Implementations must honor the provided context.
type PatientService interface {
	// List returns a page of patients and the total row count.
	List(ctx context.Context, skip, limit int) ([]domain.Patient, int64, error)
	// Get fetches one patient by id.
	Get(ctx context.Context, id string) (*domain.Patient, error)
	// Create registers a patient owned by createdByID.
	Create(ctx context.Context, createdByID string, in domain.PatientCreate) (*domain.Patient, error)
	// Update applies a partial update to a patient.
	Update(ctx context.Context, id string, in domain.PatientUpdate) (*domain.Patient, error)
	// Delete removes a patient and its dependent rows.
	Delete(ctx context.Context, id string) error
}

// requirePrivileged enforces the elevated-access rule for patient data.
// The privilege check runs before any resource lookup, so an unprivileged
// caller always sees 403, never 404.
func requirePrivileged(c *gin.Context) *domain.User {
	u := middleware.CurrentUser(c)
	if u == nil {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return nil
	}
	if !u.IsPrivileged() {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "insufficient privileges")
		return nil
	}
	return u
}

// clampSkipLimit parses skip/limit query params with sane bounds.
func clampSkipLimit(c *gin.Context) (skip, limit int) {
	skip = utils.AtoiDefault(c.Query("skip"), 0)
	if skip < 0 {
		skip = 0
	}
	limit = utils.AtoiDefault(c.Query("limit"), 100)
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}
	return
}

// ListPatients godoc
// @ID          listPatients
// @Summary     List patients (paginated)
// @Description Returns a page of patients with a pagination-independent total count.
// @Tags        Patients
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  example(user123)
// @Param       skip       query   int     false "Rows to skip"     minimum(0) default(0)
// @Param       limit      query   int     false "Rows per page"    minimum(1) maximum(100) default(100)
//
// @Success     200  {object} domain.PatientsPublic
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Forbidden"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /patients [get]
func (h *Handlers) ListPatients(c *gin.Context) {
	if requirePrivileged(c) == nil {
		return
	}
	skip, limit := clampSkipLimit(c)

	items, total, err := h.patientSvc.List(c.Request.Context(), skip, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	resp := domain.PatientsPublic{Data: make([]domain.PatientPublic, 0, len(items)), Count: total}
	for i := range items {
		resp.Data = append(resp.Data, domain.PublicPatient(&items[i]))
	}
	ok(c, http.StatusOK, resp)
}

// CreatePatient godoc
// @ID          createPatient
// @Summary     Register a new patient
// @Tags        Patients
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  example(user123)
// @Param       body       body    domain.PatientCreate  true  "Patient payload"
//
// @Success     201  {object} domain.PatientPublic
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Forbidden"
// @Failure     422  {object} handlers.ErrorResponse "Validation error"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /patients [post]
func (h *Handlers) CreatePatient(c *gin.Context) {
	u := requirePrivileged(c)
	if u == nil {
		return
	}

	var req domain.PatientCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "invalid patient payload")
		return
	}

	p, err := h.patientSvc.Create(c.Request.Context(), u.ID, req)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, domain.PublicPatient(p))
}

// GetPatient godoc
// @ID          getPatient
// @Summary     Fetch a patient by id
// @Tags        Patients
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"           example(user123)
// @Param       id         path    string  true  "Patient ID (UUID)" format(uuid)
//
// @Success     200  {object} domain.PatientPublic
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Forbidden"
// @Failure     404  {object} handlers.ErrorResponse "Patient not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /patients/{id} [get]
func (h *Handlers) GetPatient(c *gin.Context) {
	if requirePrivileged(c) == nil {
		return
	}
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "patient id must be a UUID")
		return
	}

	p, err := h.patientSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.patientError(c, err)
		return
	}
	ok(c, http.StatusOK, domain.PublicPatient(p))
}

// UpdatePatient godoc
// @ID          updatePatient
// @Summary     Update a patient
// @Description Applies only the fields present in the payload; absent fields are untouched.
// @Description PUT and PATCH share these semantics.
// @Tags        Patients
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"           example(user123)
// @Param       id         path    string  true  "Patient ID (UUID)" format(uuid)
// @Param       body       body    domain.PatientUpdate  true  "Fields to update"
//
// @Success     200  {object} domain.PatientPublic
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Forbidden"
// @Failure     404  {object} handlers.ErrorResponse "Patient not found"
// @Failure     422  {object} handlers.ErrorResponse "Validation error"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /patients/{id} [put]
// @Router      /patients/{id} [patch]
func (h *Handlers) UpdatePatient(c *gin.Context) {
	if requirePrivileged(c) == nil {
		return
	}
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "patient id must be a UUID")
		return
	}

	var req domain.PatientUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "invalid patient payload")
		return
	}

	p, err := h.patientSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		h.patientError(c, err)
		return
	}
	ok(c, http.StatusOK, domain.PublicPatient(p))
}

// DeletePatient godoc
// @ID          deletePatient
// @Summary     Delete a patient
// @Description Removes the patient and, via cascade, its sessions, logs and feedback.
// @Tags        Patients
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"           example(user123)
// @Param       id         path    string  true  "Patient ID (UUID)" format(uuid)
//
// @Success     200  {object} domain.Message
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Forbidden"
// @Failure     404  {object} handlers.ErrorResponse "Patient not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /patients/{id} [delete]
func (h *Handlers) DeletePatient(c *gin.Context) {
	if requirePrivileged(c) == nil {
		return
	}
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "patient id must be a UUID")
		return
	}

	if err := h.patientSvc.Delete(c.Request.Context(), id); err != nil {
		h.patientError(c, err)
		return
	}
	ok(c, http.StatusOK, domain.Message{Message: "Patient deleted successfully"})
}

// patientError maps service errors to HTTP responses.
func (h *Handlers) patientError(c *gin.Context, err error) {
	if err == services.ErrPatientNotFound {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "patient not found")
		return
	}
	fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
}
