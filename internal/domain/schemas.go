package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// API-facing projections of the persisted entities. Each entity gets up to
// three shapes: Create (client-supplied fields only), Update (pointer
// fields with partial-update semantics; an absent field is left untouched,
// which is distinct from an explicit null on nullable columns), and Public
// (safe fields returned to clients, never credentials). List endpoints
// wrap a page of Public rows together with the total matching row count,
// computed independently of the pagination limit.
//
// Append-only entities (ConversationLog, CreditTransaction) deliberately
// have no Update projection.

// UserCreate is the payload for registering a user.
type UserCreate struct {
	Email       string  `json:"email"    binding:"required,email,max=255"`
	Password    string  `json:"password" binding:"required,min=8,max=40"`
	FirstName   *string `json:"first_name,omitempty" binding:"omitempty,max=100"`
	LastName    *string `json:"last_name,omitempty"  binding:"omitempty,max=100"`
	IsActive    *bool   `json:"is_active,omitempty"`
	IsSuperuser *bool   `json:"is_superuser,omitempty"`
}

// UserUpdate is the partial-update payload for a user.
type UserUpdate struct {
	Email     *string `json:"email,omitempty"      binding:"omitempty,email,max=255"`
	Password  *string `json:"password,omitempty"   binding:"omitempty,min=8,max=40"`
	FirstName *string `json:"first_name,omitempty" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name,omitempty"  binding:"omitempty,max=100"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// UserPublic is the client-safe view of a user.
type UserPublic struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Role           UserRole  `json:"role"`
	FirstName      *string   `json:"first_name,omitempty"`
	LastName       *string   `json:"last_name,omitempty"`
	IsActive       bool      `json:"is_active"`
	IsSuperuser    bool      `json:"is_superuser"`
	CreditsBalance int       `json:"credits_balance"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UsersPublic is a list page of users plus the total row count.
type UsersPublic struct {
	Data  []UserPublic `json:"data"`
	Count int64        `json:"count"`
}

// PublicUser projects a persisted user into its client-safe shape.
func PublicUser(u *User) UserPublic {
	return UserPublic{
		ID:             u.ID,
		Email:          u.Email,
		Role:           u.Role,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		IsActive:       u.IsActive,
		IsSuperuser:    u.IsSuperuser,
		CreditsBalance: u.CreditsBalance,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// ItemCreate is the payload for creating an item.
type ItemCreate struct {
	Title       string  `json:"title"       binding:"required,min=1,max=255"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=255"`
}

// ItemUpdate is the partial-update payload for an item.
type ItemUpdate struct {
	Title       *string `json:"title,omitempty"       binding:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=255"`
}

// ItemPublic is the client-safe view of an item.
type ItemPublic struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	OwnerID     string  `json:"owner_id"`
}

// ItemsPublic is a list page of items plus the total row count.
type ItemsPublic struct {
	Data  []ItemPublic `json:"data"`
	Count int64        `json:"count"`
}

// PatientCreate is the payload for registering a patient.
type PatientCreate struct {
	Name           string  `json:"name" binding:"required,min=1,max=255"`
	MedicalHistory *string `json:"medical_history,omitempty"`
}

// PatientUpdate is the partial-update payload for a patient. Only fields
// present in the request are applied.
type PatientUpdate struct {
	Name           *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	MedicalHistory *string `json:"medical_history,omitempty"`
}

// PatientPublic is the client-safe view of a patient.
type PatientPublic struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	MedicalHistory *string   `json:"medical_history,omitempty"`
	CreatedByID    string    `json:"created_by_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PatientsPublic is a list page of patients plus the total row count.
type PatientsPublic struct {
	Data  []PatientPublic `json:"data"`
	Count int64           `json:"count"`
}

// PublicPatient projects a persisted patient into its client-safe shape.
func PublicPatient(p *Patient) PatientPublic {
	return PatientPublic{
		ID:             p.ID,
		Name:           p.Name,
		MedicalHistory: p.MedicalHistory,
		CreatedByID:    p.CreatedByID,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// SessionCreate is the payload for scheduling a session.
type SessionCreate struct {
	PatientID          string     `json:"patient_id" binding:"required,uuid"`
	ScheduledStartTime *time.Time `json:"scheduled_start_time,omitempty"`
}

// SessionUpdate is the partial-update payload for a session.
type SessionUpdate struct {
	ScheduledStartTime *time.Time `json:"scheduled_start_time,omitempty"`
}

// SessionPublic is the client-safe view of a session.
type SessionPublic struct {
	ID                 string        `json:"id"`
	UserID             string        `json:"user_id"`
	PatientID          string        `json:"patient_id"`
	Status             SessionStatus `json:"status"`
	ScheduledStartTime *time.Time    `json:"scheduled_start_time,omitempty"`
	StartTime          *time.Time    `json:"start_time,omitempty"`
	EndTime            *time.Time    `json:"end_time,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// SessionsPublic is a list page of sessions plus the total row count.
type SessionsPublic struct {
	Data  []SessionPublic `json:"data"`
	Count int64           `json:"count"`
}

// ConversationLogCreate is the payload for appending to a session log.
type ConversationLogCreate struct {
	Sender  MessageSender `json:"sender"  binding:"required"`
	Message string        `json:"message" binding:"required"`
}

// ConversationLogPublic is the client-safe view of a log entry.
type ConversationLogPublic struct {
	ID        string        `json:"id"`
	SessionID string        `json:"session_id"`
	Sender    MessageSender `json:"sender"`
	Message   string        `json:"message"`
	CreatedAt time.Time     `json:"created_at"`
}

// PaymentCreate is the payload for recording a processor settlement.
type PaymentCreate struct {
	StripeTransactionID string          `json:"stripe_transaction_id" binding:"required,max=255"`
	Amount              decimal.Decimal `json:"amount"   binding:"required"`
	Currency            string          `json:"currency" binding:"required,max=10"`
	Status              PaymentStatus   `json:"status"   binding:"required"`
}

// PaymentPublic is the client-safe view of a payment.
type PaymentPublic struct {
	ID                  string          `json:"id"`
	UserID              string          `json:"user_id"`
	StripeTransactionID string          `json:"stripe_transaction_id"`
	Amount              decimal.Decimal `json:"amount"`
	Currency            string          `json:"currency"`
	Status              PaymentStatus   `json:"status"`
	CreatedAt           time.Time       `json:"created_at"`
}

// PaymentsPublic is a list page of payments plus the total row count.
type PaymentsPublic struct {
	Data  []PaymentPublic `json:"data"`
	Count int64           `json:"count"`
}

// CreditTransactionCreate is the payload for a ledger entry.
type CreditTransactionCreate struct {
	TransactionType TransactionType `json:"transaction_type" binding:"required"`
	Credits         int             `json:"credits" binding:"required,gte=0"`
	Description     *string         `json:"description,omitempty"`
}

// CreditTransactionPublic is the client-safe view of a ledger entry.
type CreditTransactionPublic struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	TransactionType TransactionType `json:"transaction_type"`
	Credits         int             `json:"credits"`
	Description     *string         `json:"description,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SessionFeedbackCreate is the payload for rating a session.
type SessionFeedbackCreate struct {
	UserRating      int     `json:"user_rating" binding:"required,min=1,max=5"`
	FeedbackComment *string `json:"feedback_comment,omitempty"`
}

// SessionFeedbackPublic is the client-safe view of session feedback.
type SessionFeedbackPublic struct {
	ID              string    `json:"id"`
	SessionID       string    `json:"session_id"`
	UserRating      int       `json:"user_rating"`
	FeedbackComment *string   `json:"feedback_comment,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// NotificationCreate is the payload for queueing a notification.
type NotificationCreate struct {
	Type    string `json:"type"    binding:"required,max=50"`
	Subject string `json:"subject" binding:"required,max=255"`
	Message string `json:"message" binding:"required"`
}

// NotificationPublic is the client-safe view of a notification.
type NotificationPublic struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	Type      string             `json:"type"`
	Subject   string             `json:"subject"`
	Message   string             `json:"message"`
	Status    NotificationStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}

// NotificationsPublic is a list page of notifications plus the total count.
type NotificationsPublic struct {
	Data  []NotificationPublic `json:"data"`
	Count int64                `json:"count"`
}

// Message is a generic API acknowledgement.
type Message struct {
	Message string `json:"message"`
}
