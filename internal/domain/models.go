package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the root aggregate for identity and billing. Deleting a user
// cascades to every row the user owns: items, patients, sessions, payments,
// credit transactions, and notifications.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Email: unique across all users; indexed.
//   - HashedPassword: bcrypt digest, never serialized to JSON.
//   - Role: "SuperAdmin", "Admin", or "User" (application-enforced).
//   - CreditsBalance: materialized cache of the credit ledger; updated in
//     the same transaction as each ledger insert.
//   - CreatedAt / UpdatedAt: server-assigned; UpdatedAt is refreshed by the
//     mutating handler, not by a store hook.
type User struct {
	ID             string    `json:"id"              gorm:"type:char(36);primaryKey"`
	Email          string    `json:"email"           gorm:"type:varchar(255);not null;uniqueIndex:ux_user_email"`
	HashedPassword string    `json:"-"               gorm:"type:varchar(255);not null"`
	Role           UserRole  `json:"role"            gorm:"type:varchar(50);not null;default:'User'"`
	FirstName      *string   `json:"first_name,omitempty" gorm:"type:varchar(100)"`
	LastName       *string   `json:"last_name,omitempty"  gorm:"type:varchar(100)"`
	FullName       *string   `json:"full_name,omitempty"  gorm:"type:varchar(255)"`
	IsActive       bool      `json:"is_active"       gorm:"not null;default:true"`
	IsSuperuser    bool      `json:"is_superuser"    gorm:"not null;default:false"`
	CreditsBalance int       `json:"credits_balance" gorm:"not null;default:0"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName returns the database table name for User. The singular name is
// a legacy of the original account schema and is preserved by migrations.
func (User) TableName() string { return "user" }

// IsPrivileged reports whether the user may access administrative
// resources such as the patient registry.
func (u *User) IsPrivileged() bool {
	return u.IsSuperuser || u.Role.Elevated()
}

// Item is a legacy demo entity kept for schema compatibility. It predates
// the consultation domain and has no relationship to it beyond ownership.
type Item struct {
	ID          string  `json:"id"          gorm:"type:char(36);primaryKey"`
	Title       string  `json:"title"       gorm:"type:varchar(255);not null"`
	Description *string `json:"description,omitempty" gorm:"type:varchar(255)"`
	OwnerID     string  `json:"owner_id"    gorm:"type:char(36);not null;index"`

	Owner User `json:"-" gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Item.
func (Item) TableName() string { return "item" }

// Patient is a medical record owned by the user who created it. Deleting
// the creator cascades to the patient, and deleting the patient cascades
// to its sessions.
type Patient struct {
	ID             string    `json:"id"              gorm:"type:char(36);primaryKey"`
	Name           string    `json:"name"            gorm:"type:varchar(255);not null"`
	MedicalHistory *string   `json:"medical_history,omitempty" gorm:"type:text"`
	CreatedByID    string    `json:"created_by_id"   gorm:"type:char(36);not null;index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	CreatedBy User `json:"-" gorm:"foreignKey:CreatedByID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Patient.
func (Patient) TableName() string { return "patients" }

// Session is a consultation between a user (the consultant) and a patient.
// It cannot exist without both; deleting either cascades to the session,
// its conversation logs, and its feedback.
//
// Status transitions (scheduled → in_progress → completed, with
// cancellation allowed before completion) are enforced by the service
// layer, not by the database.
type Session struct {
	ID                 string        `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID             string        `json:"user_id"    gorm:"type:char(36);not null;index"`
	PatientID          string        `json:"patient_id" gorm:"type:char(36);not null;index"`
	Status             SessionStatus `json:"status"     gorm:"type:varchar(20);not null"`
	ScheduledStartTime *time.Time    `json:"scheduled_start_time,omitempty"`
	StartTime          *time.Time    `json:"start_time,omitempty"`
	EndTime            *time.Time    `json:"end_time,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`

	User    User    `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Patient Patient `json:"-" gorm:"foreignKey:PatientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Session.
func (Session) TableName() string { return "sessions" }

// ConversationLog is one utterance within a session. Rows are append-only;
// there is no update or delete API, only the cascade from the session.
type ConversationLog struct {
	ID        string        `json:"id"         gorm:"type:char(36);primaryKey"`
	SessionID string        `json:"session_id" gorm:"type:char(36);not null;index:idx_session_logs,priority:1"`
	Sender    MessageSender `json:"sender"     gorm:"type:varchar(20);not null"`
	Message   string        `json:"message"    gorm:"type:text;not null"`
	CreatedAt time.Time     `json:"created_at" gorm:"index:idx_session_logs,priority:2"`

	Session Session `json:"-" gorm:"foreignKey:SessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ConversationLog.
func (ConversationLog) TableName() string { return "conversation_logs" }

// Payment records a settlement processed by Stripe. The processor's
// transaction id is globally unique, which doubles as an idempotency
// guard against replayed webhooks.
type Payment struct {
	ID                  string          `json:"id"                    gorm:"type:char(36);primaryKey"`
	UserID              string          `json:"user_id"               gorm:"type:char(36);not null;index"`
	StripeTransactionID string          `json:"stripe_transaction_id" gorm:"type:varchar(255);not null;uniqueIndex:ux_payments_stripe_txn"`
	Amount              decimal.Decimal `json:"amount"                gorm:"type:decimal(10,2);not null"`
	Currency            string          `json:"currency"              gorm:"type:varchar(10);not null"`
	Status              PaymentStatus   `json:"status"                gorm:"type:varchar(20);not null"`
	CreatedAt           time.Time       `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Payment.
func (Payment) TableName() string { return "payments" }

// CreditTransaction is an append-only ledger entry. The ledger is the
// authoritative record of a user's credits; User.CreditsBalance is derived
// from it and kept in sync transactionally.
type CreditTransaction struct {
	ID              string          `json:"id"               gorm:"type:char(36);primaryKey"`
	UserID          string          `json:"user_id"          gorm:"type:char(36);not null;index"`
	TransactionType TransactionType `json:"transaction_type" gorm:"type:varchar(20);not null"`
	Credits         int             `json:"credits"          gorm:"not null"`
	Description     *string         `json:"description,omitempty" gorm:"type:text"`
	CreatedAt       time.Time       `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for CreditTransaction.
func (CreditTransaction) TableName() string { return "credit_transactions" }

// SessionFeedback is the single rating a session may receive. Uniqueness
// of SessionID and the 1–5 rating range are both enforced by the schema.
type SessionFeedback struct {
	ID              string    `json:"id"          gorm:"type:char(36);primaryKey"`
	SessionID       string    `json:"session_id"  gorm:"type:char(36);not null;uniqueIndex:ux_feedback_session"`
	UserRating      int       `json:"user_rating" gorm:"not null;check:user_rating >= 1 AND user_rating <= 5"`
	FeedbackComment *string   `json:"feedback_comment,omitempty" gorm:"type:text"`
	CreatedAt       time.Time `json:"created_at"`

	Session Session `json:"-" gorm:"foreignKey:SessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for SessionFeedback.
func (SessionFeedback) TableName() string { return "session_feedback" }

// Notification is an outbound message queued for a user. Delivery itself
// is an external concern; this row only tracks pending/sent state.
type Notification struct {
	ID        string             `json:"id"      gorm:"type:char(36);primaryKey"`
	UserID    string             `json:"user_id" gorm:"type:char(36);not null;index"`
	Type      string             `json:"type"    gorm:"type:varchar(50);not null"`
	Subject   string             `json:"subject" gorm:"type:varchar(255);not null"`
	Message   string             `json:"message" gorm:"type:text;not null"`
	Status    NotificationStatus `json:"status"  gorm:"type:varchar(20);not null"`
	CreatedAt time.Time          `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Notification.
func (Notification) TableName() string { return "notifications" }
