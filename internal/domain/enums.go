// Package domain defines the persistence models of the consultation
// platform and the closed string domains used by their status columns.
//
// Status-like fields are stored as bounded-length text (portable across
// SQLite and Postgres) and validated at the application layer on every
// write. Each enum type exposes a Valid() method that performs exhaustive
// matching over its permitted value set.
package domain

// UserRole classifies the privilege tier of a user account.
type UserRole string

// Permitted user roles.
const (
	RoleSuperAdmin UserRole = "SuperAdmin"
	RoleAdmin      UserRole = "Admin"
	RoleUser       UserRole = "User"
)

// Valid reports whether r is one of the permitted roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleUser:
		return true
	}
	return false
}

// Elevated reports whether the role grants administrative access.
func (r UserRole) Elevated() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// SessionStatus tracks the lifecycle of a consultation session.
type SessionStatus string

// Permitted session statuses.
const (
	SessionScheduled  SessionStatus = "scheduled"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionCancelled  SessionStatus = "cancelled"
)

// Valid reports whether s is one of the permitted session statuses.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionScheduled, SessionInProgress, SessionCompleted, SessionCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a session may move from s to next.
// Transitions are enforced here, not by the database.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	switch s {
	case SessionScheduled:
		return next == SessionInProgress || next == SessionCancelled
	case SessionInProgress:
		return next == SessionCompleted || next == SessionCancelled
	}
	return false
}

// PaymentStatus tracks the settlement state of a payment.
type PaymentStatus string

// Permitted payment statuses.
const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Valid reports whether p is one of the permitted payment statuses.
func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentCompleted, PaymentRefunded:
		return true
	}
	return false
}

// TransactionType classifies a credit ledger entry.
type TransactionType string

// Permitted credit transaction types.
const (
	TransactionPurchase TransactionType = "purchase"
	TransactionUsage    TransactionType = "usage"
	TransactionRefund   TransactionType = "refund"
)

// Valid reports whether t is one of the permitted transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionPurchase, TransactionUsage, TransactionRefund:
		return true
	}
	return false
}

// MessageSender identifies who authored a conversation log entry.
type MessageSender string

// Permitted conversation senders.
const (
	SenderUser     MessageSender = "user"
	SenderPatient  MessageSender = "patient"
	SenderFeedback MessageSender = "feedback"
)

// Valid reports whether m is one of the permitted senders.
func (m MessageSender) Valid() bool {
	switch m {
	case SenderUser, SenderPatient, SenderFeedback:
		return true
	}
	return false
}

// NotificationStatus tracks the delivery state of a notification.
type NotificationStatus string

// Permitted notification statuses.
const (
	NotificationSent    NotificationStatus = "sent"
	NotificationPending NotificationStatus = "pending"
)

// Valid reports whether n is one of the permitted notification statuses.
func (n NotificationStatus) Valid() bool {
	switch n {
	case NotificationSent, NotificationPending:
		return true
	}
	return false
}
