// Package services defines the business logic of the consultation
// platform. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked
// by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

var (
	// ErrPatientNotFound indicates that the requested patient does not exist.
	ErrPatientNotFound = errors.New("patient not found")

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNotificationNotFound indicates that the requested notification does
	// not exist.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrEmailTaken is returned when a registration or email change collides
	// with an existing account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidRating is returned when a feedback rating falls outside the
	// allowed 1–5 range.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrDuplicateFeedback is returned when a session that already has
	// feedback receives another submission.
	ErrDuplicateFeedback = errors.New("feedback already exists for session")

	// ErrInvalidTransition is returned when a session status change is not
	// permitted from the current state.
	ErrInvalidTransition = errors.New("invalid session status transition")

	// ErrInvalidSender is returned when a conversation log entry names a
	// sender outside the permitted set.
	ErrInvalidSender = errors.New("invalid conversation sender")

	// ErrInsufficientCredits is returned when a usage entry would drive the
	// credit balance below zero.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrDuplicateTransaction is returned when a payment reuses a processor
	// transaction id.
	ErrDuplicateTransaction = errors.New("transaction already recorded")

	// ErrInvalidAmount is returned when a payment amount is not positive.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidStatus is returned when a status value falls outside its
	// closed domain.
	ErrInvalidStatus = errors.New("invalid status value")
)
