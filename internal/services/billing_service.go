// Package services – BillingService
//
// This file implements the BillingService, which owns payments and the
// credit ledger. The ledger is the authoritative record of a user's
// credits; User.CreditsBalance is a materialized cache updated inside the
// same transaction as each ledger insert, so the two can never drift under
// the single-store, per-request transaction model.
package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kpappas/go-consult-backend/internal/domain"
	"github.com/kpappas/go-consult-backend/internal/repo"
)

// BillingService provides payment recording and credit ledger operations.
type BillingService struct {
	DB *gorm.DB
}

// RecordPayment persists a processor settlement. The transaction id is
// globally unique: a replayed webhook returns ErrDuplicateTransaction and
// writes nothing. A completed payment also grants the given credits in the
// same transaction, so the payment row and its ledger effect are atomic.
func (s *BillingService) RecordPayment(ctx context.Context, userID string, in domain.PaymentCreate, grantCredits int) (*domain.Payment, error) {
	if !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	var out *domain.Payment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := repo.CreatePayment(ctx, tx, userID, in.StripeTransactionID, in.Amount, in.Currency, in.Status)
		if err != nil {
			if repo.IsDuplicate(err) {
				return ErrDuplicateTransaction
			}
			return err
		}
		if in.Status == domain.PaymentCompleted && grantCredits > 0 {
			desc := "credit purchase " + in.StripeTransactionID
			if err := s.applyLedgerEntry(ctx, tx, userID, domain.TransactionPurchase, grantCredits, &desc); err != nil {
				return err
			}
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AddCredits appends a purchase entry and bumps the cached balance.
func (s *BillingService) AddCredits(ctx context.Context, userID string, credits int, description *string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.applyLedgerEntry(ctx, tx, userID, domain.TransactionPurchase, credits, description)
	})
}

// SpendCredits appends a usage entry. The balance check and the insert run
// in one transaction; a balance that would go negative returns
// ErrInsufficientCredits and writes nothing.
func (s *BillingService) SpendCredits(ctx context.Context, userID string, credits int, description *string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.applyLedgerEntry(ctx, tx, userID, domain.TransactionUsage, credits, description)
	})
}

// RefundCredits appends a refund entry and restores the cached balance.
func (s *BillingService) RefundCredits(ctx context.Context, userID string, credits int, description *string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.applyLedgerEntry(ctx, tx, userID, domain.TransactionRefund, credits, description)
	})
}

// Balance returns the cached balance from the user row. Reconcile verifies
// it against the folded ledger.
func (s *BillingService) Balance(ctx context.Context, userID string) (int, error) {
	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return u.CreditsBalance, nil
}

// Reconcile recomputes the balance from the ledger and reports whether the
// cached value agrees with it.
func (s *BillingService) Reconcile(ctx context.Context, userID string) (cached, ledger int, ok bool, err error) {
	cached, err = s.Balance(ctx, userID)
	if err != nil {
		return 0, 0, false, err
	}
	ledger, err = repo.LedgerBalance(ctx, s.DB, userID)
	if err != nil {
		return 0, 0, false, err
	}
	return cached, ledger, cached == ledger, nil
}

// applyLedgerEntry inserts one ledger row and adjusts the cached balance
// in the same transaction. Credits must be non-negative; the sign of the
// balance adjustment comes from the entry type.
func (s *BillingService) applyLedgerEntry(ctx context.Context, tx *gorm.DB, userID string, typ domain.TransactionType, credits int, description *string) error {
	if credits < 0 {
		return ErrInvalidAmount
	}
	u, err := repo.GetUser(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	delta := credits
	if typ == domain.TransactionUsage {
		delta = -credits
	}
	next := u.CreditsBalance + delta
	if next < 0 {
		return ErrInsufficientCredits
	}

	if _, err := repo.CreateCreditTransaction(ctx, tx, userID, typ, credits, description); err != nil {
		return err
	}
	return repo.UpdateUser(ctx, tx, userID, map[string]any{"credits_balance": next})
}
