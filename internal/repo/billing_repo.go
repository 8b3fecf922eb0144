// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Payment
// and CreditTransaction models.
//
// Credit transactions form an append-only ledger: entries are inserted and
// listed, never updated or deleted. The running balance cached on the user
// row is maintained by the billing service inside the same transaction as
// each ledger insert.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kpappas/go-consult-backend/internal/domain"
)

// CreatePayment inserts a payment row. The processor transaction id is
// globally unique; a reused id surfaces as a raw DB error (see
// IsDuplicate) for the service layer to translate.
func CreatePayment(ctx context.Context, db *gorm.DB, userID, stripeTxnID string, amount decimal.Decimal, currency string, status domain.PaymentStatus) (*domain.Payment, error) {
	p := &domain.Payment{
		ID:                  uuid.NewString(),
		UserID:              userID,
		StripeTransactionID: stripeTxnID,
		Amount:              amount,
		Currency:            currency,
		Status:              status,
		CreatedAt:           time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// GetPayment fetches a payment by id, or ErrNotFound.
func GetPayment(ctx context.Context, db *gorm.DB, id string) (*domain.Payment, error) {
	var p domain.Payment
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePaymentStatus moves a payment to the given settlement state.
func UpdatePaymentStatus(ctx context.Context, db *gorm.DB, id string, status domain.PaymentStatus) error {
	res := db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListPaymentsForUser returns a user's payments, most recent first.
func ListPaymentsForUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.Payment, error) {
	var out []domain.Payment
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

// CreateCreditTransaction appends a ledger entry.
func CreateCreditTransaction(ctx context.Context, db *gorm.DB, userID string, typ domain.TransactionType, credits int, description *string) (*domain.CreditTransaction, error) {
	t := &domain.CreditTransaction{
		ID:              uuid.NewString(),
		UserID:          userID,
		TransactionType: typ,
		Credits:         credits,
		Description:     description,
		CreatedAt:       time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// ListCreditTransactions returns a user's ledger entries in insertion
// order (CreatedAt ASC, ID ASC).
func ListCreditTransactions(ctx context.Context, db *gorm.DB, userID string) ([]domain.CreditTransaction, error) {
	var out []domain.CreditTransaction
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// LedgerBalance folds a user's ledger into the balance it implies:
// purchases and refunds add, usage subtracts. The cached
// User.CreditsBalance must always reconcile with this value.
func LedgerBalance(ctx context.Context, db *gorm.DB, userID string) (int, error) {
	entries, err := ListCreditTransactions(ctx, db, userID)
	if err != nil {
		return 0, err
	}
	balance := 0
	for _, e := range entries {
		switch e.TransactionType {
		case domain.TransactionPurchase, domain.TransactionRefund:
			balance += e.Credits
		case domain.TransactionUsage:
			balance -= e.Credits
		}
	}
	return balance, nil
}
