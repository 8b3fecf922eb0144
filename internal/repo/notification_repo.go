// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Notification and Item models.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kpappas/go-consult-backend/internal/domain"
)

// CreateNotification inserts a notification row in the pending state.
func CreateNotification(ctx context.Context, db *gorm.DB, userID string, in domain.NotificationCreate) (*domain.Notification, error) {
	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      in.Type,
		Subject:   in.Subject,
		Message:   in.Message,
		Status:    domain.NotificationPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// MarkNotificationSent flips a notification to the sent state.
func MarkNotificationSent(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ?", id).
		Update("status", domain.NotificationSent)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListNotificationsForUser returns a user's notifications, most recent
// first.
func ListNotificationsForUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.Notification, error) {
	var out []domain.Notification
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

// CreateItem inserts an item row for the legacy demo entity.
func CreateItem(ctx context.Context, db *gorm.DB, ownerID string, in domain.ItemCreate) (*domain.Item, error) {
	it := &domain.Item{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		OwnerID:     ownerID,
	}
	if err := db.WithContext(ctx).Create(it).Error; err != nil {
		return nil, err
	}
	return it, nil
}

// ListItemsForOwner returns an owner's items in insertion order.
func ListItemsForOwner(ctx context.Context, db *gorm.DB, ownerID string) ([]domain.Item, error) {
	var out []domain.Item
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}
