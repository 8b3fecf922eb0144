// Package services – NotificationService
//
// This file implements the NotificationService. Rows are queued in the
// pending state and flipped to sent by whichever delivery worker picks
// them up; the service itself never talks to an email or SMS gateway.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kpappas/go-consult-backend/internal/domain"
	"github.com/kpappas/go-consult-backend/internal/repo"
)

// NotificationService provides notification queueing operations.
type NotificationService struct {
	DB *gorm.DB
}

// Queue records a pending notification for a user.
func (s *NotificationService) Queue(ctx context.Context, userID string, in domain.NotificationCreate) (*domain.Notification, error) {
	if _, err := repo.GetUser(ctx, s.DB, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return repo.CreateNotification(ctx, s.DB, userID, in)
}

// MarkSent flips a notification to the sent state.
func (s *NotificationService) MarkSent(ctx context.Context, id string) error {
	if err := repo.MarkNotificationSent(ctx, s.DB, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

// ListForUser returns a user's notifications, most recent first.
func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	return repo.ListNotificationsForUser(ctx, s.DB, userID)
}
