// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Session
// model, its conversation logs, and its feedback.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kpappas/go-consult-backend/internal/domain"
)

// CreateSession inserts a new session in the scheduled state.
func CreateSession(ctx context.Context, db *gorm.DB, userID, patientID string, scheduledStart *time.Time) (*domain.Session, error) {
	now := time.Now().UTC()
	s := &domain.Session{
		ID:                 uuid.NewString(),
		UserID:             userID,
		PatientID:          patientID,
		Status:             domain.SessionScheduled,
		ScheduledStartTime: scheduledStart,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// GetSession fetches a session by id, or ErrNotFound.
func GetSession(ctx context.Context, db *gorm.DB, id string) (*domain.Session, error) {
	var s domain.Session
	if err := db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSession persists the given column map for a session and returns
// ErrNotFound when no row matched.
func UpdateSession(ctx context.Context, db *gorm.DB, id string, cols map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("id = ?", id).
		Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountSessionsForUser returns the number of sessions booked by a user.
func CountSessionsForUser(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListSessionsForUserPage returns a page of a user's sessions ordered by
// creation time ascending, id as tiebreaker.
func ListSessionsForUserPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Session, error) {
	var out []domain.Session
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// AppendConversationLog inserts a log entry for a session. Rows are
// append-only: there is no update or delete counterpart.
func AppendConversationLog(ctx context.Context, db *gorm.DB, sessionID string, sender domain.MessageSender, message string) (*domain.ConversationLog, error) {
	l := &domain.ConversationLog{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Sender:    sender,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(l).Error; err != nil {
		return nil, err
	}
	return l, nil
}

// ListConversationLogs returns a session's log entries ordered
// deterministically (CreatedAt ASC, ID ASC).
func ListConversationLogs(ctx context.Context, db *gorm.DB, sessionID string) ([]domain.ConversationLog, error) {
	var out []domain.ConversationLog
	err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// CreateSessionFeedback inserts the feedback row for a session. The unique
// index on session_id guarantees at most one row per session; a duplicate
// surfaces as a raw DB error for the service layer to translate.
func CreateSessionFeedback(ctx context.Context, db *gorm.DB, sessionID string, rating int, comment *string) (*domain.SessionFeedback, error) {
	fb := &domain.SessionFeedback{
		ID:              uuid.NewString(),
		SessionID:       sessionID,
		UserRating:      rating,
		FeedbackComment: comment,
		CreatedAt:       time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(fb).Error; err != nil {
		return nil, err
	}
	return fb, nil
}

// GetSessionFeedback fetches the feedback for a session, or ErrNotFound.
func GetSessionFeedback(ctx context.Context, db *gorm.DB, sessionID string) (*domain.SessionFeedback, error) {
	var fb domain.SessionFeedback
	if err := db.WithContext(ctx).Where("session_id = ?", sessionID).First(&fb).Error; err != nil {
		return nil, err
	}
	return &fb, nil
}
