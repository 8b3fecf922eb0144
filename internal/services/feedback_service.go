// Package services – FeedbackService
//
// This file implements the FeedbackService, which records one rating per
// completed conversation. The one-row-per-session rule is enforced twice:
// an upfront existence check for a friendly error, and the unique index on
// session_id as the last word under concurrency.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kpappas/go-consult-backend/internal/domain"
	"github.com/kpappas/go-consult-backend/internal/repo"
)

// FeedbackService provides session feedback operations.
type FeedbackService struct {
	DB *gorm.DB
}

// Leave records feedback for a session. The rating must fall in 1..5, the
// session must exist, and a session may carry at most one feedback row.
func (s *FeedbackService) Leave(ctx context.Context, sessionID string, in domain.SessionFeedbackCreate) (*domain.SessionFeedback, error) {
	if in.UserRating < 1 || in.UserRating > 5 {
		return nil, ErrInvalidRating
	}
	var out *domain.SessionFeedback
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetSession(ctx, tx, sessionID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		if _, err := repo.GetSessionFeedback(ctx, tx, sessionID); err == nil {
			return ErrDuplicateFeedback
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		fb, err := repo.CreateSessionFeedback(ctx, tx, sessionID, in.UserRating, in.FeedbackComment)
		if err != nil {
			if repo.IsDuplicate(err) {
				return ErrDuplicateFeedback
			}
			return err
		}
		out = fb
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches the feedback left for a session, or ErrSessionNotFound when
// the session itself is unknown and gorm.ErrRecordNotFound when it simply
// has no feedback yet.
func (s *FeedbackService) Get(ctx context.Context, sessionID string) (*domain.SessionFeedback, error) {
	if _, err := repo.GetSession(ctx, s.DB, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return repo.GetSessionFeedback(ctx, s.DB, sessionID)
}
