// Package services – SessionService
//
// This file implements the SessionService, which governs the consultation
// lifecycle. Status transitions are enforced here, not by the database:
// scheduled sessions may start or be cancelled, in-progress sessions may
// complete or be cancelled, and terminal states accept nothing further.
// Conversation logs are append-only and hang off the session.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kpappas/go-consult-backend/internal/domain"
	"github.com/kpappas/go-consult-backend/internal/repo"
)

// SessionService provides consultation session operations.
type SessionService struct {
	DB *gorm.DB
}

// Schedule books a new session between a user and a patient. Both must
// exist; the session starts in the scheduled state.
func (s *SessionService) Schedule(ctx context.Context, userID string, in domain.SessionCreate) (*domain.Session, error) {
	if _, err := repo.GetPatient(ctx, s.DB, in.PatientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return repo.CreateSession(ctx, s.DB, userID, in.PatientID, in.ScheduledStartTime)
}

// Get fetches a session by id, or ErrSessionNotFound.
func (s *SessionService) Get(ctx context.Context, id string) (*domain.Session, error) {
	sess, err := repo.GetSession(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return sess, nil
}

// ListForUser returns a page of a user's sessions plus the total count.
func (s *SessionService) ListForUser(ctx context.Context, userID string, skip, limit int) ([]domain.Session, int64, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 100
	}
	total, err := repo.CountSessionsForUser(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	items, err := repo.ListSessionsForUserPage(ctx, s.DB, userID, skip, limit)
	return items, total, err
}

// Start moves a scheduled session into progress and stamps start_time.
func (s *SessionService) Start(ctx context.Context, id string) (*domain.Session, error) {
	return s.transition(ctx, id, domain.SessionInProgress, func(now time.Time, cols map[string]any) {
		cols["start_time"] = now
	})
}

// Complete finishes an in-progress session and stamps end_time.
func (s *SessionService) Complete(ctx context.Context, id string) (*domain.Session, error) {
	return s.transition(ctx, id, domain.SessionCompleted, func(now time.Time, cols map[string]any) {
		cols["end_time"] = now
	})
}

// Cancel aborts a session that has not completed yet.
func (s *SessionService) Cancel(ctx context.Context, id string) (*domain.Session, error) {
	return s.transition(ctx, id, domain.SessionCancelled, nil)
}

// transition validates and applies a status change atomically. The read
// and the update run in one transaction so concurrent transitions cannot
// interleave.
func (s *SessionService) transition(ctx context.Context, id string, next domain.SessionStatus, stamp func(time.Time, map[string]any)) (*domain.Session, error) {
	var out *domain.Session
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sess, err := repo.GetSession(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		if !sess.Status.CanTransitionTo(next) {
			return ErrInvalidTransition
		}
		now := time.Now().UTC()
		cols := map[string]any{"status": next, "updated_at": now}
		if stamp != nil {
			stamp(now, cols)
		}
		if err := repo.UpdateSession(ctx, tx, id, cols); err != nil {
			return err
		}
		out, err = repo.GetSession(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AppendLog appends one utterance to a session's conversation history.
func (s *SessionService) AppendLog(ctx context.Context, sessionID string, in domain.ConversationLogCreate) (*domain.ConversationLog, error) {
	if !in.Sender.Valid() {
		return nil, ErrInvalidSender
	}
	if _, err := repo.GetSession(ctx, s.DB, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return repo.AppendConversationLog(ctx, s.DB, sessionID, in.Sender, in.Message)
}

// Logs returns a session's conversation history in insertion order.
func (s *SessionService) Logs(ctx context.Context, sessionID string) ([]domain.ConversationLog, error) {
	if _, err := repo.GetSession(ctx, s.DB, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return repo.ListConversationLogs(ctx, s.DB, sessionID)
}
