// Package services – ChatService
//
// This file implements the ChatService, a stateless relay between the API
// surface and the external chat-completion provider. It persists nothing:
// callers who want a transcript attach their exchange to a session via
// SessionService.AppendLog.
package services

import (
	"context"

	"github.com/kpappas/go-consult-backend/internal/ai"
)

// ChatService relays a user prompt to the configured AI provider.
type ChatService struct {
	Provider ai.Provider
}

// Relay forwards one message and returns the assistant's reply. Provider
// failures are returned verbatim; the handler maps them to a 500 with the
// wrapped detail.
func (s *ChatService) Relay(ctx context.Context, message string) (string, error) {
	return s.Provider.Complete(ctx, message)
}
