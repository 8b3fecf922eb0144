// Chat relay HTTP handler.
//
// This file exposes the AI assistant endpoint:
//   - POST /chat/chat (relay one message to the provider)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ChatService defines the AI relay operation consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ChatService interface {
	// Relay forwards one user message and returns the assistant reply.
	Relay(ctx context.Context, message string) (string, error)
}

// Handlers groups the HTTP endpoints of the public API. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	patientSvc PatientService
	chatSvc    ChatService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(patientSvc PatientService, chatSvc ChatService) *Handlers {
	return &Handlers{patientSvc: patientSvc, chatSvc: chatSvc}
}

// ChatRequest is the JSON payload for the relay endpoint.
type ChatRequest struct {
	// Message is the user's prompt for the assistant.
	Message string `json:"message" binding:"required" example:"What should I ask about chronic back pain?"`
}

// ChatResponse carries the assistant's reply.
type ChatResponse struct {
	Response string `json:"response"`
}

// Chat godoc
// @ID          chat
// @Summary     Relay a message to the AI assistant
// @Description Forwards the message to the configured chat-completion provider and returns the reply. Nothing is persisted.
// @Tags        Chat
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID"  example(user123)
// @Param       body       body    handlers.ChatRequest  true  "Message payload"
//
// @Success     200  {object} handlers.ChatResponse
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     422  {object} handlers.ErrorResponse "Validation error"
// @Failure     500  {object} handlers.ErrorResponse "Provider failure"
// @Router      /chat/chat [post]
func (h *Handlers) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "message required")
		return
	}

	reply, err := h.chatSvc.Relay(c.Request.Context(), req.Message)
	if err != nil {
		// The wrapped provider detail goes to the client verbatim; it never
		// contains credentials.
		fail(c, http.StatusInternalServerError, ErrCodeChatFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ChatResponse{Response: reply})
}
