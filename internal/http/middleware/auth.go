// Package middleware – principal resolution.
//
// This file resolves the calling account for protected routes. The service
// sits behind an authenticating gateway that forwards the caller's id in
// the X-User-ID header; this middleware loads the matching account row and
// attaches it to the Gin context so handlers can make privilege decisions
// without repeating the lookup.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kpappas/go-consult-backend/internal/domain"
	"github.com/kpappas/go-consult-backend/internal/repo"
)

const (
	// currentUserKey is the Gin context key holding the resolved account.
	currentUserKey = "currentUser"
	// userIDHeader carries the caller's id from the gateway.
	userIDHeader = "X-User-ID"
)

// ResolveUser loads the account named by X-User-ID and stores it in the
// context under "currentUser" (and its id under "userID" for the access
// log). Requests without a resolvable principal are rejected with 401
// before any handler runs.
func ResolveUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(userIDHeader))
		if id == "" {
			unauthorized(c, "missing "+userIDHeader+" header")
			return
		}
		u, err := repo.GetUser(c.Request.Context(), db, id)
		if err != nil {
			unauthorized(c, "unknown user")
			return
		}
		if !u.IsActive {
			unauthorized(c, "inactive user")
			return
		}
		c.Set(currentUserKey, u)
		c.Set("userID", u.ID)
		c.Next()
	}
}

// CurrentUser returns the account attached by ResolveUser, or nil when the
// route runs without principal resolution.
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(currentUserKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

// unauthorized mirrors the handlers error envelope without importing the
// handlers package (which depends on this one).
func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       "unauthorized",
		"message":    msg,
	})
}
