package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kpappas/go-consult-backend/internal/domain"
	"github.com/kpappas/go-consult-backend/internal/repo"
)

func newAuthDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:authmw_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestResolveUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newAuthDB(t)

	active, err := repo.CreateUser(context.Background(), db, &domain.User{
		Email:          "doc@example.com",
		HashedPassword: "x",
		IsActive:       true,
	})
	if err != nil {
		t.Fatalf("seed active: %v", err)
	}
	inactive, err := repo.CreateUser(context.Background(), db, &domain.User{
		Email:          "gone@example.com",
		HashedPassword: "x",
		IsActive:       false,
	})
	if err != nil {
		t.Fatalf("seed inactive: %v", err)
	}

	r := gin.New()
	r.Use(ResolveUser(db))
	r.GET("/whoami", func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			c.String(http.StatusInternalServerError, "no user in context")
			return
		}
		c.String(http.StatusOK, u.Email)
	})

	do := func(userID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if userID != "" {
			req.Header.Set("X-User-ID", userID)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := do(active.ID); w.Code != http.StatusOK || w.Body.String() != "doc@example.com" {
		t.Errorf("active user: code %d body %q", w.Code, w.Body.String())
	}
	if w := do(""); w.Code != http.StatusUnauthorized {
		t.Errorf("missing header: code %d, want 401", w.Code)
	}
	if w := do("no-such-id"); w.Code != http.StatusUnauthorized {
		t.Errorf("unknown user: code %d, want 401", w.Code)
	}
	if w := do(inactive.ID); w.Code != http.StatusUnauthorized || !strings.Contains(w.Body.String(), "inactive") {
		t.Errorf("inactive user: code %d body %q", w.Code, w.Body.String())
	}
}

func TestCurrentUser_AbsentIsNil(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if CurrentUser(c) != nil {
		t.Fatal("expected nil without ResolveUser")
	}
}
