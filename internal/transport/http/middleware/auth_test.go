package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Additional-Code/bistro/internal/auth"
	"github.com/Additional-Code/bistro/internal/config"
)

const testSecret = "test-secret"

func requestWithToken(t *testing.T, token string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newTestAuth() *Auth {
	cfg := config.Config{}
	cfg.Auth.JWTSecret = testSecret
	return NewAuth(cfg)
}

func TestRequireOwnerMissingToken(t *testing.T) {
	mw := newTestAuth().RequireOwner()
	c, rec := requestWithToken(t, "")

	handler := mw(func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireOwnerBadToken(t *testing.T) {
	mw := newTestAuth().RequireOwner()
	c, rec := requestWithToken(t, "garbage")

	handler := mw(func(c echo.Context) error { return nil })
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireOwnerWrongRole(t *testing.T) {
	token, err := auth.Mint(testSecret, "waiter", auth.RoleStaff, time.Hour)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	mw := newTestAuth().RequireOwner()
	c, rec := requestWithToken(t, token)

	handler := mw(func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRequireOwnerPassesThrough(t *testing.T) {
	token, err := auth.Mint(testSecret, "boss", auth.RoleOwner, time.Hour)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	mw := newTestAuth().RequireOwner()
	c, rec := requestWithToken(t, token)

	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		claims, ok := c.Get(ClaimsKey).(*auth.Claims)
		if !ok || claims.Role != auth.RoleOwner {
			t.Fatal("claims missing from context")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("handler not reached")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
