package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"transport-broker-api/middleware"
	"transport-broker-api/models"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/me", middleware.AuthRequired(), func(c *gin.Context) {
		claims := middleware.GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID, "role": claims.Role})
	})
	r.GET("/admin-only",
		middleware.AuthRequired(),
		middleware.RoleRequired(models.RoleAdmin),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	return r
}

func sessionFor(t *testing.T, role models.UserRole) string {
	t.Helper()
	user := &models.User{
		ID:     42,
		UserID: "test-user",
		Name:   "Test User",
		Email:  "test@example.com",
		Role:   role,
	}
	token, err := middleware.IssueSession(user, "Test Transports")
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	return token
}

func TestNoSessionIsUnauthorized(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without cookie, got %d", w.Code)
	}
}

func TestMalformedCookieIsUnauthorized(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "not-a-token"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for malformed cookie, got %d", w.Code)
	}
}

func TestValidCookieCarriesClaims(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sessionFor(t, models.RoleBuyer)})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid cookie, got %d: %s", w.Code, w.Body.String())
	}
}

func TestBearerFallbackAccepted(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+sessionFor(t, models.RoleBuyer))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with bearer token, got %d: %s", w.Code, w.Body.String())
	}
}

func TestWrongRoleIsForbidden(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sessionFor(t, models.RoleSupplier)})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for wrong role, got %d", w.Code)
	}
}

func TestRightRoleIsAllowed(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sessionFor(t, models.RoleAdmin)})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d", w.Code)
	}
}
