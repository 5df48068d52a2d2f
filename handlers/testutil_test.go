package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"transport-broker-api/config"
	"transport-broker-api/handlers"
	"transport-broker-api/notify"
	"transport-broker-api/routes"
	"transport-broker-api/storage"
)

// newTestEnv wires the full router against a fresh in-memory database.
func newTestEnv(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	log := zerolog.Nop()
	store := storage.NewLocalStore(t.TempDir(), "http://localhost:8080")
	notifier := notify.NewWhatsAppNotifier("", log)

	r := gin.New()
	routes.SetupRoutes(r, handlers.New(db, store, notifier, log))
	return r, db
}

// doJSON performs a JSON request against the router, attaching the session
// cookie when given.
func doJSON(t *testing.T, r *gin.Engine, method, path string, cookie *http.Cookie, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// register creates an account through the API.
func register(t *testing.T, r *gin.Engine, userID, name, password, role, companyName string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", nil, map[string]interface{}{
		"user_id":      userID,
		"name":         name,
		"password":     password,
		"role":         role,
		"company_name": companyName,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", userID, w.Code, w.Body.String())
	}
}

// loginCookie authenticates and returns the session cookie.
func loginCookie(t *testing.T, r *gin.Engine, userID, password, role string) *http.Cookie {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/login", nil, map[string]interface{}{
		"user_id":  userID,
		"password": password,
		"role":     role,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", userID, w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			return c
		}
	}
	t.Fatalf("login %s: no session cookie set", userID)
	return nil
}

// decodeBody unmarshals a JSON response body into a map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	out := map[string]interface{}{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return out
}
