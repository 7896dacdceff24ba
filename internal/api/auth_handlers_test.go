package api

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fllc-scheduler/internal/fllconfig"
	"fllc-scheduler/internal/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func testAuthServiceForHandlers(t *testing.T) *services.AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("handler-test-password"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt.GenerateFromPassword: %v", err)
	}
	cfg := fllconfig.AuthConfig{
		AdminEmail:    "operator@example.com",
		AdminPassword: string(hash),
		JWTSecret:     "handler-test-secret",
		JWTExpiration: time.Hour,
	}
	return services.NewAuthService(cfg, log.Default())
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	buf, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleLoginSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := testAuthServiceForHandlers(t)
	r := gin.New()
	r.POST("/login", HandleLogin(auth))

	w := postJSON(r, "/login", map[string]string{
		"email":    "operator@example.com",
		"password": "handler-test-password",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["token"] == "" {
		t.Error("response missing token")
	}
}

func TestHandleLoginWrongPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := testAuthServiceForHandlers(t)
	r := gin.New()
	r.POST("/login", HandleLogin(auth))

	w := postJSON(r, "/login", map[string]string{
		"email":    "operator@example.com",
		"password": "wrong",
	})

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401, body=%s", w.Code, w.Body.String())
	}
}

func TestHandleLoginMissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := testAuthServiceForHandlers(t)
	r := gin.New()
	r.POST("/login", HandleLogin(auth))

	w := postJSON(r, "/login", map[string]string{"email": "operator@example.com"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body=%s", w.Code, w.Body.String())
	}
}
