package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/YeswanthKasi/schmng-sub002/config"
	"github.com/YeswanthKasi/schmng-sub002/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockBlacklist struct {
	revoked map[string]bool
	err     error
}

func (m *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.revoked[jti], nil
}

func newTestManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-123456",
		AccessTokenTTL: time.Hour,
		Issuer:         "school-hub",
	})
}

func authedEngine(mgr *jwt.Manager, bl BlacklistChecker, roles ...string) *gin.Engine {
	r := gin.New()
	handlers := []gin.HandlerFunc{JWTAuth(mgr, bl)}
	if len(roles) > 0 {
		handlers = append(handlers, RoleAuth(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserID)+"|"+c.GetString(ContextTokenJTI))
	})
	r.GET("/protected", handlers...)
	return r
}

func doGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	mgr := newTestManager()
	token, jti, err := mgr.GenerateAccessToken("uid-1", "teacher")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("有效 Token", func(t *testing.T) {
		w := doGet(authedEngine(mgr, nil), "Bearer "+token)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if body := w.Body.String(); body != "uid-1|"+jti {
			t.Errorf("context not populated: %q", body)
		}
	})

	t.Run("缺少认证头", func(t *testing.T) {
		if w := doGet(authedEngine(mgr, nil), ""); w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("格式错误", func(t *testing.T) {
		if w := doGet(authedEngine(mgr, nil), "Token "+token); w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("已加入黑名单", func(t *testing.T) {
		bl := &mockBlacklist{revoked: map[string]bool{jti: true}}
		if w := doGet(authedEngine(mgr, bl), "Bearer "+token); w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("黑名单查询失败时放行", func(t *testing.T) {
		bl := &mockBlacklist{err: errors.New("redis down")}
		if w := doGet(authedEngine(mgr, bl), "Bearer "+token); w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("其他密钥签发", func(t *testing.T) {
		other := jwt.NewManager(&config.AuthConfig{JWTSecret: "another-secret-key-000", AccessTokenTTL: time.Hour, Issuer: "school-hub"})
		forged, _, _ := other.GenerateAccessToken("uid-1", "admin")
		if w := doGet(authedEngine(mgr, nil), "Bearer "+forged); w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})
}

func TestRoleAuth(t *testing.T) {
	mgr := newTestManager()
	teacherToken, _, _ := mgr.GenerateAccessToken("uid-1", "teacher")
	adminToken, _, _ := mgr.GenerateAccessToken("uid-2", "admin")

	r := authedEngine(mgr, nil, "admin")
	if w := doGet(r, "Bearer "+teacherToken); w.Code != http.StatusForbidden {
		t.Errorf("teacher: expected 403, got %d", w.Code)
	}
	if w := doGet(r, "Bearer "+adminToken); w.Code != http.StatusOK {
		t.Errorf("admin: expected 200, got %d", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("X-Request-ID") != "abc-123" || w.Body.String() != "abc-123" {
		t.Errorf("should reuse incoming id, got %q", w.Header().Get("X-Request-ID"))
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 100))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); len(got) != 36 {
		t.Errorf("overlong id should be replaced by uuid, got %q", got)
	}
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(16))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("POST", "/", strings.NewReader(strings.Repeat("a", 64)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://admin.school.test/"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("OPTIONS", "/", nil)
	req.Header.Set("Origin", "https://admin.school.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "https://admin.school.test" {
		t.Error("allowed origin not echoed")
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unknown origin must not be allowed")
	}
}
