package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/9dragon/workinghour/backend/config"
	"github.com/9dragon/workinghour/backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret: "test-secret-key-for-unit-testing-2026",
		Issuer:    "workinghour",
	})
}

// echoOperator 返回中间件写入的操作人
func echoOperator(c *gin.Context) {
	c.String(http.StatusOK, c.GetString(ContextOperator))
}

func TestJWTAuth(t *testing.T) {
	mgr := newTestJWT()
	valid, _ := mgr.Sign("u-1", "张三", "admin", time.Minute)
	expired, _ := mgr.Sign("u-1", "张三", "admin", -time.Minute)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"Valid", "Bearer " + valid, 200, "张三"},
		{"Missing", "", 401, ""},
		{"BadScheme", "Token " + valid, 401, ""},
		{"Expired", "Bearer " + expired, 401, ""},
		{"Garbage", "Bearer abc.def.ghi", 401, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", JWTAuth(mgr, nil), echoOperator)

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantBody != "" && w.Body.String() != tt.wantBody {
				t.Errorf("expected body %q, got %q", tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestRoleAuth(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{"Allowed", "admin", 200},
		{"Denied", "member", 403},
		{"NoRole", "", 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) {
				if tt.role != "" {
					c.Set(ContextRole, tt.role)
				}
			})
			r.PUT("/x", RoleAuth("admin"), func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("PUT", "/x", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestRateLimit_DisabledWithoutRedis(t *testing.T) {
	r := gin.New()
	r.POST("/x", RateLimit(nil, 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/x", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected generated X-Request-ID")
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("X-Request-ID", "abc")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "abc" {
		t.Errorf("expected X-Request-ID abc, got %q", got)
	}
}
