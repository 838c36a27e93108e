package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func identityRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Identity(secret))
	r.GET("/whoami", func(c *gin.Context) {
		id, _ := UserID(c)
		c.String(http.StatusOK, strconv.FormatUint(uint64(id), 10))
	})
	return r
}

func signed(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestIdentityFromHeader(t *testing.T) {
	tests := []struct {
		header     string
		wantStatus int
		wantBody   string
	}{
		{"42", http.StatusOK, "42"},
		{"", http.StatusUnauthorized, ""},
		{"0", http.StatusUnauthorized, ""},
		{"abc", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run("header="+tt.header, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set(UserIDHeader, tt.header)
			}
			w := httptest.NewRecorder()
			identityRouter("").ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && w.Body.String() != tt.wantBody {
				t.Fatalf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestIdentityFromBearerToken(t *testing.T) {
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	past := jwt.NewNumericDate(time.Now().Add(-time.Hour))

	tests := []struct {
		name       string
		auth       string
		wantStatus int
	}{
		{"valid", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "9", ExpiresAt: future}), http.StatusOK},
		{"expired", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "9", ExpiresAt: past}), http.StatusUnauthorized},
		{"wrong key", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte("other"), jwt.RegisteredClaims{Subject: "9"}), http.StatusUnauthorized},
		{"wrong alg", "Bearer " + signed(t, jwt.SigningMethodHS512, []byte(testSecret), jwt.RegisteredClaims{Subject: "9"}), http.StatusUnauthorized},
		{"bad subject", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "teacher"}), http.StatusUnauthorized},
		{"no scheme", signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "9"}), http.StatusUnauthorized},
		{"missing", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			// The header fallback must not apply once a secret is configured.
			req.Header.Set(UserIDHeader, "1")
			w := httptest.NewRecorder()
			identityRouter(testSecret).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus == http.StatusOK && w.Body.String() != "9" {
				t.Fatalf("user = %q, want 9", w.Body.String())
			}
		})
	}
}

func TestRequestIDEchoedOrGenerated(t *testing.T) {
	r := identityRouter("")

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(UserIDHeader, "1")
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("echoed id = %q, want abc-123", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); len(got) != 36 {
		t.Fatalf("generated id = %q, want a uuid", got)
	}
}

func TestRequireUsersGuardsAdminRoutes(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []uint
		caller     string
		wantStatus int
	}{
		{"listed admin", []uint{4, 9}, "9", http.StatusOK},
		{"other user", []uint{4, 9}, "5", http.StatusForbidden},
		{"no admins configured", nil, "9", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			admin := r.Group("/admin", Identity(""), RequireUsers(tt.allowed))
			admin.POST("/attempts/sweep", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodPost, "/admin/attempts/sweep", nil)
			req.Header.Set(UserIDHeader, tt.caller)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
