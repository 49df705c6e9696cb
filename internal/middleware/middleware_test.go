package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/user/moviecatalog/internal/model"
)

const testSecret = "test-secret"

type stubUsers map[int]*model.User

func (s stubUsers) FindByID(_ context.Context, id int) (*model.User, error) {
	return s[id], nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(users UserFinder, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{RequireAuth(testSecret, false, users)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).FullName)
	})
	r.GET("/private", handlers...)
	return r
}

func TestRequireAuth(t *testing.T) {
	users := stubUsers{1: {ID: 1, FullName: "Alice"}}
	r := newAuthRouter(users)

	valid, _ := GenerateToken(1, testSecret, time.Hour)
	ghost, _ := GenerateToken(2, testSecret, time.Hour)
	forged, _ := GenerateToken(1, "other-secret", time.Hour)
	expired, _ := GenerateToken(1, testSecret, -time.Minute)

	tests := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{"bearer token", "Bearer " + valid, "", http.StatusOK},
		{"cookie token", "", valid, http.StatusOK},
		{"missing token", "", "", http.StatusUnauthorized},
		{"unknown user", "Bearer " + ghost, "", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + forged, "", http.StatusUnauthorized},
		{"expired token", "Bearer " + expired, "", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, w.Code)
			}
			if tt.want == http.StatusOK && w.Body.String() != "Alice" {
				t.Errorf("Expected current user Alice, got %q", w.Body.String())
			}
		})
	}
}

func TestRequireAuthRejectsOtherAlgorithms(t *testing.T) {
	r := newAuthRouter(stubUsers{1: {ID: 1}})

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString() error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for HS512 token, got %d", w.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	users := stubUsers{
		1: {ID: 1, FullName: "Alice"},
		2: {ID: 2, FullName: "Root", IsAdmin: true},
	}
	r := newAuthRouter(users, RequireAdmin())

	for id, want := range map[int]int{1: http.StatusForbidden, 2: http.StatusOK} {
		token, _ := GenerateToken(id, testSecret, time.Hour)
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Errorf("User %d: expected %d, got %d", id, want, w.Code)
		}
	}
}

func TestShouldRefresh(t *testing.T) {
	now := time.Now()
	claims := func(issued, expires time.Time) *Claims {
		return &Claims{RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		}}
	}

	if shouldRefresh(claims(now, now.Add(time.Hour))) {
		t.Error("Expected fresh token not to refresh")
	}
	if !shouldRefresh(claims(now.Add(-40*time.Minute), now.Add(20*time.Minute))) {
		t.Error("Expected token past half life to refresh")
	}
	if shouldRefresh(&Claims{}) {
		t.Error("Expected token without timestamps not to refresh")
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(Security(), CORS("http://a.example.com, http://b.example.com"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{"allowed origin", http.MethodGet, "http://a.example.com", http.StatusOK, "http://a.example.com"},
		{"unknown origin", http.MethodGet, "http://evil.example.com", http.StatusOK, ""},
		{"preflight", http.MethodOptions, "http://b.example.com", http.StatusNoContent, "http://b.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("Expected allow origin %q, got %q", tt.wantAllow, got)
			}
			if w.Header().Get("X-Content-Type-Options") != "nosniff" {
				t.Error("Expected security headers")
			}
		})
	}
}

func TestCORSWildcardWithoutCredentials(t *testing.T) {
	tests := []struct {
		name      string
		allowed   string
		origin    string
		wantAllow string
		wantCreds string
	}{
		{"wildcard", "*", "http://evil.example.com", "*", ""},
		{"wildcard with listed origin", "*, http://a.example.com", "http://a.example.com", "http://a.example.com", "true"},
		{"wildcard unlisted origin", "*, http://a.example.com", "http://evil.example.com", "*", ""},
		{"listed origin", "http://a.example.com", "http://a.example.com", "http://a.example.com", "true"},
		{"no origin header", "*", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORS(tt.allowed))
			r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("Expected allow origin %q, got %q", tt.wantAllow, got)
			}
			if got := w.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCreds {
				t.Errorf("Expected allow credentials %q, got %q", tt.wantCreds, got)
			}
		})
	}
}

func TestRefreshCookieSecureFlag(t *testing.T) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-40 * time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(20 * time.Minute)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString() error: %v", err)
	}

	tests := []struct {
		name   string
		secure bool
	}{
		{"production", true},
		{"development", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/private", RequireAuth(testSecret, tt.secure, stubUsers{1: {ID: 1}}), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			req.Header.Set("Authorization", "Bearer "+signed)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			if w.Header().Get("X-Refreshed-Token") == "" {
				t.Fatal("Expected refreshed token header")
			}
			cookie := w.Header().Get("Set-Cookie")
			if !strings.Contains(cookie, "token=") || !strings.Contains(cookie, "HttpOnly") {
				t.Errorf("Expected HttpOnly token cookie, got %q", cookie)
			}
			if got := strings.Contains(cookie, "Secure"); got != tt.secure {
				t.Errorf("Expected Secure=%v, got cookie %q", tt.secure, cookie)
			}
		})
	}
}
