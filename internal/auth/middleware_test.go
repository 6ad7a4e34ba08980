package auth

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newGateRouter(tokens *TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", RequireToken(tokens), func(c *gin.Context) {
		c.String(http.StatusOK, strconv.FormatInt(UserIDFromContext(c), 10))
	})
	return r
}

func TestRequireToken(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)
	r := newGateRouter(tokens)

	valid, err := tokens.Issue(5)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + valid, wantStatus: http.StatusUnauthorized},
		{name: "no scheme", header: valid, wantStatus: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer garbage", wantStatus: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + valid, wantStatus: http.StatusOK, wantBody: "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantBody != "" && w.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestUserIDFromContext_Unset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := UserIDFromContext(c); got != 0 {
		t.Errorf("UserIDFromContext() = %d, want 0", got)
	}
}
