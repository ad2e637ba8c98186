package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karnex/internal/infrastructure/auth"
	"karnex/internal/shared/constants"
	"karnex/internal/shared/logger"
)

func newAuthRouter(svc *auth.JWTService) *gin.Engine {
	mw := NewAuthMiddleware(svc, logger.NewNopLogger())

	r := gin.New()
	r.GET("/me", mw.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": UserID(c),
			"email":   c.GetString(constants.ContextKeyUserEmail),
		})
	})
	return r
}

func bearer(t *testing.T, svc *auth.JWTService, id uint, role auth.Role) string {
	t.Helper()
	token, err := svc.Generate(id, role, "u@example.com", time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRequireAuth(t *testing.T) {
	svc := auth.NewJWTService("secret")
	r := newAuthRouter(svc)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid token", bearer(t, svc, 12, auth.RoleUser), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequireAuth_SetsContext(t *testing.T) {
	svc := auth.NewJWTService("secret")
	r := newAuthRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", bearer(t, svc, 12, auth.RoleUser))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.JSONEq(t, `{"user_id":12,"email":"u@example.com"}`, w.Body.String())
}
