package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestRouter(secret []byte) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(secret))

	identify := func(c *gin.Context) {
		if id, ok := c.Get("user_id"); ok {
			c.JSON(http.StatusOK, gin.H{"user_id": id})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": nil})
	}
	r.GET("/api/opportunities", identify)
	r.GET("/api/opportunities/:id", identify)
	r.POST("/api/opportunities", identify)
	r.GET("/api/users/me", identify)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	secret := []byte("test-secret")
	router := newAuthTestRouter(secret)

	do := func(method, path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("the opportunity list is browsable logged out", func(t *testing.T) {
		w := do(http.MethodGet, "/api/opportunities", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":null`)
	})

	t.Run("a single opportunity is readable logged out", func(t *testing.T) {
		w := do(http.MethodGet, "/api/opportunities/42", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("posting an opportunity still requires a token", func(t *testing.T) {
		w := do(http.MethodPost, "/api/opportunities", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("a valid token identifies the viewer on a public path", func(t *testing.T) {
		token, err := IssueToken(secret, 7, 10, time.Hour)
		require.NoError(t, err)

		w := do(http.MethodGet, "/api/opportunities", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":7`)
	})

	t.Run("a garbage token on a public path falls back to anonymous", func(t *testing.T) {
		w := do(http.MethodGet, "/api/opportunities", "not-a-jwt")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":null`)
	})

	t.Run("a garbage token on a protected path is rejected", func(t *testing.T) {
		w := do(http.MethodGet, "/api/users/me", "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("an expired token on a protected path is rejected", func(t *testing.T) {
		token, err := IssueToken(secret, 7, 10, -time.Hour)
		require.NoError(t, err)

		w := do(http.MethodGet, "/api/users/me", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
