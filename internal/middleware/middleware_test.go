package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"food-marketplace/pkg/auth"
	"food-marketplace/pkg/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func identityRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw)
	r.GET("/whoami", func(c *gin.Context) {
		identity := CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{
			"authenticated": identity.IsAuthenticated(),
			"user_id":       identity.UserID.String(),
		})
	})
	return r
}

func whoami(t *testing.T, r *gin.Engine, authorization string) (int, map[string]interface{}) {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestOptionalAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("mw-secret", 1, 30)
	userID := uuid.New()
	pair, err := jwtManager.GenerateTokenPair(userID.String(), "customer", "a@example.com")
	require.NoError(t, err)

	r := identityRouter(NewAuthMiddleware(jwtManager).OptionalAuth())

	tests := []struct {
		name          string
		authorization string
		authenticated bool
	}{
		{"no header", "", false},
		{"access token", "Bearer " + pair.AccessToken, true},
		{"refresh token", "Bearer " + pair.RefreshToken, false},
		{"garbage", "Bearer not-a-jwt", false},
		{"wrong scheme", "Basic " + pair.AccessToken, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := whoami(t, r, tt.authorization)
			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, tt.authenticated, body["authenticated"])
			if tt.authenticated {
				assert.Equal(t, userID.String(), body["user_id"])
			}
		})
	}
}

func TestAuthRequired(t *testing.T) {
	jwtManager := auth.NewJWTManager("mw-secret", 1, 30)
	pair, err := jwtManager.GenerateTokenPair(uuid.NewString(), "customer", "a@example.com")
	require.NoError(t, err)

	r := identityRouter(NewAuthMiddleware(jwtManager).AuthRequired())

	code, _ := whoami(t, r, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = whoami(t, r, "Bearer "+pair.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := whoami(t, r, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["authenticated"])
}

func TestIsInteractiveRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	assert.False(t, IsInteractiveRequest(req))

	req.Header.Set(RequestedWithHeader, "fetch")
	assert.False(t, IsInteractiveRequest(req))

	req.Header.Set(RequestedWithHeader, "XMLHttpRequest")
	assert.True(t, IsInteractiveRequest(req))
}

func TestRequestIDAndLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "info")

	r := gin.New()
	r.Use(RequestIDMiddleware(logger), LoggerMiddleware(), RecoveryMiddleware())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	requestID := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(requestID)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), requestID)

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "upstream-id", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, buf.String(), "panic recovered")
}
