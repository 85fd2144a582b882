package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tickethub/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Session: config.SessionConfig{
			Secret: "test-session-secret",
			TTL:    time.Hour,
		},
	}
}

func protectedRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", SessionAuth(cfg), func(c *gin.Context) {
		sessionID, _ := SessionID(c)
		c.JSON(http.StatusOK, gin.H{"session_id": sessionID})
	})
	return r
}

func TestIssueSessionToken_RoundTrip(t *testing.T) {
	cfg := testConfig()

	token, sessionID, err := IssueSessionToken(cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, sessionID)

	r := protectedRouter(cfg)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), sessionID)
}

func TestSessionAuth_RejectsMissingToken(t *testing.T) {
	r := protectedRouter(testConfig())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionAuth_RejectsMalformedHeader(t *testing.T) {
	r := protectedRouter(testConfig())

	for _, header := range []string{"token", "Basic abc", "Bearer"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestSessionAuth_RejectsWrongSecret(t *testing.T) {
	otherCfg := testConfig()
	otherCfg.Session.Secret = "another-secret"
	token, _, err := IssueSessionToken(otherCfg)
	require.NoError(t, err)

	r := protectedRouter(testConfig())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalSession_LetsAnonymousThrough(t *testing.T) {
	cfg := testConfig()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/public", OptionalSession(cfg), func(c *gin.Context) {
		if sessionID, ok := SessionID(c); ok {
			c.JSON(http.StatusOK, gin.H{"session_id": sessionID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"session_id": nil})
	})

	// Anonymous request passes.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// Valid token gets attached.
	token, sessionID, err := IssueSessionToken(cfg)
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), sessionID)
}
