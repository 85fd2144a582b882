package middleware

import (
	"net/http"
	"strings"
	"time"

	"tickethub/internal/shared/config"
	"tickethub/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// TicketHub has no user accounts. Holds and bookings are keyed by a guest
// session: a short-lived JWT minted by POST /sessions and carried as a
// Bearer token. The session id ties a hold to the browser that created it
// so only that browser can cancel or convert it.

// IssueSessionToken mints a new guest session token and returns the token
// together with its session id.
func IssueSessionToken(cfg *config.Config) (token string, sessionID string, err error) {
	sessionID = uuid.New().String()
	now := time.Now()

	claims := jwt.MapClaims{
		"session_id": sessionID,
		"type":       "session",
		"iat":        now.Unix(),
		"exp":        now.Add(cfg.Session.TTL).Unix(),
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Session.Secret))
	if err != nil {
		return "", "", err
	}
	return token, sessionID, nil
}

// SessionAuth validates the guest session token and puts the session id on
// the request context.
func SessionAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := parseSessionToken(c, cfg)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "a valid session token is required", nil)
			c.Abort()
			return
		}

		c.Set("session_id", sessionID)
		c.Next()
	}
}

// OptionalSession attaches the session id when a valid token is present but
// lets anonymous requests through. Read-only endpoints use this.
func OptionalSession(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessionID, ok := parseSessionToken(c, cfg); ok {
			c.Set("session_id", sessionID)
		}
		c.Next()
	}
}

func parseSessionToken(c *gin.Context, cfg *config.Config) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(cfg.Session.Secret), nil
	})
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	if tokenType, ok := claims["type"]; !ok || tokenType != "session" {
		return "", false
	}

	sessionID, ok := claims["session_id"].(string)
	if !ok || sessionID == "" {
		return "", false
	}
	return sessionID, true
}

// SessionID reads the session id set by SessionAuth.
func SessionID(c *gin.Context) (string, bool) {
	val, exists := c.Get("session_id")
	if !exists {
		return "", false
	}
	sessionID, ok := val.(string)
	return sessionID, ok && sessionID != ""
}

// CORS middleware
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
