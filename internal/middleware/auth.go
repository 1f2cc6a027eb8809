package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anupku07/atm_terminal/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AccountLockState is the part of the account the session middleware needs.
type AccountLockState interface {
	AccountNumber() string
	IsLocked() bool
}

// SessionAuthMiddleware creates a Gin middleware handler that validates session tokens
// issued after PIN authentication. Sessions die as soon as the account is locked.
func SessionAuthMiddleware(jwtSecret string, account AccountLockState) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims, err := utils.ParseAndValidateJWT(parts[1], jwtSecret)
		if err != nil {
			logger.Warn("Invalid session token", slog.String("error", err.Error()))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Session has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		if claims.Subject != account.AccountNumber() {
			logger.Warn("Session token issued for another account", slog.String("subject", claims.Subject))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		if account.IsLocked() {
			logger.Warn("Session rejected, account is locked")
			c.AbortWithStatusJSON(http.StatusLocked, gin.H{"error": "Account is blocked due to multiple failed attempts."})
			return
		}

		ctx := context.WithValue(c.Request.Context(), accountNumberKey, claims.Subject)
		ctx = WithLogger(ctx, logger.With(slog.String("account_number", claims.Subject)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
