package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/btmxh/folio/internal/auth"
	"github.com/btmxh/folio/internal/errs"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const AUTH_COOKIE_NAME = "Authorization"

var unauthorizedError = errors.New("You must be logged in to do this.")

// bearerToken reads the session token from the cookie, falling back to an
// Authorization header for API clients.
func bearerToken(ctx *gin.Context) (string, bool) {
	tokenStr, err := ctx.Cookie(AUTH_COOKIE_NAME)
	if err == nil && tokenStr != "" {
		return tokenStr, true
	}
	if err != nil && !errors.Is(err, http.ErrNoCookie) {
		slog.Warn("Failed to get auth cookie", "error", err)
	}

	header := ctx.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
		return token, true
	}

	return "", false
}

func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if tokenStr, ok := bearerToken(ctx); ok {
			username, err := auth.Verify(tokenStr)
			switch {
			case err == nil:
				auth.SetUsername(ctx, username)
			case errors.Is(err, jwt.ErrTokenExpired):
				slog.Debug("Token expired")
			default:
				slog.Warn("Failed to validate token", "error", err)
			}
		}

		ctx.Next()
	}
}

func SetAuthCookie(c *gin.Context, signedToken string, timeout time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AUTH_COOKIE_NAME, signedToken, int(timeout.Seconds()), "/", "", true, true)
}

func Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AUTH_COOKIE_NAME, "", -1, "/", "", true, true)
}

func MustAuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !auth.IsLoggedIn(ctx) {
			handler := errs.NewGinErrorHandler(ctx, "Unauthorized")
			handler.PublicError(http.StatusUnauthorized, unauthorizedError)
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}
