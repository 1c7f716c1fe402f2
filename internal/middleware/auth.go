package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/feedback-survey/internal/model"
	"github.com/lshigami/feedback-survey/internal/service"
	"github.com/rs/zerolog/log"
)

const (
	// SessionCookie may carry the token for browser clients.
	SessionCookie = "session_token"

	userKey   = "auth.user"
	claimsKey = "auth.claims"
)

// WithAuth attaches the authenticated user to the request if a valid token is
// present. Anonymous requests pass through; services decide what they allow.
func WithAuth(auth service.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := bearerToken(ctx)
		if token == "" {
			ctx.Next()
			return
		}
		user, claims, err := auth.Authenticate(ctx.Request.Context(), token)
		switch {
		case err == nil:
			ctx.Set(userKey, user)
			ctx.Set(claimsKey, claims)
		case errors.Is(err, service.ErrUnauthenticated):
			log.Debug().Str("path", ctx.Request.URL.Path).Msg("Ignoring invalid or revoked token")
		default:
			log.Error().Err(err).Msg("Authentication lookup failed")
		}
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	if cookie, err := ctx.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// CurrentUser is nil for anonymous requests.
func CurrentUser(ctx *gin.Context) *model.User {
	if v, ok := ctx.Get(userKey); ok {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}

func CurrentClaims(ctx *gin.Context) *service.TokenClaims {
	if v, ok := ctx.Get(claimsKey); ok {
		if claims, ok := v.(*service.TokenClaims); ok {
			return claims
		}
	}
	return nil
}
