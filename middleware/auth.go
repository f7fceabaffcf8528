package middleware

import (
	"context"
	"net/http"
	"strings"

	"go-bookstore/apperr"
	"go-bookstore/utils"
)

// Key type for context
type contextKey string

const (
	UserContextKey    = contextKey("user")
	SessionContextKey = contextKey("session")
)

// TokenCookie carries the JWT for browser clients.
const TokenCookie = "bookstore_token"

type Auth struct {
	tokens *utils.TokenIssuer
}

func NewAuth(tokens *utils.TokenIssuer) *Auth {
	return &Auth{tokens: tokens}
}

// bearer reads the token from the Authorization header, falling back to the
// token cookie.
func bearer(r *http.Request) (string, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", false
		}
		return parts[1], true
	}
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value, true
	}
	return "", false
}

// Optional attaches claims when a valid token is present and otherwise lets
// the request through anonymously.
func (a *Auth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokenStr, ok := bearer(r); ok {
			if claims, err := a.tokens.Parse(tokenStr); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), UserContextKey, claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Required rejects requests without a valid token.
func (a *Auth) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, ok := bearer(r)
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, apperr.ErrUnauthorized.Message)
			return
		}
		claims, err := a.tokens.Parse(tokenStr)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFrom returns the authenticated user's claims, if any.
func ClaimsFrom(ctx context.Context) (*utils.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*utils.Claims)
	return claims, ok
}
