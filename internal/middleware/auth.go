package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/growthboard/growthboard-go/internal/crypto"
	"github.com/growthboard/growthboard-go/internal/model"
)

type contextKey string

const userKey contextKey = "user"

// CookieName is the session cookie carrying the signed token.
const CookieName = "jwt"

// JWTAuth returns middleware that authenticates requests from the jwt cookie,
// falling back to an Authorization Bearer header. All token failure modes
// produce the same unauthorized outcome.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims, err := crypto.ValidateToken(token, secret)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			user := model.SessionUser{ID: claims.UserID, Username: claims.Username}
			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromRequest extracts the session token from the cookie or, failing
// that, from the Authorization header.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if token, found := strings.CutPrefix(authHeader, "Bearer "); found && token != "" {
		return token
	}

	return ""
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (model.SessionUser, bool) {
	user, ok := ctx.Value(userKey).(model.SessionUser)
	return user, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
