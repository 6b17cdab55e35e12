package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/postboard/postboard-go/internal/model"
	"github.com/postboard/postboard-go/internal/service"
)

type contextKey string

const accountKey contextKey = "account"

// Authenticator resolves a bearer token to the account it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.Account, error)
}

// BearerToken returns the token from an "Authorization: Bearer" header, or
// "" when the header is absent or malformed.
func BearerToken(r *http.Request) string {
	token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

// JWTAuth returns middleware that requires a valid access token. Every
// token rejection uses the same message so callers cannot tell a forged
// token from an expired one. Failures that are not authentication errors,
// such as an unreachable database, are logged and answered with 500.
func JWTAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			token := BearerToken(r)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}

			account, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if service.KindOf(err) != service.KindAuth {
					slog.ErrorContext(r.Context(), "authentication failed",
						"method", r.Method,
						"path", r.URL.Path,
						"error", err,
					)
					writeJSONError(w, http.StatusInternalServerError, "internal server error")
					return
				}
				writeJSONError(w, http.StatusUnauthorized, "expired or invalid")
				return
			}

			ctx := context.WithValue(r.Context(), accountKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountFromContext returns the authenticated account stored by JWTAuth.
func AccountFromContext(ctx context.Context) (model.Account, bool) {
	account, ok := ctx.Value(accountKey).(model.Account)
	return account, ok
}

// PublicIDFromContext returns the authenticated account's public identifier.
func PublicIDFromContext(ctx context.Context) (string, bool) {
	account, ok := AccountFromContext(ctx)
	if !ok || account.PublicID == "" {
		return "", false
	}
	return account.PublicID, true
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
