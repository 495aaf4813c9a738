package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Irenepaul17/new-log-sub000/internal/errs"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
)

type contextKey string

const UserContextKey contextKey = "user"

// UserLookup loads the current row of a token's subject.
type UserLookup func(ctx context.Context, id uint) (*models.User, error)

// Middleware authenticates bearer tokens. With a non-nil lookup every request
// also checks the account still exists and is active, and takes the role and
// name from the row rather than the token.
func Middleware(secret string, lookup UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				deny(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			tokenStr := strings.TrimPrefix(header, "Bearer ")
			claims, err := ValidateToken(secret, tokenStr)
			if err != nil {
				deny(w, http.StatusUnauthorized, "invalid token")
				return
			}
			if lookup != nil {
				user, err := lookup(r.Context(), claims.UserID)
				switch {
				case errors.Is(err, errs.ErrNotFound):
					deny(w, http.StatusUnauthorized, "account no longer exists")
					return
				case err != nil:
					zerolog.Ctx(r.Context()).Error().Err(err).Uint("user_id", claims.UserID).Msg("load token subject")
					deny(w, http.StatusInternalServerError, "internal server error")
					return
				case !user.Active:
					deny(w, http.StatusForbidden, "account is disabled")
					return
				}
				claims.Role, claims.Name, claims.Email = user.Role, user.Name, user.Email
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims)))
		})
	}
}

// RequireRole rejects callers whose role ranks below min.
func RequireRole(min models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetUser(r.Context())
			if claims == nil {
				deny(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if claims.Role.Rank() < min.Rank() {
				deny(w, http.StatusForbidden, "requires "+min.Label()+" or above")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithUser(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, UserContextKey, claims)
}

func GetUser(ctx context.Context) *Claims {
	claims, _ := ctx.Value(UserContextKey).(*Claims)
	return claims
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
