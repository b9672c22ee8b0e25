package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"checkpoint/internal/auth"
	"checkpoint/internal/models"
	"checkpoint/internal/store"
)

type userCtxKey struct{}

// UserFromContext returns the authenticated user attached by RequireAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userCtxKey{}).(*models.User)
	return u, ok
}

// WithUser is exposed for handler tests that bypass the middleware.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserResolver looks up a user by id; satisfied by store.UserStore.
type UserResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type AuthMiddleware struct {
	jwtSecret []byte
	users     UserResolver
}

func NewAuthMiddleware(secret []byte, users UserResolver) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: secret, users: users}
}

// RequireAuth verifies the bearer token and attaches the resolved user to the
// request context. Checks run in order: header present, Bearer format,
// non-empty token, valid signature/expiry, known user. Every failure is a 401
// with a field-level error on the authorization header.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if authz == "" {
			unauthorized(w, "Access token is required", "Authorization header is missing")
			return
		}
		if !strings.HasPrefix(authz, "Bearer ") {
			unauthorized(w, "Invalid token format", "Token must be in Bearer format")
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
		if tokenStr == "" {
			unauthorized(w, "Token is empty", "Token cannot be empty")
			return
		}

		userIDStr, err := auth.ParseToken(tokenStr, m.jwtSecret)
		if err != nil {
			unauthorized(w, "Invalid or expired token", "Token could not be verified")
			return
		}
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			unauthorized(w, "Invalid or expired token", "Token could not be verified")
			return
		}

		user, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				unauthorized(w, "User not found", "Token does not resolve to a known user")
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Server error"})
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func unauthorized(w http.ResponseWriter, message, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
		"errors":  []map[string]string{{"field": "authorization", "message": detail}},
	})
}
