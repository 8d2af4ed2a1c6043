package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/civicdesk/platform/internal/shared/config"
	"github.com/civicdesk/platform/internal/shared/types"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const actorContextKey contextKey = "actor"

// Claims extends JWT claims with platform-specific data
type Claims struct {
	jwt.RegisteredClaims
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
}

// Middleware creates JWT authentication middleware
func Middleware(cfg config.AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				writeError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			token, err := jwt.ParseWithClaims(parts[1], &Claims{}, func(token *jwt.Token) (interface{}, error) {
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			claims, ok := token.Claims.(*Claims)
			if !ok || !token.Valid {
				writeError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			actor := Actor{
				ID:         types.ID(claims.Subject),
				Name:       claims.Name,
				Role:       Role(claims.Role),
				Department: claims.Department,
			}
			if !ValidRole(actor.Role) {
				writeError(w, http.StatusUnauthorized, "unknown role in token")
				return
			}

			ctx := context.WithValue(r.Context(), actorContextKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetActor extracts the actor from request context. The zero Actor is
// returned when the request was not authenticated.
func GetActor(ctx context.Context) Actor {
	actor, _ := ctx.Value(actorContextKey).(Actor)
	return actor
}

// WithActor returns a context carrying the given actor. Used by tests and
// internal callers that bypass the HTTP middleware.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

// RequireRoles creates middleware that requires one of the given roles
func RequireRoles(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := GetActor(r.Context())
			if actor.ID.IsZero() {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeError(w, http.StatusForbidden, "insufficient permissions")
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
