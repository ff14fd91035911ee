package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/spartacusmuoz/transferte-prenota/internal/domain"
)

// TokenParser resolves a bearer token string into an actor.
// *auth.TokenManager satisfies it; tests inject a stub.
type TokenParser interface {
	Parse(token string) (domain.Actor, error)
}

// actorKey is the context key under which the authenticated actor is stored.
// Unexported struct type so no other package can collide with it.
type actorKey struct{}

// NewAuthenticator returns a middleware that requires a valid
// "Authorization: Bearer <token>" header, resolves it to a domain.Actor via
// the parser, and stores the actor in the request context.
// Requests without a valid token are rejected with 401.
func NewAuthenticator(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w)
				return
			}

			actor, err := parser.Parse(token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), actorKey{}, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFrom returns the authenticated actor stored by NewAuthenticator.
// The second return is false when the request never passed the middleware.
func ActorFrom(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}

// unauthorized writes the 401 response in the same JSON error envelope the
// handlers use, without importing the handler package.
func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    "unauthorized",
			"message": "missing or invalid bearer token",
		},
	})
}
