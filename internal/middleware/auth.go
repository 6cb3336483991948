package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Dan9191/todo-service/internal/models"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type contextKey string

const identityKey contextKey = "identity"

const (
	msgTokenRequired = "authentication token required"
	msgTokenInvalid  = "invalid token"
)

// TokenVerifier validates a bearer token and returns the identity it carries
type TokenVerifier interface {
	Verify(token string) (*models.Identity, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores the
// caller identity in the request context.
func AuthMiddleware(verifier TokenVerifier, logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeError(w, http.StatusUnauthorized, msgTokenRequired)
				return
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				logger.WithField("path", r.URL.Path).Debugf("Token rejected: %v", err)
				writeError(w, http.StatusForbidden, msgTokenInvalid)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// WithIdentity returns a copy of ctx carrying identity
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the caller stored by AuthMiddleware
func IdentityFromContext(ctx context.Context) (*models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*models.Identity)
	return identity, ok && identity != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
