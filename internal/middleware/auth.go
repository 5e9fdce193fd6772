package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"peerprep/interview/internal/models"
	"peerprep/interview/internal/store"
	"peerprep/interview/internal/utils"
)

const identityKey contextKey = "identity"

var ErrMissingAuthHeader = errors.New("missing or malformed Authorization header")

// TokenVerifier turns a bearer token into the caller's identity.
type TokenVerifier interface {
	VerifyToken(token string) (*models.Identity, error)
}

// Authenticate resolves the bearer token, if any, into an Identity. Without a
// token the request continues as a guest unless required is set. A token that
// fails verification is always rejected.
func Authenticate(verifier TokenVerifier, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				if required {
					utils.Error(w, http.StatusUnauthorized, "unauthorized", err.Error())
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			identity, err := verifier.VerifyToken(token)
			if err != nil {
				utils.Error(w, http.StatusUnauthorized, "invalid_token", "Invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireRole rejects callers that are not signed in with role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r.Context())
			if !ok {
				utils.Error(w, http.StatusUnauthorized, "unauthorized", "Sign in required")
				return
			}
			if identity.Role != role {
				utils.Error(w, http.StatusForbidden, "forbidden", "This action requires the "+role+" role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return "", ErrMissingAuthHeader
	}
	token := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	if token == "" {
		return "", ErrMissingAuthHeader
	}
	return token, nil
}

func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFrom(ctx context.Context) (*models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*models.Identity)
	return identity, ok && identity != nil
}

// ScopeFrom is the persistence scope of the caller: the user's own partition
// when signed in, the guest partition otherwise.
func ScopeFrom(ctx context.Context) store.Scope {
	if identity, ok := IdentityFrom(ctx); ok {
		return store.UserScope(identity.UserID)
	}
	return store.GuestScope()
}
