package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mosaic14/mosaic/internal/api/response"
	"github.com/mosaic14/mosaic/internal/auth"
)

const identityKey contextKey = "identity"

// AnonymousIDHeader is the out-of-band channel for anonymous identifiers.
const AnonymousIDHeader = "X-Anonymous-ID"

// RequireAuth is middleware that demands a valid bearer access token.
// Missing or invalid tokens are rejected with 401 before the wrapped
// handler runs; the handler never observes an unauthenticated state.
func RequireAuth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				response.Err(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			userID, err := tokens.VerifyAccessToken(token)
			if err != nil {
				response.Err(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, &auth.Identity{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth is middleware that resolves an identity when one is
// available: the bearer token is tried first, then the anonymous-identifier
// header. With neither present the request proceeds without an identity;
// downstream handlers must treat that as "no user", not as an error.
// A malformed anonymous identifier is rejected with 400.
func OptionalAuth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" {
				if userID, err := tokens.VerifyAccessToken(token); err == nil {
					ctx := context.WithValue(r.Context(), identityKey, &auth.Identity{UserID: userID})
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			if anonID := r.Header.Get(AnonymousIDHeader); anonID != "" {
				userID, err := auth.ParseAnonymousID(anonID)
				if err != nil {
					response.Err(w, http.StatusBadRequest, "Invalid anonymous identifier")
					return
				}
				ctx := context.WithValue(r.Context(), identityKey, &auth.Identity{UserID: userID, Anonymous: true})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetIdentity retrieves the resolved Identity from the request context.
func GetIdentity(ctx context.Context) *auth.Identity {
	if id, ok := ctx.Value(identityKey).(*auth.Identity); ok {
		return id
	}
	return nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}

	return strings.TrimSpace(header[len(prefix):])
}
