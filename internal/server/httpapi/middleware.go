package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/avolkovx/listsync/internal/common"
)

// contextKey is a private type so request-context keys cannot collide with
// other packages.
type contextKey string

const contextKeyUserID contextKey = "user_id"

// TokenVerifier resolves a bearer token to a user identity.
type TokenVerifier interface {
	VerifyAccessToken(tokenString string) (string, error)
}

// Authenticate extracts the bearer token from the Authorization header (or
// the access_token query parameter, which the SSE endpoint needs since
// EventSource cannot set headers) and stores the resolved user id in the
// request context.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, common.ErrUnauthorized)
				return
			}

			userID, err := verifier.VerifyAccessToken(token)
			if err != nil {
				writeError(w, common.ErrInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyUserID, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("access_token")
}

// userID returns the authenticated user id set by Authenticate.
func userID(r *http.Request) string {
	id, _ := r.Context().Value(contextKeyUserID).(string)
	return id
}
