package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/rpattn/recordbase/internal/auth"
)

// userIDHeader carries the session's resolved user identity. Session
// resolution itself happens upstream; this service only consumes the
// result.
const userIDHeader = "X-User-ID"

// UserScopeMiddleware copies the resolved user identity from the
// request header into the context. Requests without one pass through
// unauthenticated; handlers that need a scope reject them.
func UserScopeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(userIDHeader))
		if raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				r = r.WithContext(auth.ContextWithUserID(r.Context(), id))
			}
		}
		next.ServeHTTP(w, r)
	})
}
