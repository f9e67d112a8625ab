package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type ctxKey int

const requestIDKey ctxKey = 1

// RequestID tags every request with an id for log correlation, honoring an
// X-Request-ID supplied by the caller and minting a UUID otherwise. The id
// is echoed back in the response header.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := r.Header.Get("X-Request-ID")
			if rid == "" {
				rid = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", rid)
			ctx := context.WithValue(r.Context(), requestIDKey, rid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRequestID reads the id placed on the request context by RequestID,
// empty when the middleware is not in the chain.
func GetRequestID(r *http.Request) string {
	if v := r.Context().Value(requestIDKey); v != nil {
		return v.(string)
	}
	return ""
}
