package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// Recover turns a handler panic into a logged 500 instead of a dropped
// connection. Outermost in the chain so it covers the other middleware too.
func Recover(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				logger.Error().
					Str("rid", GetRequestID(r)).
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Msg("panic")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"internal"}`))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
