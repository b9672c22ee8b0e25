package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// Recover converts handler panics into a generic JSON 500 so internals never
// leak to the client. The panic value is logged server-side only.
func Recover(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rec),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"success":false,"message":"Something went wrong!"}`))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
