package handler

import (
	"net/http"
	"time"
)

// withLogging attaches a request-scoped logger to the context and logs every
// request with method, path, and duration once the handler chain returns.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqLogger := h.logger.With().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()
		ctx := reqLogger.WithContext(r.Context())

		next.ServeHTTP(w, r.WithContext(ctx))

		reqLogger.Debug().
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}
