package metrics

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestMiddleware counts every webhook request, and those answered with a
// 4xx or 5xx status as errors.
func RequestMiddleware(m *Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				m.IncRequests()
				if isErrorStatus(ww.Status()) {
					m.IncErrors()
				}
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// isErrorStatus reports whether a recorded status is a failure. Handlers that
// never write leave the status at 0, which net/http sends as 200.
func isErrorStatus(status int) bool {
	return status >= http.StatusBadRequest
}
