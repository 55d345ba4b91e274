package middleware

import (
	"net/http"
	"time"

	"codetrek/internal/platform/logger"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs one line per request through the structured logger.
func RequestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				kv := []interface{}{
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"elapsed", time.Since(start),
					"request_id", chiMiddleware.GetReqID(r.Context()),
				}
				switch {
				case status >= http.StatusInternalServerError:
					log.Error("Request failed", kv...)
				case status >= http.StatusBadRequest:
					log.Warn("Request rejected", kv...)
				default:
					log.Info("Request served", kv...)
				}
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
