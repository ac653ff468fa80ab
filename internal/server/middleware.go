package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// MetricsMiddleware records request metrics and logs every request.
func (s *Server) MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		s.metrics.RecordHTTPRequest(endpoint, r.Method, wrapped.statusCode, duration)

		s.logger.Debug("request served",
			zap.String("endpoint", endpoint),
			zap.String("method", r.Method),
			zap.Int("status", wrapped.statusCode),
			zap.Duration("duration", duration),
		)
	}
}

// responseWriter captures the status code written by a handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
