package httpadapter

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

type requestLoggerKey struct{}

// requestLogger returns the request-scoped logger installed by observe,
// which carries the request ID. Outside a request scope it falls back to
// the process default.
func requestLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(requestLoggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// observe assigns each request an ID (honoring one the caller supplied),
// echoes it back in the response, installs a request-scoped logger, and
// writes one leveled access-log line when the handler returns. Retrieval
// failures logged by the handlers correlate with this line through the
// request ID.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		logger := slog.Default().With("request_id", requestID)
		r = r.WithContext(context.WithValue(r.Context(), requestLoggerKey{}, logger))

		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(recorder, r)

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", clientAddr(r),
		}
		switch {
		case recorder.statusCode >= 500:
			logger.Error("api_request", attrs...)
		case recorder.statusCode >= 400:
			logger.Warn("api_request", attrs...)
		default:
			logger.Info("api_request", attrs...)
		}
	})
}

func clientAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// statusRecorder captures the status code for the access log. The API only
// ever writes small JSON bodies, so the richer ResponseWriter interfaces
// (hijacking, push) are deliberately not forwarded.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
