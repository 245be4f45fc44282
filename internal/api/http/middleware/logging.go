package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/bananaquest-server/internal/logger"
)

// RequestRecorder receives one observation per HTTP request.
type RequestRecorder interface {
	HTTPRequest(method, route string, status int, took time.Duration)
}

// Logging logs every request and feeds request metrics.
type Logging struct {
	logger   *logger.Logger
	recorder RequestRecorder
}

func NewLogging(logger *logger.Logger, recorder RequestRecorder) *Logging {
	return &Logging{
		logger:   logger,
		recorder: recorder,
	}
}

func (l *Logging) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		l.recorder.HTTPRequest(r.Method, route, status, duration)

		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", duration.Milliseconds(),
		}
		if reqID := chimw.GetReqID(r.Context()); reqID != "" {
			args = append(args, "request_id", reqID)
		}

		if status >= http.StatusInternalServerError {
			l.logger.Error("HTTP request failed", args...)
			return
		}
		l.logger.Info("HTTP request completed", args...)
	})
}
