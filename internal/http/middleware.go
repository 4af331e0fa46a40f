package httpapi

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/example/rapid-dispatch/internal/observability"
)

type contextKey string

const (
	requestIDKey contextKey = "request-id"
	logFieldsKey contextKey = "log-fields"
)

// fieldBag collects dispatch-specific fields (candidate count, booking id,
// quote outcome) that handlers attach to the request's access-log line.
// Requests are handled on one goroutine, so no locking.
type fieldBag struct {
	kv []any
}

// annotate adds key/value pairs to the current request's access-log line.
func annotate(ctx context.Context, args ...any) {
	if bag, ok := ctx.Value(logFieldsKey).(*fieldBag); ok {
		bag.kv = append(bag.kv, args...)
	}
}

func (s *Server) registerMiddleware() {
	s.mux.Use(s.recoverMiddleware)
	s.mux.Use(s.instrumentMiddleware)
}

// instrumentMiddleware assigns the request id, records Prometheus metrics,
// and emits one access-log line per request including whatever fields the
// handler annotated.
func (s *Server) instrumentMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = newID()
		}
		bag := &fieldBag{}
		ctx := context.WithValue(r.Context(), requestIDKey, reqID)
		ctx = context.WithValue(ctx, logFieldsKey, bag)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		tmpl := routeTemplate(r)
		status := strconv.Itoa(rec.status)
		observability.HTTPRequestsTotal.WithLabelValues(r.Method, tmpl, status).Inc()
		observability.HTTPRequestDuration.WithLabelValues(r.Method, tmpl, status).Observe(time.Since(start).Seconds())

		args := []any{
			"request_id", reqID,
			"method", r.Method,
			"route", tmpl,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client", clientIP(r),
		}
		args = append(args, bag.kv...)
		s.logger.Info("request", args...)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered",
					"error", rec,
					"request_id", requestIDFromContext(r.Context()),
					"path", r.URL.Path,
				)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func routeTemplate(r *http.Request) string {
	if current := mux.CurrentRoute(r); current != nil {
		if tmpl, err := current.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return r.URL.Path
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
