package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"youtools-catalog/internal/logger"
)

// Option configures the request logger.
type Option func(*options)

type options struct {
	skips map[string]struct{}
}

// WithSkips suppresses logging for the given paths (health probes etc.).
func WithSkips(paths ...string) Option {
	return func(o *options) {
		for _, p := range paths {
			o.skips[p] = struct{}{}
		}
	}
}

// LogRequests returns middleware that logs method, path, status and duration
// of every request.
func LogRequests(opts ...Option) mux.MiddlewareFunc {
	o := &options{skips: map[string]struct{}{}}
	for _, opt := range opts {
		opt(o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, skip := o.skips[r.URL.Path]; skip {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			logger.Infof("%s %s -> %d (%s)", r.Method, r.URL.Path, sw.status, time.Since(start))
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
