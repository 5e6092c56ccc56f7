package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/mverbeek/sitegauge/internal/metrics"
)

// statusWriter records the response status for logging and metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w, status: http.StatusOK}
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// requestIDMiddleware tags every response with a request id so log lines
// and client reports can be correlated.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newStatusWriter(w)
		next.ServeHTTP(rw, r)
		duration := time.Since(start)

		status := strconv.Itoa(rw.status)
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(duration.Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
	})
}
