package server

import (
	"net/http"
	"time"

	"github.com/tfontaine/geosim/internal/logging"
)

// loggingMiddleware wraps an http.Handler and logs each request at debug
// level with its duration.
func loggingMiddleware(next http.Handler, log *logging.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debugw("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}
