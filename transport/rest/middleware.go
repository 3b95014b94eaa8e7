package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	log := logger.With("component", "http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Info("request served",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}

// recoverer - answers a panic like any other unexpected failure.
func recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	log := logger.With("component", "http", "method", "recoverer")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler { //nolint: errorlint // sentinel panic value
						panic(rec)
					}

					err := fmt.Errorf("recovered from panic: %v", rec)
					log.Error("handler panicked", "request_id", middleware.GetReqID(r.Context()), "error", err)
					writeError(w, err)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
