package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/zappabad/pctmarket/internal/logger"
)

func requestLogger(log logger.Interface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.InfoContext(r.Context(), "http request",
				logger.NewField("method", r.Method),
				logger.NewField("path", r.URL.Path),
				logger.NewField("status", ww.Status()),
				logger.NewField("bytes", ww.BytesWritten()),
				logger.NewField("duration_ms", time.Since(start).Milliseconds()),
				logger.NewField("remote", r.RemoteAddr),
			)
		})
	}
}
