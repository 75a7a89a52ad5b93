package http

import (
	"net/http"
	"time"

	"github.com/DRSN-tech/petshop-backend/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

// RequestLogger пишет в лог метод, путь, статус, длительность и request id каждого запроса.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Infof("%s %s %d %dB %s request_id=%s",
				r.Method,
				r.URL.Path,
				ww.Status(),
				ww.BytesWritten(),
				time.Since(start),
				middleware.GetReqID(r.Context()),
			)
		})
	}
}
