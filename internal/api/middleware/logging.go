// logging.go — журнал HTTP-запросов relay (slog).
// В запись попадают шаблон маршрута chi и параметры пути (fileId, app),
// чтобы запросы к одной операции группировались независимо от значений.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// statusRecorder запоминает статус и объём ответа.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += int64(n)
	return n, err
}

// Unwrap нужен http.ResponseController.
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// RequestLogger пишет по одной записи на запрос после ответа.
// 5xx — ERROR, 4xx — WARN, пробы и /metrics — DEBUG, остальное — INFO.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sr, r)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("route", routePattern(r)),
				slog.String("path", r.URL.Path),
				slog.Int("status", sr.status),
				slog.Duration("duration", time.Since(start)),
				slog.Int64("bytes", sr.bytes),
			}
			attrs = append(attrs, routeParams(r)...)
			if cc := r.Header.Get("Cache-Control"); cc != "" {
				attrs = append(attrs, slog.String("cache_control", cc))
			}
			attrs = append(attrs, slog.String("remote_addr", r.RemoteAddr))

			logger.LogAttrs(r.Context(), logLevel(sr.status, r.URL.Path), "HTTP запрос", attrs...)
		})
	}
}

// logLevel — уровень записи по статусу ответа и пути.
func logLevel(status int, path string) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	case isProbePath(path):
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// routePattern — шаблон маршрута chi ("/api/images/{fileId}/metadata").
// Пустая строка, если маршрут не найден.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}
	return rctx.RoutePattern()
}

// routeParams — параметры пути маршрута как атрибуты записи.
func routeParams(r *http.Request) []slog.Attr {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return nil
	}
	attrs := make([]slog.Attr, 0, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		if key == "*" || i >= len(rctx.URLParams.Values) {
			continue
		}
		attrs = append(attrs, slog.String(key, rctx.URLParams.Values[i]))
	}
	return attrs
}

// isProbePath — служебные пути Kubernetes и Prometheus.
func isProbePath(path string) bool {
	return path == "/health/live" || path == "/health/ready" || path == "/metrics"
}
