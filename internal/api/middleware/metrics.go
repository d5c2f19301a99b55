// metrics.go — Prometheus HTTP метрики relay.
// Регистрирует метрики: ps_http_requests_total, ps_http_request_duration_seconds.
// Нормализация путей предотвращает взрывной рост кардинальности.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ps_http_requests_total",
			Help: "Общее количество HTTP-запросов к relay pngshots",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ps_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к relay pngshots в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			normalizedPath := normalizePath(r.URL.Path)

			sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sr, r)

			status := strconv.Itoa(sr.status)
			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(time.Since(start).Seconds())
		})
	}
}

// normalizePath заменяет переменные сегменты пути шаблонами.
// /api/images/abc123/metadata → /api/images/{fileId}/metadata
// /api/gallery/apps/Weather   → /api/gallery/apps/{app}
// Неизвестные пути сводятся к "other".
func normalizePath(path string) string {
	switch path {
	case "/health/live", "/health/ready", "/metrics",
		"/api/images", "/api/appnames", "/api/appthumbnails", "/api/auth/imagekit",
		"/api/gallery/shots", "/api/gallery/apps", "/api/openapi.yaml":
		return path
	}

	const imagesPrefix = "/api/images/"
	if strings.HasPrefix(path, imagesPrefix) && strings.HasSuffix(path, "/metadata") {
		return "/api/images/{fileId}/metadata"
	}

	const appsPrefix = "/api/gallery/apps/"
	if strings.HasPrefix(path, appsPrefix) && len(path) > len(appsPrefix) {
		return "/api/gallery/apps/{app}"
	}

	if strings.HasPrefix(path, "/swagger") {
		return "/swagger"
	}

	return "other"
}
