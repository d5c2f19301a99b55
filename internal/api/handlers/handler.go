// handler.go — основной обработчик API, реализующий generated.ServerInterface.
// Объединяет health, операции над изображениями и модели галереи.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bigkaa/pngshots/internal/domain/model"
	"github.com/bigkaa/pngshots/internal/gallery"
	"github.com/bigkaa/pngshots/internal/imagekit"
	"github.com/bigkaa/pngshots/internal/service"
)

// MediaService — операции relay над медиасервисом (service.MediaService).
type MediaService interface {
	ListImages(ctx context.Context) ([]model.ImageRecord, error)
	ListThumbnails(ctx context.Context) ([]model.ImageRecord, error)
	ListCategoryNames(ctx context.Context) ([]string, error)
	DeleteImage(ctx context.Context, fileID string) error
	GetImageMetadata(ctx context.Context, fileID string) (*model.FileMetadata, error)
	MintAuthParams(ctx context.Context) (model.AuthParams, error)
	CacheTTL() int
}

// APIHandler — основной обработчик API relay.
// Реализует generated.ServerInterface, делегируя запросы в сервисный слой.
type APIHandler struct {
	health  *HealthHandler
	media   MediaService
	browser *gallery.Browser
	logger  *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
// Модели галереи собираются поверх того же MediaService, превью — через
// трансформацию URL ImageKit.
func NewAPIHandler(
	health *HealthHandler,
	media MediaService,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:  health,
		media:   media,
		browser: gallery.NewBrowser(media, imagekit.PreviewURL),
		logger:  logger.With(slog.String("component", "api_handler")),
	}
}

// --- Health endpoints (делегируются в HealthHandler) ---

// HealthLive — liveness probe.
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe.
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики.
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// nonNil заменяет nil-срез пустым, чтобы ответ был [] вместо null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// listingContext — контекст запроса листинга. Cache-Control: no-cache
// или Pragma: no-cache обходит кэш обложек relay.
func listingContext(r *http.Request) context.Context {
	for _, directive := range strings.Split(r.Header.Get("Cache-Control"), ",") {
		if strings.EqualFold(strings.TrimSpace(directive), "no-cache") {
			return service.WithoutCache(r.Context())
		}
	}
	if strings.EqualFold(strings.TrimSpace(r.Header.Get("Pragma")), "no-cache") {
		return service.WithoutCache(r.Context())
	}
	return r.Context()
}

// tagsParam разворачивает необязательный параметр tags.
func tagsParam(tags *[]string) []string {
	if tags == nil {
		return nil
	}
	return *tags
}
