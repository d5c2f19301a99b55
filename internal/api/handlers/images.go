// images.go — операции над изображениями: листинги, удаление, метаданные
// и выпуск параметров загрузки.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/bigkaa/pngshots/internal/api/errors"
	"github.com/bigkaa/pngshots/internal/api/generated"
	"github.com/bigkaa/pngshots/internal/service"
)

// maxDeleteBodySize — предельный размер тела DELETE /api/images.
const maxDeleteBodySize = 4 << 10

// ListImages — GET /api/images. Листинг корня хранилища без кэширования.
func (h *APIHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	records, err := h.media.ListImages(r.Context())
	if err != nil {
		h.logger.Error("Ошибка листинга изображений", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Не удалось получить список изображений")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(records))
}

// ListAppNames — GET /api/appnames. Отсортированные имена категорий.
func (h *APIHandler) ListAppNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.media.ListCategoryNames(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения категорий", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Не удалось получить список категорий")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(names))
}

// ListAppThumbnails — GET /api/appthumbnails. Обложки категорий;
// ответ кэшируется CDN на TTL кэша relay. Cache-Control: no-cache
// в запросе перечитывает листинг у вендора и обновляет кэш relay.
func (h *APIHandler) ListAppThumbnails(w http.ResponseWriter, r *http.Request) {
	records, err := h.media.ListThumbnails(listingContext(r))
	if err != nil {
		h.logger.Error("Ошибка листинга обложек", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Не удалось получить список обложек")
		return
	}

	ttl := h.media.CacheTTL()
	w.Header().Set("Cache-Control", fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d", ttl, ttl))
	writeJSON(w, http.StatusOK, nonNil(records))
}

// DeleteImage — DELETE /api/images с телом {"fileId": "..."}.
func (h *APIHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	var req generated.DeleteImageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDeleteBodySize)).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректное тело запроса: ожидается {\"fileId\": \"...\"}")
		return
	}
	if strings.TrimSpace(req.FileId) == "" {
		apierrors.ValidationError(w, "fileId обязателен")
		return
	}

	if err := h.media.DeleteImage(r.Context(), req.FileId); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			apierrors.ValidationError(w, err.Error())
		case errors.Is(err, service.ErrNotFound):
			apierrors.NotFound(w, "Файл не найден")
		default:
			apierrors.InternalError(w, "Не удалось удалить изображение")
		}
		return
	}

	h.logger.Info("Изображение удалено", slog.String("file_id", req.FileId))
	writeJSON(w, http.StatusOK, generated.DeleteImageResponse{Success: true})
}

// GetImageMetadata — GET /api/images/{fileId}/metadata.
func (h *APIHandler) GetImageMetadata(w http.ResponseWriter, r *http.Request, fileID generated.FileId) {
	meta, err := h.media.GetImageMetadata(r.Context(), fileID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Файл не найден")
			return
		}
		h.logger.Error("Ошибка получения метаданных файла",
			slog.String("file_id", fileID),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Не удалось получить метаданные файла")
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// GetImageKitAuth — GET /api/auth/imagekit. Новые параметры на каждый запрос.
func (h *APIHandler) GetImageKitAuth(w http.ResponseWriter, r *http.Request) {
	params, err := h.media.MintAuthParams(r.Context())
	if err != nil {
		h.logger.Error("Ошибка выпуска параметров загрузки", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Не удалось выпустить параметры загрузки")
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, params)
}
