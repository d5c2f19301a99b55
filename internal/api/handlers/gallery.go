// gallery.go — модели представления галереи: витрина, указатель категорий,
// страница категории.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/pngshots/internal/api/errors"
	"github.com/bigkaa/pngshots/internal/api/generated"
	"github.com/bigkaa/pngshots/internal/gallery"
)

// GetGalleryShots — GET /api/gallery/shots?tags=...
func (h *APIHandler) GetGalleryShots(w http.ResponseWriter, r *http.Request, params generated.GetGalleryShotsParams) {
	view, err := h.browser.Shots(r.Context(), tagsParam(params.Tags))
	if err != nil {
		h.logger.Error("Ошибка сборки витрины", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Не удалось получить галерею")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GetGalleryApps — GET /api/gallery/apps. Cache-Control: no-cache перечитывает обложки.
func (h *APIHandler) GetGalleryApps(w http.ResponseWriter, r *http.Request) {
	view, err := h.browser.Apps(listingContext(r))
	if err != nil {
		h.logger.Error("Ошибка сборки указателя категорий", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Не удалось получить список категорий")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GetGalleryApp — GET /api/gallery/apps/{app}?tags=...
func (h *APIHandler) GetGalleryApp(w http.ResponseWriter, r *http.Request, app generated.AppName, params generated.GetGalleryAppParams) {
	view, err := h.browser.App(listingContext(r), app, tagsParam(params.Tags))
	if err != nil {
		if errors.Is(err, gallery.ErrUnknownApp) {
			apierrors.NotFound(w, "Категория не найдена")
			return
		}
		h.logger.Error("Ошибка сборки страницы категории",
			slog.String("app", app),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Не удалось получить категорию")
		return
	}
	writeJSON(w, http.StatusOK, view)
}
