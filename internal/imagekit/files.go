// files.go — операции REST API над файлами: листинг, удаление, метаданные.
package imagekit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bigkaa/pngshots/internal/domain/model"
)

// ListFiles возвращает все записи по пути path.
// GET /files?path=...&skip=...&limit=..., страницы запрашиваются до первой неполной.
func (c *Client) ListFiles(ctx context.Context, path string) ([]model.ImageRecord, error) {
	all := make([]model.ImageRecord, 0)

	for skip := 0; ; skip += c.pageSize {
		page, err := c.listPage(ctx, path, skip)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < c.pageSize {
			break
		}
	}

	c.logger.Debug("Листинг ImageKit получен",
		slog.String("path", path),
		slog.Int("count", len(all)),
	)
	return all, nil
}

// listPage запрашивает одну страницу листинга.
func (c *Client) listPage(ctx context.Context, path string, skip int) ([]model.ImageRecord, error) {
	query := url.Values{
		"path":  {path},
		"skip":  {strconv.Itoa(skip)},
		"limit": {strconv.Itoa(c.pageSize)},
	}
	reqURL := c.apiURL + "/files?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("создание запроса ListFiles: %w", err)
	}
	if err := c.authorize(req); err != nil {
		return nil, err
	}

	resp, err := c.do(req, "list")
	if err != nil {
		return nil, fmt.Errorf("запрос ListFiles %q: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ListFiles %q: %w", path, readAPIError(resp))
	}

	var page []model.ImageRecord
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("декодирование ответа ListFiles: %w", err)
	}
	return page, nil
}

// DeleteFile удаляет файл. Операция необратима и не повторяется.
// DELETE /files/{id}: 204 — успех, 404 — ErrNotFound.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	reqURL := c.apiURL + "/files/" + url.PathEscape(fileID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("создание запроса DeleteFile: %w", err)
	}
	if err := c.authorize(req); err != nil {
		return err
	}

	resp, err := c.do(req, "delete")
	if err != nil {
		return fmt.Errorf("запрос DeleteFile %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("DeleteFile %s: %w: %w", fileID, ErrNotFound, readAPIError(resp))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("DeleteFile %s: %w", fileID, readAPIError(resp))
	}

	c.logger.Info("Файл удалён в ImageKit", slog.String("file_id", fileID))
	return nil
}

// GetFileMetadata возвращает технические метаданные файла.
// GET /files/{id}/metadata.
func (c *Client) GetFileMetadata(ctx context.Context, fileID string) (*model.FileMetadata, error) {
	reqURL := c.apiURL + "/files/" + url.PathEscape(fileID) + "/metadata"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("создание запроса GetFileMetadata: %w", err)
	}
	if err := c.authorize(req); err != nil {
		return nil, err
	}

	resp, err := c.do(req, "metadata")
	if err != nil {
		return nil, fmt.Errorf("запрос GetFileMetadata %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("GetFileMetadata %s: %w", fileID, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("GetFileMetadata %s: %w", fileID, readAPIError(resp))
	}

	var meta model.FileMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("декодирование метаданных: %w", err)
	}
	return &meta, nil
}
