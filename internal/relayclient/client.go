// Пакет relayclient — HTTP-клиент relay pngshots.
// Используется CLI: реализует gallery.Loader, gallery.Deleter
// и upload.AuthSource поверх эндпоинтов relay.
package relayclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bigkaa/pngshots/internal/domain/model"
)

// ErrNotFound — relay вернул 404.
var ErrNotFound = errors.New("не найдено")

// APIError — ошибка relay в формате {"error":{"code","message"}}.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("relay вернул статус %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("relay вернул статус %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Client — HTTP-клиент relay.
type Client struct {
	httpClient *http.Client
	relayURL   string
	logger     *slog.Logger
}

// New создаёт клиент relay.
// relayURL — базовый URL relay (например, http://localhost:8040).
// timeout — таймаут HTTP-запросов.
func New(relayURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(relayURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("некорректный URL relay: %q", relayURL)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
			},
		},
		relayURL: strings.TrimRight(relayURL, "/"),
		logger:   logger.With(slog.String("component", "relay_client")),
	}, nil
}

// ListImages возвращает все записи хранилища.
// GET /api/images
func (c *Client) ListImages(ctx context.Context) ([]model.ImageRecord, error) {
	var records []model.ImageRecord
	if err := c.getJSON(ctx, "/api/images", &records); err != nil {
		return nil, fmt.Errorf("листинг изображений: %w", err)
	}
	return records, nil
}

// ListThumbnails возвращает записи обложек категорий.
// GET /api/appthumbnails
func (c *Client) ListThumbnails(ctx context.Context) ([]model.ImageRecord, error) {
	var records []model.ImageRecord
	if err := c.getJSON(ctx, "/api/appthumbnails", &records); err != nil {
		return nil, fmt.Errorf("листинг обложек: %w", err)
	}
	return records, nil
}

// RefreshThumbnails перечитывает обложки в обход кэша relay
// (Cache-Control: no-cache). Вызывается после загрузки обложки.
// GET /api/appthumbnails
func (c *Client) RefreshThumbnails(ctx context.Context) ([]model.ImageRecord, error) {
	var records []model.ImageRecord
	header := http.Header{"Cache-Control": []string{"no-cache"}}
	if err := c.doGetJSON(ctx, "/api/appthumbnails", header, &records); err != nil {
		return nil, fmt.Errorf("обновление обложек: %w", err)
	}
	return records, nil
}

// ListCategoryNames возвращает отсортированные имена категорий.
// GET /api/appnames
func (c *Client) ListCategoryNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.getJSON(ctx, "/api/appnames", &names); err != nil {
		return nil, fmt.Errorf("листинг категорий: %w", err)
	}
	return names, nil
}

// MintAuthParams запрашивает одноразовые параметры загрузки.
// GET /api/auth/imagekit
func (c *Client) MintAuthParams(ctx context.Context) (model.AuthParams, error) {
	var params model.AuthParams
	if err := c.getJSON(ctx, "/api/auth/imagekit", &params); err != nil {
		return model.AuthParams{}, fmt.Errorf("параметры загрузки: %w", err)
	}
	if params.Token == "" || params.Signature == "" {
		return model.AuthParams{}, errors.New("параметры загрузки: пустой token или signature в ответе relay")
	}
	return params, nil
}

// GetImageMetadata возвращает метаданные изображения.
// GET /api/images/{fileId}/metadata
func (c *Client) GetImageMetadata(ctx context.Context, fileID string) (*model.FileMetadata, error) {
	var meta model.FileMetadata
	if err := c.getJSON(ctx, "/api/images/"+url.PathEscape(fileID)+"/metadata", &meta); err != nil {
		return nil, fmt.Errorf("метаданные %s: %w", fileID, err)
	}
	return &meta, nil
}

// DeleteImage удаляет изображение.
// DELETE /api/images с телом {"fileId": "..."}
func (c *Client) DeleteImage(ctx context.Context, fileID string) error {
	body, err := json.Marshal(map[string]string{"fileId": fileID})
	if err != nil {
		return fmt.Errorf("кодирование запроса удаления: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.relayURL+"/api/images", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("создание запроса удаления: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req) //nolint:gosec // G704: URL из конфигурации
	if err != nil {
		return fmt.Errorf("запрос удаления к %s: %w", c.relayURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("удаление %s: %w", fileID, readAPIError(resp))
	}

	c.logger.Debug("Изображение удалено", slog.String("file_id", fileID))
	return nil
}

// getJSON выполняет GET и декодирует JSON-ответ в out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.doGetJSON(ctx, path, nil, out)
}

// doGetJSON — GET с дополнительными заголовками запроса.
func (c *Client) doGetJSON(ctx context.Context, path string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.relayURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("создание запроса: %w", err)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req) //nolint:gosec // G704: URL из конфигурации
	if err != nil {
		return fmt.Errorf("запрос к %s: %w", c.relayURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("декодирование ответа relay: %w", err)
	}
	return nil
}

// readAPIError разбирает тело ошибки relay. 404 оборачивает ErrNotFound.
func readAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	apiErr := &APIError{StatusCode: resp.StatusCode}
	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		apiErr.Code = payload.Error.Code
		apiErr.Message = payload.Error.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", ErrNotFound, apiErr)
	}
	return apiErr
}
