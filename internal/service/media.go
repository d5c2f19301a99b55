// media.go — MediaService: операции relay поверх клиента ImageKit.
//
// Кэшируется только листинг обложек (TTL = PS_CACHE_TTL); листинг
// изображений и параметры загрузки не кэшируются. Одновременные листинги
// одного пути объединяются через singleflight. Кэш обложек обходится
// контекстом WithoutCache (запрос с Cache-Control: no-cache).
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/bigkaa/pngshots/internal/domain/model"
	"github.com/bigkaa/pngshots/internal/gallery"
	"github.com/bigkaa/pngshots/internal/imagekit"
)

// RootPath — корневой путь хранилища.
const RootPath = "/"

// VendorClient — операции медиасервиса, которые использует relay.
type VendorClient interface {
	ListFiles(ctx context.Context, path string) ([]model.ImageRecord, error)
	DeleteFile(ctx context.Context, fileID string) error
	GetFileMetadata(ctx context.Context, fileID string) (*model.FileMetadata, error)
	AuthenticationParameters() (model.AuthParams, error)
}

// noCacheKey — ключ контекста обхода кэша.
type noCacheKey struct{}

// WithoutCache помечает контекст: листинг обложек читается у вендора,
// результат заменяет запись кэша.
func WithoutCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, noCacheKey{}, true)
}

// CacheBypassed сообщает, запрошен ли обход кэша.
func CacheBypassed(ctx context.Context) bool {
	bypass, _ := ctx.Value(noCacheKey{}).(bool)
	return bypass
}

// MediaService — relay к медиасервису.
type MediaService struct {
	client          VendorClient
	cache           *CacheService
	thumbnailFolder string
	group           singleflight.Group
	logger          *slog.Logger
}

// NewMediaService создаёт MediaService.
// thumbnailFolder — папка обложек категорий (PS_THUMBNAIL_FOLDER).
func NewMediaService(client VendorClient, cache *CacheService, thumbnailFolder string, logger *slog.Logger) *MediaService {
	return &MediaService{
		client:          client,
		cache:           cache,
		thumbnailFolder: thumbnailFolder,
		logger:          logger.With(slog.String("component", "media_service")),
	}
}

// ListImages возвращает все записи корня хранилища. Не кэшируется.
func (s *MediaService) ListImages(ctx context.Context) ([]model.ImageRecord, error) {
	return s.list(ctx, RootPath)
}

// ListThumbnails возвращает записи папки обложек.
// Результат кэшируется на TTL кэша. При обходе кэша (WithoutCache) старая
// запись удаляется до обращения к вендору.
func (s *MediaService) ListThumbnails(ctx context.Context) ([]model.ImageRecord, error) {
	if CacheBypassed(ctx) {
		s.cache.Delete(s.thumbnailFolder)
	} else if records, ok := s.cache.Get(s.thumbnailFolder); ok {
		return records, nil
	}

	records, err := s.list(ctx, s.thumbnailFolder)
	if err != nil {
		return nil, err
	}
	s.cache.Set(s.thumbnailFolder, records)
	return records, nil
}

// ListCategoryNames возвращает отсортированные уникальные категории файлов.
func (s *MediaService) ListCategoryNames(ctx context.Context) ([]string, error) {
	records, err := s.ListImages(ctx)
	if err != nil {
		return nil, err
	}
	return gallery.CategoryNames(records), nil
}

// DeleteImage удаляет файл у вендора и сбрасывает кэш листингов.
// Ошибка вендора возвращается как есть, повторов нет.
func (s *MediaService) DeleteImage(ctx context.Context, fileID string) error {
	fileID = strings.TrimSpace(fileID)
	if fileID == "" {
		return fmt.Errorf("%w: fileId обязателен", ErrValidation)
	}

	if err := s.client.DeleteFile(ctx, fileID); err != nil {
		s.logger.Error("Ошибка удаления файла",
			slog.String("file_id", fileID),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, imagekit.ErrNotFound) {
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return err
	}

	// Удалённый файл мог быть обложкой
	s.cache.Purge()
	return nil
}

// GetImageMetadata возвращает технические метаданные файла.
func (s *MediaService) GetImageMetadata(ctx context.Context, fileID string) (*model.FileMetadata, error) {
	meta, err := s.client.GetFileMetadata(ctx, fileID)
	if err != nil {
		if errors.Is(err, imagekit.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, err
	}
	return meta, nil
}

// MintAuthParams выпускает новые параметры загрузки. Не кэшируется.
func (s *MediaService) MintAuthParams(_ context.Context) (model.AuthParams, error) {
	params, err := s.client.AuthenticationParameters()
	if err != nil {
		return model.AuthParams{}, fmt.Errorf("выпуск параметров загрузки: %w", err)
	}
	return params, nil
}

// CacheTTL возвращает TTL кэша (используется в Cache-Control).
func (s *MediaService) CacheTTL() int {
	return int(s.cache.TTL().Seconds())
}

// list выполняет листинг пути, объединяя одновременные запросы.
// Общий запрос к вендору не привязан к отмене контекста отдельного
// вызывающего: каждый ждёт результат только до своей отмены.
func (s *MediaService) list(ctx context.Context, path string) ([]model.ImageRecord, error) {
	key := "list:" + path
	if CacheBypassed(ctx) {
		// Свежий листинг не присоединяется к запросу, начатому до изменения
		key += ":fresh"
	}

	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		return s.client.ListFiles(shared, path)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, fmt.Errorf("листинг %s: %w", path, ctx.Err())
	}

	if err := res.Err; err != nil {
		s.logger.Error("Ошибка листинга ImageKit",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("листинг %s: %w", path, err)
	}
	if res.Shared {
		s.logger.Debug("Листинг объединён singleflight", slog.String("path", path))
	}
	return res.Val.([]model.ImageRecord), nil
}
