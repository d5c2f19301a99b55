package gallery

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/bigkaa/pngshots/internal/domain/model"
)

// ErrUnknownApp — в галерее нет файлов указанной категории.
var ErrUnknownApp = errors.New("категория не найдена")

// Loader — источник записей галереи.
// Реализуется сервисом relay (ImageKit) и клиентом relay (CLI).
type Loader interface {
	// ListImages возвращает все записи корневого пути хранилища.
	ListImages(ctx context.Context) ([]model.ImageRecord, error)
	// ListThumbnails возвращает записи папки обложек.
	ListThumbnails(ctx context.Context) ([]model.ImageRecord, error)
}

// PreviewFunc строит URL превью по базовому URL доставки.
type PreviewFunc func(baseURL string) string

// Shot — элемент витрины.
type Shot struct {
	FileID     string   `json:"fileId"`
	Name       string   `json:"name"`
	App        string   `json:"app"`
	Title      string   `json:"title,omitempty"`
	Tags       []string `json:"tags"`
	URL        string   `json:"url"`
	PreviewURL string   `json:"previewUrl"`
	Width      int      `json:"width,omitempty"`
	Height     int      `json:"height,omitempty"`
}

// ShotsView — все изображения с фильтром по тегам.
type ShotsView struct {
	// Tags — все теги галереи (для панели фильтра)
	Tags []string `json:"tags"`
	// Selected — применённый фильтр
	Selected []string `json:"selected"`
	Items    []Shot   `json:"items"`
}

// AppSummary — карточка категории в указателе.
type AppSummary struct {
	Name     string `json:"name"`
	Count    int    `json:"count"`
	CoverURL string `json:"coverUrl,omitempty"`
}

// AppSection — раздел указателя категорий.
type AppSection struct {
	Letter string       `json:"letter"`
	Apps   []AppSummary `json:"apps"`
}

// AppsView — алфавитный указатель категорий.
type AppsView struct {
	Sections []AppSection `json:"sections"`
}

// AppView — страница категории.
type AppView struct {
	Name     string   `json:"name"`
	CoverURL string   `json:"coverUrl,omitempty"`
	Tags     []string `json:"tags"`
	Selected []string `json:"selected"`
	Items    []Shot   `json:"items"`
}

// Browser собирает модели представления галереи.
// Вся загрузка данных идёт через внедрённый Loader, вычисления — через
// чистые функции пакета.
type Browser struct {
	loader  Loader
	preview PreviewFunc
}

// NewBrowser создаёт Browser. preview может быть nil — тогда PreviewURL
// совпадает с URL.
func NewBrowser(loader Loader, preview PreviewFunc) *Browser {
	if preview == nil {
		preview = func(u string) string { return u }
	}
	return &Browser{loader: loader, preview: preview}
}

// Shots возвращает все файлы галереи, отфильтрованные по тегам.
func (b *Browser) Shots(ctx context.Context, selected []string) (*ShotsView, error) {
	images, err := b.loader.ListImages(ctx)
	if err != nil {
		return nil, fmt.Errorf("загрузка изображений: %w", err)
	}
	files := OnlyFiles(images)
	selected = NormalizeTags(selected)

	return &ShotsView{
		Tags:     DistinctTags(files),
		Selected: selected,
		Items:    b.shots(FilterByTags(files, selected)),
	}, nil
}

// Apps возвращает алфавитный указатель категорий с обложками.
// Изображения и обложки загружаются параллельно.
func (b *Browser) Apps(ctx context.Context) (*AppsView, error) {
	var images, thumbnails []model.ImageRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		images, err = b.loader.ListImages(gctx)
		if err != nil {
			return fmt.Errorf("загрузка изображений: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		thumbnails, err = b.loader.ListThumbnails(gctx)
		if err != nil {
			return fmt.Errorf("загрузка обложек: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sections := GroupByFirstLetter(GroupByCategory(OnlyFiles(images)))
	view := &AppsView{Sections: make([]AppSection, 0, len(sections))}
	for _, sec := range sections {
		out := AppSection{Letter: sec.Letter, Apps: make([]AppSummary, 0, len(sec.Groups))}
		for _, grp := range sec.Groups {
			summary := AppSummary{Name: grp.Name, Count: len(grp.Records)}
			if cover := CoverFor(thumbnails, grp.Name); cover != nil {
				summary.CoverURL = cover.URL
			}
			out.Apps = append(out.Apps, summary)
		}
		view.Sections = append(view.Sections, out)
	}
	return view, nil
}

// App возвращает страницу категории с фильтром по тегам.
// Категория без файлов — ErrUnknownApp.
func (b *Browser) App(ctx context.Context, name string, selected []string) (*AppView, error) {
	images, err := b.loader.ListImages(ctx)
	if err != nil {
		return nil, fmt.Errorf("загрузка изображений: %w", err)
	}
	records := InCategory(OnlyFiles(images), name)
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownApp, name)
	}

	view := &AppView{
		Name:     name,
		Tags:     DistinctTags(records),
		Selected: NormalizeTags(selected),
	}
	view.Items = b.shots(FilterByTags(records, view.Selected))

	// Обложка необязательна: ошибка списка обложек не ломает страницу
	thumbnails, err := b.loader.ListThumbnails(ctx)
	if err == nil {
		if cover := CoverFor(thumbnails, name); cover != nil {
			view.CoverURL = cover.URL
		}
	}

	return view, nil
}

// shots конвертирует записи в элементы витрины.
func (b *Browser) shots(records []model.ImageRecord) []Shot {
	items := make([]Shot, 0, len(records))
	for _, rec := range records {
		tags := rec.Tags
		if tags == nil {
			tags = []string{}
		}
		items = append(items, Shot{
			FileID:     rec.FileID,
			Name:       rec.Name,
			App:        Category(rec),
			Title:      rec.Title(),
			Tags:       tags,
			URL:        rec.URL,
			PreviewURL: b.preview(rec.URL),
			Width:      rec.Width,
			Height:     rec.Height,
		})
	}
	return items
}
