// Пакет upload — форма загрузки изображения в ImageKit.
//
// Форма ведёт конечный автомат workflow: выбор файла, кадрирование,
// метаданные, отправка. Параметры аутентификации запрашиваются у relay
// (AuthSource), а сам файл уходит напрямую к вендору (Uploader).
// Повторов нет: после ошибки форма сохраняет данные, и пользователь
// повторяет отправку сам, получая новые параметры аутентификации.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Регистрация декодера GIF
	_ "image/png" // Регистрация декодера PNG
	"log/slog"
	"path"
	"strings"
	"sync"

	_ "golang.org/x/image/webp" // Регистрация декодера WebP

	"github.com/bigkaa/pngshots/internal/domain/model"
	"github.com/bigkaa/pngshots/internal/domain/workflow"
	"github.com/bigkaa/pngshots/internal/gallery"
)

// DefaultCoverFolder — папка обложек категорий у вендора.
const DefaultCoverFolder = "/thumbnail"

// Ошибки формы.
var (
	// ErrValidation — не заполнено обязательное поле (файл, категория)
	ErrValidation = errors.New("ошибка валидации")
	// ErrConfiguration — не задан публичный ключ ImageKit
	ErrConfiguration = errors.New("ошибка конфигурации")
	// ErrUploadInProgress — загрузка уже выполняется
	ErrUploadInProgress = errors.New("загрузка уже выполняется")
	// ErrNotImage — выбранный файл не является изображением
	ErrNotImage = errors.New("файл не является изображением")
)

// AuthSource выпускает одноразовые параметры загрузки (relay).
type AuthSource interface {
	MintAuthParams(ctx context.Context) (model.AuthParams, error)
}

// Uploader отправляет составной запрос вендору.
type Uploader interface {
	Upload(ctx context.Context, req model.UploadRequest) (*model.UploadResult, error)
}

// Mode — назначение загрузки.
type Mode int

const (
	// ModeShot — изображение галереи
	ModeShot Mode = iota
	// ModeCover — обложка категории
	ModeCover
)

// Metadata — поля формы.
type Metadata struct {
	App   string
	Title string
	Tags  []string
}

// Options — параметры формы.
type Options struct {
	// PublicKey — публичный ключ ImageKit (пусто — загрузка невозможна)
	PublicKey string
	// Mode — изображение галереи или обложка
	Mode Mode
	// CoverFolder — папка обложек (по умолчанию DefaultCoverFolder)
	CoverFolder string
	// OnComplete вызывается после успешной загрузки и сброса формы
	OnComplete func(result *model.UploadResult)
}

// Form — форма загрузки. Одновременно выполняется не более одной загрузки.
type Form struct {
	auth     AuthSource
	uploader Uploader
	opts     Options
	sm       *workflow.StateMachine
	logger   *slog.Logger

	mu       sync.Mutex
	fileName string
	original []byte
	preview  []byte
	bounds   image.Rectangle
	meta     Metadata
}

// NewForm создаёт форму в состоянии idle.
func NewForm(auth AuthSource, uploader Uploader, opts Options, logger *slog.Logger) *Form {
	if opts.CoverFolder == "" {
		opts.CoverFolder = DefaultCoverFolder
	}
	return &Form{
		auth:     auth,
		uploader: uploader,
		opts:     opts,
		sm:       workflow.NewStateMachine(),
		logger:   logger.With(slog.String("component", "upload_form")),
	}
}

// State возвращает текущее состояние формы.
func (f *Form) State() workflow.State {
	return f.sm.Current()
}

// Preview возвращает текущее превью (после кадрирования — итоговый файл)
// и его размеры.
func (f *Form) Preview() ([]byte, image.Rectangle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return bytes.Clone(f.preview), f.bounds
}

// SelectFile выбирает файл. Форма переходит в file-selected, строит превью
// и автоматически переходит в cropping. Файл, который не декодируется как
// изображение, отклоняется; форма остаётся в idle.
func (f *Form) SelectFile(name string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.resetLocked(); err != nil {
		return err
	}
	if err := f.sm.TransitionTo(workflow.StateFileSelected); err != nil {
		return err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		_ = f.sm.Reset()
		return fmt.Errorf("%w: %s: %w", ErrNotImage, name, err)
	}

	f.fileName = path.Base(name)
	f.original = data
	f.preview = data
	f.bounds = image.Rect(0, 0, cfg.Width, cfg.Height)

	f.logger.Debug("Файл выбран",
		slog.String("file", f.fileName),
		slog.String("format", format),
		slog.Int("width", cfg.Width),
		slog.Int("height", cfg.Height),
	)

	return f.sm.TransitionTo(workflow.StateCropping)
}

// ConfirmCrop подтверждает область кадрирования и переводит форму
// в ready-to-submit. Пустая область оставляет файл без изменений;
// иначе область обрезается по границам изображения, а результат
// перекодируется в JPEG и заменяет превью.
func (f *Form) ConfirmCrop(rect image.Rectangle) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.sm.CanTransitionTo(workflow.StateReadyToSubmit) {
		return f.sm.TransitionTo(workflow.StateReadyToSubmit)
	}

	if !rect.Empty() {
		cropped, bounds, err := cropJPEG(f.original, rect)
		if err != nil {
			return fmt.Errorf("кадрирование: %w", err)
		}
		f.preview = cropped
		f.bounds = bounds
		f.fileName = strings.TrimSuffix(f.fileName, path.Ext(f.fileName)) + ".jpg"
	}

	return f.sm.TransitionTo(workflow.StateReadyToSubmit)
}

// SetMetadata задаёт поля формы. Во время загрузки недоступно.
func (f *Form) SetMetadata(meta Metadata) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sm.Current() == workflow.StateUploading {
		return ErrUploadInProgress
	}
	f.meta = Metadata{
		App:   meta.App,
		Title: meta.Title,
		Tags:  append([]string(nil), meta.Tags...),
	}
	return nil
}

// Reset очищает форму. Во время загрузки недоступно.
func (f *Form) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resetLocked()
}

// Submit отправляет форму.
//
// Проверки до любых сетевых вызовов:
//   - файл выбран и кадр подтверждён (ErrValidation)
//   - категория не пуста (ErrValidation)
//   - публичный ключ задан (ErrConfiguration)
//
// Затем последовательно: параметры аутентификации от relay, составной
// запрос, загрузка к вендору. Ошибка на любом шаге переводит форму
// в failed; данные формы сохраняются для ручного повтора.
// Успех полностью сбрасывает форму и вызывает OnComplete.
func (f *Form) Submit(ctx context.Context) (*model.UploadResult, error) {
	req, err := f.beginUpload()
	if err != nil {
		return nil, err
	}

	auth, err := f.auth.MintAuthParams(ctx)
	if err != nil {
		f.fail("получение параметров аутентификации", err)
		return nil, fmt.Errorf("получение параметров аутентификации: %w", err)
	}
	req.Auth = auth

	result, err := f.uploader.Upload(ctx, req)
	if err != nil {
		f.fail("загрузка в ImageKit", err)
		return nil, fmt.Errorf("загрузка: %w", err)
	}

	f.mu.Lock()
	_ = f.sm.TransitionTo(workflow.StateSuccess)
	f.clearLocked()
	_ = f.sm.TransitionTo(workflow.StateIdle)
	f.mu.Unlock()

	f.logger.Info("Изображение загружено",
		slog.String("file_id", result.FileID),
		slog.String("name", result.Name),
	)

	if f.opts.OnComplete != nil {
		f.opts.OnComplete(result)
	}
	return result, nil
}

// beginUpload проверяет форму, переводит её в uploading и собирает запрос
// (без параметров аутентификации).
func (f *Form) beginUpload() (model.UploadRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	state := f.sm.Current()
	if state == workflow.StateUploading {
		return model.UploadRequest{}, ErrUploadInProgress
	}
	if f.preview == nil {
		return model.UploadRequest{}, fmt.Errorf("%w: файл не выбран", ErrValidation)
	}
	if state == workflow.StateCropping {
		return model.UploadRequest{}, fmt.Errorf("%w: кадрирование не подтверждено", ErrValidation)
	}

	app := strings.TrimSpace(f.meta.App)
	if app == "" {
		return model.UploadRequest{}, fmt.Errorf("%w: категория (app) обязательна", ErrValidation)
	}
	if f.opts.PublicKey == "" {
		return model.UploadRequest{}, fmt.Errorf("%w: публичный ключ ImageKit не задан", ErrConfiguration)
	}

	if err := f.sm.TransitionTo(workflow.StateUploading); err != nil {
		var te *workflow.TransitionError
		if errors.As(err, &te) && te.Code == workflow.CodeUploadInProgress {
			return model.UploadRequest{}, ErrUploadInProgress
		}
		return model.UploadRequest{}, err
	}

	return f.composeLocked(app), nil
}

// composeLocked собирает запрос загрузки из полей формы.
func (f *Form) composeLocked(app string) model.UploadRequest {
	req := model.UploadRequest{
		File:              bytes.NewReader(f.preview),
		PublicKey:         f.opts.PublicKey,
		UseUniqueFileName: true,
	}

	switch f.opts.Mode {
	case ModeCover:
		req.FileName = app + ".jpg"
		req.Folder = f.opts.CoverFolder
		req.CustomMetadata = &model.UploadMetadata{App: app}
	default:
		req.FileName = f.fileName
		req.Tags = gallery.NormalizeTags(f.meta.Tags)
		req.CustomMetadata = &model.UploadMetadata{
			App:   app,
			Title: strings.TrimSpace(f.meta.Title),
		}
	}
	return req
}

// fail переводит форму в failed и логирует причину.
func (f *Form) fail(step string, err error) {
	f.mu.Lock()
	_ = f.sm.TransitionTo(workflow.StateFailed)
	f.mu.Unlock()

	f.logger.Error("Ошибка загрузки",
		slog.String("step", step),
		slog.String("error", err.Error()),
	)
}

// resetLocked возвращает автомат в idle и очищает поля.
func (f *Form) resetLocked() error {
	if f.sm.Current() == workflow.StateUploading {
		return ErrUploadInProgress
	}
	if err := f.sm.Reset(); err != nil {
		return err
	}
	f.clearLocked()
	return nil
}

// clearLocked очищает файл, превью и метаданные.
func (f *Form) clearLocked() {
	f.fileName = ""
	f.original = nil
	f.preview = nil
	f.bounds = image.Rectangle{}
	f.meta = Metadata{}
}
