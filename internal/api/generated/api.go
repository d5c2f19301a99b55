// Пакет generated — серверные типы и маршрутизация HTTP API по контракту
// openapi.yaml (раскладка oapi-codegen chi-server).
package generated

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

//go:embed openapi.yaml
var rawSpec []byte

// FileId — идентификатор файла ImageKit.
type FileId = string

// AppName — имя категории.
type AppName = string

// DeleteImageRequest — тело DELETE /api/images.
type DeleteImageRequest struct {
	FileId string `json:"fileId"`
}

// DeleteImageResponse — ответ DELETE /api/images.
type DeleteImageResponse struct {
	Success bool `json:"success"`
}

// GetGalleryShotsParams — параметры GET /api/gallery/shots.
type GetGalleryShotsParams struct {
	Tags *[]string `form:"tags,omitempty" json:"tags,omitempty"`
}

// GetGalleryAppParams — параметры GET /api/gallery/apps/{app}.
type GetGalleryAppParams struct {
	Tags *[]string `form:"tags,omitempty" json:"tags,omitempty"`
}

// ServerInterface — обработчики операций контракта.
type ServerInterface interface {
	// Отсортированные имена категорий
	// (GET /api/appnames)
	ListAppNames(w http.ResponseWriter, r *http.Request)
	// Обложки категорий
	// (GET /api/appthumbnails)
	ListAppThumbnails(w http.ResponseWriter, r *http.Request)
	// Одноразовые параметры загрузки в ImageKit
	// (GET /api/auth/imagekit)
	GetImageKitAuth(w http.ResponseWriter, r *http.Request)
	// Алфавитный указатель категорий
	// (GET /api/gallery/apps)
	GetGalleryApps(w http.ResponseWriter, r *http.Request)
	// Страница категории
	// (GET /api/gallery/apps/{app})
	GetGalleryApp(w http.ResponseWriter, r *http.Request, app AppName, params GetGalleryAppParams)
	// Все изображения с фильтром по тегам
	// (GET /api/gallery/shots)
	GetGalleryShots(w http.ResponseWriter, r *http.Request, params GetGalleryShotsParams)
	// Удаление изображения
	// (DELETE /api/images)
	DeleteImage(w http.ResponseWriter, r *http.Request)
	// Все записи корня хранилища
	// (GET /api/images)
	ListImages(w http.ResponseWriter, r *http.Request)
	// Технические метаданные файла
	// (GET /api/images/{fileId}/metadata)
	GetImageMetadata(w http.ResponseWriter, r *http.Request, fileId FileId)
	// Liveness probe
	// (GET /health/live)
	HealthLive(w http.ResponseWriter, r *http.Request)
	// Readiness probe
	// (GET /health/ready)
	HealthReady(w http.ResponseWriter, r *http.Request)
	// Prometheus метрики
	// (GET /metrics)
	GetMetrics(w http.ResponseWriter, r *http.Request)
}

// MiddlewareFunc — middleware отдельной операции.
type MiddlewareFunc func(http.Handler) http.Handler

// ServerInterfaceWrapper разбирает параметры запроса и вызывает ServerInterface.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamFormatError — параметр запроса не разобран.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("некорректный формат параметра %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// ListAppNames operation middleware
func (siw *ServerInterfaceWrapper) ListAppNames(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.ListAppNames)
}

// ListAppThumbnails operation middleware
func (siw *ServerInterfaceWrapper) ListAppThumbnails(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.ListAppThumbnails)
}

// GetImageKitAuth operation middleware
func (siw *ServerInterfaceWrapper) GetImageKitAuth(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.GetImageKitAuth)
}

// GetGalleryApps operation middleware
func (siw *ServerInterfaceWrapper) GetGalleryApps(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.GetGalleryApps)
}

// GetGalleryApp operation middleware
func (siw *ServerInterfaceWrapper) GetGalleryApp(w http.ResponseWriter, r *http.Request) {
	var err error

	// ------------- Path parameter "app" -------------
	var app AppName

	err = runtime.BindStyledParameterWithOptions("simple", "app", chi.URLParam(r, "app"), &app,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "app", Err: err})
		return
	}

	var params GetGalleryAppParams

	// ------------- Optional query parameter "tags" -------------
	err = runtime.BindQueryParameter("form", true, false, "tags", r.URL.Query(), &params.Tags)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "tags", Err: err})
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetGalleryApp(w, r, app, params)
	})
}

// GetGalleryShots operation middleware
func (siw *ServerInterfaceWrapper) GetGalleryShots(w http.ResponseWriter, r *http.Request) {
	var params GetGalleryShotsParams

	// ------------- Optional query parameter "tags" -------------
	err := runtime.BindQueryParameter("form", true, false, "tags", r.URL.Query(), &params.Tags)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "tags", Err: err})
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetGalleryShots(w, r, params)
	})
}

// DeleteImage operation middleware
func (siw *ServerInterfaceWrapper) DeleteImage(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.DeleteImage)
}

// ListImages operation middleware
func (siw *ServerInterfaceWrapper) ListImages(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.ListImages)
}

// GetImageMetadata operation middleware
func (siw *ServerInterfaceWrapper) GetImageMetadata(w http.ResponseWriter, r *http.Request) {
	// ------------- Path parameter "fileId" -------------
	var fileId FileId

	err := runtime.BindStyledParameterWithOptions("simple", "fileId", chi.URLParam(r, "fileId"), &fileId,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "fileId", Err: err})
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetImageMetadata(w, r, fileId)
	})
}

// HealthLive operation middleware
func (siw *ServerInterfaceWrapper) HealthLive(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.HealthLive)
}

// HealthReady operation middleware
func (siw *ServerInterfaceWrapper) HealthReady(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.HealthReady)
}

// GetMetrics operation middleware
func (siw *ServerInterfaceWrapper) GetMetrics(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.GetMetrics)
}

// serve применяет middleware операции и вызывает обработчик.
func (siw *ServerInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, fn http.HandlerFunc) {
	handler := http.Handler(fn)
	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}
	handler.ServeHTTP(w, r)
}

// ChiServerOptions — параметры регистрации маршрутов.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler создаёт http.Handler с маршрутами контракта.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

// HandlerFromMux регистрирует маршруты контракта на существующем роутере.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{
		BaseRouter: r,
	})
}

// HandlerWithOptions регистрирует маршруты контракта с параметрами.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/appnames", wrapper.ListAppNames)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/appthumbnails", wrapper.ListAppThumbnails)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/auth/imagekit", wrapper.GetImageKitAuth)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/gallery/apps", wrapper.GetGalleryApps)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/gallery/apps/{app}", wrapper.GetGalleryApp)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/gallery/shots", wrapper.GetGalleryShots)
	})
	r.Group(func(r chi.Router) {
		r.Delete(options.BaseURL+"/api/images", wrapper.DeleteImage)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/images", wrapper.ListImages)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/images/{fileId}/metadata", wrapper.GetImageMetadata)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/health/live", wrapper.HealthLive)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/health/ready", wrapper.HealthReady)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/metrics", wrapper.GetMetrics)
	})

	return r
}

// RawSpec возвращает контракт OpenAPI в исходном YAML.
func RawSpec() []byte {
	return rawSpec
}

// GetSwagger разбирает встроенный контракт OpenAPI.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	swagger, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("разбор openapi.yaml: %w", err)
	}
	return swagger, nil
}
