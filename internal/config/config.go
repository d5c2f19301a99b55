// Пакет config — загрузка и валидация конфигурации pngshots relay
// из переменных окружения (и необязательного файла .env).
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации relay.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- HTTP Server Timeouts ---

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// Таймаут graceful shutdown
	ShutdownTimeout time.Duration

	// --- ImageKit ---

	// Публичный ключ (нужен только клиентской загрузке, relay его не использует)
	ImageKitPublicKey string
	// Приватный ключ (REST API и подпись параметров загрузки)
	ImageKitPrivateKey string
	// Базовый URL доставки (https://ik.imagekit.io/<id>)
	ImageKitURLEndpoint string
	// Базовый URL REST API
	ImageKitAPIURL string
	// Endpoint загрузки
	ImageKitUploadURL string
	// Таймаут HTTP-запросов к ImageKit
	ImageKitTimeout time.Duration
	// Путь к CA-сертификату (пусто — системный пул)
	ImageKitCACertPath string
	// Размер страницы листинга (1..1000)
	ImageKitPageSize int
	// Папка обложек категорий
	ThumbnailFolder string

	// --- Кэш ---

	// TTL кэша обложек и значения Cache-Control
	CacheTTL time.Duration
	// Максимальное число записей кэша
	CacheMaxSize int

	// --- CORS ---

	CORSAllowedOrigins []string

	// --- Мониторинг зависимостей ---

	// Имя вершины графа текущего приложения
	ServiceID string
	// Группа в метриках dephealth
	DephealthGroup string
	// Включён ли мониторинг ImageKit
	DephealthEnabled bool
	// URL проверки (по умолчанию ImageKitURLEndpoint)
	DephealthURL string
	// Интервал проверки
	DephealthCheckInterval time.Duration
}

// Load загружает конфигурацию из переменных окружения.
// Файл .env в рабочем каталоге подхватывается, если существует; уже заданные
// переменные окружения он не переопределяет.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	var err error

	// --- Сервер ---

	// PS_PORT — порт HTTP-сервера (по умолчанию 8040)
	cfg.Port, err = getEnvInt("PS_PORT", 8040)
	if err != nil {
		return nil, fmt.Errorf("PS_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PS_PORT: значение %d вне диапазона 1-65535", cfg.Port)
	}

	// PS_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("PS_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("PS_LOG_LEVEL: %w", err)
	}

	// PS_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("PS_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("PS_LOG_FORMAT: недопустимый формат %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- HTTP Server Timeouts ---

	cfg.HTTPReadTimeout, err = getEnvDuration("PS_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("PS_HTTP_READ_TIMEOUT: %w", err)
	}
	cfg.HTTPWriteTimeout, err = getEnvDuration("PS_HTTP_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("PS_HTTP_WRITE_TIMEOUT: %w", err)
	}
	cfg.HTTPIdleTimeout, err = getEnvDuration("PS_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("PS_HTTP_IDLE_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout, err = getEnvDuration("PS_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("PS_SHUTDOWN_TIMEOUT: %w", err)
	}

	// --- ImageKit ---

	cfg.ImageKitPublicKey = os.Getenv("PS_IMAGEKIT_PUBLIC_KEY")

	// PS_IMAGEKIT_PRIVATE_KEY — обязательный
	cfg.ImageKitPrivateKey, err = getEnvRequired("PS_IMAGEKIT_PRIVATE_KEY")
	if err != nil {
		return nil, err
	}

	// PS_IMAGEKIT_URL_ENDPOINT — обязательный, абсолютный URL
	cfg.ImageKitURLEndpoint, err = getEnvRequired("PS_IMAGEKIT_URL_ENDPOINT")
	if err != nil {
		return nil, err
	}
	if err := validateURL(cfg.ImageKitURLEndpoint); err != nil {
		return nil, fmt.Errorf("PS_IMAGEKIT_URL_ENDPOINT: %w", err)
	}

	cfg.ImageKitAPIURL = getEnvDefault("PS_IMAGEKIT_API_URL", "https://api.imagekit.io/v1")
	if err := validateURL(cfg.ImageKitAPIURL); err != nil {
		return nil, fmt.Errorf("PS_IMAGEKIT_API_URL: %w", err)
	}
	cfg.ImageKitUploadURL = getEnvDefault("PS_IMAGEKIT_UPLOAD_URL", "https://upload.imagekit.io/api/v1/files/upload")
	if err := validateURL(cfg.ImageKitUploadURL); err != nil {
		return nil, fmt.Errorf("PS_IMAGEKIT_UPLOAD_URL: %w", err)
	}

	cfg.ImageKitTimeout, err = getEnvDurationPositive("PS_IMAGEKIT_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("PS_IMAGEKIT_TIMEOUT: %w", err)
	}

	cfg.ImageKitCACertPath = os.Getenv("PS_IMAGEKIT_CA_CERT_PATH")

	cfg.ImageKitPageSize, err = getEnvInt("PS_IMAGEKIT_PAGE_SIZE", 1000)
	if err != nil {
		return nil, fmt.Errorf("PS_IMAGEKIT_PAGE_SIZE: %w", err)
	}
	if cfg.ImageKitPageSize < 1 || cfg.ImageKitPageSize > 1000 {
		return nil, fmt.Errorf("PS_IMAGEKIT_PAGE_SIZE: значение %d вне диапазона 1-1000", cfg.ImageKitPageSize)
	}

	cfg.ThumbnailFolder = getEnvDefault("PS_THUMBNAIL_FOLDER", "/thumbnail")
	if !strings.HasPrefix(cfg.ThumbnailFolder, "/") {
		return nil, fmt.Errorf("PS_THUMBNAIL_FOLDER: путь %q должен начинаться с /", cfg.ThumbnailFolder)
	}

	// --- Кэш ---

	cfg.CacheTTL, err = getEnvDurationPositive("PS_CACHE_TTL", 600*time.Second)
	if err != nil {
		return nil, fmt.Errorf("PS_CACHE_TTL: %w", err)
	}
	cfg.CacheMaxSize, err = getEnvInt("PS_CACHE_MAX_SIZE", 16)
	if err != nil {
		return nil, fmt.Errorf("PS_CACHE_MAX_SIZE: %w", err)
	}
	if cfg.CacheMaxSize < 1 {
		return nil, fmt.Errorf("PS_CACHE_MAX_SIZE: значение должно быть > 0")
	}

	// --- CORS ---

	cfg.CORSAllowedOrigins = getEnvList("PS_CORS_ALLOWED_ORIGINS")

	// --- Мониторинг зависимостей ---

	cfg.ServiceID = getEnvDefault("PS_SERVICE_ID", "pngshots")
	cfg.DephealthGroup = getEnvDefault("PS_DEPHEALTH_GROUP", "pngshots")
	cfg.DephealthEnabled, err = getEnvBool("PS_DEPHEALTH_ENABLED", true)
	if err != nil {
		return nil, fmt.Errorf("PS_DEPHEALTH_ENABLED: %w", err)
	}
	cfg.DephealthURL = getEnvDefault("PS_DEPHEALTH_URL", cfg.ImageKitURLEndpoint)
	if err := validateURL(cfg.DephealthURL); err != nil {
		return nil, fmt.Errorf("PS_DEPHEALTH_URL: %w", err)
	}
	cfg.DephealthCheckInterval, err = getEnvDurationPositive("PS_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("PS_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	return cfg, nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// getEnvDurationPositive — getEnvDuration с проверкой > 0.
func getEnvDurationPositive(key string, defaultVal time.Duration) (time.Duration, error) {
	d, err := getEnvDuration(key, defaultVal)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("значение должно быть > 0")
	}
	return d, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q (допустимые: true, false, 1, 0)", val)
	}
	return b, nil
}

// getEnvList разбирает список через запятую, пустые элементы отбрасываются.
func getEnvList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	items := make([]string, 0)
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// validateURL проверяет, что строка — абсолютный http(s) URL.
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("некорректный URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL %q должен использовать http или https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL %q не содержит хоста", raw)
	}
	return nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
