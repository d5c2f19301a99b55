// Пакет imagekit — HTTP-клиент медиасервиса ImageKit.
// Листинг, удаление и метаданные файлов (REST API с Basic-аутентификацией
// по приватному ключу), выпуск параметров аутентификации загрузки,
// построение URL трансформаций и multipart-загрузка напрямую к вендору.
package imagekit

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Адреса API по умолчанию.
const (
	DefaultAPIURL    = "https://api.imagekit.io/v1"
	DefaultUploadURL = "https://upload.imagekit.io/api/v1/files/upload"
	// DefaultPageSize — максимальный размер страницы List API
	DefaultPageSize = 1000
)

// ErrNotFound — файл не найден у вендора (404).
var ErrNotFound = errors.New("файл не найден")

// ErrNoPrivateKey — приватный ключ не задан, операции REST API недоступны.
var ErrNoPrivateKey = errors.New("приватный ключ ImageKit не задан")

// Prometheus-метрики обращений к ImageKit.
var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ps_imagekit_requests_total",
			Help: "Общее количество запросов к ImageKit.",
		},
		[]string{"operation", "status"},
	)
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ps_imagekit_request_duration_seconds",
			Help:    "Длительность запросов к ImageKit в секундах.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// APIError — ответ ImageKit со статусом вне 2xx.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ImageKit вернул статус %d: %s", e.StatusCode, e.Message)
}

// Config — параметры клиента.
type Config struct {
	// PrivateKey — приватный ключ (Basic-аутентификация и подпись загрузки)
	PrivateKey string
	// APIURL — базовый URL REST API (по умолчанию DefaultAPIURL)
	APIURL string
	// UploadURL — endpoint загрузки (по умолчанию DefaultUploadURL)
	UploadURL string
	// CACertPath — путь к CA-сертификату (пусто — системный пул)
	CACertPath string
	// Timeout — таймаут HTTP-запросов
	Timeout time.Duration
	// PageSize — размер страницы листинга (1..1000)
	PageSize int
}

// Client — HTTP-клиент ImageKit.
type Client struct {
	httpClient *http.Client
	privateKey string //nolint:gosec // G101: поле структуры, не содержит секрет напрямую
	apiURL     string
	uploadURL  string
	pageSize   int
	now        func() time.Time
	logger     *slog.Logger
}

// New создаёт клиент ImageKit.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	if cfg.CACertPath != "" {
		tlsConfig, err := buildTLSConfig(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("загрузка CA-сертификата ImageKit: %w", err)
		}
		httpClient.Transport = &http.Transport{
			TLSClientConfig: tlsConfig,
		}
		logger.Info("CA-сертификат ImageKit добавлен в пул доверия",
			slog.String("ca_cert", cfg.CACertPath),
		)
	}

	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	uploadURL := cfg.UploadURL
	if uploadURL == "" {
		uploadURL = DefaultUploadURL
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > DefaultPageSize {
		pageSize = DefaultPageSize
	}

	return &Client{
		httpClient: httpClient,
		privateKey: cfg.PrivateKey,
		apiURL:     strings.TrimRight(apiURL, "/"),
		uploadURL:  uploadURL,
		pageSize:   pageSize,
		now:        time.Now,
		logger:     logger.With(slog.String("component", "imagekit_client")),
	}, nil
}

// do выполняет запрос и записывает метрики операции.
func (c *Client) do(req *http.Request, operation string) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req) //nolint:gosec // G704: URL из конфигурации
	requestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	requestsTotal.WithLabelValues(operation, status).Inc()

	return resp, err
}

// authorize добавляет Basic-аутентификацию (приватный ключ, пустой пароль).
func (c *Client) authorize(req *http.Request) error {
	if c.privateKey == "" {
		return ErrNoPrivateKey
	}
	req.SetBasicAuth(c.privateKey, "")
	return nil
}

// readAPIError читает тело ответа с ошибкой.
// ImageKit возвращает {"message": "...", "help": "..."}.
func readAPIError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload struct {
		Message string `json:"message"`
	}
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		msg = payload.Message
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

// buildTLSConfig создаёт TLS-конфигурацию с кастомным CA-сертификатом.
func buildTLSConfig(caCertPath string) (*tls.Config, error) {
	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, fmt.Errorf("чтение CA-сертификата: %w", err)
	}

	caCertPool, err := x509.SystemCertPool()
	if err != nil {
		caCertPool = x509.NewCertPool()
	}
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("CA-сертификат %s не содержит PEM-блоков", caCertPath)
	}

	return &tls.Config{
		RootCAs:    caCertPool,
		MinVersion: tls.VersionTLS12,
	}, nil
}
