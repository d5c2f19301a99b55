// dephealth.go — интеграция с topologymetrics SDK для мониторинга зависимостей.
//
// pngshots мониторит:
//   - ImageKit — HTTP checker к URL доставки (critical)
//
// Метрики доступны на /metrics вместе с остальными Prometheus-метриками:
//   - app_dependency_health — состояние зависимости (1 = ok, 0 = fail)
//   - app_dependency_latency_seconds — задержка проверки
//   - app_dependency_status — категория статуса
//   - app_dependency_status_detail — детальный статус
//
// Результат проверки также используется readiness probe.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/httpcheck" // регистрация HTTP checker factory
	"github.com/prometheus/client_golang/prometheus"
)

// imagekitDepName — имя зависимости ImageKit в метриках.
const imagekitDepName = "imagekit"

// DephealthService — сервис мониторинга зависимостей через topologymetrics.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDephealthService создаёт сервис мониторинга зависимостей.
// Метрики регистрируются в глобальном Prometheus registry.
//
// Параметры:
//   - serviceID — имя вершины графа текущего приложения (PS_SERVICE_ID)
//   - group — имя группы в метриках (PS_DEPHEALTH_GROUP)
//   - checkURL — URL проверки ImageKit (PS_DEPHEALTH_URL)
//   - checkInterval — интервал проверки (PS_DEPHEALTH_CHECK_INTERVAL)
func NewDephealthService(
	serviceID string,
	group string,
	checkURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, checkURL, checkInterval, logger)
}

// NewDephealthServiceWithRegisterer создаёт сервис с указанным Prometheus registerer.
// Используется в тестах для изоляции метрик.
func NewDephealthServiceWithRegisterer(
	serviceID string,
	group string,
	checkURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
	registerer prometheus.Registerer,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, checkURL, checkInterval, logger,
		dephealth.WithRegisterer(registerer))
}

// newDephealthService — внутренний конструктор.
func newDephealthService(
	serviceID string,
	group string,
	checkURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
	extraOpts ...dephealth.Option,
) (*DephealthService, error) {
	parsed, err := url.Parse(checkURL)
	if err != nil {
		return nil, fmt.Errorf("разбор URL проверки ImageKit: %w", err)
	}

	// Путь проверки берём из URL (endpoint вида https://ik.imagekit.io/<id>)
	healthPath := parsed.Path
	if healthPath == "" {
		healthPath = "/"
	}

	depOpts := []dephealth.DependencyOption{
		dephealth.FromURL(checkURL),
		dephealth.WithHTTPHealthPath(healthPath),
		dephealth.CheckInterval(checkInterval),
		dephealth.Critical(true),
	}
	if strings.EqualFold(parsed.Scheme, "https") {
		depOpts = append(depOpts, dephealth.WithHTTPTLSSkipVerify(false))
	}

	opts := make([]dephealth.Option, 0, 2+len(extraOpts))
	opts = append(opts,
		dephealth.WithLogger(logger),
		dephealth.HTTP(imagekitDepName, depOpts...),
	)
	opts = append(opts, extraOpts...)

	dh, err := dephealth.New(serviceID, group, opts...)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// Start запускает периодическую проверку зависимостей.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("Мониторинг зависимостей запущен (ImageKit)")
	return ds.dh.Start(ctx)
}

// Stop останавливает мониторинг зависимостей.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг зависимостей остановлен")
}

// Health возвращает текущее состояние зависимостей.
// Ключ — имя зависимости, значение — true если ok.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}

// CheckReady реализует handlers.ReadinessChecker по результатам последней проверки.
// До первой проверки статус degraded.
func (ds *DephealthService) CheckReady() (status, message string) {
	return readinessFromHealth(ds.Health())
}

// readinessFromHealth переводит карту состояний в статус readiness.
func readinessFromHealth(health map[string]bool) (status, message string) {
	if len(health) == 0 {
		return "degraded", "проверка ImageKit ещё не выполнена"
	}
	for name, ok := range health {
		if !ok {
			return "fail", fmt.Sprintf("зависимость %s недоступна", name)
		}
	}
	return "ok", ""
}
