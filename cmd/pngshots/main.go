// main.go — точка входа relay pngshots.
// Relay между витриной скриншотов и ImageKit: листинги, удаление,
// параметры загрузки и модели галереи.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/bigkaa/pngshots/internal/api/generated"
	"github.com/bigkaa/pngshots/internal/api/handlers"
	"github.com/bigkaa/pngshots/internal/api/middleware"
	"github.com/bigkaa/pngshots/internal/config"
	"github.com/bigkaa/pngshots/internal/imagekit"
	"github.com/bigkaa/pngshots/internal/server"
	"github.com/bigkaa/pngshots/internal/service"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения (.env — необязательно)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// 2. Настройка логгера
	logger := config.SetupLogger(cfg)
	logger.Info("pngshots relay запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("imagekit_endpoint", cfg.ImageKitURLEndpoint),
	)
	if cfg.ImageKitPublicKey == "" {
		logger.Warn("PS_IMAGEKIT_PUBLIC_KEY не задан: клиентская загрузка будет невозможна")
	}

	// 3. Клиент ImageKit
	ikClient, err := imagekit.New(imagekit.Config{
		PrivateKey: cfg.ImageKitPrivateKey,
		APIURL:     cfg.ImageKitAPIURL,
		UploadURL:  cfg.ImageKitUploadURL,
		CACertPath: cfg.ImageKitCACertPath,
		Timeout:    cfg.ImageKitTimeout,
		PageSize:   cfg.ImageKitPageSize,
	}, logger)
	if err != nil {
		logger.Error("Ошибка создания клиента ImageKit", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Сервисный слой: кэш обложек + relay к ImageKit
	cache := service.NewCacheService(cfg.CacheMaxSize, cfg.CacheTTL)
	mediaSvc := service.NewMediaService(ikClient, cache, cfg.ThumbnailFolder, logger)

	// 5. topologymetrics — мониторинг ImageKit
	ctx := context.Background()
	var readiness handlers.ReadinessChecker
	var dephealthSvc *service.DephealthService
	if cfg.DephealthEnabled {
		dephealthSvc, err = service.NewDephealthService(
			cfg.ServiceID,
			cfg.DephealthGroup,
			cfg.DephealthURL,
			cfg.DephealthCheckInterval,
			logger,
		)
		if err != nil {
			logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
				slog.String("error", err.Error()),
			)
			dephealthSvc = nil
		} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
			dephealthSvc = nil
		} else {
			readiness = dephealthSvc
			logger.Info("topologymetrics запущен",
				slog.String("check_url", cfg.DephealthURL),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 6. Handlers
	healthHandler := handlers.NewHealthHandler(readiness)
	apiHandler := handlers.NewAPIHandler(healthHandler, mediaSvc, logger)

	// 7. Middleware: метрики, логирование, валидация по контракту
	swagger, err := generated.GetSwagger()
	if err != nil {
		logger.Error("Ошибка загрузки контракта OpenAPI", slog.String("error", err.Error()))
		os.Exit(1)
	}
	validator, err := middleware.OpenAPIValidator(swagger, logger)
	if err != nil {
		logger.Error("Ошибка создания валидатора OpenAPI", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 8. HTTP-сервер
	srv := server.New(cfg, logger, apiHandler,
		middleware.MetricsMiddleware(),
		middleware.RequestLogger(logger),
		validator,
	)

	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// --- Graceful shutdown фоновых процессов ---
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("pngshots relay остановлен")
}
