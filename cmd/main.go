package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Dosada05/bonhomie-fest/config"
	"github.com/Dosada05/bonhomie-fest/db"
	"github.com/Dosada05/bonhomie-fest/handlers"
	"github.com/Dosada05/bonhomie-fest/repositories"
	"github.com/Dosada05/bonhomie-fest/routes"
	"github.com/Dosada05/bonhomie-fest/services"
	"github.com/Dosada05/bonhomie-fest/storage"
	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
)

// @title Bonhomie Fest Registration API
// @version 1.0
// @description Event catalog, registration with payment proof, and registration review.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := newLogger(cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(dbConn); err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	// Хранилище скриншотов оплаты (S3-совместимое)
	uploader, err := storage.NewS3Uploader(context.Background(), storage.S3UploaderConfig{
		Endpoint:        cfg.StorageEndpoint,
		Region:          cfg.StorageRegion,
		AccessKeyID:     cfg.StorageAccessKeyID,
		SecretAccessKey: cfg.StorageSecretAccessKey,
		BucketName:      cfg.StorageBucket,
	})
	if err != nil {
		logger.Error("failed to initialize storage uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("storage uploader initialized", slog.String("bucket", cfg.StorageBucket))

	// Инициализация репозиториев
	profileRepo := repositories.NewPostgresProfileRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	registrationRepo := repositories.NewPostgresRegistrationRepository(dbConn)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	authService := services.NewAuthService(profileRepo)
	profileService := services.NewProfileService(profileRepo)
	identityService := services.NewIdentityService(eventRepo)
	eventService := services.NewEventService(eventRepo, profileRepo, registrationRepo, services.UPIConfig{
		PayeeAddress: cfg.UPIPayeeAddress,
		PayeeName:    cfg.UPIPayeeName,
	}, logger)
	registrationService := services.NewRegistrationService(eventRepo, registrationRepo, uploader, logger)
	reviewService := services.NewReviewService(registrationRepo, profileRepo, eventRepo, uploader, logger)
	coordinatorService := services.NewCoordinatorService(eventRepo, profileRepo, registrationRepo, logger)
	dashboardService := services.NewDashboardService(profileRepo, eventRepo, registrationRepo)
	adminProfileService := services.NewAdminProfileService(profileRepo)
	logger.Info("Services initialized")

	// Инициализация обработчиков HTTP
	h := routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService, profileService, identityService, cfg.JWTSecretKey),
		Profile:      handlers.NewProfileHandler(profileService),
		Event:        handlers.NewEventHandler(eventService),
		Registration: handlers.NewRegistrationHandler(registrationService, cfg.MaxUploadBytes()),
		Review:       handlers.NewReviewHandler(reviewService),
		Coordinator:  handlers.NewCoordinatorHandler(coordinatorService, profileService),
		Dashboard:    handlers.NewDashboardHandler(dashboardService),
		Admin:        handlers.NewAdminProfileHandler(adminProfileService),
	}
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	routes.SetupRoutes(router, h, routes.Options{
		JWTSecret:          cfg.JWTSecretKey,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:             logger,
	})
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}

// newLogger: JSON по умолчанию, LOG_FORMAT=text включает цветной вывод tint для локальной разработки.
func newLogger(format, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	if strings.EqualFold(format, "text") {
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level:      lvl,
			TimeFormat: time.Kitchen,
		}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
