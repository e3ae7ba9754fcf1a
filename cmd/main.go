package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/brackets"
	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/config"
	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/db"
	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/handlers"
	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/repositories"
	api "github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/routes"
	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/services"
	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.Bool("archive_enabled", cfg.ArchiveEnabled()))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
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
	if err := db.Migrate(context.Background(), dbConn); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database connection established")

	// Архив результатов в Cloudflare R2 (опционально)
	var uploader storage.FileUploader
	if cfg.ArchiveEnabled() {
		uploader, err = storage.NewCloudflareR2Uploader(context.Background(), cfg.R2)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	}

	// Инициализация WebSocket Hub
	wsHub := brackets.NewHub(logger)
	go wsHub.Run()
	defer wsHub.Stop()

	cardsRepo := repositories.NewPostgresCardsTournamentRepository(dbConn)
	finalStandingRepo := repositories.NewPostgresFinalStandingRepository(dbConn)

	cardsService := services.NewCardsService(cardsRepo, finalStandingRepo, uploader, wsHub, logger, services.CardsServiceConfig{
		RejectTiedScores: cfg.RejectTiedScores,
	})

	sweeper, err := services.StartSessionSweeper(cardsService, cfg.SessionSweepInterval, cfg.SessionIdleTTL, logger)
	if err != nil {
		logger.Error("failed to start session sweeper", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sweeper.Shutdown(); err != nil {
			logger.Error("failed to stop session sweeper", slog.Any("error", err))
		}
	}()

	cardsHandler := handlers.NewCardsHandler(cardsService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, cardsService, cfg.AllowedOrigins, logger)

	router := chi.NewRouter()
	api.SetupRoutes(router, logger, cfg.AllowedOrigins, cardsHandler, webSocketHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
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
			return
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
