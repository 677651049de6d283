// cmd/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"efi_checklist/internal/config"
	"efi_checklist/internal/handlers"
	"efi_checklist/internal/repository"
	"efi_checklist/internal/service"
)

func main() {
	// 設定ファイル読み込み用の一時的なロガー
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	configPath := os.Getenv("APP_CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs"
	}
	if err := config.LoadConfig(configPath); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	cfg := &config.Cfg

	appEnv := os.Getenv("APP_ENV")
	logger := newLogger(cfg.Log.Level, appEnv)
	slog.SetDefault(logger)

	slog.Info("Application starting...", slog.String("app", cfg.App.Name))

	// 1. Database (GORM)
	db, err := repository.NewDB(cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := repository.AutoMigrate(db); err != nil {
		slog.Error("Error migrating database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	// 2. Dependency Injection
	profileStore := repository.NewGormProfileStore()
	submissionService := service.NewSubmissionService(cfg, nil)
	notifier := service.NewNotifier(cfg)
	tokens := service.NewTokenIssuer(cfg)
	checklistService := service.NewChecklistService(cfg, db, profileStore, submissionService, notifier, tokens)

	if cfg.GitHub.Token == "" || cfg.GitHub.Repo == "" {
		slog.Warn("GitHub credentials not configured; submissions will fail until GITHUB_TOKEN and GITHUB_REPO are set")
	}

	// 3. Router
	router := handlers.NewRouter(handlers.RouterDeps{
		Config:      cfg,
		Logger:      logger,
		DB:          db,
		Sessions:    handlers.NewSessionHandler(checklistService, logger),
		Submissions: handlers.NewSubmissionHandler(submissionService, logger),
		Reports:     handlers.NewReportHandler(logger),
		DevAuth:     strings.ToLower(appEnv) == "dev",
	})

	// 4. Start Server
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 70 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}

// newLogger は APP_ENV=dev なら tint、それ以外は JSON ハンドラを使います。
func newLogger(level, appEnv string) *slog.Logger {
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", level))
	}

	var handler slog.Handler
	if strings.ToLower(appEnv) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
	}
	return slog.New(handler)
}
