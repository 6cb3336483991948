package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/todo-service/internal/config"
	"github.com/Dan9191/todo-service/internal/handler"
	"github.com/Dan9191/todo-service/internal/metrics"
	"github.com/Dan9191/todo-service/internal/repository"
	"github.com/Dan9191/todo-service/internal/service"
	"github.com/Dan9191/todo-service/internal/utils"
	"github.com/Dan9191/todo-service/internal/utils/email"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	if cfg.JWTSecret == config.PlaceholderSecret {
		logger.Warn("JWT_SECRET is not set, using the development placeholder")
	}

	// Initialize database
	db, err := repository.InitPostgres(cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	tokens := utils.NewJWTService(cfg.JWTSecret, cfg.TokenTTL, cfg.TokenLeeway)
	m := metrics.New()

	authSvc := service.NewAuthService(repo, utils.NewBcryptHasher(cfg.BcryptCost), tokens, logger).
		WithObserver(m)
	if cfg.MailEnabled() {
		authSvc.WithNotifier(email.NewSender(cfg, logger))
	}
	todoSvc := service.NewTodoService(repo, logger, cfg.HideForeignTodos)

	h := handler.NewHandler(authSvc, todoSvc, repo, logger, !cfg.IsProduction())
	router := handler.NewRouter(h, tokens, m, logger)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("HTTP shutdown failed: %v", err)
	}
	if err := db.Close(); err != nil {
		logger.Errorf("Failed to close database: %v", err)
	}
	logger.Info("Server stopped")
}
