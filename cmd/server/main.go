package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retohub/internal/api"
	"retohub/internal/app/service"
	"retohub/internal/common/security"
	"retohub/internal/domain/repository"
	"retohub/internal/platform/cache"
	"retohub/internal/platform/config"
	"retohub/internal/platform/database"
	"retohub/internal/platform/logger"

	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	config.Load()

	// 2. Initialize Logging
	logger.Init()
	defer logger.Sync()
	logger.Log.Info("Configuration loaded")

	// 3. Initialize JWT
	security.InitJWT()
	logger.Log.Info("JWT initialized")

	// 4. Initialize Database
	database.Connect()
	defer database.Close()
	logger.Log.Info("Database connected")

	// 5. Initialize Redis
	cache.Connect()
	defer cache.Close()
	logger.Log.Info("Redis connected")

	// 6. Initialize Repositories
	personRepo := repository.NewPgPersonRepository(database.DB)
	challengeRepo := repository.NewPgChallengeRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)
	socialRepo := repository.NewPgSocialRepository(database.DB)

	// 7. Initialize Services
	rankingCache := service.NewRedisCache(cache.RDB)
	authService := service.NewAuthService(personRepo)
	personService := service.NewPersonService(personRepo, rankingCache)
	challengeService := service.NewChallengeService(challengeRepo, database.DB)
	submissionService := service.NewSubmissionService(submissionRepo, database.DB)
	socialService := service.NewSocialService(socialRepo)

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(authService, personService, challengeService, submissionService, socialService, personRepo)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Log.Info("Server starting", zap.String("port", config.AppConfig.APIPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Could not start server", zap.Error(err))
		}
	}()

	<-stop // Wait for interrupt signal

	logger.Log.Info("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal("Server shutdown failed", zap.Error(err))
	}

	logger.Log.Info("Server stopped gracefully")
}
