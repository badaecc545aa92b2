package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/chiedozieu/website-builder/internal/api"
	"github.com/chiedozieu/website-builder/internal/api/handlers"
	"github.com/chiedozieu/website-builder/internal/llm"
	"github.com/chiedozieu/website-builder/internal/repository"
	"github.com/chiedozieu/website-builder/internal/services"
	"github.com/chiedozieu/website-builder/pkg/config"
	"github.com/chiedozieu/website-builder/pkg/database"
	"github.com/chiedozieu/website-builder/pkg/logger"
)

// @title           Website Builder API
// @version         1.0
// @description     AI-assisted website builder with credit-metered revisions

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("starting website builder api",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
	)

	// Connect to database
	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	log.Info("database connected")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	versionRepo := repository.NewVersionRepository(db)
	conversationRepo := repository.NewConversationRepository(db)

	jwtSecret := []byte(cfg.JWTSecret)
	if len(jwtSecret) == 0 {
		log.Warn("JWT_SECRET not set, using default (INSECURE for production)")
		jwtSecret = []byte("change-me-in-production-please")
	}

	// Services
	ledger := services.NewCreditLedger(db)
	completer := llm.NewClient(cfg.OpenRouterAPIKey, cfg.OpenRouterBaseURL, cfg.LLMModel, cfg.LLMTimeout)
	locks := services.NewProjectLocks()
	projectSvc := services.NewProjectService(userRepo, projectRepo, versionRepo, conversationRepo, locks)
	revisionSvc := services.NewRevisionService(userRepo, projectRepo, versionRepo, conversationRepo, ledger, completer, locks)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, jwtSecret)
	projectsHandler := handlers.NewProjectsHandler(projectSvc)
	revisionsHandler := handlers.NewRevisionsHandler(revisionSvc)
	creditsHandler := handlers.NewCreditsHandler(ledger)

	router := api.NewRouter(api.Dependencies{
		HMACSecret:       jwtSecret,
		AuthHandler:      authHandler,
		ProjectsHandler:  projectsHandler,
		RevisionsHandler: revisionsHandler,
		CreditsHandler:   creditsHandler,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Revisions wait on the model, so writes get generous headroom.
		WriteTimeout: cfg.LLMTimeout + 30*time.Second,
		IdleTimeout:  90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}
