package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mockinterview/api/internal/config"
	"mockinterview/api/internal/handlers"
	"mockinterview/api/internal/interview"
	"mockinterview/api/internal/jobs"
	"mockinterview/api/internal/llm"
	_ "mockinterview/api/internal/llm/gemini"
	_ "mockinterview/api/internal/llm/openai"
	"mockinterview/api/internal/metrics"
	apimw "mockinterview/api/internal/middleware"
	"mockinterview/api/internal/prompts"
	"mockinterview/api/internal/routers"
	"mockinterview/api/internal/session"
	"mockinterview/api/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// provider calls (transcription plus completion) routinely take several seconds
const requestTimeout = 90 * time.Second

type dependencies struct {
	config        *config.Config
	provider      llm.Provider
	promptManager *prompts.PromptManager
	service       *interview.Service
	limiter       *apimw.RateLimiter
	logger        *zap.Logger
}

func newRouter(deps dependencies) *chi.Mux {
	cfg := deps.config
	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(requestTimeout))
	router.Use(metrics.Middleware("interview"))

	auth := apimw.Authenticate(cfg.JWTSecret, cfg.AuthRequired)

	routers.HealthRoutes(router, handlers.NewHealthHandler(deps.provider, deps.promptManager, cfg))
	routers.CatalogRoutes(router, handlers.NewCatalogHandler(deps.promptManager))
	routers.InterviewRoutes(router, handlers.NewInterviewHandler(deps.service, deps.logger, cfg.MaxUploadBytes), auth, deps.limiter)
	routers.MediaRoutes(router, handlers.NewMediaHandler(deps.service, deps.logger, cfg.MaxUploadBytes), auth)

	return router
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if leveled, err := utils.NewLogger(cfg.LogLevel); err == nil {
		logger = leveled
	}

	logger.Info("Configuration loaded",
		zap.String("provider", cfg.Provider),
		zap.Bool("auth_enabled", cfg.JWTSecret != ""),
		zap.Duration("session_max_age", cfg.SessionMaxAge))

	// prompt manager
	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}

	// AI provider based on configuration
	aiProvider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		logger.Fatal("Failed to initialize AI provider", zap.Error(err))
	}

	store := session.NewStore()
	service := interview.NewService(store, promptManager, aiProvider, logger,
		interview.WithDefaultDuration(cfg.DefaultDurationMinutes))
	limiter := apimw.NewRateLimiter(cfg.TurnRateLimit)

	reaper := jobs.NewSessionReaperJob(service, limiter, &jobs.ReaperConfig{
		Schedule: cfg.SessionReaperSchedule,
		MaxAge:   cfg.SessionMaxAge,
		Enabled:  cfg.SessionReaperEnabled,
	}, logger)
	if err := reaper.Start(); err != nil {
		logger.Fatal("Failed to start session reaper", zap.Error(err))
	}

	router := newRouter(dependencies{
		config:        cfg,
		provider:      aiProvider,
		promptManager: promptManager,
		service:       service,
		limiter:       limiter,
		logger:        logger,
	})

	serverAddr := ":" + cfg.Port

	// http server with timeouts; uploads and provider round-trips are slow
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: requestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// starting server in a goroutine
	go func() {
		logger.Info("Interview service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Interview service shutting down...")

	reaper.Stop()

	// graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("Interview service exited")
}
