package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"peerprep/interview/internal/config"
	"peerprep/interview/internal/event"
	"peerprep/interview/internal/gateway"
	"peerprep/interview/internal/handlers"
	"peerprep/interview/internal/jobs"
	"peerprep/interview/internal/llm"
	_ "peerprep/interview/internal/llm/gemini"
	_ "peerprep/interview/internal/llm/hf"
	"peerprep/interview/internal/metrics"
	interviewmw "peerprep/interview/internal/middleware"
	"peerprep/interview/internal/prompts"
	"peerprep/interview/internal/repositories"
	"peerprep/interview/internal/resume"
	"peerprep/interview/internal/routers"
	"peerprep/interview/internal/services"
	"peerprep/interview/internal/session"
	"peerprep/interview/internal/store"
	"peerprep/interview/internal/timer"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

const serviceName = "interview"

// app holds the wired service and everything that must be stopped on shutdown.
type app struct {
	router   *chi.Mux
	timers   *timer.Scheduler
	cache    *gateway.ScoreCache
	exporter *jobs.ResultsExporterJob
}

func registerRoutes(router *chi.Mux, h *handlerSet) {
	routers.HealthRoutes(router, h.health)
	routers.AuthRoutes(router, h.auth)
	routers.SessionRoutes(router, h.session)
	routers.InterviewRoutes(router, h.test, h.candidate, h.interview)
	routers.CandidateRoutes(router, h.candidate)
}

type handlerSet struct {
	health    *handlers.HealthHandler
	auth      *handlers.AuthHandler
	session   *handlers.SessionHandler
	test      *handlers.TestHandler
	candidate *handlers.CandidateHandler
	interview *handlers.InterviewHandler
}

func newApp(cfg *config.Config, provider llm.Provider, promptManager prompts.PromptProvider, backend store.Backend, publisher event.Publisher, logger *zap.Logger) *app {
	workspaces := repositories.NewWorkspaceRepository(backend)
	directory := repositories.NewDirectoryRepository(backend)

	cache := gateway.NewScoreCache(cfg.ScoreCacheTTL)
	retry := llm.NewRetryPolicy(cfg.Retry.MaxRetries, cfg.Retry.BaseBackoff, cfg.Retry.MaxBackoff)
	gw := gateway.New(llm.NewCaller(provider, retry, logger), promptManager, cache, logger)
	timers := timer.NewScheduler(nil, logger)

	sessionSvc := services.NewSessionService(repositories.NewSessionRepository(backend), directory, workspaces, logger)
	authSvc := services.NewAuthService(repositories.NewAccountRepository(backend), sessionSvc, cfg.JWTSecret, cfg.TokenTTL, logger)
	testSvc := services.NewTestService(directory, workspaces, logger)
	candidateSvc := services.NewCandidateService(testSvc, workspaces, sessionSvc, resume.PlainTextExtractor{}, timers, logger)
	interviewSvc := services.NewInterviewService(testSvc, session.NewEngine(workspaces, logger), gw, timers, publisher, logger)

	h := &handlerSet{
		health:    handlers.NewHealthHandler(provider, promptManager, backend, cfg),
		auth:      handlers.NewAuthHandler(authSvc, logger),
		session:   handlers.NewSessionHandler(sessionSvc, logger),
		test:      handlers.NewTestHandler(testSvc, logger),
		candidate: handlers.NewCandidateHandler(candidateSvc, logger),
		interview: handlers.NewInterviewHandler(interviewSvc, logger),
	}

	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(90*time.Second))
	router.Use(metrics.Middleware(serviceName))
	router.Use(interviewmw.Authenticate(authSvc, false))

	registerRoutes(router, h)

	exporter := jobs.NewResultsExporterJob(workspaces, &jobs.ExporterConfig{
		Schedule:      cfg.Export.Schedule,
		ExportDir:     cfg.Export.Dir,
		ExportEnabled: cfg.Export.Enabled,
	}, logger)

	return &app{router: router, timers: timers, cache: cache, exporter: exporter}
}

// close stops background work. Pending countdowns are dropped; they are
// re-armed from the stored deadlines when the interview is next loaded.
func (a *app) close() {
	a.exporter.Stop()
	a.timers.Stop()
	a.cache.Close()
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded",
		zap.String("provider", cfg.Provider),
		zap.String("store", cfg.Store.Backend))

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

	backend, closeBackend, err := store.Open(cfg.Store)
	if err != nil {
		logger.Fatal("Failed to initialize store", zap.Error(err))
	}
	defer closeBackend()

	publisher, err := event.NewEventPublisher(cfg.AMQPURL, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ, completion events will not be published", zap.Error(err))
		publisher = nil
	}

	var pub event.Publisher = event.NewMockPublisher()
	if publisher != nil {
		pub = publisher
		defer publisher.Close()
	}

	application := newApp(cfg, aiProvider, promptManager, backend, pub, logger)
	if err := application.exporter.Start(); err != nil {
		logger.Error("Failed to start results exporter job", zap.Error(err))
	}

	serverAddr := ":" + cfg.Port

	// http server with timeouts; question generation can take a while
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      application.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
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

	// graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	application.close()

	logger.Info("Interview service exited")
}
