package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"cargolens/internal/config"
	apierrors "cargolens/internal/errors"
	"cargolens/internal/infrastructure"
	custommw "cargolens/internal/middleware"
	"cargolens/internal/services"
	handlers "cargolens/internal/transport/http"
	"cargolens/pkg/contracts"
)

// AppName is the human-facing product name shown on the upload page.
const AppName = "CargoLens - Container Shipment Analyzer"

// Application wires configuration, services, and the HTTP server together.
type Application struct {
	Config *config.Config
	Paths  *config.Paths
	Router *chi.Mux
	Server *http.Server
	Logger *slog.Logger

	AnalysisService *services.AnalysisService
	ReportService   *services.ReportService
	HealthService   *services.HealthService
}

// NewApplication loads configuration and builds a fully wired application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version))

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, err
	}
	paths.LogPathResolution()

	app := &Application{
		Config: cfg,
		Paths:  paths,
		Logger: logger,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices constructs all application services
func (a *Application) initializeServices() error {
	analysisService, err := services.NewAnalysisServiceWithLogger(a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize analysis service: %w", err)
	}
	a.AnalysisService = analysisService

	reportService, err := services.NewReportServiceWithLogger(a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize report service: %w", err)
	}
	a.ReportService = reportService

	a.HealthService = services.NewHealthServiceWithBuildInfo(
		contracts.Version,
		contracts.BuildTime,
		contracts.BuildID,
		a.Paths,
		a.Logger,
	)

	return nil
}

// setupRouter configures the HTTP router with middleware and routes.
// Middleware order: RequestID → RealIP → StructuredLogger → panic
// recovery → SecurityHeaders → CORS → RateLimiter; timeouts are applied
// per route group so the analyze endpoint can run longer than the rest
// of the API.
func (a *Application) setupRouter() {
	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)
	validate := custommw.NewValidationMiddleware(a.Logger, errorHandler)

	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(apierrors.RecoveryMiddleware(errorHandler))
	r.Use(custommw.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(custommw.CORS(a.corsConfig()))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(custommw.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	a.setupAPIRoutes(r, validate)

	r.Get("/", handlers.ServeUploadPage(AppName))

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, validate *custommw.ValidationMiddleware) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		// Standard timeout for quick endpoints
		r.Group(func(r chi.Router) {
			r.Use(custommw.Timeout(a.Config.Server.ReadTimeout, a.Logger))

			healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
			r.Get("/health", healthHandler.HealthCheck)
			r.Get("/health/ready", healthHandler.ReadinessCheck)
			r.Get("/health/live", healthHandler.LivenessCheck)
			r.Get("/version", healthHandler.Version)

			reportHandler := handlers.NewReportHandler(a.ReportService, validate, a.Logger)
			r.Mount("/reports", reportHandler.Routes())

			r.Post("/logs", handlers.NewClientLogHandler(validate, a.Logger).Handle)
		})

		// The analyze endpoint parses and aggregates whole workbooks in
		// one request, so it gets its own, longer timeout.
		r.Group(func(r chi.Router) {
			r.Use(custommw.Timeout(a.Config.Server.AnalyzeTimeout, a.Logger))
			r.Use(custommw.ContentTypeValidator("multipart/form-data"))

			analysisHandler := handlers.NewAnalysisHandler(a.AnalysisService, a.Config.Upload, validate, a.Logger)
			r.Mount("/analyze", analysisHandler.Routes())
		})
	})
}

// corsConfig builds the CORS configuration from security settings
func (a *Application) corsConfig() custommw.CORSConfig {
	return custommw.CORSConfig{
		AllowedOrigins:   a.Config.Security.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
		Logger:           a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start begins serving HTTP requests. It blocks until the server stops.
func (a *Application) Start() error {
	a.Logger.Info("http server listening",
		slog.String("addr", a.Server.Addr),
		slog.String("reports_dir", a.Paths.ReportsDir))

	if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server, draining in-flight requests.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.Info("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.Logger.Info("server stopped")
	return nil
}

// Run starts the application and blocks until SIGINT or SIGTERM.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		a.Logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 35*time.Second)
	defer cancel()
	return a.Stop(ctx)
}
