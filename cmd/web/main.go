package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"marketing-dashboard/internal/config"
	"marketing-dashboard/internal/middleware"
	"marketing-dashboard/internal/models"
	"marketing-dashboard/internal/observability"
	"marketing-dashboard/internal/server"
	"marketing-dashboard/internal/services"
	"marketing-dashboard/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	warmupTimeout = 5 * time.Second
)

func handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	d := services.FromContext(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := templates.Dashboard(d.State(), services.Clients()).Render(ctx, w); err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

// buildDashboard wires the generator, loader and preference store from cfg.
func buildDashboard(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*services.Dashboard, error) {
	rng := services.NewRand(cfg.Dashboard.Seed)
	gen := services.NewGenerator(rng, nil)
	loader := services.NewLoader(gen, rng, cfg.Dashboard.LoadDelay, logger, metrics)

	return services.NewDashboard(loader, services.DashboardOptions{
		DefaultClientID: cfg.Dashboard.DefaultClientID,
		DefaultRange:    models.DateRange(cfg.Dashboard.DefaultRange),
		Preferences:     services.NewFilePreferences(cfg.Dashboard.PreferencesFile),
		Logger:          logger,
		Metrics:         metrics,
	})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"config", cfg,
	)

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics(cfg.Metrics.Namespace)
	}

	dashboard, err := buildDashboard(cfg, logger, metrics)
	if err != nil {
		logger.Error("failed to build dashboard", "error", err)
		os.Exit(1)
	}

	start := time.Now()
	select {
	case <-dashboard.Reload():
		logger.Info("initial bundle loaded", "duration", time.Since(start))
	case <-time.After(warmupTimeout):
		logger.Warn("initial bundle still loading, serving anyway")
	}

	templateHandlers := &server.TemplateHandlers{
		Dashboard: handleDashboard,
	}

	srv := server.NewServer(dashboard, logger, metrics, templateHandlers)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      middlewareChain(srv),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook("dashboard", func(ctx context.Context) error {
		logger.Info("shutting down dashboard", "stats", dashboard.Stats())
		return nil
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
