package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"marketing-dashboard/internal/errors"
	"marketing-dashboard/internal/handlers"
	"marketing-dashboard/internal/middleware"
	"marketing-dashboard/internal/observability"
	"marketing-dashboard/internal/services"
)

type Server struct {
	router      chi.Router
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

// NewServer builds the router. A nil dashboard leaves handlers without a
// provider, so every dashboard route fails with PRECONDITION_FAILED.
// metrics may be nil.
func NewServer(dashboard *services.Dashboard, logger *slog.Logger, metrics *observability.Metrics, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(logger),
		sseHandlers: handlers.NewSSEHandlers(logger),
	}

	s.router.Use(middleware.Recovery(logger))
	if metrics != nil {
		s.router.Use(middleware.Metrics(metrics))
	}
	if dashboard != nil {
		s.router.Use(middleware.Provide(dashboard))
	}

	s.setupRoutes(templateHandlers, metrics)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers, metrics *observability.Metrics) {
	r := s.router

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		errors.WriteError(w, s.logger, errors.New(errors.CodeNotFound, "Route not found"),
			observability.GetRequestID(req.Context()))
	})

	// Dashboard routes
	r.Get("/", templateHandlers.Dashboard)
	r.Get("/health", s.apiHandlers.HandleHealth)
	r.Get("/admin/stats", s.apiHandlers.HandleStats)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	// REST API endpoints
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.apiHandlers.HandleState)
		r.Get("/bundle", s.apiHandlers.HandleBundle)
		r.Get("/kpis", s.apiHandlers.HandleKPIs)
		r.Get("/series", s.apiHandlers.HandleSeries)
		r.Get("/prediction", s.apiHandlers.HandlePrediction)
		r.Get("/weekly", s.apiHandlers.HandleWeekly)
		r.Get("/alerts", s.apiHandlers.HandleAlerts)
		r.Get("/clients", s.apiHandlers.HandleClients)
		r.Get("/campaigns", s.apiHandlers.HandleCampaigns)
		r.Get("/chart", s.apiHandlers.HandleChart)
		r.Post("/theme/toggle", s.apiHandlers.HandleThemeToggle)
		r.Post("/selection", s.apiHandlers.HandleSelection)
	})

	// Datastar SSE endpoints
	r.Route("/sse", func(r chi.Router) {
		r.Get("/dashboard", s.sseHandlers.HandleDashboard)
		r.Get("/weekly", s.sseHandlers.HandleWeekly)
		r.Get("/alerts", s.sseHandlers.HandleAlerts)
		r.Get("/select", s.sseHandlers.HandleSelect)
		r.Post("/theme", s.sseHandlers.HandleTheme)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
