package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/figport/internal/config"
	"github.com/dgallion1/figport/internal/pipeline"
	"github.com/dgallion1/figport/internal/screens"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API in front of the export pipelines.
type Server struct {
	router   chi.Router
	exporter *pipeline.Exporter
	log      *slog.Logger
	cfg      config.Config
	screens  screens.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(exporter *pipeline.Exporter, log *slog.Logger, cfg config.Config) (*Server, error) {
	sc, err := cfg.ScreenConfig()
	if err != nil {
		return nil, err
	}
	s := &Server{
		exporter: exporter,
		log:      log,
		cfg:      cfg,
		screens:  sc,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/routes", s.handleRoutes)

		r.Route("/api/screens", func(r chi.Router) {
			r.Post("/", s.handleExportScreens)
			r.Get("/{exportID}", s.handleGetExport)
			r.Get("/{exportID}/report", s.handleExportReport)
			r.Get("/{exportID}/files/{slug}", s.handleExportFile)
		})

		r.Get("/api/stats/exports", s.handleExportStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
