package server

import (
	"log/slog"
	"net/http"

	"fraud-screen/internal/handlers"
	"fraud-screen/internal/services"
)

type Server struct {
	screening    *services.Screening
	mux          *http.ServeMux
	logger       *slog.Logger
	pageHandlers *handlers.PageHandlers
	apiHandlers  *handlers.APIHandlers
	sseHandlers  *handlers.SSEHandlers
}

func NewServer(screening *services.Screening, logger *slog.Logger) *Server {
	s := &Server{
		screening:    screening,
		mux:          http.NewServeMux(),
		logger:       logger,
		pageHandlers: handlers.NewPageHandlers(screening, logger),
		apiHandlers:  handlers.NewAPIHandlers(screening, logger),
		sseHandlers:  handlers.NewSSEHandlers(screening, logger),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Form page
	s.mux.HandleFunc("GET /{$}", s.pageHandlers.HandleForm)
	s.mux.HandleFunc("POST /{$}", s.pageHandlers.HandleSubmit)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("POST /api/score", s.apiHandlers.HandleScore)
	s.mux.HandleFunc("GET /api/catalogs", s.apiHandlers.HandleCatalogs)
	s.mux.HandleFunc("GET /api/schema", s.apiHandlers.HandleSchema)

	// Datastar SSE endpoints
	s.mux.HandleFunc("POST /sse/score", s.sseHandlers.HandleScore)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
