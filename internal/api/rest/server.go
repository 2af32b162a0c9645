package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler http.Handler
}

// Config holds the listener settings.
type Config struct {
	Port        string
	CORSOrigins []string
}

// NewServer creates a new REST API server. health may be nil.
func NewServer(cfg Config, boxScores BoxScoreProvider, warm WarmQueue, health HealthChecker) *Server {
	handler := NewHandler(boxScores, health)
	warmHandler := NewWarmHandler(warm)

	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Games
	api.HandleFunc("/games/{gameID}/boxscore", handler.GetGameBoxScore).Methods("GET")
	api.HandleFunc("/games/{gameID}/playbyplay", handler.GetPlayByPlay).Methods("GET")

	// Warm jobs
	api.HandleFunc("/warm", warmHandler.HandleWarmRequest).Methods("POST")
	api.HandleFunc("/warm/status", warmHandler.HandleWarmStatus).Methods("GET")
	api.HandleFunc("/warm/{jobID}", warmHandler.HandleWarmJob).Methods("GET")

	// Middleware wraps the router rather than using router.Use so that
	// preflight and unmatched requests pass through it too.
	root := RecoveryMiddleware(LoggingMiddleware(CORSMiddleware(cfg.CORSOrigins)(router)))

	return &Server{
		port:    cfg.Port,
		handler: root,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.Port),
			Handler:           root,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
