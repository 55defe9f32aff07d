package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/outracoisa/filmoteca/internal/api/handlers"
	"github.com/outracoisa/filmoteca/internal/api/middleware"
	"github.com/outracoisa/filmoteca/internal/config"
	"github.com/outracoisa/filmoteca/internal/controllers"
	"github.com/outracoisa/filmoteca/internal/state"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	server     *http.Server
	authState  *state.AuthState
	movieState *state.MovieState
	movieCtrl  *controllers.MovieController
	logger     *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, authState *state.AuthState, movieState *state.MovieState, movieCtrl *controllers.MovieController, logger *logrus.Logger) *Server {
	s := &Server{
		authState:  authState,
		movieState: movieState,
		movieCtrl:  movieCtrl,
		logger:     logger,
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(mux, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	healthHandler := handlers.NewHealthHandler(s.logger)
	mux.Handle("GET /health", healthHandler)

	moviesHandler := handlers.NewMoviesHandler(s.movieState, s.movieCtrl, s.logger)
	mux.HandleFunc("GET /api/movies", moviesHandler.List)
	mux.HandleFunc("POST /api/movies/refresh", moviesHandler.Refresh)
	mux.HandleFunc("POST /api/movies/filter", moviesHandler.ToggleFilter)
	mux.HandleFunc("POST /api/movies/{id}/favorite", moviesHandler.ToggleFavorite)
	mux.HandleFunc("DELETE /api/movies/{id}", moviesHandler.Delete)

	authHandler := handlers.NewAuthHandler(s.authState, s.logger)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/session", authHandler.Session)
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("addr", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
