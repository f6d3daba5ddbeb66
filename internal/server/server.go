// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer: it connects handlers, middleware,
// and routes. It decides which URL patterns map to which handler
// functions, what middleware runs on which routes, and how the server
// starts and stops gracefully.
//
// All dependencies are assembled here, in one place (the "composition
// root" pattern), rather than scattered across the codebase. main.go
// stays minimal: read config, create the logger, start the server.
package server

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
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/scriptlab/internal/auth"
	"github.com/sakif/scriptlab/internal/engine"
	"github.com/sakif/scriptlab/internal/handler"
	"github.com/sakif/scriptlab/internal/middleware"
	sqliteRepo "github.com/sakif/scriptlab/internal/repository/sqlite"
	"github.com/sakif/scriptlab/internal/scripts"
	"github.com/sakif/scriptlab/internal/service"
)

// Config holds server configuration, loaded from env vars in main.
type Config struct {
	Port int
	// DBPath is the SQLite database file.
	DBPath string
	// WorkspaceDir is the directory the script catalog scans.
	WorkspaceDir string
	// Interpreter runs staged scripts; empty means python3.
	Interpreter string
	// DefaultTimeoutSeconds applies to runs that don't override it;
	// zero means the engine default (30s).
	DefaultTimeoutSeconds int
	// JWTSecret enables authentication when non-empty. Without it the
	// API is fully open and the auth routes are not registered.
	JWTSecret string
}

// Server owns the router and the resources that must be released on
// shutdown. The database connection is closed during graceful shutdown
// so the WAL is flushed and the file lock released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with the full dependency chain assembled:
// database, execution engine, services, handlers, routes.
//
// Each layer only receives what it needs. Services get repository
// interfaces, not the concrete sqlite.DB; handlers get services, never
// the database. The import alias sqliteRepo avoids confusion with the
// sqlite driver package.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /health                      → liveness + workspace path
//	POST   /api/execute                 → run inline code
//	GET    /api/scripts                 → list workspace scripts (?q= filter)
//	GET    /api/scripts/{name}          → script metadata
//	GET    /api/scripts/{name}/source   → raw script text
//	POST   /api/scripts/{name}/run      → run a workspace script
//	POST   /api/calculate               → arithmetic
//	CRUD   /api/todos[/{id}]            → todo items
//	POST   /api/auth/register|login|logout, GET /api/me  (when JWT is set)
//
// When a JWT secret is configured, everything that runs code or mutates
// state requires authentication; reads stay public.
//
// MIDDLEWARE ORDER MATTERS. Ours:
// 1. RequestID assigns a unique ID to each request (for tracing)
// 2. RealIP extracts the real client IP from proxy headers
// 3. Recoverer catches panics and returns 500 instead of crashing
// 4. Logger logs each request with timing info
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	runner := engine.NewRunner(engine.Config{
		Interpreter:    s.config.Interpreter,
		DefaultTimeout: time.Duration(s.config.DefaultTimeoutSeconds) * time.Second,
	}, s.logger)

	scriptService := scripts.NewService(s.config.WorkspaceDir, runner, s.logger)
	todoService := service.NewTodoService(s.db, s.logger)

	executeHandler := handler.NewExecuteHandler(runner, s.logger)
	scriptHandler := handler.NewScriptHandler(scriptService, s.logger)
	todoHandler := handler.NewTodoHandler(todoService, s.logger)
	calcHandler := handler.NewCalculatorHandler(s.logger)

	s.router.Get("/health", handler.NewHealthHandler(s.config.WorkspaceDir))

	// protect wraps mutating/executing routes with RequireAuth when a
	// JWT secret is configured. Without one it is the identity, which
	// keeps the route table below readable in both modes.
	protect := func(next http.HandlerFunc) http.HandlerFunc { return next }

	if s.config.JWTSecret != "" {
		tokens, err := auth.NewTokenService(s.config.JWTSecret)
		if err != nil {
			return fmt.Errorf("creating token service: %w", err)
		}

		authService := service.NewAuthService(s.db, tokens, auth.NewPasswordService(), s.logger)
		authHandler := handler.NewAuthHandler(authService, s.logger)

		requireAuth := auth.RequireAuth(tokens)
		protect = func(next http.HandlerFunc) http.HandlerFunc {
			return requireAuth(next).ServeHTTP
		}

		s.router.Route("/api/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/logout", authHandler.HandleLogout)
		})
		s.router.Get("/api/me", protect(authHandler.HandleMe))

		s.logger.Info("authentication enabled")
	} else {
		s.logger.Warn("JWT secret not set, authentication is disabled")
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/execute", protect(executeHandler.HandleExecute))

		r.Get("/scripts", scriptHandler.HandleList)
		r.Get("/scripts/{name}", scriptHandler.HandleGet)
		r.Get("/scripts/{name}/source", scriptHandler.HandleSource)
		r.Post("/scripts/{name}/run", protect(scriptHandler.HandleRun))

		r.Post("/calculate", calcHandler.HandleCalculate)

		r.Get("/todos", todoHandler.HandleList)
		r.Get("/todos/{id}", todoHandler.HandleGet)
		r.Post("/todos", protect(todoHandler.HandleCreate))
		r.Put("/todos/{id}", protect(todoHandler.HandleUpdate))
		r.Delete("/todos/{id}", protect(todoHandler.HandleDelete))
	})

	return nil
}

// Start starts the HTTP server and handles graceful shutdown.
//
// Shutdown order:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s limit)
// 3. Close the database connection
//
// Any script still running when its request is aborted is killed by the
// engine through the request context, so no child process outlives the
// server.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: time.Duration(handler.MaxTimeoutSeconds+15) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("workspace", s.config.WorkspaceDir),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
