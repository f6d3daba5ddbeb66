// Package main is the entry point for the scriptlab server.
//
// The main package stays minimal. Its job is to:
// 1. Read configuration from env vars
// 2. Create the logger
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server,
// internal/handler, etc.). The cmd/ directory is a Go convention for
// executable entry points; this project ships two (cmd/server and
// cmd/cli), each with its own main.go.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sakif/scriptlab/internal/server"
)

// envInt reads an integer env var, exiting with a clear message on a
// malformed value rather than silently running with a default.
func envInt(logger *slog.Logger, key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		logger.Error("invalid integer env var",
			slog.String("key", key),
			slog.String("value", raw),
		)
		os.Exit(1)
	}
	return v
}

func main() {
	// slog.NewTextHandler outputs human-readable structured logs.
	// Log levels from least to most severe: Debug, Info, Warn, Error.
	// LOG_LEVEL=debug enables everything; production wants info.
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	port := envInt(logger, "PORT", 8080)
	timeoutSeconds := envInt(logger, "EXEC_TIMEOUT", 0)

	// WORKSPACE_DIR is where the script catalog looks for .py files.
	// Defaults to ./workspace relative to the working directory.
	workspaceDir := os.Getenv("WORKSPACE_DIR")
	if workspaceDir == "" {
		workspaceDir = "workspace"
	}
	workspaceDir, err := filepath.Abs(workspaceDir)
	if err != nil {
		logger.Error("failed to resolve workspace directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// DB_PATH allows overriding for production deployments,
	// e.g. DB_PATH=/var/lib/scriptlab/prod.db
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/scriptlab.db"
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// JWT_SECRET must be a long random string:
	//   JWT_SECRET=$(openssl rand -hex 32)
	// If unset, the API runs open and auth routes are not registered.
	cfg := server.Config{
		Port:                  port,
		DBPath:                dbPath,
		WorkspaceDir:          workspaceDir,
		Interpreter:           os.Getenv("INTERPRETER"),
		DefaultTimeoutSeconds: timeoutSeconds,
		JWTSecret:             os.Getenv("JWT_SECRET"),
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
