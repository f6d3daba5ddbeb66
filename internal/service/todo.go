// Package service contains the business logic layer: validation and
// orchestration, with no knowledge of HTTP or SQL. Handlers call
// services; services call repository interfaces.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/scriptlab/internal/apperror"
	"github.com/sakif/scriptlab/internal/model"
	"github.com/sakif/scriptlab/internal/repository"
)

// Validation limits for todos. Titles follow the original API contract:
// required, at most 255 characters after trimming.
const (
	MaxTitleLength   = 255
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// TodoService handles business logic for todo items.
type TodoService struct {
	repo   repository.TodoRepository
	logger *slog.Logger
}

// NewTodoService creates a TodoService. The repository is an interface
// so tests inject an in-memory mock.
func NewTodoService(repo repository.TodoRepository, logger *slog.Logger) *TodoService {
	return &TodoService{repo: repo, logger: logger}
}

// validateFields trims and checks title/description, returning the
// cleaned values. Both fields are required; whitespace-only input is
// rejected the same as empty input.
func validateFields(title, description string) (string, string, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	if title == "" {
		return "", "", apperror.ValidationFailed("title", "title is required")
	}
	if len(title) > MaxTitleLength {
		return "", "", apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	if description == "" {
		return "", "", apperror.ValidationFailed("description", "description is required")
	}
	return title, description, nil
}

// Create validates and saves a new todo.
func (s *TodoService) Create(ctx context.Context, title, description string, completed bool) (*model.Todo, error) {
	title, description, err := validateFields(title, description)
	if err != nil {
		return nil, err
	}

	todo := &model.Todo{
		Title:       title,
		Description: description,
		Completed:   completed,
	}

	if err := s.repo.Create(ctx, todo); err != nil {
		s.logger.Error("failed to create todo",
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating todo: %w", err)
	}

	s.logger.Info("todo created", slog.String("id", todo.ID), slog.String("title", todo.Title))
	return todo, nil
}

// GetByID retrieves one todo; NotFound propagates from the repository.
func (s *TodoService) GetByID(ctx context.Context, id string) (*model.Todo, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "todo ID is required")
	}
	return s.repo.GetByID(ctx, id)
}

// List retrieves todos with pagination, clamping the limit to a sane range.
func (s *TodoService) List(ctx context.Context, limit, offset int) ([]model.Todo, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	todos, err := s.repo.List(ctx, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		s.logger.Error("failed to list todos", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	return todos, nil
}

// Update replaces a todo's fields (PUT semantics: the full body wins).
// Fetch-then-update so "not found" is reported consistently and the
// caller gets the complete updated record back.
func (s *TodoService) Update(ctx context.Context, id, title, description string, completed bool) (*model.Todo, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "todo ID is required")
	}

	title, description, err := validateFields(title, description)
	if err != nil {
		return nil, err
	}

	todo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	todo.Title = title
	todo.Description = description
	todo.Completed = completed

	if err := s.repo.Update(ctx, todo); err != nil {
		s.logger.Error("failed to update todo",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating todo: %w", err)
	}

	s.logger.Info("todo updated", slog.String("id", todo.ID))
	return todo, nil
}

// Delete removes a todo by ID.
func (s *TodoService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "todo ID is required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("todo deleted", slog.String("id", id))
	return nil
}
