// Package repository declares the storage interfaces consumed by the
// service layer. Services depend on these interfaces, never on the
// concrete sqlite implementation, so tests can substitute in-memory
// mocks and the backend can be swapped without touching business logic.
package repository

import (
	"context"

	"github.com/sakif/scriptlab/internal/model"
)

// ListOptions carries pagination parameters for listing queries.
type ListOptions struct {
	Limit  int
	Offset int
}

// TodoRepository persists todo items.
type TodoRepository interface {
	Create(ctx context.Context, todo *model.Todo) error
	GetByID(ctx context.Context, id string) (*model.Todo, error)
	List(ctx context.Context, opts ListOptions) ([]model.Todo, error)
	Update(ctx context.Context, todo *model.Todo) error
	Delete(ctx context.Context, id string) error
}

// UserRepository persists user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}
