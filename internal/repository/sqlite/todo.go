package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/scriptlab/internal/apperror"
	"github.com/sakif/scriptlab/internal/model"
	"github.com/sakif/scriptlab/internal/repository"
)

// Compile-time check that *DB satisfies the repository interface.
var _ repository.TodoRepository = (*DB)(nil)

// Create inserts a new todo, filling in its ID and timestamps.
// IDs are xid strings: URL-safe, 20 chars, sortable by creation time.
func (db *DB) Create(ctx context.Context, todo *model.Todo) error {
	todo.ID = xid.New().String()

	now := time.Now().UTC()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO todos (id, title, description, completed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		todo.ID,
		todo.Title,
		todo.Description,
		todo.Completed,
		todo.CreatedAt,
		todo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating todo: %w", err)
	}

	return nil
}

// GetByID returns one todo, or apperror.ErrNotFound.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Todo, error) {
	var todo model.Todo

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, description, completed, created_at, updated_at
		 FROM todos
		 WHERE id = ?`,
		id,
	).Scan(
		&todo.ID,
		&todo.Title,
		&todo.Description,
		&todo.Completed,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("todo", id)
		}
		return nil, fmt.Errorf("sqlite: getting todo %s: %w", id, err)
	}

	return &todo, nil
}

// List returns todos ordered oldest first, with pagination.
func (db *DB) List(ctx context.Context, opts repository.ListOptions) ([]model.Todo, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, description, completed, created_at, updated_at
		 FROM todos
		 ORDER BY created_at ASC, id ASC
		 LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing todos: %w", err)
	}
	defer rows.Close()

	todos := []model.Todo{}
	for rows.Next() {
		var todo model.Todo
		if err := rows.Scan(
			&todo.ID,
			&todo.Title,
			&todo.Description,
			&todo.Completed,
			&todo.CreatedAt,
			&todo.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning todo row: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating todo rows: %w", err)
	}

	return todos, nil
}

// Update saves a modified todo and bumps its UpdatedAt.
func (db *DB) Update(ctx context.Context, todo *model.Todo) error {
	todo.UpdatedAt = time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE todos
		 SET title = ?, description = ?, completed = ?, updated_at = ?
		 WHERE id = ?`,
		todo.Title,
		todo.Description,
		todo.Completed,
		todo.UpdatedAt,
		todo.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating todo %s: %w", todo.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of todo %s: %w", todo.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("todo", todo.ID)
	}

	return nil
}

// Delete removes a todo, or returns apperror.ErrNotFound.
func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting todo %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete of todo %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("todo", id)
	}

	return nil
}
