package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/scriptlab/internal/apperror"
	"github.com/sakif/scriptlab/internal/model"
	"github.com/sakif/scriptlab/internal/repository"
)

var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new account. A duplicate username surfaces as
// apperror.ErrConflict so the handler can answer 409 instead of 500.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		// modernc.org/sqlite reports constraint violations by message;
		// it has no typed error for them.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperror.Conflict("user", user.Username)
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	return nil
}

// GetUserByID returns one user, or apperror.ErrNotFound.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `WHERE id = ?`, id)
}

// GetUserByUsername returns one user, or apperror.ErrNotFound.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getUser(ctx, `WHERE username = ?`, username)
}

func (db *DB) getUser(ctx context.Context, where, arg string) (*model.User, error) {
	var user model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at, updated_at
		 FROM users `+where,
		arg,
	).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", arg)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", arg, err)
	}

	return &user, nil
}
