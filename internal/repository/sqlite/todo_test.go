package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/scriptlab/internal/apperror"
	"github.com/sakif/scriptlab/internal/model"
	"github.com/sakif/scriptlab/internal/repository"
)

// newTestDB opens a fresh in-memory database per test: fast, isolated,
// and destroyed when the connection closes.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestTodo(t *testing.T, db *DB, title, description string) *model.Todo {
	t.Helper()
	todo := &model.Todo{Title: title, Description: description}
	if err := db.Create(context.Background(), todo); err != nil {
		t.Fatalf("failed to create test todo: %v", err)
	}
	return todo
}

func TestTodoCreate(t *testing.T) {
	db := newTestDB(t)

	todo := &model.Todo{
		Title:       "Buy groceries",
		Description: "Milk, bread, eggs",
	}

	if err := db.Create(context.Background(), todo); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if todo.ID == "" {
		t.Error("Create() did not set todo.ID")
	}
	if todo.CreatedAt.IsZero() {
		t.Error("Create() did not set todo.CreatedAt")
	}
	if todo.UpdatedAt.IsZero() {
		t.Error("Create() did not set todo.UpdatedAt")
	}
}

func TestTodoCreate_VerifyPersistence(t *testing.T) {
	db := newTestDB(t)

	original := createTestTodo(t, db, "Write tests", "Repository layer first")

	found, err := db.GetByID(context.Background(), original.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if found.Title != original.Title {
		t.Errorf("Title = %q, want %q", found.Title, original.Title)
	}
	if found.Description != original.Description {
		t.Errorf("Description = %q, want %q", found.Description, original.Description)
	}
	if found.Completed {
		t.Error("new todo should not be completed")
	}
}

func TestTodoGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), "does-not-exist")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestTodoList_Pagination(t *testing.T) {
	db := newTestDB(t)

	for _, title := range []string{"first", "second", "third"} {
		createTestTodo(t, db, title, "d")
	}

	page, err := db.List(context.Background(), repository.ListOptions{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("List(limit=2) returned %d todos", len(page))
	}
	if page[0].Title != "first" {
		t.Errorf("first page starts with %q, want %q", page[0].Title, "first")
	}

	rest, err := db.List(context.Background(), repository.ListOptions{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rest) != 1 || rest[0].Title != "third" {
		t.Errorf("second page = %+v, want just %q", rest, "third")
	}
}

func TestTodoUpdate(t *testing.T) {
	db := newTestDB(t)

	todo := createTestTodo(t, db, "before", "desc")
	todo.Title = "after"
	todo.Completed = true

	if err := db.Update(context.Background(), todo); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := db.GetByID(context.Background(), todo.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Title != "after" {
		t.Errorf("Title = %q, want %q", found.Title, "after")
	}
	if !found.Completed {
		t.Error("Completed = false, want true")
	}
}

func TestTodoUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Update(context.Background(), &model.Todo{ID: "ghost", Title: "x"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestTodoDelete(t *testing.T) {
	db := newTestDB(t)

	todo := createTestTodo(t, db, "doomed", "d")

	if err := db.Delete(context.Background(), todo.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := db.GetByID(context.Background(), todo.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}

	if err := db.Delete(context.Background(), todo.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
