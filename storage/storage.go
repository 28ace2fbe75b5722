package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/0n0123/kanban/domain"
)

// Store provides access to the durable task table. A single handle is
// shared by all connections; SQLite statement atomicity is the only
// coordination between concurrent writers.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the database at path, ensures the task
// table exists and compacts the file. Errors here are fatal to startup.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS task (id TEXT PRIMARY KEY, top REAL, left REAL, text TEXT, color TEXT)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create task table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idindex ON task(id)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create id index: %w", err)
	}
	if _, err := db.Exec(`VACUUM`); err != nil {
		db.Close()
		return nil, fmt.Errorf("compact database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ListAll returns every task ordered by insertion, which is also the
// board's stacking order.
func (s *Store) ListAll(ctx context.Context) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, top, left, text, color FROM task ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		var (
			id        string
			top, left sql.NullFloat64
			text      sql.NullString
			color     sql.NullString
		)
		if err := rows.Scan(&id, &top, &left, &text, &color); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, domain.Task{
			ID:    id,
			Pos:   domain.Position{Top: top.Float64, Left: left.Float64},
			Text:  text.String,
			Color: domain.NormalizeColor(domain.Color(color.String)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	return tasks, nil
}

// Create inserts the candidate with a freshly minted id, ignoring any id
// the client supplied, and returns the stored task.
func (s *Store) Create(ctx context.Context, candidate domain.Task) (domain.Task, error) {
	task := domain.Task{
		ID:    domain.NewTaskID(),
		Pos:   candidate.Pos,
		Text:  candidate.Text,
		Color: domain.NormalizeColor(candidate.Color),
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO task VALUES(?, ?, ?, ?, ?)`,
		task.ID, task.Pos.Top, task.Pos.Left, task.Text, string(task.Color),
	); err != nil {
		return domain.Task{}, fmt.Errorf("insert task %s: %w", task.ID, err)
	}
	return task, nil
}

// Delete removes the task. Deleting a missing id succeeds.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM task WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

// SetColor updates the task's color. Updating a missing id succeeds.
func (s *Store) SetColor(ctx context.Context, id string, color domain.Color) error {
	color = domain.NormalizeColor(color)
	if _, err := s.db.ExecContext(ctx, `UPDATE task SET color = ? WHERE id = ?`, string(color), id); err != nil {
		return fmt.Errorf("update color of task %s: %w", id, err)
	}
	return nil
}

// SetText updates the task's text. Updating a missing id succeeds.
func (s *Store) SetText(ctx context.Context, id string, text string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE task SET text = ? WHERE id = ?`, text, id); err != nil {
		return fmt.Errorf("update text of task %s: %w", id, err)
	}
	return nil
}

// SetPosition updates the task's coordinates. Updating a missing id succeeds.
func (s *Store) SetPosition(ctx context.Context, id string, pos domain.Position) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE task SET top = ?, left = ? WHERE id = ?`, pos.Top, pos.Left, id); err != nil {
		return fmt.Errorf("move task %s: %w", id, err)
	}
	return nil
}

// RaiseToFront re-inserts the task so it becomes the most recently inserted
// row again, which raises it in the stacking order. The read, delete and
// re-insert run in one transaction; a missing id reports
// domain.ErrTaskNotFound and leaves storage unchanged.
func (s *Store) RaiseToFront(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin raise of task %s: %w", id, err)
	}
	defer tx.Rollback()

	var (
		top, left sql.NullFloat64
		text      sql.NullString
		color     sql.NullString
	)
	err = tx.QueryRowContext(ctx, `SELECT top, left, text, color FROM task WHERE id = ?`, id).
		Scan(&top, &left, &text, &color)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("raise task %s: %w", id, domain.ErrTaskNotFound)
	}
	if err != nil {
		return fmt.Errorf("read task %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM task WHERE id = ?`, id); err != nil {
		return fmt.Errorf("raise task %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO task VALUES(?, ?, ?, ?, ?)`, id, top, left, text, color); err != nil {
		return fmt.Errorf("raise task %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("raise task %s: %w", id, err)
	}
	return nil
}
