// internal/repository/sql_task_repository.go
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/gurkanbulca/todo/internal/models"
)

// SQLTaskRepository keeps one owner's collection in the shared tasks table.
// Rows carry their position so the collection order survives a round trip.
type SQLTaskRepository struct {
	db      *sqlx.DB
	ownerID string
}

func NewSQLTaskRepository(db *sqlx.DB, ownerID string) *SQLTaskRepository {
	return &SQLTaskRepository{
		db:      db,
		ownerID: ownerID,
	}
}

// NewSQLTaskRepositoryFactory scopes a repository per owner on a shared connection pool
func NewSQLTaskRepositoryFactory(db *sqlx.DB) TaskRepositoryFactory {
	return func(ownerID string) (TaskRepository, error) {
		if ownerID == "" {
			return nil, fmt.Errorf("owner id is required")
		}
		return NewSQLTaskRepository(db, ownerID), nil
	}
}

type taskRow struct {
	ID          string `db:"id"`
	OwnerID     string `db:"owner_id"`
	Position    int    `db:"position"`
	Title       string `db:"title"`
	Description string `db:"description"`
	IsCompleted bool   `db:"is_completed"`
	Tags        string `db:"tags"`
	Priority    string `db:"priority"`
	CreatedAt   string `db:"created_at"`
}

const insertTaskQuery = `
	INSERT INTO tasks (id, owner_id, position, title, description, is_completed, tags, priority, created_at)
	VALUES (:id, :owner_id, :position, :title, :description, :is_completed, :tags, :priority, :created_at)`

func (r *SQLTaskRepository) Load(ctx context.Context) ([]models.Task, error) {
	var rows []taskRow
	query := r.db.Rebind(`
		SELECT id, owner_id, position, title, description, is_completed, tags, priority, created_at
		FROM tasks WHERE owner_id = ? ORDER BY position`)
	if err := r.db.SelectContext(ctx, &rows, query, r.ownerID); err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	tasks := make([]models.Task, 0, len(rows))
	for _, row := range rows {
		task, err := row.decode()
		if err != nil {
			log.Printf("[WARN] Skipping corrupted task row %s for owner %s: %v", row.ID, r.ownerID, err)
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// Save replaces every row of the owner inside one transaction
func (r *SQLTaskRepository) Save(ctx context.Context, tasks []models.Task) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM tasks WHERE owner_id = ?`), r.ownerID); err != nil {
		return rollback(tx, fmt.Errorf("clear tasks: %w", err))
	}

	for i, t := range tasks {
		row, err := encodeRow(t, r.ownerID, i)
		if err != nil {
			return rollback(tx, err)
		}
		if _, err := tx.NamedExecContext(ctx, insertTaskQuery, row); err != nil {
			return rollback(tx, fmt.Errorf("insert task %s: %w", t.ID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tasks: %w", err)
	}
	return nil
}

func encodeRow(t models.Task, ownerID string, position int) (taskRow, error) {
	rec := encodeTask(t)
	tags, err := json.Marshal(rec.Tags)
	if err != nil {
		return taskRow{}, fmt.Errorf("marshal tags: %w", err)
	}

	return taskRow{
		ID:          *rec.ID,
		OwnerID:     ownerID,
		Position:    position,
		Title:       *rec.Title,
		Description: *rec.Description,
		IsCompleted: *rec.IsCompleted,
		Tags:        string(tags),
		Priority:    *rec.Priority,
		CreatedAt:   *rec.CreatedAt,
	}, nil
}

func (row taskRow) decode() (models.Task, error) {
	var tags []string
	if row.Tags != "" {
		if err := json.Unmarshal([]byte(row.Tags), &tags); err != nil {
			return models.Task{}, fmt.Errorf("%w: tags: %v", errCorruptRecord, err)
		}
	}

	rec := taskRecord{
		ID:          &row.ID,
		Title:       &row.Title,
		Description: &row.Description,
		IsCompleted: &row.IsCompleted,
		Tags:        tags,
		Priority:    &row.Priority,
		CreatedAt:   &row.CreatedAt,
	}
	return rec.decode()
}

// Helper function for transaction rollback
func rollback(tx *sqlx.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		err = fmt.Errorf("%w: %v", err, rerr)
	}
	return err
}
