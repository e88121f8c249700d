// internal/repository/json_task_repository.go
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/gurkanbulca/todo/internal/models"
)

// JSONTaskRepository stores a collection as a JSON array in a single file.
// Access from several processes is serialized with a file lock.
type JSONTaskRepository struct {
	path string
	lock *flock.Flock
}

func NewJSONTaskRepository(path string) *JSONTaskRepository {
	return &JSONTaskRepository{
		path: path,
		lock: newFileLock(path),
	}
}

// NewJSONTaskRepositoryFactory opens one file per owner inside dir
func NewJSONTaskRepositoryFactory(dir string) TaskRepositoryFactory {
	return func(ownerID string) (TaskRepository, error) {
		return NewJSONTaskRepository(filepath.Join(dir, OwnerFileName(ownerID))), nil
	}
}

// Path returns the backing file
func (r *JSONTaskRepository) Path() string {
	return r.path
}

// Load never fails on bad content. A missing, empty or unparsable file yields an
// empty collection and malformed entries are skipped one by one.
func (r *JSONTaskRepository) Load(ctx context.Context) ([]models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if missing(r.path) {
		return []models.Task{}, nil
	}

	if err := r.lock.RLock(); err != nil {
		return nil, fmt.Errorf("lock %s: %w", r.path, err)
	}
	defer func() { _ = r.lock.Unlock() }()

	data, err := readFileIfExists(r.path)
	if err != nil {
		log.Printf("[ERROR] Could not read %s (%v). Recovering with empty list.", r.path, err)
		return []models.Task{}, nil
	}

	return decodeTaskArray(data, r.path), nil
}

// Save rewrites the whole file with the given collection
func (r *JSONTaskRepository) Save(ctx context.Context, tasks []models.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	records := make([]taskRecord, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, encodeTask(t))
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}

	if err := ensureDir(r.path); err != nil {
		return err
	}
	if err := r.lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", r.path, err)
	}
	defer func() { _ = r.lock.Unlock() }()

	if err := writeFileAtomic(r.path, data); err != nil {
		return fmt.Errorf("save tasks to %s: %w", r.path, err)
	}
	return nil
}

func decodeTaskArray(data []byte, source string) []models.Task {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []models.Task{}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("[ERROR] Could not load data from %s (%v). Recovering with empty list.", source, err)
		return []models.Task{}
	}

	tasks := make([]models.Task, 0, len(items))
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		var rec taskRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			log.Printf("[WARN] Skipping corrupted task entry %d in %s: %v", i, source, err)
			continue
		}
		task, err := rec.decode()
		if err != nil {
			log.Printf("[WARN] Skipping corrupted task entry %d in %s: %v", i, source, err)
			continue
		}
		if seen[task.ID.String()] {
			log.Printf("[WARN] Skipping duplicate task %s in %s", task.ID, source)
			continue
		}
		seen[task.ID.String()] = true
		tasks = append(tasks, task)
	}
	return tasks
}
