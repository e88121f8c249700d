// internal/service/task_manager.go
package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/gurkanbulca/todo/internal/models"
	"github.com/gurkanbulca/todo/internal/repository"
)

// NewTaskInput holds the caller-supplied fields of a new task.
// A zero Priority means the default.
type NewTaskInput struct {
	Title       string
	Description string
	Tags        []string
	Priority    models.Priority
}

// ListFilter narrows a listing. Zero value returns every task.
type ListFilter struct {
	Tag    string
	Status models.StatusFilter
}

// Stats summarizes a collection
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// Manager owns one task collection in memory and writes the whole collection
// back to its repository after every successful mutation.
type Manager struct {
	mu    sync.Mutex
	store repository.TaskRepository
	tasks []models.Task
}

// NewManager hydrates the collection from store. A failed load is logged and
// the manager starts empty.
func NewManager(ctx context.Context, store repository.TaskRepository) *Manager {
	tasks, err := store.Load(ctx)
	if err != nil {
		log.Printf("[ERROR] Failed to load tasks, starting with an empty list: %v", err)
		tasks = nil
	}
	return newManager(store, tasks)
}

func newManager(store repository.TaskRepository, tasks []models.Task) *Manager {
	if tasks == nil {
		tasks = []models.Task{}
	}

	return &Manager{
		store: store,
		tasks: tasks,
	}
}

// Add validates and appends a new task
func (m *Manager) Add(ctx context.Context, input NewTaskInput) (models.Task, error) {
	task, err := models.NewTask(input.Title, input.Description, input.Tags, input.Priority)
	if err != nil {
		return models.Task{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]models.Task, 0, len(m.tasks)+1)
	next = append(next, m.tasks...)
	next = append(next, task)

	if err := m.commit(ctx, next); err != nil {
		return models.Task{}, err
	}
	return task.Clone(), nil
}

// List returns the tasks carrying tag (case-insensitive), or every task when
// tag is blank, ordered by priority then newest first.
func (m *Manager) List(tag string) []models.Task {
	return m.ListFiltered(ListFilter{Tag: tag})
}

// ListFiltered is List with an additional completion filter
func (m *Manager) ListFiltered(filter ListFilter) []models.Task {
	tag := strings.TrimSpace(filter.Tag)

	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]models.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if tag != "" && !t.HasTag(tag) {
			continue
		}
		if !filter.Status.Matches(t) {
			continue
		}
		result = append(result, t.Clone())
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Priority != result[j].Priority {
			return result[i].Priority > result[j].Priority
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// Get returns the task with id
func (m *Manager) Get(id uuid.UUID) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}
	return m.tasks[i].Clone(), nil
}

// Update replaces the provided fields of the task with id. Text fields are
// trimmed and the title must stay non-blank.
func (m *Manager) Update(ctx context.Context, id uuid.UUID, update models.TaskUpdate) (models.Task, error) {
	update, err := normalizeUpdate(update)
	if err != nil {
		return models.Task{}, err
	}

	return m.replace(ctx, id, func(t models.Task) models.Task {
		return t.Update(update)
	})
}

// Toggle flips the completion state of the task with id
func (m *Manager) Toggle(ctx context.Context, id uuid.UUID) (models.Task, error) {
	return m.replace(ctx, id, models.Task.Toggle)
}

// Complete marks the task with id as done. An already completed task is
// returned unchanged without touching the store.
func (m *Manager) Complete(ctx context.Context, id uuid.UUID) (models.Task, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return models.Task{}, false, fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}
	if m.tasks[i].IsCompleted {
		return m.tasks[i].Clone(), false, nil
	}

	task, err := m.swap(ctx, i, m.tasks[i].Toggle())
	if err != nil {
		return models.Task{}, false, err
	}
	return task, true, nil
}

// Delete removes the task with id. An unknown id is not an error; the result
// reports whether a task was removed and the store is only written if so.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return false, nil
	}

	next := make([]models.Task, 0, len(m.tasks)-1)
	next = append(next, m.tasks[:i]...)
	next = append(next, m.tasks[i+1:]...)

	if err := m.commit(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// ClearCompleted removes every completed task and returns how many were removed
func (m *Manager) ClearCompleted(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]models.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if !t.IsCompleted {
			next = append(next, t)
		}
	}

	removed := len(m.tasks) - len(next)
	if removed == 0 {
		return 0, nil
	}
	if err := m.commit(ctx, next); err != nil {
		return 0, err
	}
	return removed, nil
}

// Stats counts the tasks by completion state
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := Stats{Total: len(m.tasks)}
	for _, t := range m.tasks {
		if t.IsCompleted {
			stats.Completed++
		}
	}
	stats.Pending = stats.Total - stats.Completed
	return stats
}

// replace swaps the task with id for fn(task) and persists the collection
func (m *Manager) replace(ctx context.Context, id uuid.UUID, fn func(models.Task) models.Task) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}

	return m.swap(ctx, i, fn(m.tasks[i]))
}

// swap persists the collection with position i replaced. Must be called with mu held.
func (m *Manager) swap(ctx context.Context, i int, updated models.Task) (models.Task, error) {
	next := make([]models.Task, len(m.tasks))
	copy(next, m.tasks)
	next[i] = updated

	if err := m.commit(ctx, next); err != nil {
		return models.Task{}, err
	}
	return updated.Clone(), nil
}

// commit saves next and only then makes it the current collection, so a
// failed save leaves memory as it was. Must be called with mu held.
func (m *Manager) commit(ctx context.Context, next []models.Task) error {
	if err := m.store.Save(ctx, next); err != nil {
		log.Printf("[ERROR] Failed to save tasks: %v", err)
		return fmt.Errorf("%w: %w", models.ErrPersistence, err)
	}
	m.tasks = next
	return nil
}

func (m *Manager) indexOf(id uuid.UUID) int {
	for i, t := range m.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func normalizeUpdate(u models.TaskUpdate) (models.TaskUpdate, error) {
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			return u, fmt.Errorf("%w: task title is required and cannot be blank", models.ErrValidation)
		}
		u.Title = &title
	}
	if u.Description != nil {
		description := strings.TrimSpace(*u.Description)
		u.Description = &description
	}
	if u.Tags != nil {
		u.Tags = models.NormalizeTags(u.Tags)
	}
	if u.Priority != nil && !u.Priority.Valid() {
		return u, fmt.Errorf("%w: invalid priority %d", models.ErrValidation, int(*u.Priority))
	}
	return u, nil
}
