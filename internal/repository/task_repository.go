// internal/repository/task_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gurkanbulca/todo/internal/models"
)

// TaskRepository loads and saves one owner's whole task collection.
// Save always receives the entire collection and replaces what was stored.
type TaskRepository interface {
	Load(ctx context.Context) ([]models.Task, error)
	Save(ctx context.Context, tasks []models.Task) error
}

// TaskRepositoryFactory opens the repository that backs a single owner
type TaskRepositoryFactory func(ownerID string) (TaskRepository, error)

var errCorruptRecord = errors.New("corrupt task record")

// taskRecord is the persisted shape of a task. Pointer fields let the decoder
// tell a missing field from a zero value.
type taskRecord struct {
	ID          *string  `json:"id"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	IsCompleted *bool    `json:"is_completed"`
	Tags        []string `json:"tags"`
	Priority    *string  `json:"priority"`
	CreatedAt   *string  `json:"created_at"`
}

func encodeTask(t models.Task) taskRecord {
	id := t.ID.String()
	priority := t.Priority.String()
	createdAt := t.CreatedAt.UTC().Format(time.RFC3339Nano)
	tags := append([]string{}, t.Tags...)

	return taskRecord{
		ID:          &id,
		Title:       &t.Title,
		Description: &t.Description,
		IsCompleted: &t.IsCompleted,
		Tags:        tags,
		Priority:    &priority,
		CreatedAt:   &createdAt,
	}
}

// decode converts a record back to a task. Tags and priority are optional and
// default to empty and MEDIUM; every other field is required. Text is trimmed
// and blank tags are dropped, as for a new task.
func (r taskRecord) decode() (models.Task, error) {
	var missing []string
	if r.ID == nil {
		missing = append(missing, "id")
	}
	if r.Title == nil {
		missing = append(missing, "title")
	}
	if r.Description == nil {
		missing = append(missing, "description")
	}
	if r.IsCompleted == nil {
		missing = append(missing, "is_completed")
	}
	if r.CreatedAt == nil {
		missing = append(missing, "created_at")
	}
	if len(missing) > 0 {
		return models.Task{}, fmt.Errorf("%w: missing %s", errCorruptRecord, strings.Join(missing, ", "))
	}

	id, err := uuid.Parse(*r.ID)
	if err != nil {
		return models.Task{}, fmt.Errorf("%w: id: %v", errCorruptRecord, err)
	}

	if strings.TrimSpace(*r.Title) == "" {
		return models.Task{}, fmt.Errorf("%w: blank title", errCorruptRecord)
	}

	priority := models.DefaultPriority
	if r.Priority != nil {
		if priority, err = models.ParsePriority(*r.Priority); err != nil {
			return models.Task{}, fmt.Errorf("%w: %v", errCorruptRecord, err)
		}
	}

	createdAt, err := parseTimestamp(*r.CreatedAt)
	if err != nil {
		return models.Task{}, fmt.Errorf("%w: created_at: %v", errCorruptRecord, err)
	}

	return models.Task{
		ID:          id,
		Title:       strings.TrimSpace(*r.Title),
		Description: strings.TrimSpace(*r.Description),
		IsCompleted: *r.IsCompleted,
		Tags:        models.NormalizeTags(r.Tags),
		Priority:    priority,
		CreatedAt:   createdAt,
	}, nil
}

// Zone-less layouts written by older versions are read as UTC
var legacyTimestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts.UTC(), nil
	}
	for _, layout := range legacyTimestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("not an ISO-8601 timestamp: %q", s)
}

var unsafeOwnerChars = regexp.MustCompile(`[^a-z0-9_\-]+`)

// OwnerFileName derives the per-owner task file name, e.g. tasks_alice.json
func OwnerFileName(ownerID string) string {
	name := unsafeOwnerChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(ownerID)), "_")
	if name == "" {
		name = "default"
	}
	return "tasks_" + name + ".json"
}
