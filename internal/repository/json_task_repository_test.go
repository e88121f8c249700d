// internal/repository/json_task_repository_test.go
package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/todo/internal/models"
)

func newTestTask(t *testing.T, title string, tags []string, priority models.Priority) models.Task {
	task, err := models.NewTask(title, "desc of "+title, tags, priority)
	require.NoError(t, err)
	return task
}

func writeFile(t *testing.T, path, content string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestJSONTaskRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewJSONTaskRepository(filepath.Join(t.TempDir(), "tasks.json"))

	first := newTestTask(t, "Buy milk", []string{"shop", "home"}, models.PriorityHigh)
	second := newTestTask(t, "Write report", nil, models.PriorityLow)
	second = second.Toggle()

	require.NoError(t, repo.Save(ctx, []models.Task{first, second}))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, first.ID, loaded[0].ID)
	assert.Equal(t, first.Title, loaded[0].Title)
	assert.Equal(t, first.Description, loaded[0].Description)
	assert.Equal(t, []string{"shop", "home"}, loaded[0].Tags)
	assert.Equal(t, models.PriorityHigh, loaded[0].Priority)
	assert.True(t, first.CreatedAt.Equal(loaded[0].CreatedAt))
	assert.False(t, loaded[0].IsCompleted)

	assert.Equal(t, second.ID, loaded[1].ID)
	assert.True(t, loaded[1].IsCompleted)
	assert.Equal(t, []string{}, loaded[1].Tags)
	assert.Equal(t, models.PriorityLow, loaded[1].Priority)
}

func TestJSONTaskRepository_SaveFormat(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tasks.json")
	repo := NewJSONTaskRepository(path)

	task := newTestTask(t, "Format", []string{"x"}, models.PriorityMedium)
	require.NoError(t, repo.Save(ctx, []models.Task{task}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "\n    {")
	assert.Contains(t, content, `"priority": "MEDIUM"`)
	assert.Contains(t, content, `"is_completed": false`)
	assert.Contains(t, content, `"id": "`+task.ID.String()+`"`)
	assert.Contains(t, content, `"created_at": "`+task.CreatedAt.Format(time.RFC3339Nano)+`"`)

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temp files must not be left behind")
}

func TestJSONTaskRepository_SaveEmptyOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := NewJSONTaskRepository(filepath.Join(t.TempDir(), "tasks.json"))

	require.NoError(t, repo.Save(ctx, []models.Task{newTestTask(t, "a", nil, 0)}))
	require.NoError(t, repo.Save(ctx, nil))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestJSONTaskRepository_LoadRecovers(t *testing.T) {
	goodID := uuid.New().String()

	tests := []struct {
		name     string
		content  *string
		expected []string
		tags     []string
	}{
		{
			name:     "missing file",
			content:  nil,
			expected: nil,
		},
		{
			name:     "empty file",
			content:  strPtr(""),
			expected: nil,
		},
		{
			name:     "whitespace only",
			content:  strPtr("  \n\t "),
			expected: nil,
		},
		{
			name:     "not json",
			content:  strPtr("this is {not json"),
			expected: nil,
		},
		{
			name:     "json object instead of array",
			content:  strPtr(`{"id": "x"}`),
			expected: nil,
		},
		{
			name: "one good record and one missing a field",
			content: strPtr(`[
				{"id": "` + goodID + `", "title": "Good", "description": "", "is_completed": false,
				 "tags": ["a"], "priority": "HIGH", "created_at": "2024-03-01T10:00:00Z"},
				{"id": "` + uuid.New().String() + `", "description": "", "is_completed": false,
				 "created_at": "2024-03-01T10:00:00Z"}
			]`),
			expected: []string{"Good"},
		},
		{
			name: "bad priority and bad timestamp are skipped",
			content: strPtr(`[
				{"id": "` + uuid.New().String() + `", "title": "Bad priority", "description": "", "is_completed": false,
				 "priority": "URGENT", "created_at": "2024-03-01T10:00:00Z"},
				{"id": "` + uuid.New().String() + `", "title": "Bad time", "description": "", "is_completed": false,
				 "created_at": "yesterday"},
				{"id": "` + goodID + `", "title": "Good", "description": "", "is_completed": true,
				 "created_at": "2024-03-01T10:00:00"}
			]`),
			expected: []string{"Good"},
		},
		{
			name: "duplicate ids keep the first",
			content: strPtr(`[
				{"id": "` + goodID + `", "title": "First", "description": "", "is_completed": false,
				 "created_at": "2024-03-01T10:00:00Z"},
				{"id": "` + goodID + `", "title": "Second", "description": "", "is_completed": false,
				 "created_at": "2024-03-01T10:00:00Z"}
			]`),
			expected: []string{"First"},
		},
		{
			name: "padded title and tags are trimmed",
			content: strPtr(`[
				{"id": "` + goodID + `", "title": "  padded  ", "description": " d ", "is_completed": false,
				 "tags": [null, " Work ", ""], "created_at": "2024-03-01T10:00:00Z"}
			]`),
			expected: []string{"padded"},
			tags:     []string{"Work"},
		},
		{
			name:     "non-object element",
			content:  strPtr(`[42, "text"]`),
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tasks.json")
			if tt.content != nil {
				writeFile(t, path, *tt.content)
			}

			loaded, err := NewJSONTaskRepository(path).Load(context.Background())
			require.NoError(t, err)
			require.NotNil(t, loaded)

			titles := make([]string, 0, len(loaded))
			for _, task := range loaded {
				titles = append(titles, task.Title)
			}
			if tt.expected == nil {
				assert.Empty(t, titles)
			} else {
				assert.Equal(t, tt.expected, titles)
			}
			if tt.tags != nil {
				assert.Equal(t, tt.tags, loaded[0].Tags)
				assert.True(t, loaded[0].HasTag("work"))
			}
		})
	}
}

func TestJSONTaskRepository_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	writeFile(t, path, `[{"id": "`+uuid.New().String()+`", "title": "Legacy", "description": "old",
		"is_completed": true, "created_at": "2023-12-31 23:59:59.5"}]`)

	loaded, err := NewJSONTaskRepository(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	task := loaded[0]
	assert.Equal(t, []string{}, task.Tags)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, time.Date(2023, 12, 31, 23, 59, 59, 500_000_000, time.UTC), task.CreatedAt)
	assert.True(t, task.IsCompleted)
}

func TestJSONTaskRepository_LowercasePriority(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	writeFile(t, path, `[{"id": "`+uuid.New().String()+`", "title": "Lower", "description": "",
		"is_completed": false, "priority": "low", "created_at": "2024-01-01T00:00:00+02:00"}]`)

	loaded, err := NewJSONTaskRepository(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, models.PriorityLow, loaded[0].Priority)
	assert.Equal(t, time.Date(2023, 12, 31, 22, 0, 0, 0, time.UTC), loaded[0].CreatedAt)
}

func TestJSONTaskRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewJSONTaskRepository(filepath.Join(t.TempDir(), "tasks.json"))
	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, repo.Save(ctx, nil), context.Canceled)
}

func TestJSONRepositories_ReadMissingFileCreatesNothing(t *testing.T) {
	tests := []struct {
		name string
		file string
		read func(ctx context.Context, path string) (int, error)
	}{
		{
			name: "task load",
			file: "tasks.json",
			read: func(ctx context.Context, path string) (int, error) {
				tasks, err := NewJSONTaskRepository(path).Load(ctx)
				return len(tasks), err
			},
		},
		{
			name: "user list",
			file: "users.json",
			read: func(ctx context.Context, path string) (int, error) {
				users, err := NewJSONUserRepository(path).List(ctx)
				return len(users), err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "missing")
			path := filepath.Join(dir, tt.file)

			n, err := tt.read(context.Background(), path)
			require.NoError(t, err)
			assert.Zero(t, n)

			assert.NoDirExists(t, dir)
			assert.NoFileExists(t, path+lockSuffix)
		})
	}
}

func TestJSONTaskRepositoryFactory(t *testing.T) {
	dir := t.TempDir()
	factory := NewJSONTaskRepositoryFactory(dir)

	alice, err := factory("alice")
	require.NoError(t, err)
	bob, err := factory("bob")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, alice.Save(ctx, []models.Task{newTestTask(t, "alice task", nil, 0)}))

	fromBob, err := bob.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, fromBob)

	assert.FileExists(t, filepath.Join(dir, "tasks_alice.json"))
	assert.Equal(t, filepath.Join(dir, "tasks_alice.json"), alice.(*JSONTaskRepository).Path())
}

func TestOwnerFileName(t *testing.T) {
	tests := []struct {
		owner    string
		expected string
	}{
		{"alice", "tasks_alice.json"},
		{"Alice", "tasks_alice.json"},
		{"  bob  ", "tasks_bob.json"},
		{"john.doe@example.com", "tasks_john_doe_example_com.json"},
		{"../../etc/passwd", "tasks__etc_passwd.json"},
		{"team-1_dev", "tasks_team-1_dev.json"},
		{"", "tasks_default.json"},
	}

	for _, tt := range tests {
		t.Run(tt.owner, func(t *testing.T) {
			assert.Equal(t, tt.expected, OwnerFileName(tt.owner))
		})
	}
}

func strPtr(s string) *string {
	return &s
}
