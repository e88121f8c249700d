// internal/models/task_test.go
package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		tags        []string
		priority    Priority
		wantErr     bool
		wantTitle   string
		wantTags    []string
		wantPrio    Priority
	}{
		{
			name:      "trims title",
			title:     " Buy milk ",
			wantTitle: "Buy milk",
			wantTags:  []string{},
			wantPrio:  PriorityMedium,
		},
		{
			name:    "empty title",
			title:   "",
			wantErr: true,
		},
		{
			name:    "whitespace title",
			title:   "   ",
			wantErr: true,
		},
		{
			name:      "tags trimmed and blanks dropped, duplicates kept",
			title:     "Report",
			tags:      []string{" Work ", "", "  ", "work", "Work"},
			priority:  PriorityHigh,
			wantTitle: "Report",
			wantTags:  []string{"Work", "work", "Work"},
			wantPrio:  PriorityHigh,
		},
		{
			name:     "unknown priority",
			title:    "x",
			priority: Priority(9),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := NewTask(tt.title, tt.description, tt.tags, tt.priority)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, task.Title)
			assert.Equal(t, tt.wantTags, task.Tags)
			assert.Equal(t, tt.wantPrio, task.Priority)
			assert.False(t, task.IsCompleted)
			assert.NotEqual(t, uuid.Nil, task.ID)
			assert.Equal(t, "UTC", task.CreatedAt.Location().String())
		})
	}
}

func TestTask_Toggle(t *testing.T) {
	original, err := NewTask("Walk dog", "around the block", []string{"home"}, PriorityLow)
	require.NoError(t, err)

	toggled := original.Toggle()
	assert.True(t, toggled.IsCompleted)
	assert.False(t, original.IsCompleted, "receiver must not change")
	assert.Equal(t, original.ID, toggled.ID)
	assert.True(t, original.CreatedAt.Equal(toggled.CreatedAt))
	assert.Equal(t, original.Title, toggled.Title)
	assert.Equal(t, original.Tags, toggled.Tags)

	// Self-inverse
	assert.Equal(t, original.IsCompleted, toggled.Toggle().IsCompleted)

	// No aliasing between the two values
	toggled.Tags[0] = "changed"
	assert.Equal(t, "home", original.Tags[0])
}

func TestTask_Update(t *testing.T) {
	original, err := NewTask("Old", "desc", []string{"a", "b"}, PriorityMedium)
	require.NoError(t, err)
	original = original.Toggle()

	newTitle := "New"
	high := PriorityHigh

	t.Run("partial update keeps omitted fields", func(t *testing.T) {
		updated := original.Update(TaskUpdate{Title: &newTitle})
		assert.Equal(t, "New", updated.Title)
		assert.Equal(t, "desc", updated.Description)
		assert.Equal(t, []string{"a", "b"}, updated.Tags)
		assert.Equal(t, PriorityMedium, updated.Priority)
		assert.Equal(t, "Old", original.Title)
	})

	t.Run("identity fields never change", func(t *testing.T) {
		updated := original.Update(TaskUpdate{Title: &newTitle, Priority: &high, Tags: []string{"c"}})
		assert.Equal(t, original.ID, updated.ID)
		assert.True(t, original.CreatedAt.Equal(updated.CreatedAt))
		assert.Equal(t, original.IsCompleted, updated.IsCompleted)
		assert.Equal(t, PriorityHigh, updated.Priority)
		assert.Equal(t, []string{"c"}, updated.Tags)
	})

	t.Run("empty tags clear, nil tags keep", func(t *testing.T) {
		assert.Empty(t, original.Update(TaskUpdate{Tags: []string{}}).Tags)
		assert.Equal(t, []string{"a", "b"}, original.Update(TaskUpdate{}).Tags)
		assert.True(t, TaskUpdate{}.IsEmpty())
	})
}

func TestTask_HasTag(t *testing.T) {
	task := Task{Tags: []string{"Work"}}

	assert.True(t, task.HasTag("work"))
	assert.True(t, task.HasTag("WORK"))
	assert.False(t, task.HasTag("wor"))
}

func TestParsePriority(t *testing.T) {
	for input, want := range map[string]Priority{
		"LOW":    PriorityLow,
		"medium": PriorityMedium,
		" High ": PriorityHigh,
	} {
		got, err := ParsePriority(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got)
	}

	_, err := ParsePriority("2")
	assert.ErrorIs(t, err, ErrValidation, "integers are not an accepted encoding")

	text, err := PriorityHigh.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "HIGH", string(text))

	_, err = Priority(0).MarshalText()
	assert.Error(t, err)
}

func TestParseTagList(t *testing.T) {
	assert.Equal(t, []string{"Work", "Urgent"}, ParseTagList("Work, Urgent"))
	assert.Equal(t, []string{}, ParseTagList("  "))
	assert.Equal(t, []string{"a"}, ParseTagList(",a,,"))
}
