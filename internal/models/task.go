// internal/models/task.go
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task is an immutable value. Toggle and Update return new values and never
// modify the receiver; ID and CreatedAt survive every transition.
type Task struct {
	ID          uuid.UUID
	Title       string
	Description string
	IsCompleted bool
	Tags        []string
	Priority    Priority
	CreatedAt   time.Time
}

// TaskUpdate carries the fields to replace. Nil pointers keep the prior value;
// a nil Tags slice keeps the prior tags while an empty non-nil slice clears them.
type TaskUpdate struct {
	Title       *string
	Description *string
	Tags        []string
	Priority    *Priority
}

// IsEmpty reports whether the update would change nothing
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Tags == nil && u.Priority == nil
}

// NewTask builds a validated task with a fresh id and the current UTC time
func NewTask(title, description string, tags []string, priority Priority) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, fmt.Errorf("%w: task title is required and cannot be blank", ErrValidation)
	}
	if priority == 0 {
		priority = DefaultPriority
	}
	if !priority.Valid() {
		return Task{}, fmt.Errorf("%w: invalid priority %d", ErrValidation, int(priority))
	}

	return Task{
		ID:          uuid.New(),
		Title:       title,
		Description: strings.TrimSpace(description),
		Tags:        NormalizeTags(tags),
		Priority:    priority,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Toggle returns a copy with the completion flag inverted
func (t Task) Toggle() Task {
	next := t.Clone()
	next.IsCompleted = !t.IsCompleted
	return next
}

// Update returns a copy with the provided fields replaced. ID, IsCompleted and
// CreatedAt are never touched.
func (t Task) Update(u TaskUpdate) Task {
	next := t.Clone()
	if u.Title != nil {
		next.Title = *u.Title
	}
	if u.Description != nil {
		next.Description = *u.Description
	}
	if u.Tags != nil {
		next.Tags = append([]string{}, u.Tags...)
	}
	if u.Priority != nil {
		next.Priority = *u.Priority
	}
	return next
}

// HasTag reports whether any tag equals tag, ignoring case
func (t Task) HasTag(tag string) bool {
	for _, candidate := range t.Tags {
		if strings.EqualFold(candidate, tag) {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no memory with t
func (t Task) Clone() Task {
	next := t
	next.Tags = append([]string{}, t.Tags...)
	return next
}

// NormalizeTags trims every tag and drops the blank ones. Order and duplicates are kept.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// ParseTagList splits a comma separated tag string, e.g. "Work, Urgent"
func ParseTagList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return NormalizeTags(strings.Split(s, ","))
}
