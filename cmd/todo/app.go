// cmd/todo/app.go
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gurkanbulca/todo/internal/models"
	"github.com/gurkanbulca/todo/internal/repository"
	"github.com/gurkanbulca/todo/internal/service"
)

// localOwner is the single owner of a CLI task file
const localOwner = "local"

type app struct {
	file      string
	workspace *service.Workspace
}

// open lazily binds the workspace to the task file chosen by --file
func (a *app) open() *service.Workspace {
	if a.workspace == nil {
		store := repository.NewJSONTaskRepository(a.file)
		a.workspace = service.NewWorkspace(func(string) (repository.TaskRepository, error) {
			return store, nil
		})
	}
	return a.workspace
}

func (a *app) manager(ctx context.Context) (*service.Manager, error) {
	return a.open().Manager(ctx, localOwner)
}

// resolveID accepts a full id or a unique prefix of one
func resolveID(m *service.Manager, arg string) (uuid.UUID, error) {
	arg = strings.ToLower(strings.TrimSpace(arg))
	if id, err := uuid.Parse(arg); err == nil {
		return id, nil
	}
	if arg == "" {
		return uuid.Nil, fmt.Errorf("task id is required")
	}

	var matches []uuid.UUID
	for _, t := range m.List("") {
		if strings.HasPrefix(t.ID.String(), arg) {
			matches = append(matches, t.ID)
		}
	}

	switch len(matches) {
	case 0:
		return uuid.Nil, fmt.Errorf("no task matches %q: %w", arg, models.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return uuid.Nil, fmt.Errorf("%q matches %d tasks, use a longer prefix", arg, len(matches))
	}
}
