// internal/service/workspace.go
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/gurkanbulca/todo/internal/repository"
)

// Workspace hands out one Manager per owner, each backed by its own
// repository scope.
type Workspace struct {
	mu       sync.Mutex
	factory  repository.TaskRepositoryFactory
	managers map[string]*Manager
}

func NewWorkspace(factory repository.TaskRepositoryFactory) *Workspace {
	return &Workspace{
		factory:  factory,
		managers: make(map[string]*Manager),
	}
}

// Manager returns the cached manager for owner, loading it on first use.
// A failed load is returned and nothing is cached, so the next call retries.
// Hydration ignores cancellation of ctx; the manager outlives the request.
func (w *Workspace) Manager(ctx context.Context, owner string) (*Manager, error) {
	w.mu.Lock()
	m, ok := w.managers[owner]
	w.mu.Unlock()
	if ok {
		return m, nil
	}

	store, err := w.factory(owner)
	if err != nil {
		return nil, fmt.Errorf("open task store for %s: %w", owner, err)
	}
	tasks, err := store.Load(context.WithoutCancel(ctx))
	if err != nil {
		return nil, fmt.Errorf("load tasks of %s: %w", owner, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	// another caller may have loaded owner meanwhile
	if existing, ok := w.managers[owner]; ok {
		return existing, nil
	}
	m = newManager(store, tasks)
	w.managers[owner] = m
	return m, nil
}

// Forget drops the cached manager of owner. The next call to Manager reloads it.
func (w *Workspace) Forget(owner string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.managers, owner)
}
