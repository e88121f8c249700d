// internal/service/workspace_test.go
package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/todo/internal/models"
	"github.com/gurkanbulca/todo/internal/repository"
)

func TestWorkspace_Manager(t *testing.T) {
	ctx := context.Background()
	ws := NewWorkspace(repository.NewJSONTaskRepositoryFactory(t.TempDir()))

	alice, err := ws.Manager(ctx, "alice")
	require.NoError(t, err)
	again, err := ws.Manager(ctx, "alice")
	require.NoError(t, err)
	assert.Same(t, alice, again)

	bob, err := ws.Manager(ctx, "bob")
	require.NoError(t, err)
	assert.NotSame(t, alice, bob)

	mustAdd(t, alice, "alice task", nil, 0)
	assert.Empty(t, bob.List(""))

	ws.Forget("alice")
	reloaded, err := ws.Manager(ctx, "alice")
	require.NoError(t, err)
	assert.NotSame(t, alice, reloaded)
	assert.Equal(t, []string{"alice task"}, titles(reloaded.List("")))
}

func TestWorkspace_FactoryError(t *testing.T) {
	ws := NewWorkspace(func(owner string) (repository.TaskRepository, error) {
		return nil, errors.New("no storage")
	})

	_, err := ws.Manager(context.Background(), "alice")
	assert.Error(t, err)
}

func TestWorkspace_HydrationIgnoresCanceledContext(t *testing.T) {
	factory := repository.NewJSONTaskRepositoryFactory(t.TempDir())
	seed, err := factory("alice")
	require.NoError(t, err)

	stored := make([]models.Task, 0, 3)
	for _, title := range []string{"one", "two", "three"} {
		task, err := models.NewTask(title, "", nil, models.PriorityMedium)
		require.NoError(t, err)
		stored = append(stored, task)
	}
	require.NoError(t, seed.Save(context.Background(), stored))

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	ws := NewWorkspace(factory)
	m, err := ws.Manager(canceled, "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "two", "three"}, titles(m.List("")))

	mustAdd(t, m, "four", nil, 0)

	loaded, err := seed.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, loaded, 4)
}

func TestWorkspace_LoadErrorIsNotCached(t *testing.T) {
	task, err := models.NewTask("kept", "", nil, models.PriorityHigh)
	require.NoError(t, err)
	store := &memoryStore{tasks: []models.Task{task}, loadErr: errors.New("disk unavailable")}

	opened := 0
	ws := NewWorkspace(func(owner string) (repository.TaskRepository, error) {
		opened++
		return store, nil
	})

	_, err = ws.Manager(context.Background(), "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk unavailable")

	store.mu.Lock()
	store.loadErr = nil
	store.mu.Unlock()

	m, err := ws.Manager(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, titles(m.List("")))
	assert.Equal(t, 2, opened)
	assert.Zero(t, store.saveCount())

	again, err := ws.Manager(context.Background(), "alice")
	require.NoError(t, err)
	assert.Same(t, m, again)
	assert.Equal(t, 2, opened)
}

// blockingStore holds Load until release is closed
type blockingStore struct {
	memoryStore
	started chan struct{}
	release chan struct{}
}

func (s *blockingStore) Load(ctx context.Context) ([]models.Task, error) {
	close(s.started)
	<-s.release
	return s.memoryStore.Load(ctx)
}

func TestWorkspace_SlowLoadDoesNotBlockOtherOwners(t *testing.T) {
	slow := &blockingStore{started: make(chan struct{}), release: make(chan struct{})}
	ws := NewWorkspace(func(owner string) (repository.TaskRepository, error) {
		if owner == "slow" {
			return slow, nil
		}
		return &memoryStore{}, nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := ws.Manager(context.Background(), "slow")
		done <- err
	}()
	<-slow.started

	fast, err := ws.Manager(context.Background(), "fast")
	require.NoError(t, err)
	assert.NotNil(t, fast)

	close(slow.release)
	require.NoError(t, <-done)

	m, err := ws.Manager(context.Background(), "slow")
	require.NoError(t, err)
	assert.Empty(t, m.List(""))
}
