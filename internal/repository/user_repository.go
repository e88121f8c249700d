// internal/repository/user_repository.go
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"github.com/gurkanbulca/todo/internal/models"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository persists accounts. Usernames are unique and stored lower-cased.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

// JSONUserRepository keeps the user registry in a JSON object keyed by username
type JSONUserRepository struct {
	mu   sync.Mutex
	path string
	lock *flock.Flock
}

func NewJSONUserRepository(path string) *JSONUserRepository {
	return &JSONUserRepository{
		path: path,
		lock: newFileLock(path),
	}
}

func (r *JSONUserRepository) Create(ctx context.Context, u *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ensureDir(r.path); err != nil {
		return err
	}
	if err := r.lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", r.path, err)
	}
	defer func() { _ = r.lock.Unlock() }()

	users, err := r.read()
	if err != nil {
		return err
	}

	u.Username = strings.ToLower(u.Username)
	if _, exists := users[u.Username]; exists {
		return ErrUserExists
	}
	users[u.Username] = u

	data, err := json.MarshalIndent(users, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal users: %w", err)
	}
	if err := writeFileAtomic(r.path, data); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

func (r *JSONUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	users, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	u, ok := users[strings.ToLower(username)]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (r *JSONUserRepository) List(ctx context.Context) ([]*models.User, error) {
	users, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]*models.User, 0, len(users))
	for _, u := range users {
		list = append(list, u)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Username < list[j].Username
	})
	return list, nil
}

func (r *JSONUserRepository) snapshot(ctx context.Context) (map[string]*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if missing(r.path) {
		return make(map[string]*models.User), nil
	}
	if err := r.lock.RLock(); err != nil {
		return nil, fmt.Errorf("lock %s: %w", r.path, err)
	}
	defer func() { _ = r.lock.Unlock() }()

	return r.read()
}

// read must be called with the file lock held. Entries that do not decode to a
// usable account are skipped.
func (r *JSONUserRepository) read() (map[string]*models.User, error) {
	users := make(map[string]*models.User)

	data, err := readFileIfExists(r.path)
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return users, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode users from %s: %w", r.path, err)
	}

	for name, item := range raw {
		var u models.User
		if err := json.Unmarshal(item, &u); err != nil || u.ID == "" || u.PasswordHash == "" {
			log.Printf("[WARN] Skipping unreadable user entry %q in %s", name, r.path)
			continue
		}
		if u.Username == "" {
			u.Username = name
		}
		if u.Role == "" {
			u.Role = models.RoleUser
		}
		users[strings.ToLower(name)] = &u
	}
	return users, nil
}
