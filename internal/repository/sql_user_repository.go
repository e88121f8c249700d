// internal/repository/sql_user_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/gurkanbulca/todo/internal/database"
	"github.com/gurkanbulca/todo/internal/models"
)

type SQLUserRepository struct {
	db *sqlx.DB
}

func NewSQLUserRepository(db *sqlx.DB) *SQLUserRepository {
	return &SQLUserRepository{db: db}
}

func (r *SQLUserRepository) Create(ctx context.Context, u *models.User) error {
	u.Username = strings.ToLower(u.Username)

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO users (id, username, name, password_hash, role, created_at)
		VALUES (:id, :username, :name, :password_hash, :role, :created_at)`, u)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *SQLUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	query := r.db.Rebind(`
		SELECT id, username, name, password_hash, role, created_at
		FROM users WHERE username = ?`)
	if err := r.db.GetContext(ctx, &u, query, strings.ToLower(username)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", username, err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

func (r *SQLUserRepository) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	if err := r.db.SelectContext(ctx, &users, `
		SELECT id, username, name, password_hash, role, created_at
		FROM users ORDER BY username`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		u.CreatedAt = u.CreatedAt.UTC()
	}
	return users, nil
}
