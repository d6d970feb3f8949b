package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jengzang/filmday-backend-go/internal/models"
)

// UserRepository handles database operations for users and their saved filters
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a user with an already hashed password
func (r *UserRepository) CreateUser(ctx context.Context, username, name, passwordHash string) (*models.User, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, name, password_hash) VALUES (?, ?, ?)",
		username, name, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get user id: %w", err)
	}
	return r.GetUserByID(ctx, id)
}

// GetUserByUsername retrieves a user by login name
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getUser(ctx, "username = ?", username)
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getUser(ctx, "id = ?", id)
}

func (r *UserRepository) getUser(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, name, password_hash, created_at FROM users WHERE "+where, arg,
	).Scan(&u.ID, &u.Username, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// SaveFilters stores the user's filter selection, replacing any earlier one
func (r *UserRepository) SaveFilters(ctx context.Context, userID int64, sel models.FilterSelection) (*models.SavedFilters, error) {
	data, err := json.Marshal(sel)
	if err != nil {
		return nil, fmt.Errorf("failed to encode selection: %w", err)
	}

	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO saved_filters (user_id, selection_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			selection_json = excluded.selection_json,
			updated_at = excluded.updated_at
	`, userID, string(data), now)
	if err != nil {
		return nil, fmt.Errorf("failed to save filters: %w", err)
	}

	return &models.SavedFilters{UserID: userID, Selection: sel, UpdatedAt: now}, nil
}

// GetFilters returns the user's saved selection
func (r *UserRepository) GetFilters(ctx context.Context, userID int64) (*models.SavedFilters, error) {
	var (
		raw   string
		saved = models.SavedFilters{UserID: userID}
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT selection_json, updated_at FROM saved_filters WHERE user_id = ?", userID,
	).Scan(&raw, &saved.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get filters: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), &saved.Selection); err != nil {
		return nil, fmt.Errorf("failed to decode saved filters: %w", err)
	}
	return &saved, nil
}

// DeleteFilters forgets the user's saved selection
func (r *UserRepository) DeleteFilters(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM saved_filters WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete filters: %w", err)
	}
	return nil
}
