package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/andreadp02/participium/internal/model"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a user by ID, returning nil when no such user exists
func (r *UserRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	query := `SELECT id, username, email, role, created_at FROM users WHERE id = $1`

	var user model.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found is not an error
		}
		r.logger.Error("Failed to get user by ID", zap.Error(err), zap.Int("id", id))
		return nil, err
	}

	return &user, nil
}
