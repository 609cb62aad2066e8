package repository

import (
	"context"
	"fmt"
	"time"

	"cafebackend/apperr"
	"cafebackend/db"
	"cafebackend/models"
)

type UserRepository struct {
	db *db.DB
}

func NewUserRepository(database *db.DB) *UserRepository {
	return &UserRepository{db: database}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, db.Wrap(err)
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, fmt.Errorf("user %d: %w", id, db.Wrap(err))
	}
	return &user, nil
}

// Create inserts user; a taken username surfaces as apperr.ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return db.Wrap(r.db.WithContext(ctx).Create(user).Error)
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	n, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = ? WHERE id = ?`, at, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}
