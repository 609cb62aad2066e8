package repository

import (
	"context"
	"fmt"
	"strings"

	"cafebackend/apperr"
	"cafebackend/db"
	"cafebackend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MenuRepository struct {
	db *db.DB
}

func NewMenuRepository(database *db.DB) *MenuRepository {
	return &MenuRepository{db: database}
}

func (r *MenuRepository) List(ctx context.Context) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	err := r.db.WithContext(ctx).Order("category ASC, name ASC").Find(&items).Error
	return items, db.Wrap(err)
}

func (r *MenuRepository) Recent(ctx context.Context, limit int) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&items).Error
	return items, db.Wrap(err)
}

func (r *MenuRepository) GetByID(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, fmt.Errorf("menu item %d: %w", id, db.Wrap(err))
	}
	return &item, nil
}

func (r *MenuRepository) Create(ctx context.Context, item *models.MenuItem) error {
	return db.Wrap(r.db.WithContext(ctx).Create(item).Error)
}

// Update applies fields (column -> value) to the row and returns the fresh row.
func (r *MenuRepository) Update(ctx context.Context, id uint, fields map[string]any) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, id).Error; err != nil {
			return fmt.Errorf("menu item %d: %w", id, db.Wrap(err))
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&item).Updates(fields).Error; err != nil {
			return err
		}
		return tx.First(&item, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes the menu row unless an order still references it.
func (r *MenuRepository) Delete(ctx context.Context, id uint) error {
	return r.db.Transaction(ctx, func(tx *gorm.DB) error {
		var item models.MenuItem
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, id).Error; err != nil {
			return fmt.Errorf("menu item %d: %w", id, db.Wrap(err))
		}
		var refs int64
		if err := tx.Model(&models.Order{}).Where("menu_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return fmt.Errorf("%w: menu item %d is referenced by %d order(s)", apperr.ErrConflict, id, refs)
		}
		return tx.Delete(&models.MenuItem{}, id).Error
	})
}

func (r *MenuRepository) Search(ctx context.Context, term string) ([]models.MenuItem, error) {
	pattern := "%" + escapeLike(term) + "%"
	items := []models.MenuItem{}
	err := r.db.WithContext(ctx).
		Where("name ILIKE ? OR description ILIKE ?", pattern, pattern).
		Order("category ASC, name ASC").
		Find(&items).Error
	return items, db.Wrap(err)
}

func (r *MenuRepository) ListByCategory(ctx context.Context, category string) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	err := r.db.WithContext(ctx).Where("category = ?", category).Order("name ASC").Find(&items).Error
	return items, db.Wrap(err)
}

func (r *MenuRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Category string
		Count    int64
	}
	err := r.db.Query(ctx, &rows, `SELECT category, COUNT(*) AS count FROM menu GROUP BY category`)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Category] = row.Count
	}
	return out, nil
}

// SetImageRef overwrites image_ref; nil stores NULL.
func (r *MenuRepository) SetImageRef(ctx context.Context, id uint, ref *string) error {
	n, err := r.db.Exec(ctx, `UPDATE menu SET image_ref = ?, updated_at = NOW() WHERE id = ?`, ref, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("menu item %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
