package service

import (
	"context"
	"fmt"
	"strings"

	"cafebackend/apperr"
	"cafebackend/logger"
	"cafebackend/models"
	"cafebackend/storage"

	"github.com/shopspring/decimal"
)

const DefaultRecentLimit = 5

// MenuStore is the persistence the menu service needs. Satisfied by
// *repository.MenuRepository.
type MenuStore interface {
	List(ctx context.Context) ([]models.MenuItem, error)
	Recent(ctx context.Context, limit int) ([]models.MenuItem, error)
	GetByID(ctx context.Context, id uint) (*models.MenuItem, error)
	Create(ctx context.Context, item *models.MenuItem) error
	Update(ctx context.Context, id uint, fields map[string]any) (*models.MenuItem, error)
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, term string) ([]models.MenuItem, error)
	ListByCategory(ctx context.Context, category string) ([]models.MenuItem, error)
	CountByCategory(ctx context.Context) (map[string]int64, error)
	SetImageRef(ctx context.Context, id uint, ref *string) error
}

// MenuInput carries create/update fields. Nil means "not sent".
type MenuInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	Image       *storage.Upload
}

type MenuService struct {
	store  MenuStore
	images storage.ImageStore
	log    *logger.Logger
}

func NewMenuService(store MenuStore, images storage.ImageStore, log *logger.Logger) *MenuService {
	return &MenuService{store: store, images: images, log: log.WithComponent("menu_service")}
}

func (s *MenuService) List(ctx context.Context) ([]models.MenuItem, error) {
	return s.store.List(ctx)
}

func (s *MenuService) Recent(ctx context.Context, limit int) ([]models.MenuItem, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.store.Recent(ctx, limit)
}

func (s *MenuService) GetByID(ctx context.Context, id uint) (*models.MenuItem, error) {
	return s.store.GetByID(ctx, id)
}

func (s *MenuService) Create(ctx context.Context, in MenuInput) (*models.MenuItem, error) {
	if in.Name == nil || in.Price == nil || in.Category == nil {
		return nil, fmt.Errorf("%w: name, price and category are required", apperr.ErrValidation)
	}
	if err := validateMenuInput(in); err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		Name:     strings.TrimSpace(*in.Name),
		Price:    *in.Price,
		Category: strings.TrimSpace(*in.Category),
	}
	if in.Description != nil {
		item.Description = strings.TrimSpace(*in.Description)
	}

	ref, err := s.saveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}
	item.ImageRef = ref

	if err := s.store.Create(ctx, item); err != nil {
		s.discardImage(ctx, ref)
		return nil, err
	}
	s.log.Info("menu item created", "id", item.ID, "name", item.Name, "category", item.Category)
	return item, nil
}

func (s *MenuService) Update(ctx context.Context, id uint, in MenuInput) (*models.MenuItem, error) {
	if err := validateMenuInput(in); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		fields["description"] = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		fields["price"] = *in.Price
	}
	if in.Category != nil {
		fields["category"] = strings.TrimSpace(*in.Category)
	}

	ref, err := s.saveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}
	if ref != nil {
		fields["image_ref"] = *ref
	}

	item, err := s.store.Update(ctx, id, fields)
	if err != nil {
		s.discardImage(ctx, ref)
		return nil, err
	}
	s.log.Info("menu item updated", "id", id, "fields", len(fields))
	return item, nil
}

// Delete removes a menu item. Items still referenced by orders are kept
// and reported as apperr.ErrConflict. Uploaded files are not removed.
func (s *MenuService) Delete(ctx context.Context, id uint) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("menu item deleted", "id", id)
	return nil
}

// Search matches term against name and description, case-insensitively.
// A blank term returns no results without querying.
func (s *MenuService) Search(ctx context.Context, term string) ([]models.MenuItem, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.MenuItem{}, nil
	}
	return s.store.Search(ctx, term)
}

func (s *MenuService) ListByCategory(ctx context.Context, category string) ([]models.MenuItem, error) {
	if !models.IsKnownCategory(category) {
		return nil, fmt.Errorf("%w: kategori must be one of %s",
			apperr.ErrValidation, strings.Join(models.KnownCategories, ", "))
	}
	return s.store.ListByCategory(ctx, category)
}

func (s *MenuService) Stats(ctx context.Context) (*models.MenuStats, error) {
	counts, err := s.store.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	stats := &models.MenuStats{
		Coffee:      counts[models.CategoryCoffee],
		NonCoffee:   counts[models.CategoryNonCoffee],
		Makanan:     counts[models.CategoryMakanan],
		PerCategory: counts,
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

func (s *MenuService) saveImage(ctx context.Context, u *storage.Upload) (*string, error) {
	if u == nil {
		return nil, nil
	}
	ref, err := s.images.Save(ctx, *u)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (s *MenuService) discardImage(ctx context.Context, ref *string) {
	if ref == nil {
		return
	}
	if err := s.images.Remove(ctx, *ref); err != nil {
		s.log.Warn("failed to remove orphaned upload", "ref", *ref, "error", err)
	}
}

func validateMenuInput(in MenuInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return fmt.Errorf("%w: name must not be empty", apperr.ErrValidation)
		}
		if len([]rune(name)) > models.MaxMenuNameLength {
			return fmt.Errorf("%w: name must be at most %d characters", apperr.ErrValidation, models.MaxMenuNameLength)
		}
	}
	if in.Price != nil {
		if !in.Price.IsPositive() {
			return fmt.Errorf("%w: price must be greater than 0", apperr.ErrValidation)
		}
		if !models.ValidAmount(*in.Price) {
			return fmt.Errorf("%w: price must have at most 2 decimal places and not exceed %s",
				apperr.ErrValidation, models.MaxAmount)
		}
	}
	if in.Category != nil && strings.TrimSpace(*in.Category) == "" {
		return fmt.Errorf("%w: category must not be empty", apperr.ErrValidation)
	}
	return nil
}
