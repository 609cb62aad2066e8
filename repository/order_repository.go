package repository

import (
	"context"
	"errors"
	"fmt"

	"cafebackend/apperr"
	"cafebackend/db"
	"cafebackend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository struct {
	db *db.DB
}

func NewOrderRepository(database *db.DB) *OrderRepository {
	return &OrderRepository{db: database}
}

// Create inserts the order with its total priced from the menu row, all
// in one transaction. The menu row is share-locked so it cannot be
// deleted or repriced until the insert commits.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.Transaction(ctx, func(tx *gorm.DB) error {
		var menu models.MenuItem
		err := tx.Clauses(clause.Locking{Strength: "SHARE"}).First(&menu, order.MenuID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: menu item %d does not exist", apperr.ErrValidation, order.MenuID)
		}
		if err != nil {
			return err
		}

		order.TotalAmount = models.LineTotal(menu.Price, order.Quantity)
		if !models.ValidAmount(order.TotalAmount) {
			return fmt.Errorf("%w: order total %s exceeds %s", apperr.ErrValidation, order.TotalAmount, models.MaxAmount)
		}
		if order.PaymentStatus == "" {
			order.PaymentStatus = models.PaymentUnpaid
		}
		if err := tx.Omit("Menu").Create(order).Error; err != nil {
			return err
		}
		order.Menu = menu
		return nil
	})
}

func (r *OrderRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Joins("Menu").Order("transaksi.created_at DESC, transaksi.id DESC")
}

func (r *OrderRepository) List(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	return orders, db.Wrap(r.joined(ctx).Find(&orders).Error)
}

// ListByDate returns orders created on date (YYYY-MM-DD, server time zone).
func (r *OrderRepository) ListByDate(ctx context.Context, date string) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.joined(ctx).Where("DATE(transaksi.created_at) = ?", date).Find(&orders).Error
	return orders, db.Wrap(err)
}

func (r *OrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Joins("Menu").First(&order, "transaksi.id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("order %d: %w", id, db.Wrap(err))
	}
	return &order, nil
}

// UpdatePaymentStatus moves the payment flag under a row lock so two
// concurrent writers observe each other.
func (r *OrderRepository) UpdatePaymentStatus(ctx context.Context, id uint, status models.PaymentStatus) error {
	return r.db.Transaction(ctx, func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error; err != nil {
			return fmt.Errorf("order %d: %w", id, db.Wrap(err))
		}
		if !models.CanTransition(order.PaymentStatus, status) {
			return fmt.Errorf("%w: order %d is %s and cannot become %s",
				apperr.ErrValidation, id, order.PaymentStatus, status)
		}
		if order.PaymentStatus == status {
			return nil
		}
		return tx.Model(&order).Update("payment_status", status).Error
	})
}

func (r *OrderRepository) Delete(ctx context.Context, id uint) (*models.Order, error) {
	var deleted models.Order
	res := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Delete(&deleted)
	if res.Error != nil {
		return nil, db.Wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("order %d: %w", id, apperr.ErrNotFound)
	}
	return &deleted, nil
}

func (r *OrderRepository) Stats(ctx context.Context) (*models.OrderStats, error) {
	var stats models.OrderStats
	err := r.db.FindOne(ctx, &stats, `
		SELECT
			COUNT(*) AS total_orders,
			COALESCE(SUM(total_amount), 0) AS total_revenue,
			COALESCE(SUM(CASE WHEN payment_status = 'paid' THEN total_amount END), 0) AS paid_revenue,
			COUNT(DISTINCT DATE(created_at)) AS days_with_orders,
			MAX(created_at) AS last_order_date
		FROM transaksi`)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
