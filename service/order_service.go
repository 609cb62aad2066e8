package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cafebackend/apperr"
	"cafebackend/logger"
	"cafebackend/models"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// OrderStore is satisfied by *repository.OrderRepository.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	List(ctx context.Context) ([]models.Order, error)
	ListByDate(ctx context.Context, date string) ([]models.Order, error)
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, id uint, status models.PaymentStatus) error
	Delete(ctx context.Context, id uint) (*models.Order, error)
	Stats(ctx context.Context) (*models.OrderStats, error)
}

// CreateOrderInput is what a customer submits. TotalAmount is the client's
// own computation; the stored total is always price x quantity.
type CreateOrderInput struct {
	MenuID       *uint
	CustomerName string
	Quantity     *int
	TotalAmount  *decimal.Decimal
	Note         string
}

type OrderService struct {
	store OrderStore
	log   *logger.Logger
}

func NewOrderService(store OrderStore, log *logger.Logger) *OrderService {
	return &OrderService{store: store, log: log.WithComponent("order_service")}
}

func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	name := strings.TrimSpace(in.CustomerName)
	if in.MenuID == nil || name == "" || in.Quantity == nil || in.TotalAmount == nil {
		return nil, fmt.Errorf("%w: menu_id, customer_name, quantity and total_amount are required", apperr.ErrValidation)
	}
	if *in.MenuID == 0 {
		return nil, fmt.Errorf("%w: menu_id must be a positive integer", apperr.ErrValidation)
	}
	if *in.Quantity < 1 || *in.Quantity > models.MaxOrderQuantity {
		return nil, fmt.Errorf("%w: quantity must be between 1 and %d", apperr.ErrValidation, models.MaxOrderQuantity)
	}
	if !in.TotalAmount.IsPositive() {
		return nil, fmt.Errorf("%w: total_amount must be greater than 0", apperr.ErrValidation)
	}
	if len([]rune(name)) > 100 {
		return nil, fmt.Errorf("%w: customer_name must be at most 100 characters", apperr.ErrValidation)
	}

	order := &models.Order{
		MenuID:        *in.MenuID,
		CustomerName:  name,
		Quantity:      *in.Quantity,
		Note:          strings.TrimSpace(in.Note),
		PaymentStatus: models.PaymentUnpaid,
	}
	if err := s.store.Create(ctx, order); err != nil {
		return nil, err
	}

	if !order.TotalAmount.Equal(*in.TotalAmount) {
		s.log.Warn("client total differs from computed total",
			"order_id", order.ID,
			"client_total", in.TotalAmount.String(),
			"computed_total", order.TotalAmount.String())
	}
	s.log.Info("order created", "order_id", order.ID, "order_number", order.OrderNumber(), "menu_id", order.MenuID)
	return order, nil
}

func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	return s.store.List(ctx)
}

// FilterByDate lists orders placed on date (YYYY-MM-DD). Blank lists all.
func (s *OrderService) FilterByDate(ctx context.Context, date string) ([]models.Order, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return s.store.List(ctx)
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", apperr.ErrValidation)
	}
	return s.store.ListByDate(ctx, date)
}

func (s *OrderService) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	return s.store.GetByID(ctx, id)
}

func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id uint, status string) error {
	st, ok := models.ParsePaymentStatus(strings.TrimSpace(status))
	if !ok {
		return fmt.Errorf("%w: status must be unpaid or paid", apperr.ErrValidation)
	}
	if err := s.store.UpdatePaymentStatus(ctx, id, st); err != nil {
		return err
	}
	s.log.Info("payment status updated", "order_id", id, "status", st)
	return nil
}

func (s *OrderService) Delete(ctx context.Context, id uint) (*models.Order, error) {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("order deleted", "order_id", id)
	return deleted, nil
}

// Stats totals every order; TotalRevenue includes unpaid orders and
// PaidRevenue only paid ones.
func (s *OrderService) Stats(ctx context.Context) (*models.OrderStats, error) {
	return s.store.Stats(ctx)
}
