package handlers

import (
	"context"
	"net/http"
	"time"

	"cafebackend/models"
	"cafebackend/service"
	"cafebackend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type OrderUseCase interface {
	Create(ctx context.Context, in service.CreateOrderInput) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	FilterByDate(ctx context.Context, date string) ([]models.Order, error)
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) (*models.Order, error)
	Stats(ctx context.Context) (*models.OrderStats, error)
}

type OrderHandler struct {
	orders     OrderUseCase
	images     ImageResolver
	production bool
}

func NewOrderHandler(orders OrderUseCase, images ImageResolver, production bool) *OrderHandler {
	return &OrderHandler{orders: orders, images: images, production: production}
}

type orderResponse struct {
	ID            uint                 `json:"id"`
	OrderNumber   string               `json:"order_number"`
	MenuID        uint                 `json:"menu_id"`
	MenuName      string               `json:"menu_name"`
	MenuPrice     decimal.Decimal      `json:"menu_price"`
	Category      string               `json:"category"`
	ImageURL      string               `json:"image_url"`
	CustomerName  string               `json:"customer_name"`
	Quantity      int                  `json:"quantity"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	Note          string               `json:"note"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time            `json:"created_at"`
}

func (h *OrderHandler) toResponse(o models.Order) orderResponse {
	return orderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber(),
		MenuID:        o.MenuID,
		MenuName:      o.Menu.Name,
		MenuPrice:     o.Menu.Price,
		Category:      o.Menu.Category,
		ImageURL:      h.images.Resolve(o.Menu.ImageRef),
		CustomerName:  o.CustomerName,
		Quantity:      o.Quantity,
		TotalAmount:   o.TotalAmount,
		Note:          o.Note,
		PaymentStatus: o.PaymentStatus,
		CreatedAt:     o.CreatedAt,
	}
}

func (h *OrderHandler) list(c *gin.Context, orders []models.Order, err error) {
	if err != nil {
		utils.Fail(c, err, h.production)
		return
	}
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, h.toResponse(o))
	}
	utils.Success(c, http.StatusOK, gin.H{"data": out})
}

type createOrderRequest struct {
	MenuID       *uint            `json:"menu_id"`
	CustomerName string           `json:"customer_name"`
	Quantity     *int             `json:"quantity"`
	TotalAmount  *decimal.Decimal `json:"total_amount"`
	Note         string           `json:"note"`
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, invalidBody(err), h.production)
		return
	}

	order, err := h.orders.Create(c.Request.Context(), service.CreateOrderInput{
		MenuID:       req.MenuID,
		CustomerName: req.CustomerName,
		Quantity:     req.Quantity,
		TotalAmount:  req.TotalAmount,
		Note:         req.Note,
	})
	if err != nil {
		utils.Fail(c, err, h.production)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{
		"id":           order.ID,
		"order_number": order.OrderNumber(),
		"message":      "order received",
		"data":         h.toResponse(*order),
	})
}

func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context())
	h.list(c, orders, err)
}

func (h *OrderHandler) FilterByDate(c *gin.Context) {
	orders, err := h.orders.FilterByDate(c.Request.Context(), c.Query("date"))
	h.list(c, orders, err)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.Fail(c, err, h.production)
		return
	}
	order, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.Fail(c, err, h.production)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"data": h.toResponse(*order)})
}

func (h *OrderHandler) UpdatePayment(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.Fail(c, err, h.production)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, invalidBody(err), h.production)
		return
	}
	if err := h.orders.UpdatePaymentStatus(c.Request.Context(), id, req.Status); err != nil {
		utils.Fail(c, err, h.production)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"message": "payment status updated"})
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.Fail(c, err, h.production)
		return
	}
	order, err := h.orders.Delete(c.Request.Context(), id)
	if err != nil {
		utils.Fail(c, err, h.production)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{
		"message": "order deleted",
		"data":    gin.H{"id": order.ID, "order_number": order.OrderNumber()},
	})
}

func (h *OrderHandler) GetStats(c *gin.Context) {
	stats, err := h.orders.Stats(c.Request.Context())
	if err != nil {
		utils.Fail(c, err, h.production)
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"data": stats})
}
