package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MaxAmount is the largest value a decimal(12,2) money column holds.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// MaxOrderQuantity bounds a single order line.
const MaxOrderQuantity = 1000

// ValidAmount reports whether d is positive, has at most two decimal places
// and fits a money column.
func ValidAmount(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(d.Round(2)) && d.LessThanOrEqual(MaxAmount)
}

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(s) {
	case PaymentUnpaid:
		return PaymentUnpaid, true
	case PaymentPaid:
		return PaymentPaid, true
	}
	return "", false
}

// CanTransition reports whether the payment flag may move from -> to.
// Only unpaid -> paid is a real transition; same-state writes are no-ops.
func CanTransition(from, to PaymentStatus) bool {
	if from == to {
		return true
	}
	return from == PaymentUnpaid && to == PaymentPaid
}

type Order struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	MenuID        uint            `gorm:"not null;index" json:"menu_id"`
	Menu          MenuItem        `gorm:"foreignKey:MenuID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CustomerName  string          `gorm:"size:100;not null" json:"customer_name"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Note          string          `gorm:"type:text" json:"note"`
	PaymentStatus PaymentStatus   `gorm:"size:10;not null;default:unpaid;index" json:"payment_status"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
}

func (Order) TableName() string {
	return "transaksi"
}

func (o Order) OrderNumber() string {
	return FormatOrderNumber(o.ID)
}

func FormatOrderNumber(id uint) string {
	return fmt.Sprintf("ORD%06d", id)
}

// LineTotal is the amount charged for quantity units at price.
func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

type OrderStats struct {
	TotalOrders    int64           `json:"total_orders"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	PaidRevenue    decimal.Decimal `json:"paid_revenue"`
	DaysWithOrders int64           `json:"days_with_orders"`
	LastOrderDate  *time.Time      `json:"last_order_date"`
}
