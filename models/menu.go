package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CategoryCoffee    = "coffee"
	CategoryNonCoffee = "non-coffee"
	CategoryMakanan   = "makanan"

	MaxMenuNameLength = 100
)

// KnownCategories are the categories the catalog browses by. Create and
// update accept any non-empty category.
var KnownCategories = []string{CategoryCoffee, CategoryNonCoffee, CategoryMakanan}

func IsKnownCategory(c string) bool {
	for _, k := range KnownCategories {
		if k == c {
			return true
		}
	}
	return false
}

type MenuItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	ImageRef    *string         `gorm:"column:image_ref" json:"image_ref"`
	Category    string          `gorm:"size:50;not null;index" json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (MenuItem) TableName() string {
	return "menu"
}

type MenuStats struct {
	Total       int64            `json:"total"`
	Coffee      int64            `json:"coffee"`
	NonCoffee   int64            `json:"nonCoffee"`
	Makanan     int64            `json:"makanan"`
	PerCategory map[string]int64 `json:"per_category"`
}
