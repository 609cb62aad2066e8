package service

import (
	"context"

	"cafebackend/models"

	"github.com/shopspring/decimal"
)

var sampleMenu = []models.MenuItem{
	{Name: "Espresso", Description: "Kopi espresso klasik dengan rasa yang kuat", Price: decimal.NewFromInt(25000), Category: models.CategoryCoffee},
	{Name: "Cappuccino", Description: "Espresso, susu steamed dan foam", Price: decimal.NewFromInt(35000), Category: models.CategoryCoffee},
	{Name: "Latte", Description: "Espresso dengan susu steamed yang lembut", Price: decimal.NewFromInt(38000), Category: models.CategoryCoffee},
	{Name: "Americano", Description: "Espresso dengan tambahan air panas", Price: decimal.NewFromInt(28000), Category: models.CategoryCoffee},
	{Name: "Matcha Latte", Description: "Teh hijau matcha dengan susu segar", Price: decimal.NewFromInt(32000), Category: models.CategoryNonCoffee},
	{Name: "Coklat Panas", Description: "Coklat premium dengan susu hangat", Price: decimal.NewFromInt(30000), Category: models.CategoryNonCoffee},
	{Name: "Croissant", Description: "Croissant mentega yang renyah", Price: decimal.NewFromInt(22000), Category: models.CategoryMakanan},
	{Name: "Roti Bakar", Description: "Roti bakar dengan selai coklat keju", Price: decimal.NewFromInt(20000), Category: models.CategoryMakanan},
}

type SeedResult struct {
	MenuCreated  int
	AdminCreated bool
}

// Seeder fills an empty database with a sample menu and an admin account.
type Seeder struct {
	menus MenuStore
	auth  *AuthService
}

func NewSeeder(menus MenuStore, auth *AuthService) *Seeder {
	return &Seeder{menus: menus, auth: auth}
}

// Run inserts the sample menu only when the menu table is empty, and the
// admin only when the username is free. Running it twice changes nothing.
func (s *Seeder) Run(ctx context.Context, adminUsername, adminPassword string) (*SeedResult, error) {
	res := &SeedResult{}

	existing, err := s.menus.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		for _, item := range sampleMenu {
			item := item
			if err := s.menus.Create(ctx, &item); err != nil {
				return res, err
			}
			res.MenuCreated++
		}
	}

	if adminUsername != "" && adminPassword != "" {
		created, err := s.auth.EnsureAdmin(ctx, adminUsername, adminPassword)
		if err != nil {
			return res, err
		}
		res.AdminCreated = created
	}
	return res, nil
}
