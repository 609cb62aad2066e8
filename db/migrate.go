package db

import (
	"context"

	"cafebackend/models"
)

// Migrate creates the menu, transaksi and users tables. The transaksi ->
// menu foreign key is ON DELETE RESTRICT.
func (d *DB) Migrate(ctx context.Context) error {
	if err := d.AutoMigrate(ctx, &models.MenuItem{}, &models.User{}, &models.Order{}); err != nil {
		return err
	}
	d.log.Info("migrations applied")
	return nil
}
