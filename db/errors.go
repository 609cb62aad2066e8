package db

import (
	"context"
	"errors"
	"fmt"

	"cafebackend/apperr"

	"gorm.io/gorm"
)

// Wrap translates driver errors into the apperr taxonomy. Errors already
// carrying an apperr sentinel pass through untouched.
func Wrap(err error) error {
	switch {
	case err == nil:
		return nil
	case isApp(err):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: duplicate value", apperr.ErrConflict)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: row is still referenced", apperr.ErrConflict)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", apperr.ErrDatabase, err)
	default:
		return fmt.Errorf("%w: %v", apperr.ErrDatabase, err)
	}
}

func isApp(err error) bool {
	for _, target := range []error{
		apperr.ErrValidation,
		apperr.ErrNotFound,
		apperr.ErrConflict,
		apperr.ErrDatabase,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
