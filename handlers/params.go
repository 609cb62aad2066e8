package handlers

import (
	"fmt"
	"strconv"

	"cafebackend/apperr"

	"github.com/gin-gonic/gin"
)

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", apperr.ErrValidation, name, raw)
	}
	return uint(id), nil
}

func invalidBody(err error) error {
	return fmt.Errorf("%w: invalid request body: %v", apperr.ErrValidation, err)
}
