package middleware

import (
	"fmt"

	"cafebackend/apperr"
	"cafebackend/models"
	"cafebackend/utils"

	"github.com/gin-gonic/gin"
)

// Authorize lets the request through only when the authenticated role is
// one of roles. Must run after Authenticate.
func Authorize(production bool, roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		p, ok := utils.GetPrincipal(c)
		if !ok {
			utils.Fail(c, apperr.ErrUnauthorized, production)
			return
		}
		if !allowed[p.Role] {
			utils.Fail(c, fmt.Errorf("%w: role %q may not perform this action", apperr.ErrForbidden, p.Role), production)
			return
		}
		c.Next()
	}
}

func AdminOnly(production bool) gin.HandlerFunc {
	return Authorize(production, models.RoleAdmin)
}
