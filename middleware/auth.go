package middleware

import (
	"fmt"

	"cafebackend/apperr"
	"cafebackend/service"
	"cafebackend/utils"

	"github.com/gin-gonic/gin"
)

// TokenParser verifies a raw token. *service.Tokens satisfies it.
type TokenParser interface {
	Parse(raw string) (*service.Principal, error)
}

// Authenticate requires a valid token in the Authorization header or the
// token cookie and stores the caller on the context.
func Authenticate(tokens TokenParser, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := utils.ExtractToken(c)
		if raw == "" {
			utils.Fail(c, fmt.Errorf("%w: access token required", apperr.ErrUnauthorized), production)
			return
		}
		p, err := tokens.Parse(raw)
		if err != nil {
			utils.Fail(c, err, production)
			return
		}
		utils.SetPrincipal(c, *p)
		c.Next()
	}
}
