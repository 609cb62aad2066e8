package middleware

import (
	"fmt"

	"cafebackend/utils"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into the standard 500 envelope. It must run inside
// RequestLogger so the panic is logged with the request id and the request
// line still records the 500.
func Recovery(production bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		utils.Log(c).Error("panic recovered", "panic", fmt.Sprint(recovered), "path", c.Request.URL.Path)
		utils.Fail(c, fmt.Errorf("panic: %v", recovered), production)
	})
}
