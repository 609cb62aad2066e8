package utils

import (
	"log/slog"

	"cafebackend/logger"
	"cafebackend/service"

	"github.com/gin-gonic/gin"
)

const (
	principalKey = "principal"
	loggerKey    = "logger"
	RequestIDKey = "request_id"
)

func SetPrincipal(c *gin.Context, p service.Principal) {
	c.Set(principalKey, p)
}

// GetPrincipal returns the caller set by the auth middleware.
func GetPrincipal(c *gin.Context) (service.Principal, bool) {
	val, ok := c.Get(principalKey)
	if !ok {
		return service.Principal{}, false
	}
	p, ok := val.(service.Principal)
	return p, ok
}

func SetLogger(c *gin.Context, l *logger.Logger) {
	c.Set(loggerKey, l)
}

// Log returns the request-scoped logger, or the process default when the
// request logging middleware is not installed.
func Log(c *gin.Context) *logger.Logger {
	if val, ok := c.Get(loggerKey); ok {
		if l, ok := val.(*logger.Logger); ok {
			return l
		}
	}
	return &logger.Logger{Logger: slog.Default()}
}

func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
