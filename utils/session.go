package utils

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const TokenCookie = "token"

// CookieOptions controls the auth cookie written on login.
type CookieOptions struct {
	Domain string
	Secure bool
	TTL    time.Duration
}

// ExtractToken reads the bearer token from the Authorization header, falling
// back to the token cookie. Empty means no credentials were sent.
func ExtractToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	token, err := c.Cookie(TokenCookie)
	if err != nil {
		return ""
	}
	return token
}

func SetSessionCookie(c *gin.Context, token string, opts CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookie, token, int(opts.TTL.Seconds()), "/", opts.Domain, opts.Secure, true)
}

func ClearSessionCookie(c *gin.Context, opts CookieOptions) {
	c.SetCookie(TokenCookie, "", -1, "/", opts.Domain, opts.Secure, true)
}
