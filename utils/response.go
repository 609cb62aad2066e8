package utils

import (
	"errors"
	"net/http"
	"strings"

	"cafebackend/apperr"

	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "internal server error"

// Success writes {success: true} merged with fields.
func Success(c *gin.Context, status int, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

// Fail maps err onto the error envelope and aborts the chain. Server errors
// are logged; in production their message is replaced with a generic one.
func Fail(c *gin.Context, err error, production bool) {
	err = normalizeBodyError(err)
	status := apperr.StatusCode(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		Log(c).Error("request failed", "error", err, "status", status)
		if production {
			msg = internalErrorMessage
		}
	}
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": msg})
}

// normalizeBodyError turns a body cut off by http.MaxBytesReader into
// apperr.ErrPayloadTooLarge. Multipart parsing does not always keep the
// *http.MaxBytesError in the chain, hence the string match.
func normalizeBodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
		return apperr.ErrPayloadTooLarge
	}
	return err
}
