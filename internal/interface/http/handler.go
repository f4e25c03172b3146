package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
	"github.com/oksasatya/bootcamp-directory/pkg/validation"
)

// bindJSON decodes and validates the body, recording a validation error on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(apperror.ValidationDetails("Invalid input", validation.ToDetails(err)))
		return false
	}
	return true
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}
