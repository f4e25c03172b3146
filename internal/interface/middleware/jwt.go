package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
)

// BearerToken pulls the identity token from "Authorization: Bearer <token>".
// With cookieFallback the "token" cookie is used when the header is absent.
func BearerToken(c *gin.Context, cookieFallback bool) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if cookieFallback {
		if tok, err := c.Cookie(helpers.TokenCookie); err == nil {
			return tok
		}
	}
	return ""
}
