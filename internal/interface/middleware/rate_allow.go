package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP exempts loopback and RFC 1918 clients, e.g. in-cluster
// scrapers of the debug endpoint.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		ip := net.ParseIP(ipFromCtx(c))
		return ip != nil && (ip.IsLoopback() || ip.IsPrivate())
	}
}

// AllowRoles exempts authenticated users holding one of roles.
func AllowRoles(roles ...string) AllowFunc {
	return func(c *gin.Context) bool {
		role := c.GetString(CtxRoleKey)
		for _, r := range roles {
			if role == r {
				return true
			}
		}
		return false
	}
}
