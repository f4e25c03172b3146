package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/bootcamp-directory/config"
	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/interface/middleware"
)

// Deps is what every module needs besides its own handler.
type Deps struct {
	Protect gin.HandlerFunc
	Redis   *redis.Client // nil turns the limiters into pass-throughs
	Cfg     *config.Config
}

func (d Deps) limit(max int, window time.Duration, key middleware.KeyFunc) gin.HandlerFunc {
	return middleware.RateLimit(d.Redis, max, window, key, nil)
}

// userLimit is the softer per-user budget applied to protected groups.
// Admins are never charged.
func (d Deps) userLimit() gin.HandlerFunc {
	return middleware.RateLimit(d.Redis, d.Cfg.RateLimitMax, d.Cfg.RateLimitWindow, middleware.KeyByUserID(), middleware.AllowRoles(entity.RoleAdmin))
}
