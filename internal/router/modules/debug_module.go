package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bootcamp-directory/internal/interface/middleware"
)

type DebugModule struct {
	Deps Deps
}

func NewDebugModule(deps Deps) *DebugModule { return &DebugModule{Deps: deps} }

// Register exposes expvar counters. Private networks skip the limiter.
func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(m.Deps.Redis, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
