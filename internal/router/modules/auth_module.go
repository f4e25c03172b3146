package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/bootcamp-directory/internal/interface/http"
	"github.com/oksasatya/bootcamp-directory/internal/interface/middleware"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	Deps    Deps
}

func NewAuthModule(h *handlers.AuthHandler, deps Deps) *AuthModule {
	return &AuthModule{Handler: h, Deps: deps}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with per-route IP limits
	credLimiter := m.Deps.limit(10, time.Minute, middleware.KeyByIPAndPath())
	forgotLimiter := m.Deps.limit(5, 10*time.Minute, middleware.KeyByIPAndPath())
	resetLimiter := m.Deps.limit(30, time.Minute, middleware.KeyByIPAndPath())

	auth := rg.Group("/auth")
	auth.POST("/register", credLimiter, m.Handler.Register)
	auth.POST("/login", credLimiter, m.Handler.Login)
	auth.POST("/forgotpassword", forgotLimiter, m.Handler.ForgotPassword)
	auth.POST("/resetpassword/:token", resetLimiter, m.Handler.ResetPassword)
	auth.PUT("/resetpassword/:token", resetLimiter, m.Handler.ResetPassword)

	protected := auth.Group("")
	protected.Use(m.Deps.Protect, m.Deps.userLimit())
	{
		protected.GET("/me", m.Handler.Me)
		protected.GET("/logout", m.Handler.Logout)
		protected.PUT("/updatedetails", m.Handler.UpdateDetails)
		protected.PUT("/updatepassword", m.Handler.UpdatePassword)
	}
}
