package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bootcamp-directory/internal/application"
	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	handlers "github.com/oksasatya/bootcamp-directory/internal/interface/http"
	"github.com/oksasatya/bootcamp-directory/internal/interface/middleware"
)

// UserModule is the admin-only /users surface.
type UserModule struct {
	Handler *handlers.UserHandler
	Svc     *application.UserService
	Deps    Deps
}

func NewUserModule(h *handlers.UserHandler, svc *application.UserService, deps Deps) *UserModule {
	return &UserModule{Handler: h, Svc: svc, Deps: deps}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	u := rg.Group("/users")
	u.Use(m.Deps.Protect, middleware.Authorize(entity.RoleAdmin))
	{
		u.GET("", middleware.AdvancedResults[entity.User](m.Svc.List), m.Handler.List)
		u.GET("/:id", m.Handler.Get)
		u.POST("", m.Handler.Create)
		u.PUT("/:id", m.Handler.Update)
		u.DELETE("/:id", m.Handler.Delete)
	}
}
