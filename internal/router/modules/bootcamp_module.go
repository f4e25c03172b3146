package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bootcamp-directory/internal/application"
	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	handlers "github.com/oksasatya/bootcamp-directory/internal/interface/http"
	"github.com/oksasatya/bootcamp-directory/internal/interface/middleware"
)

// BootcampModule serves /bootcamps. Reads are public, writes need a publisher
// or admin; ownership is checked by the service.
type BootcampModule struct {
	Handler *handlers.BootcampHandler
	Svc     *application.BootcampService
	Deps    Deps
}

func NewBootcampModule(h *handlers.BootcampHandler, svc *application.BootcampService, deps Deps) *BootcampModule {
	return &BootcampModule{Handler: h, Svc: svc, Deps: deps}
}

func (m *BootcampModule) Register(rg *gin.RouterGroup) {
	b := rg.Group("/bootcamps")
	b.GET("", middleware.AdvancedResults[entity.Bootcamp](m.Svc.List, "courses"), m.Handler.List)
	b.GET("/search", m.Handler.Search)
	b.GET("/radius/:zipcode/:distance", m.Handler.Radius)
	b.GET("/:id", m.Handler.Get)

	w := b.Group("")
	w.Use(m.Deps.Protect, m.Deps.userLimit(), middleware.Authorize(entity.RolePublisher, entity.RoleAdmin))
	{
		w.POST("", m.Handler.Create)
		w.PUT("/:id", m.Handler.Update)
		w.DELETE("/:id", m.Handler.Delete)
		w.PUT("/:id/photo", m.Handler.UploadPhoto)
	}
}
