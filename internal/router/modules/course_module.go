package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bootcamp-directory/internal/application"
	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	handlers "github.com/oksasatya/bootcamp-directory/internal/interface/http"
	"github.com/oksasatya/bootcamp-directory/internal/interface/middleware"
)

type CourseModule struct {
	Handler *handlers.CourseHandler
	Svc     *application.CourseService
	Deps    Deps
}

func NewCourseModule(h *handlers.CourseHandler, svc *application.CourseService, deps Deps) *CourseModule {
	return &CourseModule{Handler: h, Svc: svc, Deps: deps}
}

func (m *CourseModule) Register(rg *gin.RouterGroup) {
	rg.GET("/courses", middleware.AdvancedResults[entity.Course](m.Svc.List, "bootcamp"), m.Handler.List)
	rg.GET("/courses/:id", m.Handler.Get)
	rg.GET("/bootcamps/:id/courses", m.Handler.ListByBootcamp)

	w := rg.Group("")
	w.Use(m.Deps.Protect, m.Deps.userLimit(), middleware.Authorize(entity.RolePublisher, entity.RoleAdmin))
	{
		w.POST("/bootcamps/:id/courses", m.Handler.Create)
		w.PUT("/courses/:id", m.Handler.Update)
		w.DELETE("/courses/:id", m.Handler.Delete)
	}
}
