package router

import (
	"github.com/oksasatya/bootcamp-directory/internal/container"
	handlers "github.com/oksasatya/bootcamp-directory/internal/interface/http"
	"github.com/oksasatya/bootcamp-directory/internal/interface/middleware"
	"github.com/oksasatya/bootcamp-directory/internal/router/modules"
	"github.com/oksasatya/bootcamp-directory/pkg/validation"
)

// InitModules builds the handlers from c and adds every feature module to r.
// Call it once, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	validation.Init()

	deps := modules.Deps{
		Protect: middleware.Protect(c.Auth, c.Cfg.AuthCookieFallback),
		Redis:   c.Redis,
		Cfg:     c.Cfg,
	}

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(c.Auth, c.Cookies, c.Cfg, c.Logger), deps))
	r.Add(modules.NewBootcampModule(handlers.NewBootcampHandler(c.Bootcamps), c.Bootcamps, deps))
	r.Add(modules.NewCourseModule(handlers.NewCourseHandler(c.Courses), c.Courses, deps))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(c.Users), c.Users, deps))
	if c.Cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(deps))
	}
}
