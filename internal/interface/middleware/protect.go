package middleware

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bootcamp-directory/internal/application"
	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
)

const (
	CtxUserIDKey = "userID"
	CtxRoleKey   = "userRole"
	ctxUserKey   = "authUser"
	ctxClaimsKey = "authClaims"
)

// Authenticator resolves a presented token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.User, *helpers.Claims, error)
}

// Protect requires a valid identity token and attaches the user to the context.
func Protect(auth Authenticator, cookieFallback bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c, cookieFallback)
		if token == "" {
			_ = c.Error(apperror.Unauthorized("Access denied"))
			c.Abort()
			return
		}
		u, claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxRoleKey, u.Role)
		c.Set(ctxUserKey, u)
		c.Set(ctxClaimsKey, claims)
		c.Next()
	}
}

// Authorize lets through only users whose role is listed. It must run after Protect.
func Authorize(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRoleKey)
		if !entity.HasRole(role, roles...) {
			_ = c.Error(apperror.Forbidden(fmt.Sprintf("User role %s is unauthorized to access this route", role)))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser is the user attached by Protect.
func CurrentUser(c *gin.Context) *entity.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if u, ok := v.(*entity.User); ok {
			return u
		}
	}
	return nil
}

func CurrentClaims(c *gin.Context) *helpers.Claims {
	if v, ok := c.Get(ctxClaimsKey); ok {
		if cl, ok := v.(*helpers.Claims); ok {
			return cl
		}
	}
	return nil
}

func CurrentActor(c *gin.Context) application.Actor {
	return application.Actor{ID: c.GetString(CtxUserIDKey), Role: c.GetString(CtxRoleKey)}
}
