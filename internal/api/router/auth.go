package router

import (
	"github.com/gin-gonic/gin"

	"logify/internal/api/middleware"
	"logify/internal/pkg/auth"
	"logify/internal/service"
	pkgErrors "logify/pkg/errors"
	"logify/pkg/utils"
)

var authz service.AuthorizationService

// RequirePermission 校验当前主体的角色权限
func RequirePermission(permission auth.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.CurrentPrincipal(c)
		if p == nil {
			utils.Error(c, pkgErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !authz.HasPermission(p, permission) {
			utils.Error(c, pkgErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
