package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"logify/internal/pkg/auth"
	"logify/internal/pkg/config"
	"logify/internal/pkg/jwt"
	"logify/internal/pkg/logger"
	"logify/internal/service"
	"logify/pkg/constants"
	pkgErrors "logify/pkg/errors"
	"logify/pkg/utils"
)

// AuthMiddleware 会话认证中间件
// 优先读取 Authorization Bearer，其次读取会话Cookie
func AuthMiddleware(authz service.AuthorizationService, authService service.AuthService, cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			utils.Error(c, pkgErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := jwt.ValidateToken(token, constants.JWTTypeAccess)
		if err != nil {
			utils.Error(c, err)
			c.Abort()
			return
		}

		// 普通成员首次访问时解析租户，并把 admin_id 写回新的会话
		principal, changed, err := authz.ResolvePrincipal(c.Request.Context(), claims.Principal())
		if err != nil {
			utils.Error(c, err)
			c.Abort()
			return
		}
		if changed {
			tokens, err := authService.IssueTokens(principal)
			if err != nil {
				logger.Warn("会话重新签发失败", zap.Int64("user_id", principal.UserID), zap.Error(err))
			} else {
				SetSessionCookie(c, &cfg.Cookie, tokens.AccessToken, cfg.JWT.AccessTokenExpire)
				c.Header(constants.HeaderAccessToken, tokens.AccessToken)
			}
		}

		c.Set(constants.ContextKeyPrincipal, principal)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if header := c.GetHeader(constants.HeaderAuthorization); header != "" {
		if strings.HasPrefix(header, constants.HeaderBearerPrefix) {
			return strings.TrimSpace(strings.TrimPrefix(header, constants.HeaderBearerPrefix))
		}
		return ""
	}
	if cookie, err := c.Cookie(constants.SessionCookieName); err == nil {
		return cookie
	}
	return ""
}

// CurrentPrincipal 当前请求的登录主体，未认证时返回nil
func CurrentPrincipal(c *gin.Context) *auth.Principal {
	v, ok := c.Get(constants.ContextKeyPrincipal)
	if !ok {
		return nil
	}
	p, _ := v.(*auth.Principal)
	return p
}
