package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"logify/internal/pkg/config"
	"logify/pkg/constants"
)

// SetSessionCookie 写入 HttpOnly 会话Cookie
func SetSessionCookie(c *gin.Context, cfg *config.CookieConfig, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.SessionCookieName, token, maxAge, "/", cfg.Domain, cfg.Secure, true)
}

// ClearSessionCookie 清除会话Cookie
func ClearSessionCookie(c *gin.Context, cfg *config.CookieConfig) {
	SetSessionCookie(c, cfg, "", -1)
}
