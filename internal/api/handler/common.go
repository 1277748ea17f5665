package handler

import (
	"github.com/gin-gonic/gin"

	"logify/internal/api/middleware"
	"logify/internal/dto"
	"logify/internal/pkg/auth"
	"logify/pkg/utils"
)

// currentPrincipal 当前登录主体
func currentPrincipal(c *gin.Context) *auth.Principal {
	return middleware.CurrentPrincipal(c)
}

// bindID 绑定路径参数 id，失败时已写入响应
func bindID(c *gin.Context) (int64, bool) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		utils.BindError(c, err)
		return 0, false
	}
	return param.ID, true
}
