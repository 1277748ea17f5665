package handler

import (
	"github.com/gin-gonic/gin"

	"logify/internal/service"
	"logify/pkg/utils"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(service service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Snapshot 看板统计
// @Summary 看板统计
// @Description 项目、任务、成员状态分布，近30天工时与项目占比，最近动态
// @Tags 看板
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardResponse
// @Router /api/dashboard [get]
func (h *DashboardHandler) Snapshot(c *gin.Context) {
	snapshot, err := h.service.Snapshot(c.Request.Context(), currentPrincipal(c))
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, snapshot)
}
