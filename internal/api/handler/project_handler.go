package handler

import (
	"github.com/gin-gonic/gin"

	"logify/internal/dto"
	"logify/internal/service"
	"logify/pkg/utils"
)

type ProjectHandler struct {
	service service.ProjectService
}

func NewProjectHandler(service service.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// List 项目列表
// @Summary 项目列表
// @Description 返回当前租户的全部项目，包含成员数
// @Tags 项目
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ProjectResponse
// @Router /api/projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.service.List(c.Request.Context(), currentPrincipal(c))
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, projects)
}

// Get 项目详情
// @Summary 项目详情
// @Tags 项目
// @Produce json
// @Security BearerAuth
// @Param id path int true "项目ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	project, err := h.service.Get(c.Request.Context(), currentPrincipal(c), id)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, project)
}

// Create 创建项目
// @Summary 创建项目
// @Tags 项目
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProjectRequest true "项目信息"
// @Success 201 {object} dto.ProjectResponse
// @Router /api/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}

	project, err := h.service.Create(c.Request.Context(), currentPrincipal(c), &req)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Created(c, project)
}

// Update 更新项目
// @Summary 更新项目
// @Description 部分更新，team_members 存在时整体替换成员
// @Tags 项目
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "项目ID"
// @Param request body dto.UpdateProjectRequest true "更新内容"
// @Success 200 {object} dto.ProjectResponse
// @Router /api/projects/{id} [patch]
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}

	project, err := h.service.Update(c.Request.Context(), currentPrincipal(c), id, &req)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, project)
}

// Delete 删除项目
// @Summary 删除项目
// @Description 级联删除任务、任务分配、工时记录与项目成员
// @Tags 项目
// @Produce json
// @Security BearerAuth
// @Param id path int true "项目ID"
// @Success 200 {object} map[string]bool
// @Router /api/projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), currentPrincipal(c), id); err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, nil)
}
