package handler

import (
	"github.com/gin-gonic/gin"

	"logify/internal/dto"
	"logify/internal/service"
	"logify/pkg/utils"
)

type TaskHandler struct {
	service service.TaskService
}

func NewTaskHandler(service service.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// List 任务列表
// @Summary 任务列表
// @Tags 任务
// @Produce json
// @Security BearerAuth
// @Param project_id query int false "项目ID"
// @Param assignee_id query int false "负责人ID"
// @Param status query string false "状态"
// @Success 200 {array} dto.TaskResponse
// @Router /api/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	var query dto.TaskListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.BindError(c, err)
		return
	}

	tasks, err := h.service.List(c.Request.Context(), currentPrincipal(c), &query)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, tasks)
}

// Get 任务详情
// @Summary 任务详情
// @Tags 任务
// @Produce json
// @Security BearerAuth
// @Param id path int true "任务ID"
// @Success 200 {object} dto.TaskResponse
// @Router /api/tasks/{id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	task, err := h.service.Get(c.Request.Context(), currentPrincipal(c), id)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, task)
}

// Create 创建任务
// @Summary 创建任务
// @Tags 任务
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTaskRequest true "任务信息"
// @Success 201 {object} dto.TaskResponse
// @Router /api/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}

	task, err := h.service.Create(c.Request.Context(), currentPrincipal(c), &req)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Created(c, task)
}

// Update 更新任务
// @Summary 更新任务
// @Description 部分更新，status 与 is_completed 保持同步
// @Tags 任务
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "任务ID"
// @Param request body dto.UpdateTaskRequest true "更新内容"
// @Success 200 {object} dto.TaskResponse
// @Router /api/tasks/{id} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}

	task, err := h.service.Update(c.Request.Context(), currentPrincipal(c), id, &req)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, task)
}

// Delete 删除任务
// @Summary 删除任务
// @Tags 任务
// @Produce json
// @Security BearerAuth
// @Param id path int true "任务ID"
// @Success 200 {object} map[string]bool
// @Router /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
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
