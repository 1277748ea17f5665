package handler

import (
	"github.com/gin-gonic/gin"

	"logify/internal/dto"
	"logify/internal/service"
	"logify/pkg/utils"
)

type TeamMemberHandler struct {
	service service.TeamMemberService
}

func NewTeamMemberHandler(service service.TeamMemberService) *TeamMemberHandler {
	return &TeamMemberHandler{
		service: service,
	}
}

// ListMembers 获取团队成员列表
// @Summary 团队成员列表
// @Tags 团队成员
// @Produce json
// @Security BearerAuth
// @Param admin_id query int false "租户ID，必须与当前租户一致"
// @Param status query string false "状态"
// @Param keyword query string false "按姓名/邮箱/部门模糊搜索"
// @Success 200 {array} dto.TeamMemberResponse
// @Router /api/team-members [get]
func (h *TeamMemberHandler) ListMembers(c *gin.Context) {
	var query dto.TeamMemberListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.BindError(c, err)
		return
	}

	members, err := h.service.List(c.Request.Context(), currentPrincipal(c), &query)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, members)
}

// GetMember 获取团队成员
// @Summary 团队成员详情
// @Tags 团队成员
// @Produce json
// @Security BearerAuth
// @Param id path int true "成员ID"
// @Success 200 {object} dto.TeamMemberResponse
// @Router /api/team-members/{id} [get]
func (h *TeamMemberHandler) GetMember(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	member, err := h.service.Get(c.Request.Context(), currentPrincipal(c), id)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, member)
}

// AddMember 添加团队成员
// @Summary 添加团队成员
// @Tags 团队成员
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTeamMemberRequest true "成员信息"
// @Success 201 {object} dto.CreateTeamMemberResponse
// @Router /api/team-members [post]
func (h *TeamMemberHandler) AddMember(c *gin.Context) {
	var req dto.CreateTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), currentPrincipal(c), &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Created(c, resp)
}

// UpdateMember 更新团队成员
// @Summary 更新团队成员
// @Tags 团队成员
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "成员ID"
// @Param request body dto.UpdateTeamMemberRequest true "更新内容"
// @Success 200 {object} dto.TeamMemberResponse
// @Router /api/team-members/{id} [patch]
func (h *TeamMemberHandler) UpdateMember(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	var req dto.UpdateTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}

	member, err := h.service.Update(c.Request.Context(), currentPrincipal(c), id, &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, member)
}

// DeleteMember 删除团队成员
// @Summary 删除团队成员
// @Description 同时移除任务分配、项目成员关系及其工时记录
// @Tags 团队成员
// @Produce json
// @Security BearerAuth
// @Param id path int true "成员ID"
// @Success 200 {object} map[string]bool
// @Router /api/team-members/{id} [delete]
func (h *TeamMemberHandler) DeleteMember(c *gin.Context) {
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
