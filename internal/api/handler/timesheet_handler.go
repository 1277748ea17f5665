package handler

import (
	"github.com/gin-gonic/gin"

	"logify/internal/dto"
	"logify/internal/service"
	"logify/pkg/utils"
)

type TimesheetHandler struct {
	service service.TimesheetService
}

func NewTimesheetHandler(service service.TimesheetService) *TimesheetHandler {
	return &TimesheetHandler{service: service}
}

// List 工时列表
// @Summary 工时记录列表
// @Description 条件均为可选并按 AND 组合；传 page/page_size 时返回分页结构
// @Tags 工时
// @Produce json
// @Security BearerAuth
// @Param team_member_id query int false "成员ID"
// @Param project_id query int false "项目ID"
// @Param task_id query int false "任务ID"
// @Param start_date query string false "开始日期 yyyy-MM-dd"
// @Param end_date query string false "结束日期 yyyy-MM-dd"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {array} dto.TimesheetEntryResponse
// @Router /api/timesheet [get]
func (h *TimesheetHandler) List(c *gin.Context) {
	var query dto.TimesheetListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.BindError(c, err)
		return
	}

	entries, total, err := h.service.List(c.Request.Context(), currentPrincipal(c), &query)
	if err != nil {
		utils.Error(c, err)
		return
	}

	if query.Paginated() {
		utils.PageSuccess(c, entries, total, query.GetPage(), query.GetPageSize())
		return
	}
	utils.Success(c, entries)
}

// Create 记录工时
// @Summary 新增工时记录
// @Tags 工时
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTimesheetEntryRequest true "工时信息"
// @Success 201 {object} dto.TimesheetEntryResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/timesheet [post]
func (h *TimesheetHandler) Create(c *gin.Context) {
	var req dto.CreateTimesheetEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}

	entry, err := h.service.Create(c.Request.Context(), currentPrincipal(c), &req)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Created(c, entry)
}

// Update 更新工时
// @Summary 更新工时记录
// @Description 仅更新请求中出现的字段，空请求返回400
// @Tags 工时
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "记录ID"
// @Param request body dto.TimesheetPatch true "更新内容"
// @Success 200 {object} dto.TimesheetEntryResponse
// @Router /api/timesheet/{id} [patch]
func (h *TimesheetHandler) Update(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	var patch dto.TimesheetPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.BindError(c, err)
		return
	}

	entry, err := h.service.Update(c.Request.Context(), currentPrincipal(c), id, &patch)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, entry)
}

// Delete 删除工时
// @Summary 删除工时记录
// @Tags 工时
// @Produce json
// @Security BearerAuth
// @Param id path int true "记录ID"
// @Success 200 {object} map[string]bool
// @Router /api/timesheet/{id} [delete]
func (h *TimesheetHandler) Delete(c *gin.Context) {
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

// Weekly 周报
// @Summary 周工时汇总
// @Description 以周一为起点，返回每日、每个项目的工时与合计
// @Tags 工时
// @Produce json
// @Security BearerAuth
// @Param team_member_id query int false "成员ID"
// @Param week_start query string false "周内任意日期，默认本周"
// @Success 200 {object} dto.WeeklyReportResponse
// @Router /api/timesheet/weekly [get]
func (h *TimesheetHandler) Weekly(c *gin.Context) {
	var query dto.WeeklyReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.BindError(c, err)
		return
	}

	report, err := h.service.Weekly(c.Request.Context(), currentPrincipal(c), &query)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.Success(c, report)
}

// SendData 邮件提交工时
// @Summary 提交工时汇总邮件
// @Description 按项目和任务汇总工时并发送给租户管理员；发送失败返回502，数据不受影响
// @Tags 工时
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendTimesheetRequest true "提交内容"
// @Success 200 {object} dto.SendTimesheetResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/sendData [post]
func (h *TimesheetHandler) SendData(c *gin.Context) {
	var req dto.SendTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), currentPrincipal(c), &req)
	if err != nil {
		// 投递失败时错误中携带汇总结果
		utils.Error(c, err)
		return
	}
	utils.Success(c, resp)
}
