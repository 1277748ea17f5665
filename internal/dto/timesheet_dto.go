package dto

import (
	"logify/pkg/utils"
)

// TimesheetListQuery 工时查询过滤，所有条件均为可选并以 AND 组合
type TimesheetListQuery struct {
	PageQuery
	TeamMemberID *int64 `form:"team_member_id"`
	ProjectID    *int64 `form:"project_id"`
	TaskID       *int64 `form:"task_id"`
	StartDate    string `form:"start_date" binding:"omitempty,datestr"`
	EndDate      string `form:"end_date" binding:"omitempty,datestr"`
}

// CreateTimesheetEntryRequest 新增工时
type CreateTimesheetEntryRequest struct {
	TeamMemberID int64    `json:"team_member_id" binding:"required,min=1"`
	ProjectID    int64    `json:"project_id" binding:"required,min=1"`
	TaskID       int64    `json:"task_id" binding:"required,min=1"`
	Date         string   `json:"date" binding:"required,datestr"`
	Hours        *float64 `json:"hours" binding:"required,hours"`
	Description  *string  `json:"description"`
}

// TimesheetPatch 工时部分更新，仅非nil字段参与更新
type TimesheetPatch struct {
	Hours       *float64 `json:"hours" binding:"omitempty,hours"`
	Description *string  `json:"description"`
	ProjectID   *int64   `json:"project_id" binding:"omitempty,min=1"`
	TaskID      *int64   `json:"task_id" binding:"omitempty,min=1"`
	Date        *string  `json:"date" binding:"omitempty,datestr"`
}

// IsEmpty 是否没有任何字段
func (p *TimesheetPatch) IsEmpty() bool {
	return p.Hours == nil && p.Description == nil && p.ProjectID == nil && p.TaskID == nil && p.Date == nil
}

// Updates 由存在的字段组装更新列
func (p *TimesheetPatch) Updates() (map[string]interface{}, error) {
	updates := make(map[string]interface{})
	if p.Hours != nil {
		updates["hours"] = *p.Hours
	}
	if p.Description != nil {
		updates["description"] = *p.Description
	}
	if p.ProjectID != nil {
		updates["project_id"] = *p.ProjectID
	}
	if p.TaskID != nil {
		updates["task_id"] = *p.TaskID
	}
	if p.Date != nil {
		d, err := utils.ToDate(*p.Date)
		if err != nil {
			return nil, err
		}
		updates["date"] = d
	}
	return updates, nil
}

// TimesheetEntryResponse 工时响应
type TimesheetEntryResponse struct {
	ID             int64   `json:"id"`
	TeamMemberID   int64   `json:"team_member_id"`
	TeamMemberName string  `json:"team_member_name"`
	ProjectID      int64   `json:"project_id"`
	ProjectName    string  `json:"project_name"`
	TaskID         int64   `json:"task_id"`
	TaskTitle      string  `json:"task_title"`
	Date           string  `json:"date"`
	Hours          float64 `json:"hours"`
	Description    *string `json:"description"`
	AdminID        int64   `json:"admin_id"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// WeeklyReportQuery 周报查询
type WeeklyReportQuery struct {
	TeamMemberID *int64 `form:"team_member_id"`
	WeekStart    string `form:"week_start" binding:"omitempty,datestr"`
}

// DailyHours 单日工时
type DailyHours struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

// ProjectHours 项目工时
type ProjectHours struct {
	ProjectID   int64   `json:"project_id"`
	ProjectName string  `json:"project_name"`
	Hours       float64 `json:"hours"`
}

// WeeklyReportResponse 周报（周一开始的7天）
type WeeklyReportResponse struct {
	TeamMemberID *int64          `json:"team_member_id,omitempty"`
	WeekStart    string          `json:"week_start"`
	WeekEnd      string          `json:"week_end"`
	Days         []DailyHours    `json:"days"`
	Projects     []*ProjectHours `json:"projects"`
	TotalHours   float64         `json:"total_hours"`
}

// SubmissionEntry 提交邮件中的单条工时
type SubmissionEntry struct {
	ProjectID   int64   `json:"project_id"`
	ProjectName string  `json:"project_name"`
	TaskID      int64   `json:"task_id"`
	TaskTitle   string  `json:"task_title"`
	Date        string  `json:"date"`
	Hours       float64 `json:"hours" binding:"hours"`
	Description string  `json:"description"`
}

// SendTimesheetRequest 发送工时汇总邮件
// Entries 为空且提供 TeamMemberID 时，按 Period 从数据库加载
type SendTimesheetRequest struct {
	Entries      []*SubmissionEntry `json:"entries" binding:"omitempty,dive"`
	EmployeeName string             `json:"employee_name" binding:"max=100"`
	TeamMemberID *int64             `json:"team_member_id" binding:"omitempty,min=1"`
	Period       Period             `json:"period"`
}

// Period 统计区间
type Period struct {
	Start string `json:"start" binding:"omitempty,datestr"`
	End   string `json:"end" binding:"omitempty,datestr"`
}

// SubmissionLine 按 (项目, 任务) 汇总后的一行
type SubmissionLine struct {
	ProjectName string  `json:"project_name"`
	TaskTitle   string  `json:"task_title"`
	Hours       float64 `json:"hours"`
}

// SendTimesheetResponse 发送结果
type SendTimesheetResponse struct {
	Lines      []*SubmissionLine `json:"lines"`
	TotalHours float64           `json:"total_hours"`
	Recipient  string            `json:"recipient"`
	Email      EmailStatus       `json:"email"`
}
