package model

import "gorm.io/datatypes"

const TimesheetEntryTableName = "timesheet_entries"

// TimesheetEntry 工时记录
// (team_member_id, task_id, date) 唯一
type TimesheetEntry struct {
	BaseModel
	TenantScoped
	TeamMemberID int64          `gorm:"not null;uniqueIndex:uk_timesheet_member_task_date,priority:1" json:"team_member_id"`
	TaskID       int64          `gorm:"not null;index;uniqueIndex:uk_timesheet_member_task_date,priority:2" json:"task_id"`
	Date         datatypes.Date `gorm:"not null;index;uniqueIndex:uk_timesheet_member_task_date,priority:3" json:"date"`
	Hours        float64        `gorm:"not null;default:0" json:"hours"`
	Description  *string        `gorm:"type:text" json:"description"`
	ProjectID    int64          `gorm:"not null;index" json:"project_id"`

	TeamMember *TeamMember `gorm:"foreignKey:TeamMemberID" json:"-"`
	Task       *Task       `gorm:"foreignKey:TaskID" json:"-"`
	Project    *Project    `gorm:"foreignKey:ProjectID" json:"-"`
}

func (TimesheetEntry) TableName() string {
	return TimesheetEntryTableName
}
