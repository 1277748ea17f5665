package model

import "gorm.io/datatypes"

const TaskTableName = "tasks"
const TaskTeamMemberTableName = "task_team_members"

// Task 任务，必须属于同租户的项目
type Task struct {
	BaseModel
	TenantScoped
	Title       string          `gorm:"size:200;not null" json:"title"`
	Description *string         `gorm:"type:text" json:"description"`
	Status      string          `gorm:"size:20;not null;default:to-do;index" json:"status"`
	Priority    string          `gorm:"size:10;not null;default:medium" json:"priority"`
	DueDate     *datatypes.Date `json:"due_date"`
	ProjectID   int64           `gorm:"not null;index" json:"project_id"`
	IsCompleted bool            `gorm:"not null;default:false" json:"is_completed"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"-"`
}

func (Task) TableName() string {
	return TaskTableName
}

// TaskTeamMember 任务-成员关联
type TaskTeamMember struct {
	TaskID       int64 `gorm:"primaryKey;autoIncrement:false" json:"task_id"`
	TeamMemberID int64 `gorm:"primaryKey;autoIncrement:false;index" json:"team_member_id"`

	Task       *Task       `gorm:"foreignKey:TaskID" json:"-"`
	TeamMember *TeamMember `gorm:"foreignKey:TeamMemberID" json:"-"`
}

func (TaskTeamMember) TableName() string {
	return TaskTeamMemberTableName
}
