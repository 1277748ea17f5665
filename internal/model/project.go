package model

import "gorm.io/datatypes"

const ProjectTableName = "projects"
const ProjectTeamMemberTableName = "project_team_members"

// Project 项目
// Progress/TaskTotal/TaskCompleted 为派生计数，随任务变更在同一事务内重算
type Project struct {
	BaseModel
	TenantScoped
	Name          string          `gorm:"size:200;not null" json:"name"`
	Description   *string         `gorm:"type:text" json:"description"`
	Status        string          `gorm:"size:20;not null;default:not-started;index" json:"status"`
	Priority      string          `gorm:"size:10;not null;default:medium" json:"priority"`
	StartDate     datatypes.Date  `gorm:"not null" json:"start_date"`
	EndDate       datatypes.Date  `gorm:"not null" json:"end_date"`
	DueDate       *datatypes.Date `json:"due_date"`
	Progress      int             `gorm:"not null;default:0" json:"progress"`
	TaskTotal     int             `gorm:"not null;default:0" json:"task_total"`
	TaskCompleted int             `gorm:"not null;default:0" json:"task_completed"`
}

func (Project) TableName() string {
	return ProjectTableName
}

// ProjectTeamMember 项目-成员关联
type ProjectTeamMember struct {
	ProjectID    int64 `gorm:"primaryKey;autoIncrement:false" json:"project_id"`
	TeamMemberID int64 `gorm:"primaryKey;autoIncrement:false;index" json:"team_member_id"`

	Project    *Project    `gorm:"foreignKey:ProjectID" json:"-"`
	TeamMember *TeamMember `gorm:"foreignKey:TeamMemberID" json:"-"`
}

func (ProjectTeamMember) TableName() string {
	return ProjectTeamMemberTableName
}
