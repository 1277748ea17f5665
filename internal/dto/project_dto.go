package dto

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required,max=200"`
	Description *string `json:"description"`
	Status      string  `json:"status" binding:"omitempty,oneof=not-started in-progress on-hold completed undefined"`
	Priority    string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	StartDate   string  `json:"start_date" binding:"required,datestr"`
	EndDate     string  `json:"end_date" binding:"required,datestr"`
	DueDate     *string `json:"due_date" binding:"omitempty,datestr"`
	TeamMembers []int64 `json:"team_members" binding:"omitempty,dive,min=1"`
}

// UpdateProjectRequest 更新项目请求（部分字段）
// TeamMembers 非nil时整体替换项目成员
type UpdateProjectRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string  `json:"description"`
	Status      *string  `json:"status" binding:"omitempty,oneof=not-started in-progress on-hold completed undefined"`
	Priority    *string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	StartDate   *string  `json:"start_date" binding:"omitempty,datestr"`
	EndDate     *string  `json:"end_date" binding:"omitempty,datestr"`
	DueDate     *string  `json:"due_date" binding:"omitempty,datestr"`
	TeamMembers *[]int64 `json:"team_members"`
}

// ProjectResponse 项目响应
type ProjectResponse struct {
	ID            int64        `json:"id"`
	Name          string       `json:"name"`
	Description   *string      `json:"description"`
	Status        string       `json:"status"`
	Priority      string       `json:"priority"`
	StartDate     string       `json:"start_date"`
	EndDate       string       `json:"end_date"`
	DueDate       *string      `json:"due_date"`
	Progress      int          `json:"progress"`
	TaskTotal     int          `json:"task_total"`
	TaskCompleted int          `json:"task_completed"`
	AdminID       int64        `json:"admin_id"`
	TeamCount     int64        `json:"team_count"`
	TeamMembers   []*MemberRef `json:"team_members,omitempty"`
	CreatedAt     string       `json:"created_at"`
	UpdatedAt     string       `json:"updated_at"`
}
