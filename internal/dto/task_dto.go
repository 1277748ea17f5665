package dto

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description *string `json:"description"`
	Status      string  `json:"status" binding:"omitempty,oneof=to-do in-progress completed"`
	Priority    string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *string `json:"due_date" binding:"omitempty,datestr"`
	ProjectID   int64   `json:"project_id" binding:"required,min=1"`
	Assignees   []int64 `json:"assignees" binding:"omitempty,dive,min=1"`
}

// UpdateTaskRequest 更新任务请求（部分字段）
type UpdateTaskRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string  `json:"description"`
	Status      *string  `json:"status" binding:"omitempty,oneof=to-do in-progress completed"`
	Priority    *string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *string  `json:"due_date" binding:"omitempty,datestr"`
	ProjectID   *int64   `json:"project_id" binding:"omitempty,min=1"`
	IsCompleted *bool    `json:"is_completed"`
	Assignees   *[]int64 `json:"assignees"`
}

// TaskListQuery 任务列表过滤
type TaskListQuery struct {
	ProjectID  *int64 `form:"project_id"`
	AssigneeID *int64 `form:"assignee_id"`
	Status     string `form:"status" binding:"omitempty,oneof=to-do in-progress completed"`
}

// TaskResponse 任务响应
type TaskResponse struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Status      string       `json:"status"`
	Priority    string       `json:"priority"`
	DueDate     *string      `json:"due_date"`
	ProjectID   int64        `json:"project_id"`
	ProjectName string       `json:"project_name,omitempty"`
	IsCompleted bool         `json:"is_completed"`
	AdminID     int64        `json:"admin_id"`
	Assignees   []*MemberRef `json:"assignees"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
}
