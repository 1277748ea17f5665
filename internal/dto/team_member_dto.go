package dto

// CreateTeamMemberRequest 邀请成员请求
type CreateTeamMemberRequest struct {
	Name       string  `json:"name" binding:"required,max=100"`
	Email      string  `json:"email" binding:"required,email,max=191"`
	Role       string  `json:"role" binding:"max=100"`
	Department string  `json:"department" binding:"max=100"`
	Phone      *string `json:"phone" binding:"omitempty,max=32"`
	Avatar     *string `json:"avatar" binding:"omitempty,max=500"`
	Status     string  `json:"status" binding:"omitempty,oneof=active away offline"`
}

// UpdateTeamMemberRequest 更新成员（部分字段）
type UpdateTeamMemberRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1,max=100"`
	Role       *string `json:"role" binding:"omitempty,max=100"`
	Department *string `json:"department" binding:"omitempty,max=100"`
	Phone      *string `json:"phone" binding:"omitempty,max=32"`
	Avatar     *string `json:"avatar" binding:"omitempty,max=500"`
	Status     *string `json:"status" binding:"omitempty,oneof=active away offline"`
}

// TeamMemberListQuery 成员列表查询
type TeamMemberListQuery struct {
	AdminID *int64 `form:"admin_id"`
	Status  string `form:"status" binding:"omitempty,oneof=active away offline"`
	Keyword string `form:"keyword"`
}

// TeamMemberResponse 成员响应
type TeamMemberResponse struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	Department string  `json:"department"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone"`
	Avatar     *string `json:"avatar"`
	Status     string  `json:"status"`
	AdminID    int64   `json:"admin_id"`
	UserID     int64   `json:"user_id"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

// CreateTeamMemberResponse 邀请成员响应
// TemporaryPassword 仅在欢迎邮件投递失败时返回一次
type CreateTeamMemberResponse struct {
	Member            *TeamMemberResponse `json:"member"`
	Email             EmailStatus         `json:"email"`
	TemporaryPassword string              `json:"temporary_password,omitempty"`
}
