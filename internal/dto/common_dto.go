package dto

// PageQuery 分页查询参数
type PageQuery struct {
	Page     int `form:"page"`      // 可选：页码，不传默认为1
	PageSize int `form:"page_size"` // 可选：每页数量，不传默认为20
}

// Paginated 是否传了分页参数
func (p *PageQuery) Paginated() bool {
	return p.Page > 0 || p.PageSize > 0
}

// GetPage 获取页码
func (p *PageQuery) GetPage() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量
func (p *PageQuery) GetPageSize() int {
	if p.PageSize < 1 {
		return 20
	}
	if p.PageSize > 200 {
		return 200
	}
	return p.PageSize
}

// GetOffset 获取偏移量
func (p *PageQuery) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// IDParam 路径ID参数
type IDParam struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// MemberRef 成员简要信息
type MemberRef struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// EmailStatus 邮件投递状态，与数据写入结果分开报告
type EmailStatus struct {
	Sent  bool   `json:"sent"`
	Error string `json:"error,omitempty"`
}
