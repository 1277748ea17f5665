package auth

// Principal 当前请求的登录主体
// 租户即管理员账号：管理员的租户为自身ID，普通成员的租户为其所属管理员
type Principal struct {
	UserID  int64  `json:"id"`
	Role    Role   `json:"role"`
	AdminID *int64 `json:"admin_id,omitempty"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// IsAdmin 是否管理员
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// TenantID 租户ID；普通成员尚未解析出 admin_id 时返回 false
func (p *Principal) TenantID() (int64, bool) {
	if p == nil {
		return 0, false
	}
	if p.IsAdmin() {
		return p.UserID, true
	}
	if p.AdminID != nil && *p.AdminID > 0 {
		return *p.AdminID, true
	}
	return 0, false
}

// NeedsTenantResolution 普通成员且Token中未缓存 admin_id
func (p *Principal) NeedsTenantResolution() bool {
	return p != nil && !p.IsAdmin() && (p.AdminID == nil || *p.AdminID == 0)
}

// Can 是否拥有权限
func (p *Principal) Can(perm Permission) bool {
	if p == nil {
		return false
	}
	return Allow([]string{string(p.Role)}, perm)
}
