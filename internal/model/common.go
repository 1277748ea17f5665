package model

import "time"

// BaseModel 基础模型
type BaseModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// TenantScoped 归属于某个租户（管理员账号）的数据
type TenantScoped struct {
	AdminID int64 `gorm:"column:admin_id;not null;index" json:"admin_id"`
}

// OwnedBy 是否属于指定租户
func (t TenantScoped) OwnedBy(tenantID int64) bool {
	return t.AdminID == tenantID
}
