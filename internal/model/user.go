package model

const UserTableName = "users"

// User 登录用户；管理员即租户
type User struct {
	BaseModel
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:191;not null;uniqueIndex:uk_users_email" json:"email"`
	Password string `gorm:"column:password_hash;size:255;not null" json:"-"` // 不返回到前端
	Role     string `gorm:"size:20;not null;default:admin;index" json:"role"`
}

// TableName 指定表名
func (User) TableName() string {
	return UserTableName
}
