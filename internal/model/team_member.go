package model

const TeamMemberTableName = "team_members"

// TeamMember 团队成员，与一个 role=user 的登录用户一对一
type TeamMember struct {
	BaseModel
	AdminID    int64   `gorm:"column:admin_id;not null;index;uniqueIndex:uk_team_members_admin_email,priority:1" json:"admin_id"`
	Email      string  `gorm:"size:191;not null;uniqueIndex:uk_team_members_admin_email,priority:2" json:"email"`
	Name       string  `gorm:"size:100;not null" json:"name"`
	Role       string  `gorm:"size:100" json:"role"` // 岗位，非系统角色
	Department string  `gorm:"size:100" json:"department"`
	Phone      *string `gorm:"size:32" json:"phone"`
	Avatar     *string `gorm:"size:500" json:"avatar"`
	Status     string  `gorm:"size:20;not null;default:active;index" json:"status"`
	UserID     int64   `gorm:"column:user_id;not null;uniqueIndex:uk_team_members_user_id" json:"user_id"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (TeamMember) TableName() string {
	return TeamMemberTableName
}

// OwnedBy 是否属于指定租户
func (m *TeamMember) OwnedBy(tenantID int64) bool {
	return m.AdminID == tenantID
}
