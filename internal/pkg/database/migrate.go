package database

import (
	"fmt"

	"gorm.io/gorm"

	"logify/internal/model"
)

// Models 需要迁移的模型，按依赖顺序排列
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.TeamMember{},
		&model.Project{},
		&model.Task{},
		&model.ProjectTeamMember{},
		&model.TaskTeamMember{},
		&model.TimesheetEntry{},
	}
}

// AutoMigrate 自动建表/补齐字段与索引
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	return nil
}
