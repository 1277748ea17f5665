package repository

import (
	"errors"

	"gorm.io/gorm"

	"logify/internal/pkg/database"
	pkgErrors "logify/pkg/errors"
)

type QueryOption func(*gorm.DB) *gorm.DB

func WithPreload(association string, conds ...interface{}) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload(association, conds...)
	}
}

// WithOrder 排序
func WithOrder(order string) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(order)
	}
}

func applyOptions(db *gorm.DB, opts []QueryOption) *gorm.DB {
	for _, opt := range opts {
		db = opt(db)
	}
	return db
}

// 唯一约束冲突对应的提示信息
var conflictMessages = map[string]string{
	database.UKUsersEmail:             "Email already registered",
	database.UKTeamMembersAdminEmail:  "A team member with this email already exists",
	database.UKTeamMembersUserID:      "This user is already linked to a team member",
	database.UKTimesheetMemberTaskDay: "A timesheet entry for this team member, task and date already exists",
}

// wrapDBError 转换数据库错误：记录不存在→404，唯一约束冲突→409，其余→500
func wrapDBError(message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgErrors.ErrRecordNotFound
	}
	if constraint, ok := database.UniqueViolation(err); ok {
		if msg, known := conflictMessages[constraint]; known {
			return pkgErrors.Wrap(pkgErrors.CodeConflict, msg, err)
		}
		return pkgErrors.Wrap(pkgErrors.CodeConflict, "Resource already exists", err)
	}
	return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, message, err)
}

// StatusCount 按状态分组计数
type StatusCount struct {
	Status string
	Count  int64
}
