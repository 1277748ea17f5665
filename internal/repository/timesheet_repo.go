package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"logify/internal/model"
	pkgErrors "logify/pkg/errors"
)

// TimesheetFilter 工时过滤条件，nil/零值表示不过滤
type TimesheetFilter struct {
	TeamMemberID *int64
	ProjectID    *int64
	TaskID       *int64
	StartDate    *time.Time
	EndDate      *time.Time
	Offset       int
	Limit        int // 0 表示不分页
}

// TimesheetEntryRow 工时记录及关联名称
type TimesheetEntryRow struct {
	model.TimesheetEntry
	TeamMemberName string `gorm:"column:team_member_name"`
	ProjectName    string `gorm:"column:project_name"`
	TaskTitle      string `gorm:"column:task_title"`
}

type TimesheetRepository interface {
	WithTx(tx *gorm.DB) TimesheetRepository
	Create(ctx context.Context, entry *model.TimesheetEntry) error
	FindByID(ctx context.Context, tenantID, id int64) (*model.TimesheetEntry, error)
	FindRowByID(ctx context.Context, tenantID, id int64) (*TimesheetEntryRow, error)
	List(ctx context.Context, tenantID int64, filter TimesheetFilter) ([]*TimesheetEntryRow, int64, error)
	Update(ctx context.Context, tenantID, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, tenantID, id int64) error
}

type timesheetRepository struct {
	db *gorm.DB
}

func NewTimesheetRepository(db *gorm.DB) TimesheetRepository {
	return &timesheetRepository{db: db}
}

func (r *timesheetRepository) WithTx(tx *gorm.DB) TimesheetRepository {
	return &timesheetRepository{db: tx}
}

func (r *timesheetRepository) Create(ctx context.Context, entry *model.TimesheetEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return wrapDBError("新增工时失败", err)
	}
	return nil
}

// FindByID 查询租户下的工时记录，不属于该租户视为不存在
func (r *timesheetRepository) FindByID(ctx context.Context, tenantID, id int64) (*model.TimesheetEntry, error) {
	var entry model.TimesheetEntry
	err := r.db.WithContext(ctx).Where("id = ? AND admin_id = ?", id, tenantID).First(&entry).Error
	if err != nil {
		return nil, wrapDBError("查询工时失败", err)
	}
	return &entry, nil
}

// List 条件以 AND 组合，按日期倒序、创建时间倒序
func (r *timesheetRepository) List(ctx context.Context, tenantID int64, filter TimesheetFilter) ([]*TimesheetEntryRow, int64, error) {
	var rows []*TimesheetEntryRow
	var total int64

	query := r.db.WithContext(ctx).Model(&model.TimesheetEntry{}).
		Where("timesheet_entries.admin_id = ?", tenantID)

	if filter.TeamMemberID != nil {
		query = query.Where("timesheet_entries.team_member_id = ?", *filter.TeamMemberID)
	}
	if filter.ProjectID != nil {
		query = query.Where("timesheet_entries.project_id = ?", *filter.ProjectID)
	}
	if filter.TaskID != nil {
		query = query.Where("timesheet_entries.task_id = ?", *filter.TaskID)
	}
	if filter.StartDate != nil {
		query = query.Where("timesheet_entries.date >= ?", datatypes.Date(*filter.StartDate))
	}
	if filter.EndDate != nil {
		query = query.Where("timesheet_entries.date <= ?", datatypes.Date(*filter.EndDate))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计工时失败", err)
	}

	query = withNames(query).
		Order("timesheet_entries.date DESC").
		Order("timesheet_entries.created_at DESC").
		Order("timesheet_entries.id DESC")

	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询工时失败", err)
	}
	return rows, total, nil
}

// FindRowByID 查询单条工时及关联名称
func (r *timesheetRepository) FindRowByID(ctx context.Context, tenantID, id int64) (*TimesheetEntryRow, error) {
	var rows []*TimesheetEntryRow
	err := withNames(r.db.WithContext(ctx).Model(&model.TimesheetEntry{})).
		Where("timesheet_entries.id = ? AND timesheet_entries.admin_id = ?", id, tenantID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询工时失败", err)
	}
	if len(rows) == 0 {
		return nil, pkgErrors.ErrRecordNotFound
	}
	return rows[0], nil
}

func withNames(db *gorm.DB) *gorm.DB {
	return db.
		Select("timesheet_entries.*, team_members.name AS team_member_name, projects.name AS project_name, tasks.title AS task_title").
		Joins("LEFT JOIN team_members ON team_members.id = timesheet_entries.team_member_id").
		Joins("LEFT JOIN projects ON projects.id = timesheet_entries.project_id").
		Joins("LEFT JOIN tasks ON tasks.id = timesheet_entries.task_id")
}

// Update 只更新 (tenant, id) 匹配的记录
func (r *timesheetRepository) Update(ctx context.Context, tenantID, id int64, updates map[string]interface{}) error {
	err := r.db.WithContext(ctx).Model(&model.TimesheetEntry{}).
		Where("id = ? AND admin_id = ?", id, tenantID).
		Updates(updates).Error
	if err != nil {
		return wrapDBError("更新工时失败", err)
	}
	return nil
}

func (r *timesheetRepository) Delete(ctx context.Context, tenantID, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ? AND admin_id = ?", id, tenantID).Delete(&model.TimesheetEntry{})
	if result.Error != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除工时失败", result.Error)
	}
	if result.RowsAffected == 0 {
		return pkgErrors.ErrRecordNotFound
	}
	return nil
}
