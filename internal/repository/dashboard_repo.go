package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"logify/internal/model"
	"logify/pkg/constants"
	pkgErrors "logify/pkg/errors"
)

// TimesheetTotals 区间内工时汇总
type TimesheetTotals struct {
	TotalHours    float64
	EntryCount    int64
	ActiveMembers int64
}

// ProjectHoursRow 区间内单个项目的工时
type ProjectHoursRow struct {
	ProjectID   int64
	ProjectName string
	Hours       float64
}

// DashboardRepository 看板聚合查询，全部按租户过滤
// 日期比较通过参数传入，不依赖数据库日期函数
type DashboardRepository interface {
	ProjectStatusCounts(ctx context.Context, tenantID int64) ([]StatusCount, error)
	TaskStatusCounts(ctx context.Context, tenantID int64) ([]StatusCount, error)
	OverdueTaskCount(ctx context.Context, tenantID int64, today time.Time) (int64, error)
	TeamStatusCounts(ctx context.Context, tenantID int64) ([]StatusCount, error)
	TimesheetTotals(ctx context.Context, tenantID int64, since time.Time) (*TimesheetTotals, error)
	ProjectHours(ctx context.Context, tenantID int64, since time.Time) ([]*ProjectHoursRow, error)
	RecentProjects(ctx context.Context, tenantID int64, limit int) ([]*model.Project, error)
	RecentTasks(ctx context.Context, tenantID int64, limit int) ([]*model.Task, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) statusCounts(ctx context.Context, m interface{}, tenantID int64) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.WithContext(ctx).Model(m).
		Select("status, COUNT(*) AS count").
		Where("admin_id = ?", tenantID).
		Group("status").
		Scan(&counts).Error
	return counts, err
}

func (r *dashboardRepository) ProjectStatusCounts(ctx context.Context, tenantID int64) ([]StatusCount, error) {
	counts, err := r.statusCounts(ctx, &model.Project{}, tenantID)
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计项目状态失败", err)
	}
	return counts, nil
}

func (r *dashboardRepository) TaskStatusCounts(ctx context.Context, tenantID int64) ([]StatusCount, error) {
	counts, err := r.statusCounts(ctx, &model.Task{}, tenantID)
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计任务状态失败", err)
	}
	return counts, nil
}

// OverdueTaskCount 截止日期早于今天且仍为待办的任务数
func (r *dashboardRepository) OverdueTaskCount(ctx context.Context, tenantID int64, today time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("admin_id = ? AND due_date IS NOT NULL AND due_date < ? AND status = ?",
			tenantID, datatypes.Date(today), constants.TaskStatusToDo).
		Count(&count).Error
	if err != nil {
		return 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计逾期任务失败", err)
	}
	return count, nil
}

func (r *dashboardRepository) TeamStatusCounts(ctx context.Context, tenantID int64) ([]StatusCount, error) {
	counts, err := r.statusCounts(ctx, &model.TeamMember{}, tenantID)
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计成员状态失败", err)
	}
	return counts, nil
}

func (r *dashboardRepository) TimesheetTotals(ctx context.Context, tenantID int64, since time.Time) (*TimesheetTotals, error) {
	var totals TimesheetTotals
	err := r.db.WithContext(ctx).Model(&model.TimesheetEntry{}).
		Select("COALESCE(SUM(hours), 0) AS total_hours, COUNT(*) AS entry_count, COUNT(DISTINCT team_member_id) AS active_members").
		Where("admin_id = ? AND date >= ?", tenantID, datatypes.Date(since)).
		Scan(&totals).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计工时失败", err)
	}
	return &totals, nil
}

// ProjectHours 区间内各项目工时，未排序
func (r *dashboardRepository) ProjectHours(ctx context.Context, tenantID int64, since time.Time) ([]*ProjectHoursRow, error) {
	var rows []*ProjectHoursRow
	err := r.db.WithContext(ctx).Model(&model.TimesheetEntry{}).
		Select("timesheet_entries.project_id AS project_id, projects.name AS project_name, SUM(timesheet_entries.hours) AS hours").
		Joins("JOIN projects ON projects.id = timesheet_entries.project_id").
		Where("timesheet_entries.admin_id = ? AND timesheet_entries.date >= ?", tenantID, datatypes.Date(since)).
		Group("timesheet_entries.project_id, projects.name").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计项目工时失败", err)
	}
	return rows, nil
}

func (r *dashboardRepository) RecentProjects(ctx context.Context, tenantID int64, limit int) ([]*model.Project, error) {
	var projects []*model.Project
	err := r.db.WithContext(ctx).
		Select("id", "name", "status", "created_at").
		Where("admin_id = ?", tenantID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询最近项目失败", err)
	}
	return projects, nil
}

func (r *dashboardRepository) RecentTasks(ctx context.Context, tenantID int64, limit int) ([]*model.Task, error) {
	var tasks []*model.Task
	err := r.db.WithContext(ctx).
		Select("id", "title", "status", "created_at").
		Where("admin_id = ?", tenantID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询最近任务失败", err)
	}
	return tasks, nil
}
