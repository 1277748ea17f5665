package repository

import (
	"context"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"logify/internal/model"
	pkgErrors "logify/pkg/errors"
)

// ProjectWithTeamCount 项目及其成员数
type ProjectWithTeamCount struct {
	model.Project
	TeamCount int64 `gorm:"column:team_count"`
}

// ProjectCounters 项目派生计数
type ProjectCounters struct {
	TaskTotal     int
	TaskCompleted int
	Progress      int
}

// ComputeCounters 根据任务数计算进度，没有任务时进度为0
func ComputeCounters(total, completed int64) ProjectCounters {
	c := ProjectCounters{TaskTotal: int(total), TaskCompleted: int(completed)}
	if total > 0 {
		c.Progress = int(completed * 100 / total)
	}
	return c
}

type ProjectRepository interface {
	WithTx(tx *gorm.DB) ProjectRepository
	Create(ctx context.Context, project *model.Project) error
	FindByID(ctx context.Context, id int64) (*model.Project, error)
	FindByIDs(ctx context.Context, tenantID int64, ids []int64) ([]*model.Project, error)
	List(ctx context.Context, tenantID int64) ([]*ProjectWithTeamCount, error)
	ListAll(ctx context.Context) ([]*model.Project, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	ReplaceTeam(ctx context.Context, projectID int64, memberIDs []int64) error
	RecomputeCounters(ctx context.Context, projectID int64) (ProjectCounters, error)
	Delete(ctx context.Context, id int64) error
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) WithTx(tx *gorm.DB) ProjectRepository {
	return &projectRepository{db: tx}
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return wrapDBError("创建项目失败", err)
	}
	return nil
}

func (r *projectRepository) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, wrapDBError("查询项目失败", err)
	}
	return &project, nil
}

func (r *projectRepository) FindByIDs(ctx context.Context, tenantID int64, ids []int64) ([]*model.Project, error) {
	var projects []*model.Project
	if len(ids) == 0 {
		return projects, nil
	}
	if err := r.db.WithContext(ctx).Where("admin_id = ? AND id IN ?", tenantID, lo.Uniq(ids)).Find(&projects).Error; err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目失败", err)
	}
	return projects, nil
}

// List 租户下所有项目，附带成员数，按ID倒序
func (r *projectRepository) List(ctx context.Context, tenantID int64) ([]*ProjectWithTeamCount, error) {
	var projects []*ProjectWithTeamCount
	err := r.db.WithContext(ctx).Model(&model.Project{}).
		Select("projects.*, COUNT(DISTINCT ptm.team_member_id) AS team_count").
		Joins("LEFT JOIN project_team_members ptm ON ptm.project_id = projects.id").
		Where("projects.admin_id = ?", tenantID).
		Group("projects.id").
		Order("projects.id DESC").
		Scan(&projects).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目列表失败", err)
	}
	return projects, nil
}

// ListAll 所有租户的项目，供计数对账使用
func (r *projectRepository) ListAll(ctx context.Context) ([]*model.Project, error) {
	var projects []*model.Project
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&projects).Error; err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目列表失败", err)
	}
	return projects, nil
}

func (r *projectRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return wrapDBError("更新项目失败", err)
	}
	return nil
}

// ReplaceTeam 整体替换项目成员
func (r *projectRepository) ReplaceTeam(ctx context.Context, projectID int64, memberIDs []int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("project_id = ?", projectID).Delete(&model.ProjectTeamMember{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "更新项目成员失败", err)
	}

	ids := lo.Uniq(memberIDs)
	if len(ids) == 0 {
		return nil
	}
	links := lo.Map(ids, func(id int64, _ int) *model.ProjectTeamMember {
		return &model.ProjectTeamMember{ProjectID: projectID, TeamMemberID: id}
	})
	if err := db.Create(&links).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "更新项目成员失败", err)
	}
	return nil
}

// RecomputeCounters 按当前任务重算派生计数并写回
func (r *projectRepository) RecomputeCounters(ctx context.Context, projectID int64) (ProjectCounters, error) {
	db := r.db.WithContext(ctx)

	var total, completed int64
	if err := db.Model(&model.Task{}).Where("project_id = ?", projectID).Count(&total).Error; err != nil {
		return ProjectCounters{}, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计任务失败", err)
	}
	if err := db.Model(&model.Task{}).Where("project_id = ? AND is_completed = ?", projectID, true).Count(&completed).Error; err != nil {
		return ProjectCounters{}, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计任务失败", err)
	}

	counters := ComputeCounters(total, completed)
	err := db.Model(&model.Project{}).Where("id = ?", projectID).UpdateColumns(map[string]interface{}{
		"task_total":     counters.TaskTotal,
		"task_completed": counters.TaskCompleted,
		"progress":       counters.Progress,
	}).Error
	if err != nil {
		return ProjectCounters{}, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "更新项目进度失败", err)
	}
	return counters, nil
}

// Delete 按依赖顺序删除项目及其数据，需在事务中调用：
// 任务分配 -> 工时记录 -> 任务 -> 项目成员 -> 项目
func (r *projectRepository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)

	taskIDs := db.Model(&model.Task{}).Select("id").Where("project_id = ?", id)
	if err := db.Where("task_id IN (?)", taskIDs).Delete(&model.TaskTeamMember{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除任务分配失败", err)
	}
	if err := db.Where("project_id = ? OR task_id IN (?)", id, taskIDs).Delete(&model.TimesheetEntry{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除工时记录失败", err)
	}
	if err := db.Where("project_id = ?", id).Delete(&model.Task{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除任务失败", err)
	}
	if err := db.Where("project_id = ?", id).Delete(&model.ProjectTeamMember{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除项目成员失败", err)
	}
	if err := db.Delete(&model.Project{}, id).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除项目失败", err)
	}
	return nil
}
