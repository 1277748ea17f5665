package repository

import (
	"context"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"logify/internal/model"
	pkgErrors "logify/pkg/errors"
)

// TaskFilter 任务列表过滤
type TaskFilter struct {
	ProjectID  *int64
	AssigneeID *int64
	Status     string
}

// TaskCount 项目下任务计数
type TaskCount struct {
	ProjectID int64
	Total     int64
	Completed int64
}

type TaskRepository interface {
	WithTx(tx *gorm.DB) TaskRepository
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, id int64, opts ...QueryOption) (*model.Task, error)
	FindByIDs(ctx context.Context, tenantID int64, ids []int64) ([]*model.Task, error)
	List(ctx context.Context, tenantID int64, filter TaskFilter) ([]*model.Task, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	ReplaceAssignees(ctx context.Context, taskID int64, memberIDs []int64) error
	MoveEntries(ctx context.Context, taskID, projectID int64) error
	CountByProject(ctx context.Context) (map[int64]TaskCount, error)
	Delete(ctx context.Context, id int64) error
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) WithTx(tx *gorm.DB) TaskRepository {
	return &taskRepository{db: tx}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return wrapDBError("创建任务失败", err)
	}
	return nil
}

func (r *taskRepository) FindByID(ctx context.Context, id int64, opts ...QueryOption) (*model.Task, error) {
	var task model.Task
	query := applyOptions(r.db.WithContext(ctx), opts)
	if err := query.First(&task, id).Error; err != nil {
		return nil, wrapDBError("查询任务失败", err)
	}
	return &task, nil
}

func (r *taskRepository) FindByIDs(ctx context.Context, tenantID int64, ids []int64) ([]*model.Task, error) {
	var tasks []*model.Task
	if len(ids) == 0 {
		return tasks, nil
	}
	err := r.db.WithContext(ctx).Where("admin_id = ? AND id IN ?", tenantID, lo.Uniq(ids)).Find(&tasks).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询任务失败", err)
	}
	return tasks, nil
}

// List 租户下的任务，按ID倒序，附带所属项目
func (r *taskRepository) List(ctx context.Context, tenantID int64, filter TaskFilter) ([]*model.Task, error) {
	var tasks []*model.Task

	query := r.db.WithContext(ctx).Model(&model.Task{}).
		Preload("Project").
		Where("tasks.admin_id = ?", tenantID)

	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.Status != "" {
		query = query.Where("tasks.status = ?", filter.Status)
	}
	if filter.AssigneeID != nil {
		assigned := r.db.Model(&model.TaskTeamMember{}).Select("task_id").Where("team_member_id = ?", *filter.AssigneeID)
		query = query.Where("tasks.id IN (?)", assigned)
	}

	if err := query.Order("tasks.id DESC").Find(&tasks).Error; err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询任务列表失败", err)
	}
	return tasks, nil
}

func (r *taskRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return wrapDBError("更新任务失败", err)
	}
	return nil
}

// ReplaceAssignees 整体替换任务负责人
func (r *taskRepository) ReplaceAssignees(ctx context.Context, taskID int64, memberIDs []int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("task_id = ?", taskID).Delete(&model.TaskTeamMember{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "更新任务负责人失败", err)
	}

	ids := lo.Uniq(memberIDs)
	if len(ids) == 0 {
		return nil
	}
	links := lo.Map(ids, func(id int64, _ int) *model.TaskTeamMember {
		return &model.TaskTeamMember{TaskID: taskID, TeamMemberID: id}
	})
	if err := db.Create(&links).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "更新任务负责人失败", err)
	}
	return nil
}

// MoveEntries 任务换项目时同步其工时记录的 project_id，需在事务中调用
func (r *taskRepository) MoveEntries(ctx context.Context, taskID, projectID int64) error {
	err := r.db.WithContext(ctx).Model(&model.TimesheetEntry{}).
		Where("task_id = ?", taskID).
		Update("project_id", projectID).Error
	if err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "同步工时所属项目失败", err)
	}
	return nil
}

// CountByProject 按项目统计任务总数与完成数
func (r *taskRepository) CountByProject(ctx context.Context) (map[int64]TaskCount, error) {
	var tasks []*model.Task
	if err := r.db.WithContext(ctx).Select("id", "project_id", "is_completed").Find(&tasks).Error; err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计任务失败", err)
	}

	counts := make(map[int64]TaskCount)
	for _, t := range tasks {
		c := counts[t.ProjectID]
		c.ProjectID = t.ProjectID
		c.Total++
		if t.IsCompleted {
			c.Completed++
		}
		counts[t.ProjectID] = c
	}
	return counts, nil
}

// Delete 删除任务及其分配和工时记录，需在事务中调用
func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("task_id = ?", id).Delete(&model.TaskTeamMember{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除任务分配失败", err)
	}
	if err := db.Where("task_id = ?", id).Delete(&model.TimesheetEntry{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除工时记录失败", err)
	}
	if err := db.Delete(&model.Task{}, id).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除任务失败", err)
	}
	return nil
}
