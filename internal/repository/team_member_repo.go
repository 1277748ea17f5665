package repository

import (
	"context"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"logify/internal/model"
	pkgErrors "logify/pkg/errors"
)

// TeamMemberFilter 成员列表过滤
type TeamMemberFilter struct {
	Status  string
	Keyword string
}

type TeamMemberRepository interface {
	WithTx(tx *gorm.DB) TeamMemberRepository
	Create(ctx context.Context, member *model.TeamMember) error
	FindByID(ctx context.Context, id int64) (*model.TeamMember, error)
	FindByUserID(ctx context.Context, userID int64) (*model.TeamMember, error)
	FindByIDs(ctx context.Context, tenantID int64, ids []int64) ([]*model.TeamMember, error)
	List(ctx context.Context, tenantID int64, filter TeamMemberFilter) ([]*model.TeamMember, error)
	ListByProject(ctx context.Context, projectID int64) ([]*model.TeamMember, error)
	ListByTasks(ctx context.Context, taskIDs []int64) (map[int64][]*model.TeamMember, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

type teamMemberRepository struct {
	db *gorm.DB
}

func NewTeamMemberRepository(db *gorm.DB) TeamMemberRepository {
	return &teamMemberRepository{db: db}
}

func (r *teamMemberRepository) WithTx(tx *gorm.DB) TeamMemberRepository {
	return &teamMemberRepository{db: tx}
}

func (r *teamMemberRepository) Create(ctx context.Context, member *model.TeamMember) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return wrapDBError("添加团队成员失败", err)
	}
	return nil
}

func (r *teamMemberRepository) FindByID(ctx context.Context, id int64) (*model.TeamMember, error) {
	var member model.TeamMember
	if err := r.db.WithContext(ctx).First(&member, id).Error; err != nil {
		return nil, wrapDBError("查询团队成员失败", err)
	}
	return &member, nil
}

func (r *teamMemberRepository) FindByUserID(ctx context.Context, userID int64) (*model.TeamMember, error) {
	var member model.TeamMember
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&member).Error; err != nil {
		return nil, wrapDBError("查询团队成员失败", err)
	}
	return &member, nil
}

// FindByIDs 查询租户下的指定成员，不属于该租户的ID不会返回
func (r *teamMemberRepository) FindByIDs(ctx context.Context, tenantID int64, ids []int64) ([]*model.TeamMember, error) {
	var members []*model.TeamMember
	if len(ids) == 0 {
		return members, nil
	}
	err := r.db.WithContext(ctx).
		Where("admin_id = ? AND id IN ?", tenantID, lo.Uniq(ids)).
		Order("id ASC").
		Find(&members).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询团队成员失败", err)
	}
	return members, nil
}

func (r *teamMemberRepository) List(ctx context.Context, tenantID int64, filter TeamMemberFilter) ([]*model.TeamMember, error) {
	var members []*model.TeamMember

	query := r.db.WithContext(ctx).Model(&model.TeamMember{}).Where("admin_id = ?", tenantID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR department LIKE ?", like, like, like)
	}

	if err := query.Order("id DESC").Find(&members).Error; err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询团队成员失败", err)
	}
	return members, nil
}

func (r *teamMemberRepository) ListByProject(ctx context.Context, projectID int64) ([]*model.TeamMember, error) {
	var members []*model.TeamMember
	err := r.db.WithContext(ctx).
		Joins("JOIN project_team_members ptm ON ptm.team_member_id = team_members.id").
		Where("ptm.project_id = ?", projectID).
		Order("team_members.id ASC").
		Find(&members).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目成员失败", err)
	}
	return members, nil
}

// ListByTasks 批量查询任务的负责人，按任务ID分组
func (r *teamMemberRepository) ListByTasks(ctx context.Context, taskIDs []int64) (map[int64][]*model.TeamMember, error) {
	result := make(map[int64][]*model.TeamMember)
	if len(taskIDs) == 0 {
		return result, nil
	}

	var links []*model.TaskTeamMember
	db := r.db.WithContext(ctx)
	if err := db.Where("task_id IN ?", taskIDs).Order("task_id ASC, team_member_id ASC").Find(&links).Error; err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询任务负责人失败", err)
	}
	if len(links) == 0 {
		return result, nil
	}

	memberIDs := lo.Uniq(lo.Map(links, func(l *model.TaskTeamMember, _ int) int64 { return l.TeamMemberID }))
	var members []*model.TeamMember
	if err := db.Where("id IN ?", memberIDs).Order("id ASC").Find(&members).Error; err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询任务负责人失败", err)
	}
	byID := lo.KeyBy(members, func(m *model.TeamMember) int64 { return m.ID })

	for _, l := range links {
		if m, ok := byID[l.TeamMemberID]; ok {
			result[l.TaskID] = append(result[l.TaskID], m)
		}
	}
	return result, nil
}

func (r *teamMemberRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	err := r.db.WithContext(ctx).Model(&model.TeamMember{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return wrapDBError("更新团队成员失败", err)
	}
	return nil
}

// Delete 删除成员及其任务分配、项目分配和工时记录，需在事务中调用
// 关联的登录用户保留
func (r *teamMemberRepository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("team_member_id = ?", id).Delete(&model.TaskTeamMember{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除任务分配失败", err)
	}
	if err := db.Where("team_member_id = ?", id).Delete(&model.ProjectTeamMember{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除项目分配失败", err)
	}
	if err := db.Where("team_member_id = ?", id).Delete(&model.TimesheetEntry{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除工时记录失败", err)
	}
	if err := db.Delete(&model.TeamMember{}, id).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除团队成员失败", err)
	}
	return nil
}
