package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"logify/internal/dto"
	"logify/internal/model"
	"logify/internal/pkg/auth"
	"logify/internal/pkg/database"
	"logify/internal/pkg/logger"
	"logify/internal/repository"
	"logify/pkg/constants"
	pkgErrors "logify/pkg/errors"
	"logify/pkg/utils"
)

type ProjectService interface {
	List(ctx context.Context, p *auth.Principal) ([]*dto.ProjectResponse, error)
	Get(ctx context.Context, p *auth.Principal, id int64) (*dto.ProjectResponse, error)
	Create(ctx context.Context, p *auth.Principal, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	Update(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	Delete(ctx context.Context, p *auth.Principal, id int64) error
}

type projectService struct {
	db         *gorm.DB
	repo       repository.ProjectRepository
	memberRepo repository.TeamMemberRepository
}

func NewProjectService(db *gorm.DB, repo repository.ProjectRepository, memberRepo repository.TeamMemberRepository) ProjectService {
	return &projectService{
		db:         db,
		repo:       repo,
		memberRepo: memberRepo,
	}
}

func (s *projectService) List(ctx context.Context, p *auth.Principal) ([]*dto.ProjectResponse, error) {
	tenantID, err := tenantOf(p)
	if err != nil {
		return nil, err
	}

	projects, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ProjectResponse, len(projects))
	for i, project := range projects {
		responses[i] = toProjectResponse(&project.Project, nil)
		responses[i].TeamCount = project.TeamCount
	}
	return responses, nil
}

// Get 项目详情，包含项目成员
func (s *projectService) Get(ctx context.Context, p *auth.Principal, id int64) (*dto.ProjectResponse, error) {
	project, err := s.findOwned(ctx, s.repo, p, id)
	if err != nil {
		return nil, err
	}
	return s.withTeam(ctx, s.memberRepo, project)
}

func (s *projectService) Create(ctx context.Context, p *auth.Principal, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	tenantID, err := tenantOf(p)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgErrors.Validation("Validation failed", map[string]string{"name": "name is required"})
	}

	start, end, due, err := parseProjectDates(req.StartDate, req.EndDate, req.DueDate)
	if err != nil {
		return nil, err
	}

	var memberIDs []int64
	if len(req.TeamMembers) > 0 {
		found, err := s.memberRepo.FindByIDs(ctx, tenantID, req.TeamMembers)
		if err != nil {
			return nil, err
		}
		if memberIDs, err = validateMembers("team_members", req.TeamMembers, found); err != nil {
			return nil, err
		}
	}

	project := &model.Project{
		TenantScoped: model.TenantScoped{AdminID: tenantID},
		Name:         name,
		Description:  req.Description,
		Status:       defaultString(req.Status, constants.ProjectStatusNotStarted),
		Priority:     defaultString(req.Priority, constants.PriorityMedium),
		StartDate:    datatypes.Date(start),
		EndDate:      datatypes.Date(end),
		DueDate:      dateOrNil(due),
	}

	var resp *dto.ProjectResponse
	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, project); err != nil {
			return err
		}
		if err := repo.ReplaceTeam(ctx, project.ID, memberIDs); err != nil {
			return err
		}
		var err error
		resp, err = s.withTeam(ctx, s.memberRepo.WithTx(tx), project)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("项目已创建", zap.Int64("admin_id", tenantID), zap.Int64("project_id", project.ID))
	return resp, nil
}

// Update 部分更新；TeamMembers 非nil时整体替换项目成员
func (s *projectService) Update(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	tenantID, err := tenantOf(p)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgErrors.Validation("Validation failed", map[string]string{"name": "name cannot be empty"})
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if len(updates) == 0 && req.StartDate == nil && req.EndDate == nil && req.DueDate == nil && req.TeamMembers == nil {
		return nil, pkgErrors.ErrNoFieldsToUpdate
	}

	var memberIDs []int64
	if req.TeamMembers != nil && len(*req.TeamMembers) > 0 {
		found, err := s.memberRepo.FindByIDs(ctx, tenantID, *req.TeamMembers)
		if err != nil {
			return nil, err
		}
		if memberIDs, err = validateMembers("team_members", *req.TeamMembers, found); err != nil {
			return nil, err
		}
	}

	var resp *dto.ProjectResponse
	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		project, err := s.findOwned(ctx, repo, p, id)
		if err != nil {
			return err
		}

		// 日期与已有值合并后再校验先后顺序
		if req.StartDate != nil || req.EndDate != nil || req.DueDate != nil {
			startStr := utils.FormatDate(project.StartDate)
			endStr := utils.FormatDate(project.EndDate)
			if req.StartDate != nil {
				startStr = *req.StartDate
			}
			if req.EndDate != nil {
				endStr = *req.EndDate
			}
			start, end, due, err := parseProjectDates(startStr, endStr, req.DueDate)
			if err != nil {
				return err
			}
			updates["start_date"] = datatypes.Date(start)
			updates["end_date"] = datatypes.Date(end)
			if req.DueDate != nil {
				updates["due_date"] = datatypes.Date(*due)
			}
		}

		if err := repo.Update(ctx, id, updates); err != nil {
			return err
		}
		if req.TeamMembers != nil {
			if err := repo.ReplaceTeam(ctx, id, memberIDs); err != nil {
				return err
			}
		}

		project, err = repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp, err = s.withTeam(ctx, s.memberRepo.WithTx(tx), project)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Delete 在同一事务内删除项目及其任务、分配和工时
func (s *projectService) Delete(ctx context.Context, p *auth.Principal, id int64) error {
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.findOwned(ctx, repo, p, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("项目已删除", zap.Int64("project_id", id))
	return nil
}

func (s *projectService) findOwned(ctx context.Context, repo repository.ProjectRepository, p *auth.Principal, id int64) (*model.Project, error) {
	tenantID, err := tenantOf(p)
	if err != nil {
		return nil, err
	}
	project, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureOwner(project.AdminID, tenantID); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) withTeam(ctx context.Context, memberRepo repository.TeamMemberRepository, project *model.Project) (*dto.ProjectResponse, error) {
	members, err := memberRepo.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	resp := toProjectResponse(project, members)
	resp.TeamCount = int64(len(members))
	return resp, nil
}

// parseProjectDates 解析并校验项目日期，截止日期缺省为结束日期
func parseProjectDates(startStr, endStr string, dueStr *string) (start, end time.Time, due *time.Time, err error) {
	start, err = utils.ParseDate(startStr)
	if err != nil {
		return start, end, nil, pkgErrors.Validation("Validation failed", map[string]string{"start_date": "invalid date"})
	}
	end, err = utils.ParseDate(endStr)
	if err != nil {
		return start, end, nil, pkgErrors.Validation("Validation failed", map[string]string{"end_date": "invalid date"})
	}
	if end.Before(start) {
		return start, end, nil, pkgErrors.Validation("Validation failed", map[string]string{"end_date": "end_date must not be before start_date"})
	}

	d := end
	if dueStr != nil && strings.TrimSpace(*dueStr) != "" {
		d, err = utils.ParseDate(*dueStr)
		if err != nil {
			return start, end, nil, pkgErrors.Validation("Validation failed", map[string]string{"due_date": "invalid date"})
		}
	}
	return start, end, &d, nil
}

func toProjectResponse(project *model.Project, members []*model.TeamMember) *dto.ProjectResponse {
	resp := &dto.ProjectResponse{
		ID:            project.ID,
		Name:          project.Name,
		Description:   project.Description,
		Status:        project.Status,
		Priority:      project.Priority,
		StartDate:     utils.FormatDate(project.StartDate),
		EndDate:       utils.FormatDate(project.EndDate),
		DueDate:       utils.FormatDatePtr(project.DueDate),
		Progress:      project.Progress,
		TaskTotal:     project.TaskTotal,
		TaskCompleted: project.TaskCompleted,
		AdminID:       project.AdminID,
		CreatedAt:     formatTime(project.CreatedAt),
		UpdatedAt:     formatTime(project.UpdatedAt),
	}
	if members != nil {
		resp.TeamMembers = memberRefs(members)
	}
	return resp
}

func defaultString(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func dateOrNil(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := datatypes.Date(*t)
	return &d
}
