package service

import (
	"context"
	"strings"

	"github.com/samber/lo"
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

type TaskService interface {
	List(ctx context.Context, p *auth.Principal, query *dto.TaskListQuery) ([]*dto.TaskResponse, error)
	Get(ctx context.Context, p *auth.Principal, id int64) (*dto.TaskResponse, error)
	Create(ctx context.Context, p *auth.Principal, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	Update(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	Delete(ctx context.Context, p *auth.Principal, id int64) error
}

type taskService struct {
	db          *gorm.DB
	repo        repository.TaskRepository
	projectRepo repository.ProjectRepository
	memberRepo  repository.TeamMemberRepository
}

func NewTaskService(
	db *gorm.DB,
	repo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	memberRepo repository.TeamMemberRepository,
) TaskService {
	return &taskService{
		db:          db,
		repo:        repo,
		projectRepo: projectRepo,
		memberRepo:  memberRepo,
	}
}

func (s *taskService) List(ctx context.Context, p *auth.Principal, query *dto.TaskListQuery) ([]*dto.TaskResponse, error) {
	tenantID, err := tenantOf(p)
	if err != nil {
		return nil, err
	}

	tasks, err := s.repo.List(ctx, tenantID, repository.TaskFilter{
		ProjectID:  query.ProjectID,
		AssigneeID: query.AssigneeID,
		Status:     query.Status,
	})
	if err != nil {
		return nil, err
	}

	taskIDs := make([]int64, len(tasks))
	for i, t := range tasks {
		taskIDs[i] = t.ID
	}
	assignees, err := s.memberRepo.ListByTasks(ctx, taskIDs)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.TaskResponse, len(tasks))
	for i, t := range tasks {
		responses[i] = toTaskResponse(t, assignees[t.ID])
	}
	return responses, nil
}

func (s *taskService) Get(ctx context.Context, p *auth.Principal, id int64) (*dto.TaskResponse, error) {
	task, err := s.findOwned(ctx, s.repo, p, id)
	if err != nil {
		return nil, err
	}
	return s.withAssignees(ctx, s.memberRepo, task)
}

// Create 先校验项目归属，再在同一事务内写入任务、负责人并重算项目计数
func (s *taskService) Create(ctx context.Context, p *auth.Principal, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	tenantID, err := tenantOf(p)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := ensureOwner(project.AdminID, tenantID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, pkgErrors.Validation("Validation failed", map[string]string{"title": "title is required"})
	}

	dueDate, err := parseOptionalDate("due_date", req.DueDate)
	if err != nil {
		return nil, err
	}

	var assigneeIDs []int64
	if len(req.Assignees) > 0 {
		found, err := s.memberRepo.FindByIDs(ctx, tenantID, req.Assignees)
		if err != nil {
			return nil, err
		}
		if assigneeIDs, err = validateMembers("assignees", req.Assignees, found); err != nil {
			return nil, err
		}
	}

	status := defaultString(req.Status, constants.TaskStatusToDo)
	task := &model.Task{
		TenantScoped: model.TenantScoped{AdminID: tenantID},
		Title:        title,
		Description:  req.Description,
		Status:       status,
		Priority:     defaultString(req.Priority, constants.PriorityMedium),
		DueDate:      dueDate,
		ProjectID:    project.ID,
		IsCompleted:  status == constants.TaskStatusCompleted,
	}

	var resp *dto.TaskResponse
	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, task); err != nil {
			return err
		}
		if err := repo.ReplaceAssignees(ctx, task.ID, assigneeIDs); err != nil {
			return err
		}
		if _, err := s.projectRepo.WithTx(tx).RecomputeCounters(ctx, project.ID); err != nil {
			return err
		}
		task.Project = project
		var err error
		resp, err = s.withAssignees(ctx, s.memberRepo.WithTx(tx), task)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("任务已创建",
		zap.Int64("admin_id", tenantID),
		zap.Int64("project_id", project.ID),
		zap.Int64("task_id", task.ID))
	return resp, nil
}

// Update 部分更新；状态与 is_completed 保持一致，变更项目时重算新旧项目计数
func (s *taskService) Update(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	tenantID, err := tenantOf(p)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, pkgErrors.Validation("Validation failed", map[string]string{"title": "title cannot be empty"})
		}
		updates["title"] = title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.DueDate != nil {
		dueDate, err := parseOptionalDate("due_date", req.DueDate)
		if err != nil {
			return nil, err
		}
		updates["due_date"] = dueDate
	}
	if len(updates) == 0 && req.Status == nil && req.IsCompleted == nil && req.ProjectID == nil && req.Assignees == nil {
		return nil, pkgErrors.ErrNoFieldsToUpdate
	}

	var assigneeIDs []int64
	if req.Assignees != nil && len(*req.Assignees) > 0 {
		found, err := s.memberRepo.FindByIDs(ctx, tenantID, *req.Assignees)
		if err != nil {
			return nil, err
		}
		if assigneeIDs, err = validateMembers("assignees", *req.Assignees, found); err != nil {
			return nil, err
		}
	}

	var resp *dto.TaskResponse
	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		projectRepo := s.projectRepo.WithTx(tx)

		task, err := s.findOwned(ctx, repo, p, id)
		if err != nil {
			return err
		}
		oldProjectID := task.ProjectID

		if req.ProjectID != nil && *req.ProjectID != oldProjectID {
			project, err := projectRepo.FindByID(ctx, *req.ProjectID)
			if err != nil {
				return err
			}
			if err := ensureOwner(project.AdminID, tenantID); err != nil {
				return err
			}
			updates["project_id"] = project.ID
		}

		status, completed := syncCompletion(task.Status, req.Status, req.IsCompleted)
		if req.Status != nil || req.IsCompleted != nil {
			updates["status"] = status
			updates["is_completed"] = completed
		}

		if err := repo.Update(ctx, id, updates); err != nil {
			return err
		}
		if req.Assignees != nil {
			if err := repo.ReplaceAssignees(ctx, id, assigneeIDs); err != nil {
				return err
			}
		}
		// 工时记录的 project_id 始终跟随任务
		if newProjectID, ok := updates["project_id"].(int64); ok {
			if err := repo.MoveEntries(ctx, id, newProjectID); err != nil {
				return err
			}
		}

		task, err = repo.FindByID(ctx, id, repository.WithPreload("Project"))
		if err != nil {
			return err
		}
		for _, projectID := range lo.Uniq([]int64{oldProjectID, task.ProjectID}) {
			if _, err := projectRepo.RecomputeCounters(ctx, projectID); err != nil {
				return err
			}
		}

		resp, err = s.withAssignees(ctx, s.memberRepo.WithTx(tx), task)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Delete 删除任务及其分配和工时，并重算项目计数
func (s *taskService) Delete(ctx context.Context, p *auth.Principal, id int64) error {
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		task, err := s.findOwned(ctx, repo, p, id)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		_, err = s.projectRepo.WithTx(tx).RecomputeCounters(ctx, task.ProjectID)
		return err
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("任务已删除", zap.Int64("task_id", id))
	return nil
}

func (s *taskService) findOwned(ctx context.Context, repo repository.TaskRepository, p *auth.Principal, id int64) (*model.Task, error) {
	tenantID, err := tenantOf(p)
	if err != nil {
		return nil, err
	}
	task, err := repo.FindByID(ctx, id, repository.WithPreload("Project"))
	if err != nil {
		return nil, err
	}
	if err := ensureOwner(task.AdminID, tenantID); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) withAssignees(ctx context.Context, memberRepo repository.TeamMemberRepository, task *model.Task) (*dto.TaskResponse, error) {
	assignees, err := memberRepo.ListByTasks(ctx, []int64{task.ID})
	if err != nil {
		return nil, err
	}
	return toTaskResponse(task, assignees[task.ID]), nil
}

// syncCompletion 根据请求计算最终的状态和完成标记
// 显式状态优先；只传 is_completed 时，取消完成的任务回到待办
func syncCompletion(current string, status *string, isCompleted *bool) (string, bool) {
	if status != nil {
		return *status, *status == constants.TaskStatusCompleted
	}
	if isCompleted != nil {
		if *isCompleted {
			return constants.TaskStatusCompleted, true
		}
		if current == constants.TaskStatusCompleted {
			return constants.TaskStatusToDo, false
		}
		return current, false
	}
	return current, current == constants.TaskStatusCompleted
}

func parseOptionalDate(field string, s *string) (*datatypes.Date, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	d, err := utils.ToDate(*s)
	if err != nil {
		return nil, pkgErrors.Validation("Validation failed", map[string]string{field: "invalid date"})
	}
	return &d, nil
}

func toTaskResponse(task *model.Task, assignees []*model.TeamMember) *dto.TaskResponse {
	resp := &dto.TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     utils.FormatDatePtr(task.DueDate),
		ProjectID:   task.ProjectID,
		IsCompleted: task.IsCompleted,
		AdminID:     task.AdminID,
		Assignees:   memberRefs(assignees),
		CreatedAt:   formatTime(task.CreatedAt),
		UpdatedAt:   formatTime(task.UpdatedAt),
	}
	if task.Project != nil {
		resp.ProjectName = task.Project.Name
	}
	return resp
}
