package service

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"logify/internal/pkg/database"
	"logify/internal/pkg/logger"
	"logify/internal/pkg/metrics"
	"logify/internal/repository"
)

// CounterService 项目派生计数对账
type CounterService interface {
	// Reconcile 校准所有项目的任务计数与进度，返回修正的项目数
	Reconcile(ctx context.Context) (int, error)
}

type counterService struct {
	db          *gorm.DB
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
}

func NewCounterService(db *gorm.DB, projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository) CounterService {
	return &counterService{
		db:          db,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
	}
}

func (s *counterService) Reconcile(ctx context.Context) (int, error) {
	projects, err := s.projectRepo.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	counts, err := s.taskRepo.CountByProject(ctx)
	if err != nil {
		return 0, err
	}

	fixed := 0
	for _, project := range projects {
		c := counts[project.ID]
		want := repository.ComputeCounters(c.Total, c.Completed)
		if project.TaskTotal == want.TaskTotal && project.TaskCompleted == want.TaskCompleted && project.Progress == want.Progress {
			continue
		}

		// 在事务内按最新任务重新计算，避免与并发的任务变更交错
		err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
			_, err := s.projectRepo.WithTx(tx).RecomputeCounters(ctx, project.ID)
			return err
		})
		if err != nil {
			return fixed, err
		}

		fixed++
		metrics.CounterDrift.Inc()
		logger.FromContext(ctx).Warn("项目计数已校准",
			zap.Int64("project_id", project.ID),
			zap.Int("task_total", want.TaskTotal),
			zap.Int("task_completed", want.TaskCompleted),
			zap.Int("progress", want.Progress))
	}

	return fixed, nil
}
